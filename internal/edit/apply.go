package edit

import (
	"fmt"
	"strings"

	"github.com/kapu/astroweb-go/internal/domain"
)

// Edit is one committed inline change.
type Edit struct {
	Target Target
	Value  string
}

// Apply returns a copy of l with the edit applied. l itself is never modified.
// Blank values are rejected so a cleared field never replaces real content.
func Apply(l domain.Layout, e Edit) (domain.Layout, error) {
	if e.Target == nil {
		return l, fmt.Errorf("%w: nil target", ErrUnresolvedTarget)
	}
	if strings.TrimSpace(e.Value) == "" {
		return l, fmt.Errorf("%w: %s", ErrEmptyValue, e.Target.Path())
	}
	next := l.Clone()
	field, err := e.Target.get(&next)
	if err != nil {
		return l, err
	}
	*field = e.Value
	return next, nil
}

// Read returns the current text at t.
func Read(l domain.Layout, t Target) (string, error) {
	if t == nil {
		return "", fmt.Errorf("%w: nil target", ErrUnresolvedTarget)
	}
	field, err := t.get(&l)
	if err != nil {
		return "", err
	}
	return *field, nil
}

func unresolved(t Target) error {
	return fmt.Errorf("%w: %s", ErrUnresolvedTarget, t.Path())
}

// sectionAt returns section i when it has the concrete kind S.
func sectionAt[S domain.Section](l *domain.Layout, i int) (S, bool) {
	var zero S
	if i < 0 || i >= len(l.Sections) {
		return zero, false
	}
	s, ok := l.Sections[i].(S)
	return s, ok
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

func (t BrandName) get(l *domain.Layout) (*string, error) {
	return &l.Branding.LogoText, nil
}

func (t SectionHeadline) get(l *domain.Layout) (*string, error) {
	if !inRange(t.Section, len(l.Sections)) || l.Sections[t.Section] == nil {
		return nil, unresolved(t)
	}
	switch s := l.Sections[t.Section].(type) {
	case *domain.HeroSection:
		return &s.Headline, nil
	case *domain.FeaturesSection:
		return &s.Headline, nil
	case *domain.PricingSection:
		return &s.Headline, nil
	case *domain.TestimonialsSection:
		return &s.Headline, nil
	case *domain.ContactSection:
		return &s.Headline, nil
	}
	return nil, unresolved(t)
}

func (t HeroSubtext) get(l *domain.Layout) (*string, error) {
	hero, ok := sectionAt[*domain.HeroSection](l, t.Section)
	if !ok {
		return nil, unresolved(t)
	}
	return &hero.Subtext, nil
}

func (t CTAText) get(l *domain.Layout) (*string, error) {
	var cta *domain.CTAButton
	if hero, ok := sectionAt[*domain.HeroSection](l, t.Section); ok {
		cta = hero.CTA
	} else if contact, ok := sectionAt[*domain.ContactSection](l, t.Section); ok {
		cta = contact.CTA
	}
	if cta == nil {
		return nil, unresolved(t)
	}
	return &cta.Text, nil
}

func (t FeatureField) get(l *domain.Layout) (*string, error) {
	sec, ok := sectionAt[*domain.FeaturesSection](l, t.Section)
	if !ok || !inRange(t.Item, len(sec.Features)) {
		return nil, unresolved(t)
	}
	item := &sec.Features[t.Item]
	switch t.Field {
	case FeatureTitle:
		return &item.Title, nil
	case FeatureDescription:
		return &item.Description, nil
	case FeatureIcon:
		return &item.Icon, nil
	}
	return nil, unresolved(t)
}

func (t PlanField) get(l *domain.Layout) (*string, error) {
	sec, ok := sectionAt[*domain.PricingSection](l, t.Section)
	if !ok || !inRange(t.Plan, len(sec.PricingOptions)) {
		return nil, unresolved(t)
	}
	plan := &sec.PricingOptions[t.Plan]
	switch t.Field {
	case PlanName:
		return &plan.Name, nil
	case PlanPrice:
		return &plan.Price, nil
	case PlanDescription:
		return &plan.Description, nil
	case PlanHighlight:
		if plan.Highlight != nil {
			return &plan.Highlight.Text, nil
		}
	}
	return nil, unresolved(t)
}

func (t PlanFeature) get(l *domain.Layout) (*string, error) {
	sec, ok := sectionAt[*domain.PricingSection](l, t.Section)
	if !ok || !inRange(t.Plan, len(sec.PricingOptions)) {
		return nil, unresolved(t)
	}
	plan := &sec.PricingOptions[t.Plan]
	if !inRange(t.Feature, len(plan.Features)) {
		return nil, unresolved(t)
	}
	return &plan.Features[t.Feature], nil
}

func (t TestimonialField) get(l *domain.Layout) (*string, error) {
	sec, ok := sectionAt[*domain.TestimonialsSection](l, t.Section)
	if !ok || !inRange(t.Item, len(sec.Testimonials)) {
		return nil, unresolved(t)
	}
	item := &sec.Testimonials[t.Item]
	switch t.Field {
	case TestimonialName:
		return &item.Name, nil
	case TestimonialRole:
		return &item.Role, nil
	case TestimonialReview:
		return &item.Review, nil
	}
	return nil, unresolved(t)
}

func (t ContactField) get(l *domain.Layout) (*string, error) {
	sec, ok := sectionAt[*domain.ContactSection](l, t.Section)
	if !ok {
		return nil, unresolved(t)
	}
	switch t.Field {
	case ContactPhone:
		return &sec.ContactDetails.Phone, nil
	case ContactEmail:
		return &sec.ContactDetails.Email, nil
	case ContactAddress:
		return &sec.ContactDetails.Address, nil
	}
	return nil, unresolved(t)
}
