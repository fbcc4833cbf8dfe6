// Package edit applies inline text edits to a layout through a closed set of
// typed targets. Every target names one text field of one section kind.
package edit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kapu/astroweb-go/internal/domain"
)

var (
	ErrUnresolvedTarget = errors.New("edit target does not resolve in layout")
	ErrInvalidPath      = errors.New("invalid edit path")
	ErrEmptyValue       = errors.New("edit value is empty")
)

// Target is one editable text field. The set of implementations is closed.
type Target interface {
	// Path is the data-edit attribute value written by the editor renderer.
	Path() string
	get(l *domain.Layout) (*string, error)
}

type FeatureFieldName string

const (
	FeatureTitle       FeatureFieldName = "title"
	FeatureDescription FeatureFieldName = "description"
	FeatureIcon        FeatureFieldName = "icon"
)

type PlanFieldName string

const (
	PlanName        PlanFieldName = "name"
	PlanPrice       PlanFieldName = "price"
	PlanDescription PlanFieldName = "description"
	PlanHighlight   PlanFieldName = "highlight.text"
)

type TestimonialFieldName string

const (
	TestimonialName   TestimonialFieldName = "name"
	TestimonialRole   TestimonialFieldName = "role"
	TestimonialReview TestimonialFieldName = "review"
)

type ContactFieldName string

const (
	ContactPhone   ContactFieldName = "phone"
	ContactEmail   ContactFieldName = "email"
	ContactAddress ContactFieldName = "address"
)

type BrandName struct{}

type SectionHeadline struct {
	Section int
}

type HeroSubtext struct {
	Section int
}

// CTAText addresses the call-to-action label of a hero or contact section.
type CTAText struct {
	Section int
}

type FeatureField struct {
	Section int
	Item    int
	Field   FeatureFieldName
}

type PlanField struct {
	Section int
	Plan    int
	Field   PlanFieldName
}

type PlanFeature struct {
	Section int
	Plan    int
	Feature int
}

type TestimonialField struct {
	Section int
	Item    int
	Field   TestimonialFieldName
}

type ContactField struct {
	Section int
	Field   ContactFieldName
}

func (BrandName) Path() string { return "branding.logoText" }

func (t SectionHeadline) Path() string { return fmt.Sprintf("sections.%d.headline", t.Section) }

func (t HeroSubtext) Path() string { return fmt.Sprintf("sections.%d.subtext", t.Section) }

func (t CTAText) Path() string { return fmt.Sprintf("sections.%d.cta.text", t.Section) }

func (t FeatureField) Path() string {
	return fmt.Sprintf("sections.%d.features.%d.%s", t.Section, t.Item, t.Field)
}

func (t PlanField) Path() string {
	return fmt.Sprintf("sections.%d.pricingOptions.%d.%s", t.Section, t.Plan, t.Field)
}

func (t PlanFeature) Path() string {
	return fmt.Sprintf("sections.%d.pricingOptions.%d.features.%d", t.Section, t.Plan, t.Feature)
}

func (t TestimonialField) Path() string {
	return fmt.Sprintf("sections.%d.testimonials.%d.%s", t.Section, t.Item, t.Field)
}

func (t ContactField) Path() string {
	return fmt.Sprintf("sections.%d.contactDetails.%s", t.Section, t.Field)
}

// ParseTarget maps a data-edit path back to its typed target. It validates the
// path's shape only; whether it resolves is decided against a layout by Apply.
func ParseTarget(path string) (Target, error) {
	parts := strings.Split(strings.TrimSpace(path), ".")
	invalid := fmt.Errorf("%w: %q", ErrInvalidPath, path)

	if len(parts) == 2 && parts[0] == "branding" && parts[1] == "logoText" {
		return BrandName{}, nil
	}
	if len(parts) < 3 || parts[0] != "sections" {
		return nil, invalid
	}
	section, err := index(parts[1])
	if err != nil {
		return nil, invalid
	}
	rest := parts[2:]
	field := strings.Join(rest, ".")

	switch {
	case field == "headline":
		return SectionHeadline{Section: section}, nil
	case field == "subtext":
		return HeroSubtext{Section: section}, nil
	case field == "cta.text":
		return CTAText{Section: section}, nil
	case len(rest) == 3 && rest[0] == "features":
		item, err := index(rest[1])
		if err != nil {
			return nil, invalid
		}
		switch f := FeatureFieldName(rest[2]); f {
		case FeatureTitle, FeatureDescription, FeatureIcon:
			return FeatureField{Section: section, Item: item, Field: f}, nil
		}
	case len(rest) >= 3 && rest[0] == "pricingOptions":
		plan, err := index(rest[1])
		if err != nil {
			return nil, invalid
		}
		if len(rest) == 4 && rest[2] == "features" {
			feature, err := index(rest[3])
			if err != nil {
				return nil, invalid
			}
			return PlanFeature{Section: section, Plan: plan, Feature: feature}, nil
		}
		switch f := PlanFieldName(strings.Join(rest[2:], ".")); f {
		case PlanName, PlanPrice, PlanDescription, PlanHighlight:
			return PlanField{Section: section, Plan: plan, Field: f}, nil
		}
	case len(rest) == 3 && rest[0] == "testimonials":
		item, err := index(rest[1])
		if err != nil {
			return nil, invalid
		}
		switch f := TestimonialFieldName(rest[2]); f {
		case TestimonialName, TestimonialRole, TestimonialReview:
			return TestimonialField{Section: section, Item: item, Field: f}, nil
		}
	case len(rest) == 2 && rest[0] == "contactDetails":
		switch f := ContactFieldName(rest[1]); f {
		case ContactPhone, ContactEmail, ContactAddress:
			return ContactField{Section: section, Field: f}, nil
		}
	}
	return nil, invalid
}

func index(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, ErrInvalidPath
	}
	return i, nil
}
