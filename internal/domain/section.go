package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

type SectionType string

const (
	SectionHero         SectionType = "hero"
	SectionFeatures     SectionType = "features"
	SectionPricing      SectionType = "pricing"
	SectionTestimonials SectionType = "testimonials"
	SectionContact      SectionType = "contact"
)

func (t SectionType) String() string {
	return string(t)
}

func (t SectionType) IsValid() bool {
	switch t {
	case SectionHero, SectionFeatures, SectionPricing, SectionTestimonials, SectionContact:
		return true
	default:
		return false
	}
}

// Section is the closed set of page sections. Only this package can add members.
type Section interface {
	SectionType() SectionType
	GetHeadline() string
	cloneSection() Section
}

type HeroSection struct {
	Headline   string     `json:"headline"`
	Subtext    string     `json:"subtext"`
	CTA        *CTAButton `json:"cta,omitempty"`
	ImageURL   string     `json:"imageUrl,omitempty"`
	ImageQuery string     `json:"imageQuery,omitempty"`
}

type FeaturesSection struct {
	Headline string        `json:"headline"`
	Features []FeatureItem `json:"features"`
}

type FeatureItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type PricingSection struct {
	Headline       string        `json:"headline"`
	PricingOptions []PricingPlan `json:"pricingOptions"`
}

type PricingPlan struct {
	Name        string       `json:"name"`
	Price       string       `json:"price"`
	Description string       `json:"description"`
	Features    []string     `json:"features"`
	Style       *StyleObject `json:"style,omitempty"`
	Highlight   *Highlight   `json:"highlight,omitempty"`
}

type Highlight struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

type TestimonialsSection struct {
	Headline     string            `json:"headline"`
	Testimonials []TestimonialItem `json:"testimonials"`
}

type TestimonialItem struct {
	Name   string           `json:"name"`
	Role   string           `json:"role"`
	Review string           `json:"review"`
	Style  TestimonialStyle `json:"style"`
}

type TestimonialStyle struct {
	AccentColor string `json:"accentColor"`
}

type ContactSection struct {
	Headline       string         `json:"headline"`
	ContactDetails ContactDetails `json:"contactDetails"`
	CTA            *CTAButton     `json:"cta,omitempty"`
}

type ContactDetails struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Hours   *Hours `json:"hours,omitempty"`
}

type Hours struct {
	Open  string   `json:"open"`
	Close string   `json:"close"`
	Days  []string `json:"days"`
}

type CTAButton struct {
	Text  string      `json:"text"`
	Color string      `json:"color,omitempty"`
	Style StyleObject `json:"style"`
}

type StyleObject struct {
	Background   string       `json:"background"`
	TextColor    string       `json:"textColor"`
	BorderRadius string       `json:"borderRadius"`
	FontWeight   string       `json:"fontWeight"`
	BorderColor  string       `json:"borderColor"`
	HoverEffect  *HoverEffect `json:"hoverEffect,omitempty"`
}

type HoverEffect struct {
	Background string `json:"background"`
	TextColor  string `json:"textColor"`
}

func (*HeroSection) SectionType() SectionType         { return SectionHero }
func (*FeaturesSection) SectionType() SectionType     { return SectionFeatures }
func (*PricingSection) SectionType() SectionType      { return SectionPricing }
func (*TestimonialsSection) SectionType() SectionType { return SectionTestimonials }
func (*ContactSection) SectionType() SectionType      { return SectionContact }

func (s *HeroSection) GetHeadline() string         { return s.Headline }
func (s *FeaturesSection) GetHeadline() string     { return s.Headline }
func (s *PricingSection) GetHeadline() string      { return s.Headline }
func (s *TestimonialsSection) GetHeadline() string { return s.Headline }
func (s *ContactSection) GetHeadline() string      { return s.Headline }

// The type discriminator is written alongside the fields so stored layouts round-trip.

func (s HeroSection) MarshalJSON() ([]byte, error) {
	type alias HeroSection
	return json.Marshal(struct {
		Type SectionType `json:"type"`
		alias
	}{SectionHero, alias(s)})
}

func (s FeaturesSection) MarshalJSON() ([]byte, error) {
	type alias FeaturesSection
	return json.Marshal(struct {
		Type SectionType `json:"type"`
		alias
	}{SectionFeatures, alias(s)})
}

func (s PricingSection) MarshalJSON() ([]byte, error) {
	type alias PricingSection
	return json.Marshal(struct {
		Type SectionType `json:"type"`
		alias
	}{SectionPricing, alias(s)})
}

func (s TestimonialsSection) MarshalJSON() ([]byte, error) {
	type alias TestimonialsSection
	return json.Marshal(struct {
		Type SectionType `json:"type"`
		alias
	}{SectionTestimonials, alias(s)})
}

func (s ContactSection) MarshalJSON() ([]byte, error) {
	type alias ContactSection
	return json.Marshal(struct {
		Type SectionType `json:"type"`
		alias
	}{SectionContact, alias(s)})
}

func (s *HeroSection) cloneSection() Section {
	out := *s
	out.CTA = s.CTA.Clone()
	return &out
}

func (s *FeaturesSection) cloneSection() Section {
	out := *s
	out.Features = slices.Clone(s.Features)
	return &out
}

func (s *PricingSection) cloneSection() Section {
	out := *s
	if s.PricingOptions != nil {
		out.PricingOptions = make([]PricingPlan, len(s.PricingOptions))
		for i, p := range s.PricingOptions {
			out.PricingOptions[i] = p.Clone()
		}
	}
	return &out
}

func (s *TestimonialsSection) cloneSection() Section {
	out := *s
	out.Testimonials = slices.Clone(s.Testimonials)
	return &out
}

func (s *ContactSection) cloneSection() Section {
	out := *s
	out.CTA = s.CTA.Clone()
	if s.ContactDetails.Hours != nil {
		h := *s.ContactDetails.Hours
		h.Days = slices.Clone(h.Days)
		out.ContactDetails.Hours = &h
	}
	return &out
}

func (p PricingPlan) Clone() PricingPlan {
	out := p
	out.Features = slices.Clone(p.Features)
	if p.Style != nil {
		st := p.Style.Clone()
		out.Style = &st
	}
	if p.Highlight != nil {
		h := *p.Highlight
		out.Highlight = &h
	}
	return out
}

func (c *CTAButton) Clone() *CTAButton {
	if c == nil {
		return nil
	}
	out := *c
	out.Style = c.Style.Clone()
	return &out
}

func (s StyleObject) Clone() StyleObject {
	out := s
	if s.HoverEffect != nil {
		h := *s.HoverEffect
		out.HoverEffect = &h
	}
	return out
}

// Display formats hours as "open – close · Mon, Tue" omitting empty parts.
func (h *Hours) Display() string {
	if h == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(h.Open)
	if h.Close != "" {
		if b.Len() > 0 {
			b.WriteString(" – ")
		}
		b.WriteString(h.Close)
	}
	if len(h.Days) > 0 {
		if b.Len() > 0 {
			b.WriteString(" · ")
		}
		b.WriteString(strings.Join(h.Days, ", "))
	}
	return b.String()
}

// Initial is the first letter of name, used for testimonial avatars.
func (t TestimonialItem) Initial() string {
	for _, r := range strings.TrimSpace(t.Name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}
