// Package normalize turns loosely shaped model output into a canonical domain.Layout.
//
// Normalize is total: any input, including nil, primitives and wrongly typed
// fields, yields a Layout in which every field a renderer reads is populated.
// Alternate field names accepted from the model are listed once per field as
// ordered candidate-key chains; a rename on the producer side only touches
// these chains.
package normalize

import (
	"strings"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/logo"
)

// Defaults applied when a field is absent or blank.
const (
	DefaultPrimaryColor     = "#6366f1"
	DefaultSecondaryColor   = "#ffffff"
	DefaultLogoText         = "Brand"
	DefaultFeatureIcon      = "✦"
	DefaultCTAText          = "Get Started"
	DefaultHighlightText    = "Most Popular"
	DefaultButtonTextColor  = "#ffffff"
	DefaultBorderRadius     = "12px"
	DefaultPillBorderRadius = "50px"
	DefaultFontWeight       = "600"
	DefaultBorderColor      = "transparent"

	DefaultHeroHeadline         = "Welcome"
	DefaultFeaturesHeadline     = "Features"
	DefaultPricingHeadline      = "Pricing"
	DefaultTestimonialsHeadline = "What Our Customers Say"
	DefaultContactHeadline      = "Get In Touch"
)

// Normalize never fails; malformed parts fall back to defaults and unknown sections are dropped.
func Normalize(raw any) (layout domain.Layout) {
	defer func() {
		if r := recover(); r != nil {
			layout = normalizeObject(nil)
		}
	}()
	return normalizeObject(asObject(generic(raw)))
}

// FromJSON decodes stored layout JSON and normalizes it. Invalid JSON yields the default layout.
func FromJSON(data []byte) domain.Layout {
	return Normalize(decode(data))
}

func normalizeObject(raw object) domain.Layout {
	brandingRaw := asObject(raw["branding"])
	primary := pickString(raw, "", "primaryColor")
	if primary == "" {
		primary = pickString(brandingRaw, DefaultPrimaryColor, "primaryColor")
	}

	return domain.Layout{
		Theme:        normalizeTheme(raw["theme"]),
		ThemeStyle:   normalizeThemeStyle(raw["themeStyle"]),
		PrimaryColor: primary,
		Branding:     normalizeBranding(brandingRaw, primary),
		Sections:     normalizeSections(raw["sections"], primary),
	}
}

func normalizeTheme(v any) domain.Theme {
	if s, ok := v.(string); ok && s == string(domain.ThemeLight) {
		return domain.ThemeLight
	}
	return domain.ThemeDark
}

func normalizeThemeStyle(v any) domain.ThemeStyle {
	s, _ := v.(string)
	return domain.ParseThemeStyle(s)
}

func normalizeBranding(raw object, primary string) domain.Branding {
	b := domain.Branding{
		LogoText:       pickString(raw, DefaultLogoText, "logoText", "name", "brandName"),
		PrimaryColor:   pickString(raw, primary, "primaryColor"),
		SecondaryColor: pickString(raw, DefaultSecondaryColor, "secondaryColor"),
		FontStyle:      domain.FontStyleNormal,
	}
	if fs, ok := raw["fontStyle"].(string); ok {
		switch domain.FontStyle(fs) {
		case domain.FontStyleBold, domain.FontStyleItalic:
			b.FontStyle = domain.FontStyle(fs)
		}
	}
	if markup, ok := raw["logo"].(string); ok {
		if clean, err := logo.Sanitize(markup); err == nil {
			b.Logo = clean
		}
	}
	return b
}

func normalizeSections(v any, primary string) []domain.Section {
	sections := []domain.Section{}
	for _, item := range asList(v) {
		obj := asObject(item)
		if obj == nil {
			continue
		}
		t, _ := obj["type"].(string)
		if s := normalizeSection(domain.SectionType(strings.ToLower(strings.TrimSpace(t))), obj, primary); s != nil {
			sections = append(sections, s)
		}
	}
	return sections
}

// sectionNormalizers is the dispatch table from discriminator to per-type normalizer.
var sectionNormalizers = map[domain.SectionType]func(object, string) domain.Section{
	domain.SectionHero:         normalizeHero,
	domain.SectionFeatures:     normalizeFeatures,
	domain.SectionPricing:      normalizePricing,
	domain.SectionTestimonials: normalizeTestimonials,
	domain.SectionContact:      normalizeContact,
}

func normalizeSection(t domain.SectionType, obj object, primary string) domain.Section {
	fn, ok := sectionNormalizers[t]
	if !ok {
		return nil
	}
	return fn(obj, primary)
}
