package normalize

import (
	"github.com/kapu/astroweb-go/internal/domain"
)

func normalizeHero(raw object, primary string) domain.Section {
	hero := &domain.HeroSection{
		Headline:   pickString(raw, DefaultHeroHeadline, "headline", "title"),
		Subtext:    pickString(raw, "", "subtext", "subheadline", "subtitle", "description"),
		CTA:        normalizeOptionalCTA(raw, primary),
		ImageURL:   pickString(raw, "", "imageUrl", "image"),
		ImageQuery: pickString(raw, "", "imageQuery"),
	}
	return hero
}

func normalizeFeatures(raw object, _ string) domain.Section {
	items := []domain.FeatureItem{}
	for _, item := range pickList(raw, "features", "items") {
		if s, ok := text(item); ok {
			items = append(items, domain.FeatureItem{Title: s, Description: "", Icon: DefaultFeatureIcon})
			continue
		}
		obj := asObject(item)
		if obj == nil {
			continue
		}
		items = append(items, domain.FeatureItem{
			Title:       pickString(obj, "", "title", "name"),
			Description: pickString(obj, "", "description", "text"),
			Icon:        pickString(obj, DefaultFeatureIcon, "icon", "emoji"),
		})
	}
	return &domain.FeaturesSection{
		Headline: pickString(raw, DefaultFeaturesHeadline, "headline", "title"),
		Features: items,
	}
}

func normalizePricing(raw object, primary string) domain.Section {
	plans := []domain.PricingPlan{}
	for _, item := range pickList(raw, "pricingOptions", "plans", "tiers") {
		obj := asObject(item)
		if obj == nil {
			continue
		}
		plans = append(plans, normalizePlan(obj, primary))
	}
	return &domain.PricingSection{
		Headline:       pickString(raw, DefaultPricingHeadline, "headline", "title"),
		PricingOptions: plans,
	}
}

func normalizePlan(raw object, primary string) domain.PricingPlan {
	plan := domain.PricingPlan{
		Name:        pickString(raw, "", "name", "title"),
		Price:       pickString(raw, "", "price", "cost"),
		Description: pickString(raw, "", "description"),
		Features:    stringList(pick(raw, "features", "items")),
		Highlight:   normalizeHighlight(raw, primary),
	}
	if style := asObject(raw["style"]); style != nil {
		s := normalizeStyle(style, primary)
		plan.Style = &s
	}
	return plan
}

// normalizeHighlight accepts {text,color}, a bare label, or a popular/recommended flag.
func normalizeHighlight(raw object, primary string) *domain.Highlight {
	switch h := raw["highlight"].(type) {
	case map[string]any:
		return &domain.Highlight{
			Text:  pickString(h, DefaultHighlightText, "text", "label"),
			Color: pickString(h, primary, "color", "background"),
		}
	case string:
		if !blank(h) {
			return &domain.Highlight{Text: h, Color: primary}
		}
	case bool:
		if h {
			return &domain.Highlight{Text: DefaultHighlightText, Color: primary}
		}
	}
	if pickBool(raw, "popular", "recommended", "featured", "isPopular") {
		return &domain.Highlight{Text: DefaultHighlightText, Color: primary}
	}
	return nil
}

func normalizeTestimonials(raw object, primary string) domain.Section {
	items := []domain.TestimonialItem{}
	for _, item := range pickList(raw, "testimonials", "reviews") {
		if s, ok := text(item); ok {
			items = append(items, domain.TestimonialItem{
				Review: s,
				Style:  domain.TestimonialStyle{AccentColor: primary},
			})
			continue
		}
		obj := asObject(item)
		if obj == nil {
			continue
		}
		accent := pickString(asObject(obj["style"]), "", "accentColor")
		if accent == "" {
			accent = pickString(obj, primary, "accentColor", "color")
		}
		items = append(items, domain.TestimonialItem{
			Name:   pickString(obj, "", "name", "author"),
			Role:   pickString(obj, "", "role", "title", "position"),
			Review: pickString(obj, "", "review", "text", "quote", "content"),
			Style:  domain.TestimonialStyle{AccentColor: accent},
		})
	}
	return &domain.TestimonialsSection{
		Headline:     pickString(raw, DefaultTestimonialsHeadline, "headline", "title"),
		Testimonials: items,
	}
}

func normalizeContact(raw object, primary string) domain.Section {
	details := pickObject(raw, "contactDetails", "contactInfo", "contact")
	return &domain.ContactSection{
		Headline: pickString(raw, DefaultContactHeadline, "headline", "title"),
		ContactDetails: domain.ContactDetails{
			Phone:   pickString(details, "", "phone", "telephone"),
			Email:   pickString(details, "", "email"),
			Address: pickString(details, "", "address", "location"),
			Hours:   normalizeHours(pick(details, "hours", "workingHours", "openingHours")),
		},
		CTA: normalizeOptionalCTA(raw, primary),
	}
}

// normalizeHours accepts {open,close,days} or a free-form string kept as the opening text.
func normalizeHours(v any) *domain.Hours {
	if s, ok := v.(string); ok {
		if blank(s) {
			return nil
		}
		return &domain.Hours{Open: s, Close: "", Days: []string{}}
	}
	obj := asObject(v)
	if obj == nil {
		return nil
	}
	h := &domain.Hours{
		Open:  pickString(obj, "", "open", "from", "opens"),
		Close: pickString(obj, "", "close", "to", "closes"),
		Days:  stringList(obj["days"]),
	}
	if h.Open == "" && h.Close == "" && len(h.Days) == 0 {
		return nil
	}
	return h
}

// normalizeOptionalCTA reads a structured cta, falling back to a bare callToAction string.
func normalizeOptionalCTA(raw object, primary string) *domain.CTAButton {
	switch c := raw["cta"].(type) {
	case map[string]any:
		cta := normalizeCTA(c, primary)
		return &cta
	case string:
		if !blank(c) {
			return synthesizeCTA(c, primary)
		}
	}
	if label := pickString(raw, "", "callToAction", "ctaText"); label != "" {
		return synthesizeCTA(label, primary)
	}
	return nil
}

func synthesizeCTA(label, primary string) *domain.CTAButton {
	return &domain.CTAButton{
		Text: label,
		Style: domain.StyleObject{
			Background:   primary,
			TextColor:    DefaultButtonTextColor,
			BorderRadius: DefaultPillBorderRadius,
			FontWeight:   "bold",
			BorderColor:  DefaultBorderColor,
		},
	}
}

func normalizeCTA(raw object, primary string) domain.CTAButton {
	cta := domain.CTAButton{
		Text:  pickString(raw, DefaultCTAText, "text", "label"),
		Color: pickString(raw, "", "color"),
	}
	background := pickString(raw, "", "background", "color")
	if background == "" {
		background = primary
	}
	if style := asObject(raw["style"]); style != nil {
		cta.Style = normalizeStyle(style, background)
		return cta
	}
	cta.Style = domain.StyleObject{
		Background:   background,
		TextColor:    pickString(raw, DefaultButtonTextColor, "textColor"),
		BorderRadius: DefaultPillBorderRadius,
		FontWeight:   DefaultFontWeight,
		BorderColor:  DefaultBorderColor,
	}
	return cta
}

func normalizeStyle(raw object, background string) domain.StyleObject {
	style := domain.StyleObject{
		Background:   pickString(raw, background, "background", "backgroundColor", "ctaColor"),
		TextColor:    pickString(raw, DefaultButtonTextColor, "textColor", "color"),
		BorderRadius: pickString(raw, DefaultBorderRadius, "borderRadius"),
		FontWeight:   pickString(raw, DefaultFontWeight, "fontWeight"),
		BorderColor:  pickString(raw, DefaultBorderColor, "borderColor"),
	}
	if hover := asObject(raw["hoverEffect"]); hover != nil {
		style.HoverEffect = &domain.HoverEffect{
			Background: pickString(hover, style.Background, "background", "backgroundColor"),
			TextColor:  pickString(hover, style.TextColor, "textColor", "color"),
		}
	}
	return style
}
