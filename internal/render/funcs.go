package render

import (
	"fmt"
	"html"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/edit"
)

// cssValuePattern admits hex, named, rgb()/hsl() colors and simple lengths.
var cssValuePattern = regexp.MustCompile(`^[#a-zA-Z0-9(),.%\s-]{1,64}$`)

// SafeCSSValue returns v when it is a plain CSS value, else fallback.
func SafeCSSValue(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" || !cssValuePattern.MatchString(v) || strings.Contains(strings.ToLower(v), "url") || strings.Contains(strings.ToLower(v), "expression") {
		return fallback
	}
	return v
}

// SafeImageURL returns an absolute http(s) URL fit for a CSS url('...')
// token, or "" when raw is anything else.
func SafeImageURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return cssURLEscaper.Replace(u.String())
}

var cssURLEscaper = strings.NewReplacer(
	"'", "%27", `"`, "%22", "(", "%28", ")", "%29", `\`, "%5C",
	" ", "%20", "\t", "%09", "\n", "%0A", "\r", "%0D", ";", "%3B",
)

func cssValue(v string) template.CSS {
	return template.CSS(SafeCSSValue(v, "inherit"))
}

// ButtonCSS renders a normalized style object as inline declarations.
func ButtonCSS(s domain.StyleObject) string {
	return fmt.Sprintf("background: %s; color: %s; border-radius: %s; font-weight: %s; border: 1px solid %s;",
		SafeCSSValue(s.Background, "#6366f1"),
		SafeCSSValue(s.TextColor, "#ffffff"),
		SafeCSSValue(s.BorderRadius, "12px"),
		SafeCSSValue(s.FontWeight, "600"),
		SafeCSSValue(s.BorderColor, "transparent"),
	)
}

func planButtonCSS(p domain.PricingPlan, primary string) template.CSS {
	if p.Style != nil {
		return template.CSS(ButtonCSS(*p.Style))
	}
	if p.Highlight != nil {
		return template.CSS(fmt.Sprintf("background: #ffffff; color: %s; border-radius: 12px;", SafeCSSValue(primary, "#6366f1")))
	}
	return template.CSS(fmt.Sprintf("background: %s; color: #ffffff; border-radius: 12px;", SafeCSSValue(primary, "#6366f1")))
}

func planCardCSS(p domain.PricingPlan) template.CSS {
	if p.Highlight == nil {
		return ""
	}
	return template.CSS(fmt.Sprintf("box-shadow: 0 20px 60px %s44; border-color: %s;",
		SafeCSSValue(p.Highlight.Color, "#6366f1"),
		SafeCSSValue(p.Highlight.Color, "#6366f1"),
	))
}

func fontClass(fs domain.FontStyle) string {
	switch fs {
	case domain.FontStyleBold:
		return "font-extrabold"
	case domain.FontStyleItalic:
		return "italic"
	default:
		return ""
	}
}

func funcMap(editable bool) template.FuncMap {
	attr := func(t edit.Target) template.HTMLAttr {
		if !editable {
			return ""
		}
		return template.HTMLAttr(fmt.Sprintf(`data-edit="%s" contenteditable="true" spellcheck="false"`, html.EscapeString(t.Path())))
	}

	return template.FuncMap{
		"css":             cssValue,
		"buttonStyle":     func(s domain.StyleObject) template.CSS { return template.CSS(ButtonCSS(s)) },
		"planButtonStyle": planButtonCSS,
		"planCardStyle":   planCardCSS,
		"fontClass":       fontClass,
		// Logo markup is sanitized by the normalizer before it reaches a layout.
		"logoHTML": func(svg string) template.HTML { return template.HTML(svg) },

		"brandEdit":    func() template.HTMLAttr { return attr(edit.BrandName{}) },
		"headlineEdit": func(section int) template.HTMLAttr { return attr(edit.SectionHeadline{Section: section}) },
		"subtextEdit":  func(section int) template.HTMLAttr { return attr(edit.HeroSubtext{Section: section}) },
		"ctaEdit":      func(section int) template.HTMLAttr { return attr(edit.CTAText{Section: section}) },
		"featureEdit": func(section, item int, field string) template.HTMLAttr {
			return attr(edit.FeatureField{Section: section, Item: item, Field: edit.FeatureFieldName(field)})
		},
		"planEdit": func(section, plan int, field string) template.HTMLAttr {
			return attr(edit.PlanField{Section: section, Plan: plan, Field: edit.PlanFieldName(field)})
		},
		"planFeatureEdit": func(section, plan, feature int) template.HTMLAttr {
			return attr(edit.PlanFeature{Section: section, Plan: plan, Feature: feature})
		},
		"testimonialEdit": func(section, item int, field string) template.HTMLAttr {
			return attr(edit.TestimonialField{Section: section, Item: item, Field: edit.TestimonialFieldName(field)})
		},
		"contactEdit": func(section int, field string) template.HTMLAttr {
			return attr(edit.ContactField{Section: section, Field: edit.ContactFieldName(field)})
		},
	}
}
