// Package theme maps a theme style and light/dark mode to the class bundle
// the preview renderers apply and the CSS tokens the static exporter inlines.
package theme

import (
	"github.com/kapu/astroweb-go/internal/domain"
)

// StyleBundle holds the utility-class strings for one style in one mode.
type StyleBundle struct {
	Card            string
	CardHover       string
	Headline        string
	Subtext         string
	Badge           string
	SectionBg       string
	AltSectionBg    string
	Divider         string
	TestimonialCard string
	FeatureIcon     string
	PageText        string
	NavBg           string
}

func pick(isDark bool, dark, light string) string {
	if isDark {
		return dark
	}
	return light
}

// ClassesFor is total over the five styles and both modes; unknown styles resolve as corporate.
func ClassesFor(style domain.ThemeStyle, isDark bool) StyleBundle {
	b := bundleFor(style, isDark)
	b.PageText = pick(isDark, "text-white", "text-neutral-900")
	b.NavBg = pick(isDark, "bg-black/80 border-neutral-800", "bg-white/80 border-neutral-200")
	return b
}

func bundleFor(style domain.ThemeStyle, isDark bool) StyleBundle {
	switch style {
	case domain.ThemeStyleMinimal:
		return StyleBundle{
			Card:            "rounded-lg border p-6 " + pick(isDark, "border-neutral-800 bg-neutral-950", "border-neutral-200 bg-white shadow-sm"),
			CardHover:       "hover:border-neutral-500 transition-colors duration-200",
			Headline:        "font-light tracking-wide",
			Subtext:         pick(isDark, "text-neutral-400 font-light", "text-neutral-500 font-light"),
			Badge:           "text-xs font-medium px-3 py-1 rounded-full " + pick(isDark, "bg-neutral-800 text-neutral-300", "bg-neutral-100 text-neutral-600"),
			SectionBg:       pick(isDark, "bg-black", "bg-white"),
			AltSectionBg:    pick(isDark, "bg-neutral-950", "bg-neutral-50"),
			Divider:         pick(isDark, "border-neutral-800", "border-neutral-200"),
			TestimonialCard: "rounded-lg border-l-4 p-6 " + pick(isDark, "bg-neutral-950 border-neutral-700", "bg-neutral-50 border-neutral-300"),
			FeatureIcon:     "w-8 h-8 mb-4 rounded " + pick(isDark, "text-white", "text-black"),
		}
	case domain.ThemeStyleBold:
		return StyleBundle{
			Card:            "rounded-2xl p-6 " + pick(isDark, "bg-neutral-900 border-2 border-neutral-700", "bg-white border-2 border-neutral-900 shadow-[4px_4px_0px_#000]"),
			CardHover:       "hover:translate-y-[-2px] transition-transform duration-200",
			Headline:        "font-extrabold tracking-tight uppercase",
			Subtext:         pick(isDark, "text-neutral-300 font-medium", "text-neutral-700 font-medium"),
			Badge:           "text-xs font-bold px-3 py-1 rounded uppercase tracking-widest " + pick(isDark, "bg-white text-black", "bg-black text-white"),
			SectionBg:       pick(isDark, "bg-neutral-950", "bg-white"),
			AltSectionBg:    pick(isDark, "bg-neutral-900", "bg-neutral-100"),
			Divider:         pick(isDark, "border-neutral-700 border-2", "border-neutral-900 border-2"),
			TestimonialCard: "rounded-2xl p-6 border-2 " + pick(isDark, "bg-neutral-900 border-neutral-700", "bg-white border-neutral-900 shadow-[3px_3px_0px_#000]"),
			FeatureIcon:     "w-10 h-10 mb-4 rounded-lg font-black text-xl flex items-center justify-center",
		}
	case domain.ThemeStyleGlassmorphism:
		return StyleBundle{
			Card:            "rounded-2xl p-6 backdrop-blur-md border " + pick(isDark, "bg-white/5 border-white/10", "bg-white/60 border-white/40 shadow-xl"),
			CardHover:       "hover:bg-white/10 transition-all duration-300",
			Headline:        "font-bold tracking-wide",
			Subtext:         pick(isDark, "text-neutral-300", "text-neutral-600"),
			Badge:           "text-xs font-medium px-3 py-1 rounded-full backdrop-blur border " + pick(isDark, "bg-white/10 border-white/20 text-white", "bg-white/70 border-white/50 text-neutral-700"),
			SectionBg:       pick(isDark, "bg-gradient-to-br from-neutral-950 via-neutral-900 to-neutral-950", "bg-gradient-to-br from-slate-100 via-white to-slate-100"),
			AltSectionBg:    pick(isDark, "bg-gradient-to-br from-neutral-900 via-neutral-800 to-neutral-900", "bg-gradient-to-br from-white via-slate-50 to-white"),
			Divider:         pick(isDark, "border-white/10", "border-neutral-200/60"),
			TestimonialCard: "rounded-2xl p-6 backdrop-blur-md border " + pick(isDark, "bg-white/5 border-white/10", "bg-white/60 border-white/40 shadow-lg"),
			FeatureIcon:     "w-10 h-10 mb-4 rounded-xl backdrop-blur-md",
		}
	case domain.ThemeStyleElegant:
		return StyleBundle{
			Card:            "rounded-sm p-8 " + pick(isDark, "bg-neutral-900 border border-neutral-700", "bg-white border border-neutral-200 shadow-md"),
			CardHover:       "hover:shadow-lg transition-shadow duration-300",
			Headline:        "font-serif font-normal tracking-widest uppercase text-sm",
			Subtext:         pick(isDark, "text-neutral-400 italic", "text-neutral-500 italic"),
			Badge:           "text-xs tracking-widest uppercase " + pick(isDark, "text-neutral-400", "text-neutral-500"),
			SectionBg:       pick(isDark, "bg-neutral-950", "bg-stone-50"),
			AltSectionBg:    pick(isDark, "bg-neutral-900", "bg-white"),
			Divider:         pick(isDark, "border-neutral-800", "border-stone-200"),
			TestimonialCard: "p-8 border-t " + pick(isDark, "border-neutral-700", "border-stone-300"),
			FeatureIcon:     "w-6 h-6 mb-6",
		}
	default:
		return StyleBundle{
			Card:            "rounded-xl p-6 " + pick(isDark, "bg-neutral-900 border border-neutral-800", "bg-white border border-neutral-100 shadow-md"),
			CardHover:       "hover:shadow-lg transition-shadow duration-200",
			Headline:        "font-bold tracking-tight",
			Subtext:         pick(isDark, "text-neutral-400", "text-neutral-600"),
			Badge:           "text-xs font-semibold px-3 py-1 rounded-full " + pick(isDark, "bg-blue-900/40 text-blue-300", "bg-blue-50 text-blue-700"),
			SectionBg:       pick(isDark, "bg-neutral-950", "bg-white"),
			AltSectionBg:    pick(isDark, "bg-neutral-900", "bg-slate-50"),
			Divider:         pick(isDark, "border-neutral-800", "border-neutral-200"),
			TestimonialCard: "rounded-xl p-6 " + pick(isDark, "bg-neutral-900 border border-neutral-800", "bg-white border border-neutral-100 shadow"),
			FeatureIcon:     "w-10 h-10 mb-4 rounded-lg",
		}
	}
}

// Option is one entry of the style picker.
type Option struct {
	Style domain.ThemeStyle `json:"style"`
	Label string            `json:"label"`
}

// Options lists every style with its label in picker order.
func Options() []Option {
	styles := domain.ThemeStyles()
	out := make([]Option, 0, len(styles))
	for _, s := range styles {
		out = append(out, Option{Style: s, Label: s.Label()})
	}
	return out
}
