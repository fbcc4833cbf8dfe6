package theme

import "github.com/kapu/astroweb-go/internal/domain"

// Palette is the CSS-value counterpart of StyleBundle, used where no utility
// class runtime is available (the static export).
type Palette struct {
	Background    string
	AltBackground string
	Text          string
	Subtext       string
	CardBg        string
	Border        string
	NavBg         string
	CardRadius    string
	CardShadow    string
	HeadingWeight string
	HeadingCase   string
	HeadingFont   string
	SubtextStyle  string
}

func PaletteFor(style domain.ThemeStyle, isDark bool) Palette {
	p := Palette{
		Background:    pick(isDark, "#000000", "#ffffff"),
		AltBackground: pick(isDark, "#0a0a0a", "#f9fafb"),
		Text:          pick(isDark, "#ffffff", "#0a0a0a"),
		Subtext:       pick(isDark, "#a3a3a3", "#525252"),
		CardBg:        pick(isDark, "#111111", "#f9f9f9"),
		Border:        pick(isDark, "#2a2a2a", "#e5e7eb"),
		NavBg:         pick(isDark, "rgba(0,0,0,0.95)", "rgba(255,255,255,0.95)"),
		CardRadius:    "16px",
		CardShadow:    "none",
		HeadingWeight: "700",
		HeadingCase:   "none",
		HeadingFont:   "system-ui, -apple-system, sans-serif",
		SubtextStyle:  "normal",
	}

	switch style {
	case domain.ThemeStyleMinimal:
		p.CardRadius = "8px"
		p.HeadingWeight = "300"
		p.CardShadow = pick(isDark, "none", "0 1px 2px rgba(0,0,0,0.05)")
	case domain.ThemeStyleBold:
		p.CardRadius = "16px"
		p.HeadingWeight = "800"
		p.HeadingCase = "uppercase"
		p.Border = pick(isDark, "#404040", "#171717")
		p.CardShadow = pick(isDark, "none", "4px 4px 0px #000")
	case domain.ThemeStyleGlassmorphism:
		p.CardRadius = "16px"
		p.CardBg = pick(isDark, "rgba(255,255,255,0.05)", "rgba(255,255,255,0.6)")
		p.Border = pick(isDark, "rgba(255,255,255,0.1)", "rgba(255,255,255,0.4)")
		p.CardShadow = pick(isDark, "none", "0 20px 25px rgba(0,0,0,0.1)")
		p.Background = pick(isDark, "linear-gradient(135deg,#0a0a0a,#171717,#0a0a0a)", "linear-gradient(135deg,#f1f5f9,#ffffff,#f1f5f9)")
	case domain.ThemeStyleElegant:
		p.CardRadius = "2px"
		p.HeadingWeight = "400"
		p.HeadingCase = "uppercase"
		p.HeadingFont = "Georgia, 'Times New Roman', serif"
		p.SubtextStyle = "italic"
		p.Background = pick(isDark, "#0a0a0a", "#fafaf9")
	default:
		p.CardRadius = "12px"
		p.CardShadow = pick(isDark, "none", "0 4px 6px rgba(0,0,0,0.07)")
	}
	return p
}
