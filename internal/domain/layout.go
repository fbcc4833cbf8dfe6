package domain

import "strings"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) String() string {
	return string(t)
}

func (t Theme) IsDark() bool {
	return t != ThemeLight
}

type ThemeStyle string

const (
	ThemeStyleMinimal       ThemeStyle = "minimal"
	ThemeStyleBold          ThemeStyle = "bold"
	ThemeStyleGlassmorphism ThemeStyle = "glassmorphism"
	ThemeStyleElegant       ThemeStyle = "elegant"
	ThemeStyleCorporate     ThemeStyle = "corporate"
)

// DefaultThemeStyle is used whenever a style is absent or unrecognized.
const DefaultThemeStyle = ThemeStyleCorporate

// ThemeStyles returns every supported style in picker order.
func ThemeStyles() []ThemeStyle {
	return []ThemeStyle{
		ThemeStyleMinimal,
		ThemeStyleBold,
		ThemeStyleGlassmorphism,
		ThemeStyleElegant,
		ThemeStyleCorporate,
	}
}

func (s ThemeStyle) String() string {
	return string(s)
}

func (s ThemeStyle) IsValid() bool {
	switch s {
	case ThemeStyleMinimal, ThemeStyleBold, ThemeStyleGlassmorphism, ThemeStyleElegant, ThemeStyleCorporate:
		return true
	default:
		return false
	}
}

// Label is the short human name shown in the style picker.
func (s ThemeStyle) Label() string {
	switch s {
	case ThemeStyleMinimal:
		return "Minimal"
	case ThemeStyleBold:
		return "Bold"
	case ThemeStyleGlassmorphism:
		return "Glass"
	case ThemeStyleElegant:
		return "Elegant"
	case ThemeStyleCorporate:
		return "Corporate"
	default:
		return ""
	}
}

// ParseThemeStyle trims and lowercases s, falling back to DefaultThemeStyle.
func ParseThemeStyle(s string) ThemeStyle {
	style := ThemeStyle(strings.ToLower(strings.TrimSpace(s)))
	if style.IsValid() {
		return style
	}
	return DefaultThemeStyle
}

type FontStyle string

const (
	FontStyleNormal FontStyle = "normal"
	FontStyleBold   FontStyle = "bold"
	FontStyleItalic FontStyle = "italic"
)

type Branding struct {
	LogoText       string    `json:"logoText"`
	PrimaryColor   string    `json:"primaryColor"`
	SecondaryColor string    `json:"secondaryColor"`
	FontStyle      FontStyle `json:"fontStyle"`
	Logo           string    `json:"logo,omitempty"` // sanitized SVG markup
}

// HasLogo reports whether an SVG logo should be drawn instead of the dot glyph.
func (b Branding) HasLogo() bool {
	return strings.TrimSpace(b.Logo) != ""
}

// Layout is the canonical, normalized description of a generated site.
type Layout struct {
	Theme        Theme      `json:"theme"`
	ThemeStyle   ThemeStyle `json:"themeStyle"`
	PrimaryColor string     `json:"primaryColor"`
	Branding     Branding   `json:"branding"`
	Sections     []Section  `json:"sections"`
}

func (l Layout) IsDark() bool {
	return l.Theme.IsDark()
}

// SiteName is the display name used for summaries and file names.
func (l Layout) SiteName() string {
	return strings.TrimSpace(l.Branding.LogoText)
}

// Find returns the first section of the given type, or nil.
func (l Layout) Find(t SectionType) Section {
	for _, s := range l.Sections {
		if s != nil && s.SectionType() == t {
			return s
		}
	}
	return nil
}

// Hero returns the first hero section, if any.
func (l Layout) Hero() (*HeroSection, bool) {
	s, ok := l.Find(SectionHero).(*HeroSection)
	return s, ok
}

// SectionTypes lists the section types in render order.
func (l Layout) SectionTypes() []SectionType {
	types := make([]SectionType, 0, len(l.Sections))
	for _, s := range l.Sections {
		if s != nil {
			types = append(types, s.SectionType())
		}
	}
	return types
}

// Clone returns a deep copy; the result shares no slices or pointers with l.
func (l Layout) Clone() Layout {
	out := l
	if l.Sections != nil {
		out.Sections = make([]Section, 0, len(l.Sections))
		for _, s := range l.Sections {
			if s == nil {
				continue
			}
			out.Sections = append(out.Sections, s.cloneSection())
		}
	}
	return out
}
