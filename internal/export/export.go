// Package export renders a layout into one self-contained HTML document with
// inline styles and no client-side framework.
package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/logo"
	"github.com/kapu/astroweb-go/internal/render"
	"github.com/kapu/astroweb-go/internal/theme"
)

type Options struct {
	// Year printed in the footer; zero means the current year.
	Year int
}

// HTML renders l with the current year in the footer.
func HTML(l domain.Layout) string {
	return Render(l, Options{})
}

type sectionWriter func(d *document, index int, s domain.Section)

// sectionWriters is keyed like the preview dispatch table; unknown types write nothing.
var sectionWriters = map[domain.SectionType]sectionWriter{
	domain.SectionHero:         writeHero,
	domain.SectionFeatures:     writeFeatures,
	domain.SectionPricing:      writePricing,
	domain.SectionTestimonials: writeTestimonials,
	domain.SectionContact:      writeContact,
}

type document struct {
	b       strings.Builder
	layout  domain.Layout
	palette theme.Palette
	primary string
}

// Render is deterministic for a given layout and non-zero Year. A zero Year
// prints the current year.
func Render(l domain.Layout, opts Options) string {
	year := opts.Year
	if year == 0 {
		year = time.Now().Year()
	}
	d := &document{
		layout:  l,
		palette: theme.PaletteFor(l.ThemeStyle, l.IsDark()),
		primary: render.SafeCSSValue(l.PrimaryColor, "#6366f1"),
	}

	d.head()
	d.nav()
	for i, s := range l.Sections {
		if s == nil {
			continue
		}
		if write, ok := sectionWriters[s.SectionType()]; ok {
			write(d, i, s)
		}
	}
	d.footer(year)
	d.b.WriteString("</body>\n</html>\n")
	return d.b.String()
}

func (d *document) printf(format string, args ...any) {
	fmt.Fprintf(&d.b, format, args...)
}

func esc(s string) string {
	return html.EscapeString(s)
}

func (d *document) head() {
	p := d.palette
	d.printf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
* { box-sizing: border-box; margin: 0; padding: 0; }
body { background: %s; color: %s; font-family: system-ui, -apple-system, sans-serif; }
h1, h2, h3 { color: %s; font-family: %s; font-weight: %s; text-transform: %s; }
p { color: %s; font-style: %s; }
a { color: inherit; text-decoration: none; }
.container { max-width: 1100px; margin: 0 auto; }
.section { padding: 96px 24px; }
.section-alt { background: %s; }
.section-head { text-align: center; margin-bottom: 60px; }
.section-head h2 { font-size: clamp(28px, 4vw, 44px); }
.grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(280px, 1fr)); gap: 24px; }
.card { background: %s; border: 1px solid %s; border-radius: %s; padding: 28px; box-shadow: %s; }
.badge { display: inline-block; font-size: 12px; font-weight: 600; padding: 4px 12px; border-radius: 999px; background: %s22; color: %s; margin-bottom: 16px; letter-spacing: 0.05em; text-transform: uppercase; }
.btn { display: inline-block; padding: 14px 32px; border-radius: 50px; font-weight: 700; font-size: 16px; transition: opacity 0.2s; }
.btn:hover { opacity: 0.85; }
.dot { display: inline-block; border-radius: 50%%; flex-shrink: 0; }
.logo { display: inline-flex; align-items: center; justify-content: center; flex-shrink: 0; }
</style>
</head>
<body>
`,
		esc(d.title()),
		p.Background, p.Text,
		p.Text, p.HeadingFont, p.HeadingWeight, p.HeadingCase,
		p.Subtext, p.SubtextStyle,
		p.AltBackground,
		p.CardBg, p.Border, p.CardRadius, p.CardShadow,
		d.primary, d.primary,
	)
}

func (d *document) title() string {
	if name := d.layout.SiteName(); name != "" {
		return name
	}
	return "Website"
}

// logoMarkup returns the resized logo, or a primary-colored dot when there is none.
func (d *document) logoMarkup(size int) string {
	if d.layout.Branding.HasLogo() {
		if svg, err := logo.Resize(d.layout.Branding.Logo, size); err == nil {
			return `<span class="logo">` + svg + `</span>`
		}
	}
	dot := size / 3
	return fmt.Sprintf(`<span class="dot" style="width:%dpx;height:%dpx;background:%s;"></span>`, dot, dot, d.primary)
}

func (d *document) brandName() string {
	style := ""
	switch d.layout.Branding.FontStyle {
	case domain.FontStyleBold:
		style = ` style="font-weight:800;"`
	case domain.FontStyleItalic:
		style = ` style="font-style:italic;"`
	}
	return fmt.Sprintf(`<span%s>%s</span>`, style, esc(d.layout.Branding.LogoText))
}

func (d *document) nav() {
	p := d.palette
	d.printf(`<nav data-chrome="nav" style="background:%s;border-bottom:1px solid %s;padding:18px 32px;display:flex;justify-content:space-between;align-items:center;position:sticky;top:0;z-index:50;">
<div style="display:flex;align-items:center;gap:10px;font-weight:700;font-size:18px;">%s%s</div>
<div style="display:flex;gap:28px;font-size:14px;font-weight:500;opacity:0.75;">`,
		p.NavBg, p.Border, d.logoMarkup(36), d.brandName())
	for _, link := range render.NavLinks {
		d.printf(`<a href="#%s" data-nav-link>%s</a>`, link.Anchor, esc(link.Label))
	}
	d.printf(`</div>
<a href="#contact" data-nav-cta class="btn" style="background:%s;color:#ffffff;padding:8px 20px;border-radius:10px;font-size:14px;">%s</a>
</nav>
`, d.primary, esc(render.NavCTA))
}

func (d *document) footer(year int) {
	p := d.palette
	d.printf(`<footer data-chrome="footer" style="border-top:1px solid %s;padding:36px 32px;display:flex;justify-content:space-between;align-items:center;flex-wrap:wrap;gap:16px;">
<div style="display:flex;align-items:center;gap:8px;font-weight:600;font-size:14px;">%s%s</div>
<p style="font-size:12px;">&copy; %d %s. All rights reserved.</p>
<div style="display:flex;gap:20px;font-size:12px;">`,
		p.Border, d.logoMarkup(28), d.brandName(), year, esc(d.layout.Branding.LogoText))
	for _, link := range render.NavLinks {
		d.printf(`<a href="#%s">%s</a>`, link.Anchor, esc(link.Label))
	}
	d.b.WriteString("</div>\n</footer>\n")
}

func (d *document) sectionOpen(t domain.SectionType, index int, extraStyle string) {
	class := "section"
	if index%2 == 1 {
		class += " section-alt"
	}
	d.printf(`<section data-section="%s" id="%s" class="%s"%s>
<div class="container">
`, t, t, class, extraStyle)
}

func (d *document) sectionHead(badge, headline string) {
	d.printf(`<div class="section-head"><span class="badge">%s</span><h2>%s</h2></div>
`, esc(badge), esc(headline))
}

func (d *document) sectionClose() {
	d.b.WriteString("</div>\n</section>\n")
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9._-]`)

// FileName derives the download name from the brand: lowercased, whitespace
// removed, unsafe characters dropped, ".html" appended.
func FileName(l domain.Layout) string {
	name := strings.ToLower(l.SiteName())
	name = strings.Join(strings.Fields(name), "")
	name = unsafeFileChars.ReplaceAllString(name, "")
	name = strings.Trim(name, ".")
	if name == "" {
		name = "website"
	}
	return name + ".html"
}
