// Package render produces the read-only and inline-editable HTML previews of a layout.
//
// Both forms share one template set and one section dispatch table; the
// editor form additionally tags every text node with its edit target path.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/theme"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type Mode int

const (
	ModePreview Mode = iota
	ModeEditor
)

func (m Mode) String() string {
	if m == ModeEditor {
		return "editor"
	}
	return "preview"
}

// sectionTemplates is the dispatch table from section type to template name.
// Types missing here render nothing.
var sectionTemplates = map[domain.SectionType]string{
	domain.SectionHero:         "hero",
	domain.SectionFeatures:     "features",
	domain.SectionPricing:      "pricing",
	domain.SectionTestimonials: "testimonials",
	domain.SectionContact:      "contact",
}

// NavCTA is the label of the navigation bar button in every form.
const NavCTA = "Get Started"

type NavLink struct {
	Anchor string
	Label  string
}

// NavLinks are the anchors shown in the navigation bar and footer.
var NavLinks = []NavLink{
	{Anchor: "features", Label: "Features"},
	{Anchor: "pricing", Label: "Pricing"},
	{Anchor: "contact", Label: "Contact"},
}

type Options struct {
	// EditEndpoint receives {target, value} posts from the editor script.
	EditEndpoint string
	// Year printed in the footer; zero means the current year.
	Year int
	// Fragment renders only the body markup, without the document shell.
	Fragment bool
}

type Renderer struct {
	mode Mode
	tmpl *template.Template
}

type pageView struct {
	Layout       domain.Layout
	Theme        theme.StyleBundle
	Primary      string
	Editable     bool
	EditEndpoint string
	Year         int
	NavLinks     []NavLink
	NavCTA       string
	Sections     []template.HTML
}

type sectionView struct {
	Index    int
	S        domain.Section
	Theme    theme.StyleBundle
	Bg       string
	Primary  string
	Brand    string
	Editable bool
}

func newRenderer(mode Mode) *Renderer {
	tmpl := template.Must(template.New("render").
		Funcs(funcMap(mode == ModeEditor)).
		ParseFS(templateFS, "templates/*.gohtml"))
	return &Renderer{mode: mode, tmpl: tmpl}
}

var (
	previewRenderer = newRenderer(ModePreview)
	editorRenderer  = newRenderer(ModeEditor)
)

// NewPreview returns the read-only renderer.
func NewPreview() *Renderer { return previewRenderer }

// NewEditor returns the inline-editable renderer.
func NewEditor() *Renderer { return editorRenderer }

// ForMode returns the renderer for m.
func ForMode(m Mode) *Renderer {
	if m == ModeEditor {
		return editorRenderer
	}
	return previewRenderer
}

func (r *Renderer) Mode() Mode { return r.mode }

// Render writes l as HTML. l must come from the normalizer.
func (r *Renderer) Render(w io.Writer, l domain.Layout, opts Options) error {
	bundle := theme.ClassesFor(l.ThemeStyle, l.IsDark())
	year := opts.Year
	if year == 0 {
		year = time.Now().Year()
	}

	view := pageView{
		Layout:       l,
		Theme:        bundle,
		Primary:      l.PrimaryColor,
		Editable:     r.mode == ModeEditor,
		EditEndpoint: opts.EditEndpoint,
		Year:         year,
		NavLinks:     NavLinks,
		NavCTA:       NavCTA,
		Sections:     make([]template.HTML, 0, len(l.Sections)),
	}

	for i, s := range l.Sections {
		if s == nil {
			continue
		}
		name, ok := sectionTemplates[s.SectionType()]
		if !ok {
			continue
		}
		bg := bundle.SectionBg
		if i%2 == 1 {
			bg = bundle.AltSectionBg
		}
		var buf bytes.Buffer
		err := r.tmpl.ExecuteTemplate(&buf, name, sectionView{
			Index:    i,
			S:        s,
			Theme:    bundle,
			Bg:       bg,
			Primary:  l.PrimaryColor,
			Brand:    l.Branding.LogoText,
			Editable: view.Editable,
		})
		if err != nil {
			return fmt.Errorf("render %s section %d: %w", name, i, err)
		}
		// Section markup was produced by html/template above and is already escaped.
		view.Sections = append(view.Sections, template.HTML(buf.String()))
	}

	root := "page"
	if opts.Fragment {
		root = "body"
	}
	if err := r.tmpl.ExecuteTemplate(w, root, view); err != nil {
		return fmt.Errorf("render %s page: %w", r.mode, err)
	}
	return nil
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(l domain.Layout, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, l, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}
