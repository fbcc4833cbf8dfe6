package render

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/edit"
	"github.com/kapu/astroweb-go/internal/normalize"
)

func fullLayout() domain.Layout {
	return normalize.Normalize(map[string]any{
		"theme":        "light",
		"themeStyle":   "elegant",
		"primaryColor": "#0ea5e9",
		"branding": map[string]any{
			"logoText": "Tide",
			"logo":     `<svg viewBox="0 0 48 48"><circle cx="24" cy="24" r="20"></circle></svg>`,
		},
		"sections": []any{
			map[string]any{"type": "hero", "headline": "Ride the wave", "callToAction": "Book", "imageUrl": "https://images.unsplash.com/photo-1"},
			map[string]any{"type": "features", "features": []any{"Boards", map[string]any{"title": "Lessons", "description": "All levels"}}},
			map[string]any{"type": "pricing", "plans": []any{
				map[string]any{"name": "Day", "price": "$30", "features": []any{"Board"}},
				map[string]any{"name": "Week", "price": "$150", "features": []any{"Board", "Wetsuit"}, "popular": true},
			}},
			map[string]any{"type": "testimonials", "testimonials": []any{map[string]any{"name": "kai", "role": "Surfer", "review": "Stoked"}}},
			map[string]any{"type": "contact", "contactDetails": map[string]any{"email": "hi@tide.surf", "hours": map[string]any{"open": "7am", "close": "6pm", "days": []any{"Sat", "Sun"}}}, "cta": map[string]any{"text": "Email us"}},
		},
	})
}

func parse(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func sectionOrder(doc *goquery.Document) []string {
	var order []string
	doc.Find("[data-section]").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("data-section")
		order = append(order, v)
	})
	return order
}

func TestRenderersNeverFail(t *testing.T) {
	layouts := []domain.Layout{
		normalize.Normalize(nil),
		normalize.Normalize(map[string]any{"sections": []any{map[string]any{"type": "hero"}}}),
		fullLayout(),
		{},
	}
	for _, l := range layouts {
		for _, r := range []*Renderer{NewPreview(), NewEditor()} {
			out, err := r.RenderString(l, Options{Year: 2026})
			require.NoError(t, err, r.Mode().String())
			assert.Contains(t, out, `data-chrome="nav"`)
			assert.Contains(t, out, `data-chrome="footer"`)
		}
	}
}

func TestRenderPreservesSectionOrder(t *testing.T) {
	l := fullLayout()
	want := []string{"hero", "features", "pricing", "testimonials", "contact"}

	for _, r := range []*Renderer{NewPreview(), NewEditor()} {
		out, err := r.RenderString(l, Options{})
		require.NoError(t, err)
		assert.Equal(t, want, sectionOrder(parse(t, out)), r.Mode().String())
	}
}

func TestRenderSkipsNilSections(t *testing.T) {
	l := fullLayout()
	l.Sections = append([]domain.Section{nil}, l.Sections[:2]...)

	out, err := NewPreview().RenderString(l, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"hero", "features"}, sectionOrder(parse(t, out)))
}

func TestPreviewHasNoEditHooks(t *testing.T) {
	out, err := NewPreview().RenderString(fullLayout(), Options{})
	require.NoError(t, err)

	doc := parse(t, out)
	assert.Equal(t, 0, doc.Find("[data-edit]").Length())
	assert.Equal(t, 0, doc.Find("[contenteditable]").Length())
	assert.NotContains(t, out, "data-editing")
}

func TestEditorHooksResolveAgainstLayout(t *testing.T) {
	l := fullLayout()
	out, err := NewEditor().RenderString(l, Options{EditEndpoint: "/api/sessions/abc/edits"})
	require.NoError(t, err)

	doc := parse(t, out)
	nodes := doc.Find("[data-edit]")
	require.Greater(t, nodes.Length(), 20)

	nodes.Each(func(_ int, s *goquery.Selection) {
		path, _ := s.Attr("data-edit")
		target, err := edit.ParseTarget(path)
		require.NoError(t, err, path)

		current, err := edit.Read(l, target)
		require.NoError(t, err, path)
		assert.Equal(t, current, s.Text(), path)
	})

	script := doc.Find("script").Last().Text()
	assert.Contains(t, script, "abc")
	assert.Contains(t, script, "edits")
}

func TestRenderEscapesContent(t *testing.T) {
	l := normalize.Normalize(map[string]any{"sections": []any{
		map[string]any{"type": "hero", "headline": `<script>alert("x")</script>`},
	}})

	out, err := NewPreview().RenderString(l, Options{})
	require.NoError(t, err)
	assert.NotContains(t, out, `<script>alert`)
	assert.Equal(t, `<script>alert("x")</script>`, parse(t, out).Find("h1").Text())
}

func TestRenderLogoAndDot(t *testing.T) {
	out, err := NewPreview().RenderString(fullLayout(), Options{})
	require.NoError(t, err)
	doc := parse(t, out)
	assert.Equal(t, 2, doc.Find("[data-logo] svg").Length())

	out, err = NewPreview().RenderString(normalize.Normalize(nil), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, parse(t, out).Find("[data-logo-dot]").Length())
}

func TestRenderFragmentOmitsShell(t *testing.T) {
	out, err := NewPreview().RenderString(fullLayout(), Options{Fragment: true})
	require.NoError(t, err)
	assert.NotContains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `data-layout`)
}

func TestRenderOptionalFields(t *testing.T) {
	out, err := NewPreview().RenderString(fullLayout(), Options{Year: 2030})
	require.NoError(t, err)
	doc := parse(t, out)

	assert.Equal(t, 1, doc.Find("[data-hero-image]").Length())
	assert.Equal(t, 1, doc.Find("[data-highlight]").Length())
	assert.Equal(t, "7am – 6pm · Sat, Sun", strings.TrimSpace(doc.Find(`[data-contact="hours"] p`).Last().Text()))
	assert.Equal(t, 0, doc.Find(`[data-contact="phone"]`).Length())
	assert.Equal(t, "K", doc.Find(`[data-item="testimonial"] .rounded-full`).First().Text())
	assert.Contains(t, doc.Find("footer").Text(), "2030 Tide")
}

func TestSafeCSSValue(t *testing.T) {
	assert.Equal(t, "#fff", SafeCSSValue("#fff", "x"))
	assert.Equal(t, "rgb(1, 2, 3)", SafeCSSValue("rgb(1, 2, 3)", "x"))
	assert.Equal(t, "x", SafeCSSValue("red;}</style><script>", "x"))
	assert.Equal(t, "x", SafeCSSValue("url(javascript:1)", "x"))
	assert.Equal(t, "x", SafeCSSValue("", "x"))
}

func TestSafeImageURL(t *testing.T) {
	assert.Equal(t, "https://images.unsplash.com/photo-1?w=1600", SafeImageURL(" https://images.unsplash.com/photo-1?w=1600 "))
	assert.Equal(t, "https://cdn.example/a%27%29%3Bposition:fixed%3B%28.jpg", SafeImageURL("https://cdn.example/a');position:fixed;(.jpg"))
	assert.Empty(t, SafeImageURL("javascript:alert(1)"))
	assert.Empty(t, SafeImageURL("x');position:fixed;top:0;left:0;width:100%;height:100%;background:red;('"))
	assert.Empty(t, SafeImageURL("//cdn.example/a.jpg"))
	assert.Empty(t, SafeImageURL(""))
}
