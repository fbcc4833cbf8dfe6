package prompt

import (
	"fmt"
	"strings"

	"github.com/kapu/astroweb-go/internal/domain"
)

func FallbackLayoutInstruction(data LayoutPromptData) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional website architect.

Return ONLY valid JSON.
Do not add explanation.
Do not wrap in markdown.
Every field must be filled with real content.

Theme style: %s
Tone: %s

Format:
{
  "theme": "light or dark",
  "themeStyle": "%s",
  "primaryColor": "hex color",
  "branding": { "logoText": "...", "primaryColor": "hex color", "secondaryColor": "hex color", "fontStyle": "normal" },
  "sections": [
    { "type": "hero", "headline": "...", "subtext": "...", "imageQuery": "...", "cta": { "text": "..." } },
    { "type": "features", "headline": "...", "features": [ { "title": "...", "description": "...", "icon": "..." } ] },
    { "type": "pricing", "headline": "...", "pricingOptions": [ { "name": "...", "price": "...", "features": ["..."] } ] },
    { "type": "testimonials", "headline": "...", "testimonials": [ { "name": "...", "role": "...", "review": "..." } ] },
    { "type": "contact", "headline": "...", "contactDetails": { "phone": "...", "email": "...", "address": "..." } }
  ]
}`, data.ThemeStyle, data.Style.Tone, data.ThemeStyle)

	if data.Previous != "" {
		fmt.Fprintf(&b, `

The user is modifying an existing website. Its current layout is:
%s

Change ONLY what the user asks for. Keep everything else exactly the same.`, data.Previous)
	}
	return b.String()
}

func FallbackLogoSystem(data LogoSystemData) string {
	return fmt.Sprintf(`You are an expert SVG logo designer.
Return ONLY the raw SVG code starting with <svg. No markdown.
SVG must use viewBox="%s" width="%d" height="%d".
Create a lettermark using 1-2 letters from the brand name.`, data.ViewBox, data.Size, data.Size)
}

func FallbackLogoUser(data LogoUserData) string {
	return fmt.Sprintf(`Create a lettermark logo for:
Brand name: %q
Primary color: %s
Secondary color: %s
Theme style: %s`, data.BrandName, data.PrimaryColor, data.SecondaryColor, data.ThemeStyle)
}

func fallbackGuides() []StyleGuide {
	guides := make([]StyleGuide, 0, len(domain.ThemeStyles()))
	for _, s := range domain.ThemeStyles() {
		guides = append(guides, StyleGuide{Style: s, Tone: "professional", Logo: "clean lettermark"})
	}
	return guides
}
