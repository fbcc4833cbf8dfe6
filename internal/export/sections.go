package export

import (
	"fmt"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/render"
)

func (d *document) button(cta *domain.CTAButton, href string) {
	if cta == nil {
		return
	}
	d.printf(`<a data-cta href="%s" class="btn" style="%s">%s</a>
`, esc(href), esc(render.ButtonCSS(cta.Style)), esc(cta.Text))
}

func writeHero(d *document, index int, s domain.Section) {
	hero, ok := s.(*domain.HeroSection)
	if !ok {
		return
	}
	bg := ""
	if src := render.SafeImageURL(hero.ImageURL); src != "" {
		bg = fmt.Sprintf(` style="background-image:linear-gradient(rgba(0,0,0,0.55),rgba(0,0,0,0.55)),url('%s');background-size:cover;background-position:center;"`, esc(src))
	}
	d.printf(`<section data-section="hero" id="hero" class="section"%s>
<div class="container" style="min-height:70vh;display:flex;flex-direction:column;align-items:center;justify-content:center;text-align:center;max-width:800px;">
<span class="badge">%s</span>
<h1 style="font-size:clamp(36px,7vw,72px);line-height:1.1;margin-bottom:24px;">%s</h1>
`, bg, esc(d.layout.Branding.LogoText), esc(hero.Headline))
	if hero.Subtext != "" {
		d.printf(`<p style="font-size:18px;max-width:600px;margin:0 auto 36px;line-height:1.7;">%s</p>
`, esc(hero.Subtext))
	}
	d.button(hero.CTA, "#contact")
	d.sectionClose()
}

func writeFeatures(d *document, index int, s domain.Section) {
	features, ok := s.(*domain.FeaturesSection)
	if !ok {
		return
	}
	d.sectionOpen(domain.SectionFeatures, index, "")
	d.sectionHead("Features", features.Headline)
	d.b.WriteString(`<div class="grid">` + "\n")
	for _, f := range features.Features {
		d.b.WriteString(`<div class="card" data-item="feature">`)
		if f.Icon != "" {
			d.printf(`<div style="font-size:28px;margin-bottom:16px;width:52px;height:52px;display:flex;align-items:center;justify-content:center;background:%s18;border-radius:12px;">%s</div>`, d.primary, esc(f.Icon))
		}
		d.printf(`<h3 style="font-size:16px;margin-bottom:8px;">%s</h3>`, esc(f.Title))
		if f.Description != "" {
			d.printf(`<p style="font-size:14px;line-height:1.6;">%s</p>`, esc(f.Description))
		}
		d.b.WriteString("</div>\n")
	}
	d.b.WriteString("</div>\n")
	d.sectionClose()
}

func writePricing(d *document, index int, s domain.Section) {
	pricing, ok := s.(*domain.PricingSection)
	if !ok {
		return
	}
	d.sectionOpen(domain.SectionPricing, index, "")
	d.sectionHead("Pricing", pricing.Headline)
	d.b.WriteString(`<div class="grid" style="align-items:start;">` + "\n")
	for _, plan := range pricing.PricingOptions {
		highlighted := plan.Highlight != nil
		textColor := d.palette.Text
		cardStyle := "position:relative;"
		if highlighted {
			accent := render.SafeCSSValue(plan.Highlight.Color, d.primary)
			textColor = "#ffffff"
			cardStyle += fmt.Sprintf("background:%s;border-color:transparent;box-shadow:0 20px 60px %s44;transform:scale(1.03);", accent, accent)
		}
		d.printf(`<div class="card" data-item="plan" style="%s">`, cardStyle)
		if highlighted {
			d.printf(`<div data-highlight style="position:absolute;top:-16px;left:50%%;transform:translateX(-50%%);background:#ffffff;color:%s;font-size:12px;font-weight:700;padding:6px 16px;border-radius:999px;white-space:nowrap;">%s</div>`,
				render.SafeCSSValue(plan.Highlight.Color, d.primary), esc(plan.Highlight.Text))
		}
		d.printf(`<h3 style="font-size:20px;margin-bottom:6px;color:%s;">%s</h3>`, textColor, esc(plan.Name))
		d.printf(`<div style="font-size:38px;font-weight:800;margin-bottom:12px;color:%s;">%s</div>`, textColor, esc(plan.Price))
		if plan.Description != "" {
			d.printf(`<p style="font-size:14px;margin-bottom:20px;opacity:0.75;">%s</p>`, esc(plan.Description))
		}
		d.b.WriteString(`<ul style="list-style:none;margin:20px 0 28px;">`)
		for _, feat := range plan.Features {
			d.printf(`<li style="display:flex;align-items:center;gap:10px;margin-bottom:12px;font-size:14px;color:%s;"><span style="color:%s;font-weight:700;">&#10003;</span>%s</li>`,
				textColor, d.checkColor(highlighted), esc(feat))
		}
		d.b.WriteString("</ul>")
		d.printf(`<a href="#contact" style="display:block;text-align:center;padding:12px;font-weight:700;font-size:14px;%s">%s</a>`,
			esc(d.planButtonCSS(plan)), esc(render.NavCTA))
		d.b.WriteString("</div>\n")
	}
	d.b.WriteString("</div>\n")
	d.sectionClose()
}

func (d *document) checkColor(highlighted bool) string {
	if highlighted {
		return "#ffffff"
	}
	return d.primary
}

func (d *document) planButtonCSS(p domain.PricingPlan) string {
	if p.Style != nil {
		return render.ButtonCSS(*p.Style)
	}
	if p.Highlight != nil {
		return fmt.Sprintf("background:#ffffff;color:%s;border-radius:12px;", d.primary)
	}
	return fmt.Sprintf("background:%s;color:#ffffff;border-radius:12px;", d.primary)
}

func writeTestimonials(d *document, index int, s domain.Section) {
	testimonials, ok := s.(*domain.TestimonialsSection)
	if !ok {
		return
	}
	d.sectionOpen(domain.SectionTestimonials, index, "")
	d.sectionHead("Testimonials", testimonials.Headline)
	d.b.WriteString(`<div class="grid">` + "\n")
	for _, t := range testimonials.Testimonials {
		accent := render.SafeCSSValue(t.Style.AccentColor, d.primary)
		d.printf(`<div class="card" data-item="testimonial" style="border-left:4px solid %s;">`, accent)
		d.printf(`<p style="font-size:14px;line-height:1.7;margin-bottom:20px;">%s</p>`, esc(t.Review))
		d.printf(`<div style="display:flex;align-items:center;gap:12px;"><div style="width:36px;height:36px;border-radius:50%%;background:%s;display:flex;align-items:center;justify-content:center;font-size:13px;font-weight:700;color:#ffffff;">%s</div><div><div style="font-size:14px;font-weight:700;">%s</div>`,
			accent, esc(t.Initial()), esc(t.Name))
		if t.Role != "" {
			d.printf(`<div style="font-size:12px;opacity:0.5;">%s</div>`, esc(t.Role))
		}
		d.b.WriteString("</div></div></div>\n")
	}
	d.b.WriteString("</div>\n")
	d.sectionClose()
}

func writeContact(d *document, index int, s domain.Section) {
	contact, ok := s.(*domain.ContactSection)
	if !ok {
		return
	}
	d.sectionOpen(domain.SectionContact, index, ` style="text-align:center;"`)
	d.sectionHead("Contact", contact.Headline)
	d.b.WriteString(`<div class="grid" style="grid-template-columns:repeat(auto-fit,minmax(220px,1fr));margin-bottom:40px;text-align:left;">` + "\n")
	details := contact.ContactDetails
	d.contactCard("phone", "Phone", details.Phone)
	d.contactCard("email", "Email", details.Email)
	d.contactCard("address", "Address", details.Address)
	d.contactCard("hours", "Hours", details.Hours.Display())
	d.b.WriteString("</div>\n")
	d.button(contact.CTA, "mailto:"+details.Email)
	d.sectionClose()
}

func (d *document) contactCard(kind, label, value string) {
	if value == "" {
		return
	}
	d.printf(`<div class="card" data-contact="%s"><p style="font-size:11px;font-weight:700;text-transform:uppercase;letter-spacing:.07em;opacity:.5;margin-bottom:4px;">%s</p><p style="font-size:14px;font-weight:600;">%s</p></div>
`, kind, esc(label), esc(value))
}
