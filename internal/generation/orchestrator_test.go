package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/service/ai"
	apperrors "github.com/kapu/astroweb-go/pkg/errors"
)

const gymReply = "```json\n" + `{
  "theme": "dark",
  "themeStyle": "minimal",
  "primaryColor": "#ef4444",
  "branding": {"logoText": "Iron Pulse", "primaryColor": "#ef4444", "secondaryColor": "#111827", "fontStyle": "bold"},
  "sections": [
    {"type": "hero", "headline": "Train Harder", "subtext": "Open 24/7", "cta": {"text": "Join Now"}, "imageQuery": "modern gym"},
    {"type": "features", "headline": "Why Iron Pulse", "features": [
      {"title": "Coaching", "description": "Certified trainers", "icon": "💪"},
      {"title": "Recovery", "description": "Sauna and ice baths"}
    ]},
    {"type": "pricing", "headline": "Memberships", "pricingOptions": [
      {"name": "Basic", "price": "$29", "features": ["Gym floor"]},
      {"name": "Pro", "price": "$59", "features": ["Classes", "Sauna"], "highlight": {"text": "Best"}},
      {"name": "Elite", "price": "$99", "features": "Everything"}
    ]},
    {"type": "testimonials", "testimonials": [{"name": "Mina", "role": "Member", "review": "Life changing"}]},
    {"type": "contact", "contactDetails": {"phone": "+82 2 555 0100", "email": "hi@ironpulse.kr"}}
  ]
}` + "\n```"

const logoSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 48 48" width="64" height="64"><rect width="48" height="48" rx="10" fill="#ef4444"/><text x="24" y="32">IP</text></svg>`

func newTestOrchestrator(gen *scriptedGenerator, allowance *memoryAllowance, opts ...Option) *Orchestrator {
	return NewOrchestrator(gen, allowance, zap.NewNop(), opts...)
}

func TestGenerateGymSite(t *testing.T) {
	gen := &scriptedGenerator{
		layouts: []scriptedReply{{text: gymReply}},
		logos:   []scriptedReply{{text: "```svg\n" + logoSVG + "\n```"}},
	}
	allowance := newMemoryAllowance(map[string]int64{"u1": 5})
	images := &stubImages{url: "https://images.example/gym.jpg"}
	records := newMemoryRecords()
	o := newTestOrchestrator(gen, allowance,
		WithImages(images),
		WithLogos(NewLogoGenerator(gen, "logo-model", zap.NewNop())),
		WithRecords(records),
	)

	res, err := o.Generate(context.Background(), Request{
		Identity:   "u1",
		Prompt:     "Create a modern website for a gym called Iron Pulse with pricing plans",
		ThemeStyle: domain.ThemeStyleBold,
		Save:       true,
		WithLogo:   true,
		WithImage:  true,
	})
	require.NoError(t, err)

	l := res.Layout
	assert.Equal(t, []domain.SectionType{
		domain.SectionHero, domain.SectionFeatures, domain.SectionPricing, domain.SectionTestimonials, domain.SectionContact,
	}, l.SectionTypes())
	assert.Equal(t, domain.ThemeStyleBold, l.ThemeStyle, "requested style wins over the model's")
	assert.Equal(t, "Iron Pulse", l.SiteName())
	assert.Equal(t, int64(4), res.Balance)

	hero, ok := l.Hero()
	require.True(t, ok)
	assert.Equal(t, "https://images.example/gym.jpg", hero.ImageURL)
	assert.Equal(t, []string{"modern gym"}, images.queries)

	pricing := l.Find(domain.SectionPricing).(*domain.PricingSection)
	require.Len(t, pricing.PricingOptions, 3)
	assert.Equal(t, []string{"Everything"}, pricing.PricingOptions[2].Features)
	highlighted := 0
	for _, p := range pricing.PricingOptions {
		if p.Highlight != nil {
			highlighted++
		}
	}
	assert.Equal(t, 1, highlighted)

	assert.True(t, l.Branding.HasLogo())
	assert.Contains(t, l.Branding.Logo, `width="48"`)
	logoCalls := gen.calls(ai.PresetPrecise)
	require.Len(t, logoCalls, 1)
	assert.Equal(t, "logo-model", logoCalls[0].Model)
	assert.Contains(t, logoCalls[0].User, "Iron Pulse")

	layoutCalls := gen.calls(ai.PresetCreative)
	require.Len(t, layoutCalls, 1)
	assert.True(t, layoutCalls[0].JSONMode)
	assert.Equal(t, "Create a modern website for a gym called Iron Pulse with pricing plans", layoutCalls[0].User)
	assert.Contains(t, layoutCalls[0].System, "bold")

	require.NotNil(t, res.Record)
	assert.NoError(t, res.SaveError)
	stored, err := records.Get(context.Background(), res.Record.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Iron Pulse", stored.SiteName)
}

func TestGenerateRecolorKeepsStructure(t *testing.T) {
	gen := &scriptedGenerator{
		layouts: []scriptedReply{{text: gymReply}},
		logos:   []scriptedReply{{text: logoSVG}},
	}
	allowance := newMemoryAllowance(map[string]int64{"u1": 5})
	records := newMemoryRecords()
	o := newTestOrchestrator(gen, allowance, WithRecords(records), WithLogos(NewLogoGenerator(gen, "", zap.NewNop())))

	first, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "gym site", ThemeStyle: domain.ThemeStyleBold, Save: true, WithLogo: true})
	require.NoError(t, err)
	require.Equal(t, domain.ThemeStyleBold, first.Layout.ThemeStyle)

	recolored := strings.ReplaceAll(gymReply, "#ef4444", "#22c55e")
	gen.layouts = []scriptedReply{{text: recolored}}
	gen.logos = []scriptedReply{{text: strings.ReplaceAll(logoSVG, "#ef4444", "#22c55e")}}

	prev := first.Layout
	second, err := o.Generate(context.Background(), Request{
		Identity: "u1",
		Prompt:   "make it green",
		Previous: &prev,
		RecordID: first.Record.ID,
		WithLogo: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "#22c55e", second.Layout.PrimaryColor)
	assert.Equal(t, first.Layout.SectionTypes(), second.Layout.SectionTypes())
	assert.Equal(t, domain.ThemeStyleBold, second.Layout.ThemeStyle, "style is kept when the request names none")
	assert.Equal(t, int64(3), second.Balance)

	// Apart from colors and the redrawn logo, the layout is unchanged.
	withoutLogo := func(l domain.Layout) string {
		l.Branding.Logo = ""
		raw, err := json.Marshal(l)
		require.NoError(t, err)
		return string(raw)
	}
	assert.Equal(t, strings.ReplaceAll(withoutLogo(first.Layout), "#ef4444", "#22c55e"), withoutLogo(second.Layout))

	modify := gen.calls(ai.PresetCreative)[1]
	assert.Contains(t, modify.System, "modifying an existing website")
	assert.Contains(t, modify.System, `"logoText": "Iron Pulse"`)
	assert.Equal(t, "make it green", modify.User)

	// The color changed, so the logo was redrawn.
	assert.Len(t, gen.calls(ai.PresetPrecise), 2)
	assert.Contains(t, second.Layout.Branding.Logo, "#22c55e")

	require.NotNil(t, second.Record)
	assert.Equal(t, first.Record.ID, second.Record.ID)
	assert.Equal(t, 1, records.updates)
	list, err := records.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerateModifyExplicitStyleWins(t *testing.T) {
	gen := &scriptedGenerator{layouts: []scriptedReply{{text: gymReply}}}
	o := newTestOrchestrator(gen, newMemoryAllowance(map[string]int64{"u1": 1}))

	prev := domain.Layout{ThemeStyle: domain.ThemeStyleBold}
	res, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "softer", ThemeStyle: "Elegant", Previous: &prev})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeStyleElegant, res.Layout.ThemeStyle)
}

func TestGenerateReusesLogoWhenBrandUnchanged(t *testing.T) {
	gen := &scriptedGenerator{layouts: []scriptedReply{{text: gymReply}}}
	o := newTestOrchestrator(gen, newMemoryAllowance(map[string]int64{"u1": 2}), WithLogos(NewLogoGenerator(gen, "", zap.NewNop())))

	prev := domain.Layout{Branding: domain.Branding{LogoText: "IRON PULSE", PrimaryColor: "#EF4444", Logo: "<svg>old</svg>"}}
	res, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "shorter headline", Previous: &prev, WithLogo: true})
	require.NoError(t, err)
	assert.Equal(t, "<svg>old</svg>", res.Layout.Branding.Logo)
	assert.Empty(t, gen.calls(ai.PresetPrecise))
}

func TestGenerateLogoFailureIsSoft(t *testing.T) {
	gen := &scriptedGenerator{
		layouts: []scriptedReply{{text: gymReply}},
		logos:   []scriptedReply{{text: "Sure! Here is your logo: <svg></svg>"}},
	}
	o := newTestOrchestrator(gen, newMemoryAllowance(map[string]int64{"u1": 1}), WithLogos(NewLogoGenerator(gen, "", zap.NewNop())))

	res, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "gym", WithLogo: true})
	require.NoError(t, err)
	assert.False(t, res.Layout.Branding.HasLogo())
	assert.Equal(t, int64(0), res.Balance)
}

func TestGenerateImageFailureIsSoft(t *testing.T) {
	gen := &scriptedGenerator{layouts: []scriptedReply{{text: gymReply}}}
	o := newTestOrchestrator(gen, newMemoryAllowance(map[string]int64{"u1": 1}), WithImages(&stubImages{err: errors.New("timeout")}))

	res, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "gym", WithImage: true})
	require.NoError(t, err)
	hero, _ := res.Layout.Hero()
	assert.Empty(t, hero.ImageURL)
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		code string
	}{
		{name: "missing identity", req: Request{Prompt: "gym"}, code: apperrors.CodeUnauthorized},
		{name: "blank prompt", req: Request{Identity: "u1", Prompt: "  \n"}, code: apperrors.CodeInvalidInput},
		{name: "prompt too long", req: Request{Identity: "u1", Prompt: strings.Repeat("가", 2001)}, code: apperrors.CodeInvalidInput},
		{name: "no credits", req: Request{Identity: "broke", Prompt: "gym"}, code: apperrors.CodeInsufficientAllowance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{layouts: []scriptedReply{{text: gymReply}}}
			o := newTestOrchestrator(gen, newMemoryAllowance(map[string]int64{"u1": 3, "broke": 0}))

			_, err := o.Generate(context.Background(), tt.req)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.Empty(t, gen.requests, "model must not be called")
		})
	}
}

func TestGenerateInvalidStyleFallsBack(t *testing.T) {
	gen := &scriptedGenerator{layouts: []scriptedReply{{text: gymReply}}}
	o := newTestOrchestrator(gen, newMemoryAllowance(map[string]int64{"u1": 1}))

	res, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "gym", ThemeStyle: "neon"})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeStyleCorporate, res.Layout.ThemeStyle)
}

func TestGenerateFailuresDoNotSpendCredits(t *testing.T) {
	tests := []struct {
		name  string
		reply scriptedReply
		code  string
	}{
		{name: "model error", reply: scriptedReply{err: errors.New("upstream 500")}, code: apperrors.CodeGenerationFailed},
		{name: "prose", reply: scriptedReply{text: "I'd love to help you build a gym website!"}, code: apperrors.CodeMalformedModelOutput},
		{name: "truncated", reply: scriptedReply{text: `{"sections": [{"type": "hero"`}, code: apperrors.CodeMalformedModelOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{layouts: []scriptedReply{tt.reply}}
			allowance := newMemoryAllowance(map[string]int64{"u1": 2})
			o := newTestOrchestrator(gen, allowance)

			_, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "gym"})
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.Equal(t, int64(2), allowance.balances["u1"])
			assert.Len(t, gen.requests, 1, "malformed output is not retried")
		})
	}
}

func TestGenerateNonObjectOutputIsNormalized(t *testing.T) {
	gen := &scriptedGenerator{layouts: []scriptedReply{{text: `[1, 2, 3]`}}}
	o := newTestOrchestrator(gen, newMemoryAllowance(map[string]int64{"u1": 1}))

	res, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "anything"})
	require.NoError(t, err)
	assert.Empty(t, res.Layout.Sections)
	assert.NotEmpty(t, res.Layout.Branding.LogoText)
}

func TestGenerateForeignRecordRejectedBeforeModelCall(t *testing.T) {
	records := newMemoryRecords()
	ref, err := records.Create(context.Background(), "owner", "p", domain.Layout{})
	require.NoError(t, err)

	gen := &scriptedGenerator{layouts: []scriptedReply{{text: gymReply}}}
	allowance := newMemoryAllowance(map[string]int64{"intruder": 3})
	o := newTestOrchestrator(gen, allowance, WithRecords(records))

	_, err = o.Generate(context.Background(), Request{Identity: "intruder", Prompt: "gym", RecordID: ref.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.Empty(t, gen.requests)
	assert.Equal(t, int64(3), allowance.balances["intruder"])
}

func TestGenerateSaveFailureKeepsLayout(t *testing.T) {
	records := newMemoryRecords()
	records.fail = apperrors.NewStorageFailure("create", errors.New("disk full"))
	gen := &scriptedGenerator{layouts: []scriptedReply{{text: gymReply}}}
	o := newTestOrchestrator(gen, newMemoryAllowance(map[string]int64{"u1": 1}), WithRecords(records))

	res, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "gym", Save: true})
	require.NoError(t, err)
	assert.Nil(t, res.Record)
	assert.True(t, apperrors.HasCode(res.SaveError, apperrors.CodeStorageFailure))
	assert.Equal(t, "Iron Pulse", res.Layout.SiteName())
}

func TestGeneratedLayoutSurvivesStorageRoundTrip(t *testing.T) {
	gen := &scriptedGenerator{layouts: []scriptedReply{{text: gymReply}}}
	o := newTestOrchestrator(gen, newMemoryAllowance(map[string]int64{"u1": 1}))

	res, err := o.Generate(context.Background(), Request{Identity: "u1", Prompt: "gym", ThemeStyle: domain.ThemeStyleElegant})
	require.NoError(t, err)

	raw, err := json.Marshal(res.Layout)
	require.NoError(t, err)
	assert.Equal(t, res.Layout, renormalize(res.Layout))
	assert.Contains(t, string(raw), `"themeStyle":"elegant"`)
}
