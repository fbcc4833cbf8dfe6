// Package generation turns a natural-language prompt into a normalized layout
// and manages the stored generations built from it.
package generation

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/normalize"
	"github.com/kapu/astroweb-go/internal/prompt"
	"github.com/kapu/astroweb-go/internal/service/ai"
	"github.com/kapu/astroweb-go/internal/util"
	"github.com/kapu/astroweb-go/pkg/errors"
)

// Request describes one generation. Previous is set for modify requests.
type Request struct {
	Identity   string
	Prompt     string
	ThemeStyle domain.ThemeStyle
	Previous   *domain.Layout
	// RecordID updates that stored generation in place; it implies Save.
	RecordID  string
	Save      bool
	WithLogo  bool
	WithImage bool
}

type Result struct {
	Layout   domain.Layout
	Metadata *ai.GenerateMetadata
	Balance  int64
	// Record is set when the layout was persisted.
	Record *domain.RecordRef
	// SaveError is set when persistence failed after the credit was spent.
	SaveError error
}

type Orchestrator struct {
	gen       TextGenerator
	allowance AllowanceStore
	records   RecordStore
	images    ImageFinder
	logos     *LogoGenerator
	logger    *zap.Logger
}

type Option func(*Orchestrator)

func WithRecords(rs RecordStore) Option {
	return func(o *Orchestrator) { o.records = rs }
}

func WithImages(f ImageFinder) Option {
	return func(o *Orchestrator) { o.images = f }
}

func WithLogos(g *LogoGenerator) Option {
	return func(o *Orchestrator) { o.logos = g }
}

func NewOrchestrator(gen TextGenerator, allowance AllowanceStore, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:       gen,
		allowance: allowance,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) validate(req *Request) error {
	req.Identity = strings.TrimSpace(req.Identity)
	if req.Identity == "" {
		return errors.NewUnauthorized("missing identity")
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return errors.NewInvalidInput("prompt is required", "prompt", "")
	}
	if n := utf8.RuneCountInString(req.Prompt); n > constants.AIInputLimits.MaxPromptLength {
		return errors.NewInvalidInput("prompt is too long", "prompt", n)
	}

	// A modify request without a style keeps the current one.
	if strings.TrimSpace(string(req.ThemeStyle)) == "" && req.Previous != nil {
		req.ThemeStyle = req.Previous.ThemeStyle
	}
	req.ThemeStyle = domain.ParseThemeStyle(string(req.ThemeStyle))
	return nil
}

// Generate runs one prompt through the model. Credits are checked before the
// model call and spent only after a layout was produced.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := o.validate(&req); err != nil {
		return nil, err
	}

	balance, err := o.allowance.GetBalance(ctx, req.Identity)
	if err != nil {
		return nil, err
	}
	if balance < 1 {
		return nil, errors.NewInsufficientAllowance(req.Identity, balance)
	}

	if req.RecordID != "" {
		if o.records == nil {
			return nil, errors.NewStorageFailure("update", nil)
		}
		// Ownership is settled before anything is spent.
		if _, err := o.records.Get(ctx, req.RecordID, req.Identity); err != nil {
			return nil, err
		}
	}

	layout, meta, err := o.generateLayout(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.WithImage {
		o.attachImage(ctx, &layout, req.Previous)
	}
	if req.WithLogo {
		o.attachLogo(ctx, &layout, req.Previous)
	}

	balance, err = o.allowance.Decrement(ctx, req.Identity)
	if err != nil {
		return nil, err
	}

	result := &Result{Layout: layout, Metadata: meta, Balance: balance}
	if req.Save || req.RecordID != "" {
		result.Record, result.SaveError = o.persist(ctx, req, layout)
	}

	o.logger.Info("Layout generated",
		zap.String("identity", req.Identity),
		zap.String("style", string(layout.ThemeStyle)),
		zap.Strings("sections", sectionNames(layout)),
		zap.Bool("modify", req.Previous != nil),
		zap.Int64("balance", balance),
	)
	return result, nil
}

func (o *Orchestrator) generateLayout(ctx context.Context, req Request) (domain.Layout, *ai.GenerateMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GenerationConfig.Timeout)
	defer cancel()

	text, meta, err := o.gen.GenerateText(ctx, ai.Request{
		System:          prompt.LayoutInstruction(req.ThemeStyle, req.Previous),
		User:            req.Prompt,
		Preset:          ai.PresetCreative,
		JSONMode:        true,
		MaxOutputTokens: int(constants.GenerationConfig.MaxOutputTokens),
	})
	if err != nil {
		o.logger.Warn("Layout generation failed", zap.String("identity", req.Identity), zap.Error(err))
		return domain.Layout{}, nil, errors.NewGenerationFailed(providerOf(meta), err)
	}

	var raw any
	if err := json.Unmarshal([]byte(StripFences(text)), &raw); err != nil {
		o.logger.Warn("Model returned malformed layout",
			zap.String("identity", req.Identity),
			zap.String("snippet", snippet(text)),
		)
		return domain.Layout{}, meta, errors.NewMalformedModelOutput(snippet(text), err)
	}

	layout := normalize.Normalize(raw)
	layout.ThemeStyle = req.ThemeStyle
	return layout, meta, nil
}

// attachImage fills the hero image from its query. Lookup failures leave the hero without an image.
func (o *Orchestrator) attachImage(ctx context.Context, layout *domain.Layout, previous *domain.Layout) {
	hero, ok := layout.Hero()
	if !ok || hero.ImageURL != "" || strings.TrimSpace(hero.ImageQuery) == "" {
		return
	}

	if previous != nil {
		if prev, ok := previous.Hero(); ok && prev.ImageURL != "" && strings.EqualFold(prev.ImageQuery, hero.ImageQuery) {
			hero.ImageURL = prev.ImageURL
			return
		}
	}
	if o.images == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, constants.GenerationConfig.ImageTimeout)
	defer cancel()

	url, err := o.images.FindImage(ctx, hero.ImageQuery)
	if err != nil {
		o.logger.Warn("Hero image lookup failed", zap.String("query", hero.ImageQuery), zap.Error(err))
		return
	}
	hero.ImageURL = url
}

// attachLogo reuses the previous logo while brand name and primary color are unchanged.
func (o *Orchestrator) attachLogo(ctx context.Context, layout *domain.Layout, previous *domain.Layout) {
	if previous != nil && previous.Branding.HasLogo() &&
		strings.EqualFold(strings.TrimSpace(previous.Branding.LogoText), strings.TrimSpace(layout.Branding.LogoText)) &&
		strings.EqualFold(previous.Branding.PrimaryColor, layout.Branding.PrimaryColor) {
		layout.Branding.Logo = previous.Branding.Logo
		return
	}
	if layout.Branding.HasLogo() || o.logos == nil {
		return
	}

	svg, err := o.logos.Generate(ctx, layout.Branding, layout.ThemeStyle)
	if err != nil {
		// Soft failure: the renderers fall back to the dot glyph.
		o.logger.Warn("Logo generation failed", zap.String("brand", layout.Branding.LogoText), zap.Error(err))
		return
	}
	layout.Branding.Logo = svg
}

func (o *Orchestrator) persist(ctx context.Context, req Request, layout domain.Layout) (*domain.RecordRef, error) {
	if o.records == nil {
		return nil, errors.NewStorageFailure("save", nil)
	}

	if req.RecordID != "" {
		if err := o.records.Update(ctx, req.RecordID, req.Identity, layout, req.Prompt); err != nil {
			o.logger.Error("Failed to update generation", zap.String("id", req.RecordID), zap.Error(err))
			return nil, err
		}
		return &domain.RecordRef{ID: req.RecordID}, nil
	}

	ref, err := o.records.Create(ctx, req.Identity, req.Prompt, layout)
	if err != nil {
		o.logger.Error("Failed to save generation", zap.String("identity", req.Identity), zap.Error(err))
		return nil, err
	}
	return &ref, nil
}

func providerOf(meta *ai.GenerateMetadata) string {
	if meta == nil || meta.Provider == "" {
		return "model"
	}
	return meta.Provider
}

func snippet(text string) string {
	return util.Snippet(text, constants.GenerationConfig.SnippetLength)
}

func sectionNames(l domain.Layout) []string {
	types := l.SectionTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
