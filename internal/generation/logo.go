package generation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/logo"
	"github.com/kapu/astroweb-go/internal/prompt"
	"github.com/kapu/astroweb-go/internal/service/ai"
	"github.com/kapu/astroweb-go/pkg/errors"
)

// LogoGenerator asks the model for a square SVG lettermark.
type LogoGenerator struct {
	gen    TextGenerator
	model  string
	logger *zap.Logger
}

// NewLogoGenerator uses model for logo calls; empty means the provider default.
func NewLogoGenerator(gen TextGenerator, model string, logger *zap.Logger) *LogoGenerator {
	return &LogoGenerator{gen: gen, model: model, logger: logger}
}

// Generate returns sanitized SVG markup sized to constants.LogoConfig.Size.
// Every failure is a LOGO_GENERATION_FAILED error.
func (g *LogoGenerator) Generate(ctx context.Context, branding domain.Branding, style domain.ThemeStyle) (string, error) {
	brand := strings.TrimSpace(branding.LogoText)
	if brand == "" {
		return "", errors.NewLogoGenerationFailed(brand, logo.ErrEmpty)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.GenerationConfig.LogoTimeout)
	defer cancel()

	if len([]rune(brand)) > constants.AIInputLimits.MaxBrandLength {
		brand = string([]rune(brand)[:constants.AIInputLimits.MaxBrandLength])
	}

	system, user := prompt.LogoInstruction(brand, branding.PrimaryColor, branding.SecondaryColor, style)
	text, _, err := g.gen.GenerateText(ctx, ai.Request{
		System: system,
		User:   user,
		Preset: ai.PresetPrecise,
		Model:  g.model,
	})
	if err != nil {
		return "", errors.NewLogoGenerationFailed(brand, err)
	}

	svg, err := logo.Resize(StripFences(text), constants.LogoConfig.Size)
	if err != nil {
		g.logger.Debug("Logo output rejected",
			zap.String("brand", brand),
			zap.String("snippet", snippet(text)),
		)
		return "", errors.NewLogoGenerationFailed(brand, err)
	}
	return svg, nil
}
