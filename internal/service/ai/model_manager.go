package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/util"
	apperrors "github.com/kapu/astroweb-go/pkg/errors"
)

// ModelManager routes generation calls to a primary provider, falls back to a
// secondary one, and stops calling upstream while the circuit is open.
type ModelManager struct {
	primary        Provider
	fallback       Provider
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	EnableFallback bool
}

var ErrNoProvider = errors.New("no AI provider configured")

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	var providers []Provider

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		model := cfg.GeminiModel
		if model == "" {
			model = "gemini-2.5-flash"
		}
		providers = append(providers, NewGeminiProvider(client, model, logger))
	}

	model := cfg.OpenAIModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	if p := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model, logger); p != nil {
		providers = append(providers, p)
		logger.Info("OpenAI-compatible provider enabled", zap.String("model", model), zap.String("base_url", cfg.OpenAIBaseURL))
	}

	if len(providers) == 0 {
		return nil, ErrNoProvider
	}

	var fallback Provider
	if cfg.EnableFallback && len(providers) > 1 {
		fallback = providers[1]
	}
	return NewModelManagerWithProviders(providers[0], fallback, logger), nil
}

// NewModelManagerWithProviders builds a manager over already constructed providers.
// fallback may be nil.
func NewModelManagerWithProviders(primary, fallback Provider, logger *zap.Logger) *ModelManager {
	mm := &ModelManager{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
	mm.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		mm.healthCheckPing,
		logger,
	)
	return mm
}

// ProviderName names the primary provider for logs and error context.
func (mm *ModelManager) ProviderName() string {
	if mm.primary == nil {
		return ""
	}
	return mm.primary.Name()
}

// GenerateText returns the raw model text. Callers own parsing.
func (mm *ModelManager) GenerateText(ctx context.Context, req Request) (string, *GenerateMetadata, error) {
	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		mm.logger.Error("AI service unavailable (Circuit OPEN)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
		)
		return "", nil, apperrors.NewServiceError("AI service temporarily unavailable", "ai", "generate", nil)
	}

	result, primaryErr := mm.invoke(ctx, mm.primary, req)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return result.Text, &GenerateMetadata{Provider: mm.primary.Name(), Model: result.Model}, nil
	}

	if mm.fallback != nil {
		mm.logger.Warn("Primary provider failed, trying fallback",
			zap.String("primary", mm.primary.Name()),
			zap.Error(primaryErr),
		)
		result, fallbackErr := mm.invoke(ctx, mm.fallback, req)
		if fallbackErr == nil {
			mm.circuitBreaker.RecordSuccess()
			return result.Text, &GenerateMetadata{Provider: mm.fallback.Name(), Model: result.Model, UsedFallback: true}, nil
		}

		mm.recordFailure(primaryErr)
		mm.recordFailure(fallbackErr)
		return "", nil, apperrors.NewServiceError("all AI providers failed", "ai", "generate", fallbackErr)
	}

	mm.recordFailure(primaryErr)
	return "", nil, apperrors.NewServiceError("AI provider failed", "ai", "generate", primaryErr)
}

func (mm *ModelManager) invoke(ctx context.Context, provider Provider, req Request) (ProviderResult, error) {
	if provider == nil {
		return ProviderResult{}, fmt.Errorf("model provider is not configured")
	}
	result, err := provider.Generate(ctx, req)
	if err != nil {
		return ProviderResult{}, err
	}
	if strings.TrimSpace(result.Text) == "" {
		return ProviderResult{}, fmt.Errorf("%s returned empty response", provider.Name())
	}
	return result, nil
}

func (mm *ModelManager) recordFailure(err error) {
	if !isServiceFailure(err) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if isRateLimitError(err) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}

	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) healthCheckPing() bool {
	mm.logger.Info("Health Check: Testing AI services...")

	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	primaryOK := mm.primary != nil && mm.primary.Ping(ctx)
	fallbackOK := mm.fallback != nil && mm.fallback.Ping(ctx)

	mm.logger.Info("Health Check: Result",
		zap.Bool("primary", primaryOK),
		zap.Bool("fallback", fallbackOK),
	)
	return primaryOK || fallbackOK
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}

var (
	statusRegex     = regexp.MustCompile(`\b(5\d{2})\b`)
	geminiCodeRegex = regexp.MustCompile(`"code":\s*(\d{3})`)
	openaiCodeRegex = regexp.MustCompile(`^(\d{3})\s`)
)

// isServiceFailure reports upstream outages (timeouts, 5xx, 429) as opposed to
// request errors that would fail again on retry.
func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}
	if isRateLimitError(err) {
		return true
	}
	if statusRegex.MatchString(msg) {
		return true
	}
	if code, ok := embeddedStatus(msg); ok {
		return code >= 500 && code < 600
	}
	return false
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") {
		return true
	}
	code, ok := embeddedStatus(msg)
	return ok && code == 429
}

func embeddedStatus(msg string) (int, bool) {
	for _, re := range []*regexp.Regexp{geminiCodeRegex, openaiCodeRegex} {
		if m := re.FindStringSubmatch(msg); len(m) > 1 {
			if code, err := strconv.Atoi(m[1]); err == nil {
				return code, true
			}
		}
	}
	return 0, false
}
