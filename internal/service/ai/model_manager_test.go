package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/util"
	apperrors "github.com/kapu/astroweb-go/pkg/errors"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int
	last  Request
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, req Request) (ProviderResult, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return ProviderResult{}, f.err
	}
	return ProviderResult{Text: f.text, Model: f.name + "-model"}, nil
}

func (f *fakeProvider) Ping(context.Context) bool { return f.err == nil }

func TestGenerateTextPrimary(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", text: `{"ok":true}`}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	req := Request{System: "sys", User: "Modern gym", Preset: PresetCreative, JSONMode: true}
	text, meta, err := mm.GenerateText(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, "Gemini", meta.Provider)
	assert.False(t, meta.UsedFallback)
	assert.Equal(t, req, primary.last)
}

func TestGenerateTextFallback(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: errors.New("503 Service Unavailable")}
	fallback := &fakeProvider{name: "OpenAI", text: "{}"}
	mm := NewModelManagerWithProviders(primary, fallback, zap.NewNop())

	text, meta, err := mm.GenerateText(context.Background(), Request{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
	assert.True(t, meta.UsedFallback)
	assert.Equal(t, "OpenAI", meta.Provider)
	assert.Equal(t, util.CircuitStateClosed, mm.GetCircuitStatus().State)
}

func TestGenerateTextEmptyResponseIsFailure(t *testing.T) {
	mm := NewModelManagerWithProviders(&fakeProvider{name: "Gemini", text: "  "}, nil, zap.NewNop())

	_, _, err := mm.GenerateText(context.Background(), Request{User: "x"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeService, apperrors.CodeOf(err))
}

func TestCircuitOpensOnRepeatedOutages(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: errors.New(`Error 503, Message: overloaded, "code": 503`)}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, _, err := mm.GenerateText(context.Background(), Request{User: "x"})
		require.Error(t, err)
	}
	assert.Equal(t, util.CircuitStateOpen, mm.GetCircuitStatus().State)

	_, _, err := mm.GenerateText(context.Background(), Request{User: "x"})
	require.Error(t, err)
	assert.Equal(t, 3, primary.calls)

	mm.ResetCircuit()
	assert.Equal(t, util.CircuitStateClosed, mm.GetCircuitStatus().State)
}

func TestClientErrorsDoNotTripCircuit(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: errors.New("400 Bad Request: invalid argument")}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, _, _ = mm.GenerateText(context.Background(), Request{User: "x"})
	}
	assert.Equal(t, util.CircuitStateClosed, mm.GetCircuitStatus().State)
	assert.Equal(t, 5, primary.calls)
}

func TestFailureClassification(t *testing.T) {
	cases := []struct {
		msg       string
		service   bool
		rateLimit bool
	}{
		{"context deadline exceeded", true, false},
		{"429 Too Many Requests", true, true},
		{"You exceeded your current quota", true, true},
		{`{"error": {"code": 500}}`, true, false},
		{"502 Bad Gateway", true, false},
		{"400 Bad Request", false, false},
		{"invalid api key", false, false},
	}
	for _, tc := range cases {
		err := errors.New(tc.msg)
		assert.Equal(t, tc.service, isServiceFailure(err), tc.msg)
		assert.Equal(t, tc.rateLimit, isRateLimitError(err), tc.msg)
	}
	assert.False(t, isServiceFailure(nil))
}

func TestNewModelManagerRequiresProvider(t *testing.T) {
	_, err := NewModelManager(context.Background(), ModelManagerConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestOpenAIOnlyManager(t *testing.T) {
	mm, err := NewModelManager(context.Background(), ModelManagerConfig{
		OpenAIAPIKey:  "sk-test",
		OpenAIBaseURL: "https://openrouter.ai/api/v1",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "OpenAI-compatible", mm.ProviderName())
}

func TestPresetConfig(t *testing.T) {
	assert.Equal(t, GetPresetConfig(PresetBalanced), GetPresetConfig("unknown"))
	assert.Equal(t, float32(0.7), GetOpenAIPresetConfig(PresetCreative).Temperature)
	assert.True(t, isReasoningModel("openai/gpt-5-mini"))
	assert.False(t, isReasoningModel("gpt-4o-mini"))
}
