package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"SCRUTOR_GEMINI_API_KEY", "GOOGLE_API_KEY", "SCRUTOR_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(name, "")
	}
}

func TestFactory_DetectProvider(t *testing.T) {
	config := common.NewDefaultConfig()
	f := NewFactory(config, nil, arbor.NewLogger())

	tests := []struct {
		model    string
		expected common.LLMProvider
	}{
		{"gemini-2.5-flash", common.LLMProviderGemini},
		{"gemini/gemini-2.5-pro", common.LLMProviderGemini},
		{"google/gemini-2.0-flash", common.LLMProviderGemini},
		{"claude-haiku-3-5-20241022", common.LLMProviderClaude},
		{"claude/claude-sonnet-4-20250514", common.LLMProviderClaude},
		{"anthropic/claude-sonnet-4-20250514", common.LLMProviderClaude},
		{"GEMINI-2.5-FLASH", common.LLMProviderGemini},
		{"", common.LLMProviderGemini},
		{"some-unknown-model", common.LLMProviderGemini},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.DetectProvider(tt.model))
		})
	}
}

func TestFactory_DetectProvider_DefaultFromConfig(t *testing.T) {
	config := common.NewDefaultConfig()
	config.LLM.DefaultProvider = common.LLMProviderClaude
	f := NewFactory(config, nil, arbor.NewLogger())

	assert.Equal(t, common.LLMProviderClaude, f.DetectProvider(""))
	assert.Equal(t, common.LLMProviderGemini, f.DetectProvider("gemini-2.5-flash"))
}

func TestFactory_NormalizeModel(t *testing.T) {
	f := NewFactory(common.NewDefaultConfig(), nil, arbor.NewLogger())

	assert.Equal(t, "gemini-2.5-pro", f.NormalizeModel("gemini/gemini-2.5-pro"))
	assert.Equal(t, "claude-sonnet-4-20250514", f.NormalizeModel("anthropic/claude-sonnet-4-20250514"))
	assert.Equal(t, "gemini-2.5-flash", f.NormalizeModel("gemini-2.5-flash"))
}

func TestFactory_DefaultModel(t *testing.T) {
	config := common.NewDefaultConfig()
	f := NewFactory(config, nil, arbor.NewLogger())

	assert.Equal(t, config.Gemini.Model, f.DefaultModel(common.LLMProviderGemini))
	assert.Equal(t, config.Claude.Model, f.DefaultModel(common.LLMProviderClaude))
}

func TestClient_ResolvedModel(t *testing.T) {
	config := common.NewDefaultConfig()
	c := NewClient(config, nil, arbor.NewLogger())

	assert.Equal(t, "gemini-2.5-flash", c.ResolvedModel(""))
	assert.Equal(t, "gemini-2.5-pro", c.ResolvedModel("gemini/gemini-2.5-pro"))
	assert.Equal(t, "claude-haiku-3-5-20241022", c.ResolvedModel("claude-haiku-3-5-20241022"))
}

func TestClient_AnalyzeEmptyPrompt(t *testing.T) {
	c := NewClient(common.NewDefaultConfig(), nil, arbor.NewLogger())

	_, err := c.Analyze(context.Background(), "   \n", interfaces.AnalyzeOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestClient_AnalyzeMissingCredential(t *testing.T) {
	clearKeyEnv(t)

	config := common.NewDefaultConfig()
	config.Gemini.APIKey = ""
	c := NewClient(config, nil, arbor.NewLogger())

	_, err := c.Analyze(context.Background(), "analyze this", interfaces.AnalyzeOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMissingCredential)
}

func TestClient_HealthCheckReportsMissingCredential(t *testing.T) {
	clearKeyEnv(t)

	config := common.NewDefaultConfig()
	c := NewClient(config, nil, arbor.NewLogger())

	err := c.HealthCheck(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMissingCredential)
}

func TestClient_Close(t *testing.T) {
	c := NewClient(common.NewDefaultConfig(), nil, arbor.NewLogger())
	assert.NoError(t, c.Close())
}
