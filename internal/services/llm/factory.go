package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// Factory creates and caches providers. Providers built with a per-request
// API-key override are never cached.
type Factory struct {
	config *common.Config
	kv     interfaces.KeyValueStorage
	logger arbor.ILogger

	mu     sync.Mutex
	gemini *GeminiProvider
	claude *ClaudeProvider
}

// NewFactory creates a provider factory
func NewFactory(config *common.Config, kv interfaces.KeyValueStorage, logger arbor.ILogger) *Factory {
	return &Factory{
		config: config,
		kv:     kv,
		logger: logger,
	}
}

// DetectProvider determines the provider type from a model string.
// "claude-*" or "claude/..." selects Claude, "gemini-*" or "gemini/..."
// selects Gemini, empty or unrecognized falls back to the configured default.
func (f *Factory) DetectProvider(model string) common.LLMProvider {
	if model == "" {
		return f.config.LLM.DefaultProvider
	}

	model = strings.ToLower(model)

	if strings.HasPrefix(model, "claude/") || strings.HasPrefix(model, "anthropic/") || strings.HasPrefix(model, "claude-") {
		return common.LLMProviderClaude
	}
	if strings.HasPrefix(model, "gemini/") || strings.HasPrefix(model, "google/") || strings.HasPrefix(model, "gemini-") {
		return common.LLMProviderGemini
	}

	return f.config.LLM.DefaultProvider
}

// NormalizeModel removes a provider prefix from a model name if present
func (f *Factory) NormalizeModel(model string) string {
	prefixes := []string{"claude/", "anthropic/", "gemini/", "google/"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// DefaultModel returns the configured model identifier for a provider
func (f *Factory) DefaultModel(provider common.LLMProvider) string {
	switch provider {
	case common.LLMProviderClaude:
		return f.config.Claude.Model
	default:
		return f.config.Gemini.Model
	}
}

// Provider returns a ready provider for the given type. With an override key
// the provider is ephemeral and the caller must Close it via the returned
// cleanup; without one the provider is cached for the process lifetime and
// cleanup is a no-op.
func (f *Factory) Provider(ctx context.Context, providerType common.LLMProvider, keyOverride string) (interfaces.Provider, func(), error) {
	noop := func() {}

	switch providerType {
	case common.LLMProviderClaude:
		apiKey, err := common.ResolveAPIKey(ctx, f.kv, common.LLMProviderClaude, keyOverride, f.config.Claude.APIKey)
		if err != nil {
			return nil, noop, err
		}

		if keyOverride != "" {
			provider, err := NewClaudeProvider(&f.config.Claude, apiKey, f.logger)
			if err != nil {
				return nil, noop, err
			}
			return provider, func() { provider.Close() }, nil
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.claude == nil {
			provider, err := NewClaudeProvider(&f.config.Claude, apiKey, f.logger)
			if err != nil {
				return nil, noop, err
			}
			f.claude = provider
		}
		return f.claude, noop, nil

	case common.LLMProviderGemini:
		apiKey, err := common.ResolveAPIKey(ctx, f.kv, common.LLMProviderGemini, keyOverride, f.config.Gemini.APIKey)
		if err != nil {
			return nil, noop, err
		}

		if keyOverride != "" {
			provider, err := NewGeminiProvider(ctx, &f.config.Gemini, apiKey, f.logger)
			if err != nil {
				return nil, noop, err
			}
			return provider, func() { provider.Close() }, nil
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gemini == nil {
			provider, err := NewGeminiProvider(ctx, &f.config.Gemini, apiKey, f.logger)
			if err != nil {
				return nil, noop, err
			}
			f.gemini = provider
		}
		return f.gemini, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown provider type %q", providerType)
	}
}

// Close releases all cached providers
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gemini != nil {
		f.gemini.Close()
		f.gemini = nil
	}
	if f.claude != nil {
		f.claude.Close()
		f.claude = nil
	}
	return nil
}
