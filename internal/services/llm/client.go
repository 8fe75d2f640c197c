package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// Client is the analysis-facing wrapper around the provider factory. Service
// and transport failures do not surface as errors: they are folded into the
// returned AnalysisResult as readable text with nil usage, so one failed
// instruction never aborts a run. Errors are reserved for caller mistakes
// such as an empty prompt or a missing credential.
type Client struct {
	factory *Factory
	config  *common.Config
	logger  arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.AnalysisClient = (*Client)(nil)

// NewClient creates an analysis client backed by the provider factory
func NewClient(config *common.Config, kv interfaces.KeyValueStorage, logger arbor.ILogger) *Client {
	return &Client{
		factory: NewFactory(config, kv, logger),
		config:  config,
		logger:  logger,
	}
}

// Analyze sends one assembled prompt to the selected model and returns the
// outcome. A result with non-nil Usage is a success; a result with nil Usage
// carries the failure description in its Text.
func (c *Client) Analyze(ctx context.Context, prompt string, opts interfaces.AnalyzeOptions) (*models.AnalysisResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt cannot be empty", models.ErrEmptyInput)
	}

	providerType := c.factory.DetectProvider(opts.Model)
	model := c.ResolvedModel(opts.Model)

	provider, cleanup, err := c.factory.Provider(ctx, providerType, opts.APIKeyOverride)
	if err != nil {
		if errors.Is(err, models.ErrMissingCredential) {
			return nil, err
		}
		c.logger.Warn().Err(err).Str("provider", string(providerType)).Msg("Provider initialization failed")
		return &models.AnalysisResult{
			Text: fmt.Sprintf("analysis failed: %v", err),
		}, nil
	}
	defer cleanup()

	resp, err := provider.GenerateText(ctx, &interfaces.GenerateRequest{
		Prompt: prompt,
		Model:  model,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("model", model).Msg("Generation failed")
		return &models.AnalysisResult{
			Text: fmt.Sprintf("analysis failed: %v", err),
		}, nil
	}

	return &models.AnalysisResult{
		Text:  resp.Text,
		Usage: resp.Usage,
	}, nil
}

// ResolvedModel maps a requested model string to the concrete model the call
// will use: provider prefixes stripped, empty replaced by the provider default.
func (c *Client) ResolvedModel(model string) string {
	if model == "" {
		return c.factory.DefaultModel(c.factory.DetectProvider(model))
	}
	return c.factory.NormalizeModel(model)
}

// HealthCheck verifies that a credential can be resolved for the default
// provider. It does not spend tokens on a live call.
func (c *Client) HealthCheck(ctx context.Context) error {
	providerType := c.config.LLM.DefaultProvider
	var fallback string
	switch providerType {
	case common.LLMProviderClaude:
		fallback = c.config.Claude.APIKey
	default:
		fallback = c.config.Gemini.APIKey
	}
	_, err := common.ResolveAPIKey(ctx, c.factory.kv, providerType, "", fallback)
	return err
}

// Close releases cached providers
func (c *Client) Close() error {
	return c.factory.Close()
}
