package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// GeminiProvider implements the Provider interface against the Google Gemini
// API. Each GenerateText call is a single blocking round trip: no retry, no
// streaming, timeout from configuration.
type GeminiProvider struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// Compile-time interface assertion
var _ interfaces.Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider with a resolved API key.
func NewGeminiProvider(ctx context.Context, config *common.GeminiConfig, apiKey string, logger arbor.ILogger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is empty", models.ErrMissingCredential)
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	interval, err := time.ParseDuration(config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", config.RateLimit, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Str("rate_limit", config.RateLimit).
		Msg("Gemini provider initialized")

	return &GeminiProvider{
		config:  config,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		timeout: timeout,
	}, nil
}

// GenerateText submits the prompt and returns the generated text with the
// service's token counters.
func (p *GeminiProvider) GenerateText(ctx context.Context, req *interfaces.GenerateRequest) (*interfaces.GenerateResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt cannot be empty", models.ErrEmptyInput)
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	temperature := req.Temperature
	if temperature <= 0 {
		temperature = p.config.Temperature
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	startTime := time.Now()
	resp, err := p.client.Models.GenerateContent(timeoutCtx, model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini generation failed: %v", models.ErrServiceFailure, err)
	}

	// Iterate candidates until non-empty text is found
	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}

	if text.Len() == 0 {
		return nil, fmt.Errorf("%w: no response generated from model %s", models.ErrServiceFailure, model)
	}

	var usage *models.TokenUsage
	if resp.UsageMetadata != nil {
		usage = &models.TokenUsage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	p.logger.Info().
		Str("model", model).
		Int("prompt_length", len(req.Prompt)).
		Int("response_length", text.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini generation completed")

	return &interfaces.GenerateResponse{
		Text:  text.String(),
		Model: model,
		Usage: usage,
	}, nil
}

// Close releases the client reference. The genai client needs no explicit
// cleanup beyond this.
func (p *GeminiProvider) Close() error {
	p.client = nil
	return nil
}
