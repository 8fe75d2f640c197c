package interfaces

import (
	"context"

	"github.com/ternarybob/scrutor/internal/models"
)

// GenerateRequest is a provider-agnostic text generation request. One request
// maps to exactly one blocking round trip against the hosted model.
type GenerateRequest struct {
	Prompt      string
	Model       string
	Temperature float32
	// APIKeyOverride, when set, takes precedence over every other credential
	// source for this request only.
	APIKeyOverride string
}

// GenerateResponse carries the generated text and the provider's token
// counters.
type GenerateResponse struct {
	Text  string
	Model string
	Usage *models.TokenUsage
}

// Provider generates text against one hosted model API.
type Provider interface {
	GenerateText(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	Close() error
}

// AnalysisClient submits an assembled prompt to the configured provider.
// Transport and service failures are folded into the result (error text,
// nil usage) rather than surfaced as errors; only precondition violations
// (missing credential, empty prompt) return an error.
type AnalysisClient interface {
	Analyze(ctx context.Context, prompt string, opts AnalyzeOptions) (*models.AnalysisResult, error)
	ResolvedModel(model string) string
	HealthCheck(ctx context.Context) error
	Close() error
}

// AnalyzeOptions carries per-request overrides for an analysis call.
type AnalyzeOptions struct {
	Model          string
	APIKeyOverride string
}
