package report

import (
	"strings"

	"github.com/ternarybob/scrutor/internal/models"
)

// modelPricing holds USD rates per million tokens
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// pricingTable maps known model identifiers to their published rates.
// Rates current as of mid-2025.
var pricingTable = map[string]modelPricing{
	"gemini-2.5-flash":          {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"gemini-2.5-flash-lite":     {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini-2.5-pro":            {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	"gemini-2.0-flash":          {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"claude-haiku-3-5-20241022": {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"claude-sonnet-4-20250514":  {InputPerMillion: 3.00, OutputPerMillion: 15.00},
}

// EstimateCost computes the dollar cost of a call from its token usage.
// Returns nil when usage is missing or the model has no pricing entry;
// a missing estimate is informational, never an error.
func EstimateCost(model string, usage *models.TokenUsage) *models.CostEstimate {
	if usage == nil {
		return nil
	}

	pricing, ok := pricingTable[strings.ToLower(strings.TrimSpace(model))]
	if !ok {
		return nil
	}

	inputCost := float64(usage.PromptTokens) / 1_000_000 * pricing.InputPerMillion
	outputCost := float64(usage.CompletionTokens) / 1_000_000 * pricing.OutputPerMillion

	return &models.CostEstimate{
		Model:      model,
		InputCost:  inputCost,
		OutputCost: outputCost,
		TotalCost:  inputCost + outputCost,
	}
}

// KnownModels returns the model identifiers with pricing entries, for display
func KnownModels() []string {
	names := make([]string, 0, len(pricingTable))
	for name := range pricingTable {
		names = append(names, name)
	}
	return names
}
