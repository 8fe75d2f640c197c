package models

// Role selects the instructional preamble used when assembling a prompt.
// Roles are a closed set; adding a role means adding a constant and its
// preamble mapping, not changing signatures.
type Role string

const (
	// RoleAnalysis produces a free-form analysis following a template
	RoleAnalysis Role = "analysis"
	// RoleChecklist completes a checklist, filling the Company name field
	// when the checklist contains one
	RoleChecklist Role = "checklist"
)

// TokenUsage holds the token counters returned by the generation service.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AnalysisResult is the outcome of exactly one prompt submission. On service
// failure Text holds a human-readable error message and Usage is nil; that is
// a reportable outcome, not a fault.
type AnalysisResult struct {
	Text  string      `json:"text"`
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Succeeded reports whether the result carries a genuine analysis. Usage is
// only populated by a successful service round trip.
func (r *AnalysisResult) Succeeded() bool {
	return r != nil && r.Usage != nil
}

// CostEstimate is a derived value computed from usage counters against a
// fixed per-million-token price pair. It is never stored.
type CostEstimate struct {
	Model      string  `json:"model"`
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
}
