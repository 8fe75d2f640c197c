package interfaces

import (
	"context"

	"github.com/ternarybob/scrutor/internal/models"
)

// RunRequest describes one analysis run: at least one instruction document
// (template and/or checklist) applied to one or more source documents. Each
// supplied instruction issues its own independent service call.
type RunRequest struct {
	Template  *models.SourceDocument
	Checklist *models.SourceDocument
	Documents []models.SourceDocument

	// Options are forwarded to the analysis client unchanged.
	Options AnalyzeOptions
}

// InstructionResult is the outcome of one instruction document's analysis.
type InstructionResult struct {
	Role     models.Role            `json:"role"`
	Result   *models.AnalysisResult `json:"result"`
	Cost     *models.CostEstimate   `json:"cost,omitempty"`
	Filename string                 `json:"filename"`
}

// RunResult aggregates one run's outcomes. Warnings record per-document
// extraction skips that did not abort the run.
type RunResult struct {
	RunID     string             `json:"run_id"`
	Analysis  *InstructionResult `json:"analysis,omitempty"`
	Checklist *InstructionResult `json:"checklist,omitempty"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// AnalyzerService orchestrates extract, assemble, analyze, and post-process
// for one run. Runs are request-scoped; nothing is shared between them.
type AnalyzerService interface {
	Run(ctx context.Context, req *RunRequest) (*RunResult, error)
}

// Exporter renders generated result text into a downloadable PDF.
type Exporter interface {
	RenderPDF(markdown, title string) ([]byte, error)
}
