// -----------------------------------------------------------------------
// Analyzer Service - orchestrates extract, assemble, analyze, post-process
// One run per request; template and checklist issue independent calls
// -----------------------------------------------------------------------

package analyzer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/extract"
	"github.com/ternarybob/scrutor/internal/services/prompt"
	"github.com/ternarybob/scrutor/internal/services/report"
)

// Service runs the full analysis pipeline. It holds no per-run state: each
// Run call extracts, assembles, analyzes, and post-processes independently.
type Service struct {
	extractor *extract.Extractor
	client    interfaces.AnalysisClient
	processor *report.Processor
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.AnalyzerService = (*Service)(nil)

// NewService creates an analyzer service
func NewService(extractor *extract.Extractor, client interfaces.AnalysisClient, processor *report.Processor, logger arbor.ILogger) *Service {
	return &Service{
		extractor: extractor,
		client:    client,
		processor: processor,
		logger:    logger,
	}
}

// Run executes one analysis run. Source documents are extracted once and the
// resulting set is shared by both instructions. A failed service call for one
// instruction is reported inside its result and does not abort the other.
func (s *Service) Run(ctx context.Context, req *interfaces.RunRequest) (*interfaces.RunResult, error) {
	if req.Template == nil && req.Checklist == nil {
		return nil, fmt.Errorf("%w: no template or checklist supplied", models.ErrEmptyInput)
	}
	if len(req.Documents) == 0 {
		return nil, fmt.Errorf("%w: no source documents supplied", models.ErrEmptyInput)
	}

	runID := uuid.New().String()
	s.logger.Info().
		Str("run_id", runID).
		Int("documents", len(req.Documents)).
		Bool("template", req.Template != nil).
		Bool("checklist", req.Checklist != nil).
		Msg("Starting analysis run")

	docs, warnings, err := s.extractor.ExtractAll(req.Documents)
	if err != nil {
		return nil, err
	}

	result := &interfaces.RunResult{
		RunID:    runID,
		Warnings: warnings,
	}

	if req.Template != nil {
		instructionResult, err := s.runInstruction(ctx, runID, req.Template, docs, models.RoleAnalysis, req.Options)
		if err != nil {
			return nil, err
		}
		result.Analysis = instructionResult
	}

	if req.Checklist != nil {
		instructionResult, err := s.runInstruction(ctx, runID, req.Checklist, docs, models.RoleChecklist, req.Options)
		if err != nil {
			return nil, err
		}
		result.Checklist = instructionResult
	}

	s.logger.Info().Str("run_id", runID).Msg("Analysis run completed")
	return result, nil
}

// runInstruction extracts one instruction document, assembles its prompt, and
// issues a single service call. The filename is derived from the output text
// for checklists and fixed for analysis results.
func (s *Service) runInstruction(ctx context.Context, runID string, instruction *models.SourceDocument, docs *models.DocumentSet, role models.Role, opts interfaces.AnalyzeOptions) (*interfaces.InstructionResult, error) {
	text, err := s.extractor.Extract(instruction)
	if err != nil {
		return nil, fmt.Errorf("instruction %s: %w", instruction.Name, err)
	}

	assembled := prompt.Assemble(text, docs, role)

	analysis, err := s.client.Analyze(ctx, assembled, opts)
	if err != nil {
		return nil, err
	}

	model := s.client.ResolvedModel(opts.Model)

	instructionResult := &interfaces.InstructionResult{
		Role:   role,
		Result: analysis,
		Cost:   report.EstimateCost(model, analysis.Usage),
	}

	switch role {
	case models.RoleChecklist:
		if analysis.Succeeded() {
			instructionResult.Filename = s.processor.ChecklistFilename(analysis.Text)
		} else {
			instructionResult.Filename = s.processor.ChecklistFilename("")
		}
	default:
		instructionResult.Filename = "analysis_result.txt"
	}

	s.logger.Info().
		Str("run_id", runID).
		Str("role", string(role)).
		Str("model", model).
		Bool("succeeded", analysis.Succeeded()).
		Msg("Instruction completed")

	return instructionResult, nil
}
