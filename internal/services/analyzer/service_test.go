package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/ternarybob/scrutor/internal/services/extract"
	"github.com/ternarybob/scrutor/internal/services/report"
)

// stubClient records every prompt and replies from a scripted queue
type stubClient struct {
	prompts []string
	replies []*models.AnalysisResult
	model   string
}

func (c *stubClient) Analyze(ctx context.Context, prompt string, opts interfaces.AnalyzeOptions) (*models.AnalysisResult, error) {
	c.prompts = append(c.prompts, prompt)
	if len(c.replies) == 0 {
		return &models.AnalysisResult{Text: "default reply", Usage: &models.TokenUsage{TotalTokens: 1}}, nil
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

func (c *stubClient) ResolvedModel(model string) string {
	if c.model != "" {
		return c.model
	}
	return "gemini-2.5-flash"
}

func (c *stubClient) HealthCheck(ctx context.Context) error { return nil }
func (c *stubClient) Close() error                          { return nil }

func newTestService(client interfaces.AnalysisClient) *Service {
	logger := arbor.NewLogger()
	return NewService(
		extract.NewExtractor(logger),
		client,
		report.NewProcessor("checklist_", "Company"),
		logger,
	)
}

func textDoc(name, content string) models.SourceDocument {
	return models.SourceDocument{Name: name, MediaType: models.MediaTypeText, Data: []byte(content)}
}

func TestRun_TemplateOnly(t *testing.T) {
	client := &stubClient{
		replies: []*models.AnalysisResult{
			{Text: "the analysis", Usage: &models.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}},
		},
	}
	service := newTestService(client)

	template := textDoc("template.txt", "Summarize revenue and risks.")
	result, err := service.Run(context.Background(), &interfaces.RunRequest{
		Template:  &template,
		Documents: []models.SourceDocument{textDoc("report.txt", "revenue grew 10%")},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Nil(t, result.Checklist)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, models.RoleAnalysis, result.Analysis.Role)
	assert.Equal(t, "the analysis", result.Analysis.Result.Text)
	assert.Equal(t, "analysis_result.txt", result.Analysis.Filename)

	require.NotNil(t, result.Analysis.Cost)
	assert.InDelta(t, 0.00003+0.000125, result.Analysis.Cost.TotalCost, 1e-9)

	// The single prompt carries both the instruction and the document text
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Summarize revenue and risks.")
	assert.Contains(t, client.prompts[0], "revenue grew 10%")
	assert.Contains(t, client.prompts[0], "--- Document 1 (report.txt) ---")
}

func TestRun_ChecklistDerivesFilename(t *testing.T) {
	client := &stubClient{
		replies: []*models.AnalysisResult{
			{Text: "Company name: Acme, Inc. [Confidential]\nComplete: yes", Usage: &models.TokenUsage{TotalTokens: 10}},
		},
	}
	service := newTestService(client)

	checklist := textDoc("checklist.txt", "Company name:\nComplete:")
	result, err := service.Run(context.Background(), &interfaces.RunRequest{
		Checklist: &checklist,
		Documents: []models.SourceDocument{textDoc("filing.txt", "Acme filing text")},
	})
	require.NoError(t, err)

	require.NotNil(t, result.Checklist)
	assert.Equal(t, models.RoleChecklist, result.Checklist.Role)
	assert.Equal(t, "checklist_Acme_Inc_Confidential.txt", result.Checklist.Filename)
}

func TestRun_TemplateAndChecklistAreIndependentCalls(t *testing.T) {
	client := &stubClient{
		replies: []*models.AnalysisResult{
			{Text: "analysis output", Usage: &models.TokenUsage{TotalTokens: 5}},
			{Text: "Company name: Initech", Usage: &models.TokenUsage{TotalTokens: 7}},
		},
	}
	service := newTestService(client)

	template := textDoc("template.txt", "Analyze these.")
	checklist := textDoc("checklist.txt", "Company name:")
	result, err := service.Run(context.Background(), &interfaces.RunRequest{
		Template:  &template,
		Checklist: &checklist,
		Documents: []models.SourceDocument{textDoc("doc.txt", "shared document body")},
	})
	require.NoError(t, err)

	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[0], "Analyze these.")
	assert.Contains(t, client.prompts[1], "Company name:")
	// Both prompts reuse the same extracted document text
	assert.Contains(t, client.prompts[0], "shared document body")
	assert.Contains(t, client.prompts[1], "shared document body")

	assert.Equal(t, "analysis output", result.Analysis.Result.Text)
	assert.Equal(t, "checklist_Initech.txt", result.Checklist.Filename)
}

func TestRun_ServiceFailureDoesNotAbortOtherInstruction(t *testing.T) {
	client := &stubClient{
		replies: []*models.AnalysisResult{
			{Text: "analysis failed: quota exceeded"},
			{Text: "Company name: Globex", Usage: &models.TokenUsage{TotalTokens: 3}},
		},
	}
	service := newTestService(client)

	template := textDoc("template.txt", "Analyze.")
	checklist := textDoc("checklist.txt", "Company name:")
	result, err := service.Run(context.Background(), &interfaces.RunRequest{
		Template:  &template,
		Checklist: &checklist,
		Documents: []models.SourceDocument{textDoc("doc.txt", "body")},
	})
	require.NoError(t, err)

	assert.False(t, result.Analysis.Result.Succeeded())
	assert.Nil(t, result.Analysis.Cost)
	assert.Contains(t, result.Analysis.Result.Text, "analysis failed")

	assert.True(t, result.Checklist.Result.Succeeded())
	assert.Equal(t, "checklist_Globex.txt", result.Checklist.Filename)
}

func TestRun_FailedChecklistUsesFallbackFilename(t *testing.T) {
	client := &stubClient{
		replies: []*models.AnalysisResult{
			{Text: "analysis failed: timeout"},
		},
	}
	service := newTestService(client)

	checklist := textDoc("checklist.txt", "Company name:")
	result, err := service.Run(context.Background(), &interfaces.RunRequest{
		Checklist: &checklist,
		Documents: []models.SourceDocument{textDoc("doc.txt", "body")},
	})
	require.NoError(t, err)

	assert.Equal(t, "checklist_Company.txt", result.Checklist.Filename)
}

func TestRun_NoInstruction(t *testing.T) {
	service := newTestService(&stubClient{})

	_, err := service.Run(context.Background(), &interfaces.RunRequest{
		Documents: []models.SourceDocument{textDoc("doc.txt", "body")},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestRun_NoDocuments(t *testing.T) {
	service := newTestService(&stubClient{})

	template := textDoc("template.txt", "Analyze.")
	_, err := service.Run(context.Background(), &interfaces.RunRequest{Template: &template})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestRun_AllDocumentsInvalid(t *testing.T) {
	service := newTestService(&stubClient{})

	template := textDoc("template.txt", "Analyze.")
	_, err := service.Run(context.Background(), &interfaces.RunRequest{
		Template:  &template,
		Documents: []models.SourceDocument{{Name: "bad.txt", MediaType: models.MediaTypeText, Data: []byte{0xff}}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestRun_WarningsSurfaceSkippedDocuments(t *testing.T) {
	client := &stubClient{}
	service := newTestService(client)

	template := textDoc("template.txt", "Analyze.")
	result, err := service.Run(context.Background(), &interfaces.RunRequest{
		Template: &template,
		Documents: []models.SourceDocument{
			textDoc("good.txt", "usable"),
			{Name: "bad.txt", MediaType: models.MediaTypeText, Data: []byte{0xff}},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "bad.txt")
	// The skipped document never reaches the prompt
	assert.False(t, strings.Contains(client.prompts[0], "bad.txt"))
}
