package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scrutor/internal/interfaces"
)

// ExportHandler renders analysis result text into downloadable PDFs
type ExportHandler struct {
	exporter interfaces.Exporter
	logger   arbor.ILogger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exporter interfaces.Exporter, logger arbor.ILogger) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
		logger:   logger,
	}
}

// ExportPDF handles POST /api/export/pdf - converts result markdown to a PDF
// attachment. Body: {"markdown": "...", "title": "...", "filename": "..."}.
func (h *ExportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Markdown string `json:"markdown"`
		Title    string `json:"title"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		WriteError(w, http.StatusBadRequest, "Markdown content is required")
		return
	}

	title := req.Title
	if title == "" {
		title = "Analysis Result"
	}

	pdfBytes, err := h.exporter.RenderPDF(req.Markdown, title)
	if err != nil {
		h.logger.Error().Err(err).Msg("PDF export failed")
		WriteError(w, http.StatusInternalServerError, "PDF export failed")
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = "analysis_result.pdf"
	}
	if !strings.HasSuffix(filename, ".pdf") {
		filename += ".pdf"
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
