package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scrutor/internal/interfaces"
	"github.com/ternarybob/scrutor/internal/models"
)

// analyzeRequest holds the non-file fields of an analysis upload
type analyzeRequest struct {
	Model  string `validate:"omitempty,max=128"`
	APIKey string `validate:"omitempty,min=8,max=256"`
}

// AnalyzeHandler handles analysis run HTTP requests
type AnalyzeHandler struct {
	analyzer       interfaces.AnalyzerService
	logger         arbor.ILogger
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzer interfaces.AnalyzerService, maxUploadBytes int64, logger arbor.ILogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:       analyzer,
		logger:         logger,
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// AnalyzeDocuments handles POST /api/analyze - runs one analysis over a
// multipart upload. Expected parts: "template" and/or "checklist" (single
// files), "documents" (one or more files), optional "model" and "api_key"
// form values.
func (h *AnalyzeHandler) AnalyzeDocuments(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		WriteError(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := analyzeRequest{
		Model:  r.FormValue("model"),
		APIKey: r.FormValue("api_key"),
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request options: %v", err))
		return
	}

	template, err := h.readSingleFile(r, "template")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	checklist, err := h.readSingleFile(r, "checklist")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if template == nil && checklist == nil {
		WriteError(w, http.StatusBadRequest, "Upload a template and/or a checklist file")
		return
	}

	documents, skipped, err := h.readDocumentFiles(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(documents) == 0 {
		WriteError(w, http.StatusBadRequest, "Upload at least one supported document file")
		return
	}

	result, err := h.analyzer.Run(r.Context(), &interfaces.RunRequest{
		Template:  template,
		Checklist: checklist,
		Documents: documents,
		Options: interfaces.AnalyzeOptions{
			Model:          req.Model,
			APIKeyOverride: req.APIKey,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingCredential):
			WriteError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, models.ErrEmptyInput):
			WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("Analysis run failed")
			WriteError(w, http.StatusInternalServerError, "Analysis run failed")
		}
		return
	}

	if len(skipped) > 0 {
		result.Warnings = append(skipped, result.Warnings...)
	}

	WriteJSON(w, http.StatusOK, result)
}

// readSingleFile reads an optional single-file part into a source document
func (h *AnalyzeHandler) readSingleFile(r *http.Request, field string) (*models.SourceDocument, error) {
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > 1 {
		return nil, fmt.Errorf("field %q accepts a single file", field)
	}
	return h.readFile(headers[0])
}

// readDocumentFiles reads every uploaded source document in form order. An
// unsupported document type is skipped with a recorded warning rather than
// failing the upload; read failures remain fatal.
func (h *AnalyzeHandler) readDocumentFiles(r *http.Request) ([]models.SourceDocument, []string, error) {
	headers := r.MultipartForm.File["documents"]
	documents := make([]models.SourceDocument, 0, len(headers))
	var skipped []string
	for _, header := range headers {
		doc, err := h.readFile(header)
		if err != nil {
			if models.IsUnsupportedType(err) {
				skipped = append(skipped, fmt.Sprintf("skipping %s: %v", header.Filename, err))
				h.logger.Warn().Str("document", header.Filename).Err(err).Msg("Skipping unsupported upload")
				continue
			}
			return nil, nil, err
		}
		documents = append(documents, *doc)
	}
	return documents, skipped, nil
}

func (h *AnalyzeHandler) readFile(header *multipart.FileHeader) (*models.SourceDocument, error) {
	mediaType, err := models.DetectMediaType(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}

	return &models.SourceDocument{
		Name:      header.Filename,
		MediaType: mediaType,
		Data:      data,
	}, nil
}
