// -----------------------------------------------------------------------
// Content Extractor - plain-text extraction from source documents
// Text and markdown decode directly; PDF extraction uses pdfcpu
// -----------------------------------------------------------------------

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scrutor/internal/models"
)

// Extractor turns source documents into plain text. It is read-only: every
// failure is reported to the caller so a bad document can be skipped without
// aborting the batch.
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
}

// NewExtractor creates a new content extractor
func NewExtractor(logger arbor.ILogger) *Extractor {
	// pdfcpu works on files, so PDF bytes are staged in a temp directory
	tempDir := filepath.Join(os.TempDir(), "scrutor-pdf")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		logger.Warn().Err(err).Str("dir", tempDir).Msg("Failed to create PDF staging directory")
	}

	return &Extractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// Extract returns the plain-text contents of one document according to its
// media type. Text and markdown must be valid UTF-8; PDF pages are extracted
// in page order and joined with a newline, pages without extractable text
// contributing an empty string.
func (e *Extractor) Extract(doc *models.SourceDocument) (string, error) {
	switch doc.MediaType {
	case models.MediaTypeText, models.MediaTypeMarkdown:
		return e.extractText(doc)
	case models.MediaTypePDF:
		return e.extractPDF(doc)
	default:
		return "", &models.UnsupportedTypeError{Name: doc.Name, Declared: string(doc.MediaType)}
	}
}

// ExtractAll extracts a batch of documents into an ordered document set.
// Per-document failures are skipped with a recorded warning; the batch fails
// only when no valid document remains.
func (e *Extractor) ExtractAll(docs []models.SourceDocument) (*models.DocumentSet, []string, error) {
	set := models.NewDocumentSet()
	var warnings []string

	for i := range docs {
		doc := &docs[i]
		text, err := e.Extract(doc)
		if err != nil {
			warning := fmt.Sprintf("skipping %s: %v", doc.Name, err)
			warnings = append(warnings, warning)
			e.logger.Warn().Str("document", doc.Name).Err(err).Msg("Skipping document")
			continue
		}
		if strings.TrimSpace(text) == "" {
			warning := fmt.Sprintf("skipping %s: no extractable text", doc.Name)
			warnings = append(warnings, warning)
			e.logger.Warn().Str("document", doc.Name).Msg("Skipping document with no extractable text")
			continue
		}
		set.Add(doc.Name, text)
	}

	if set.Len() == 0 {
		return nil, warnings, fmt.Errorf("%w: no valid documents to analyze", models.ErrEmptyInput)
	}

	return set, warnings, nil
}

// extractText decodes raw bytes as UTF-8
func (e *Extractor) extractText(doc *models.SourceDocument) (string, error) {
	if !utf8.Valid(doc.Data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", models.ErrDecodeFailure, doc.Name)
	}
	return string(doc.Data), nil
}

// extractPDF extracts text content page by page using pdfcpu
func (e *Extractor) extractPDF(doc *models.SourceDocument) (string, error) {
	// Stage bytes in a temp file for pdfcpu processing. The staging directory
	// is re-created here so a startup failure produces a clear error at the
	// point of use.
	if err := os.MkdirAll(e.tempDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory %s: %w", e.tempDir, err)
	}
	tempFile := filepath.Join(e.tempDir, fmt.Sprintf("extract_%d_%s.pdf", os.Getpid(), sanitizeTempName(doc.Name)))
	if err := os.WriteFile(tempFile, doc.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF %s: %w", doc.Name, err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(e.tempDir, fmt.Sprintf("pages_%d_%s", os.Getpid(), sanitizeTempName(doc.Name)))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content from %s: %w", doc.Name, err)
	}

	// Collect per-page content files; pages without extractable text (for
	// example scanned images) simply have no file and contribute an empty
	// string, matching upstream behavior.
	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		} else if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	// Join in page order with a newline between pages
	var builder strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if pageNum > 1 {
			builder.WriteString("\n")
		}
		text, ok := pageTexts[pageNum]
		if !ok {
			e.logger.Debug().Str("document", doc.Name).Int("page", pageNum).Msg("Page has no extractable text")
		}
		builder.WriteString(text)
	}

	return builder.String(), nil
}

// sanitizeTempName keeps temp filenames filesystem-safe
func sanitizeTempName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
