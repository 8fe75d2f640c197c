package models

import "strings"

// MediaType identifies the declared content type of a source document.
type MediaType string

const (
	// MediaTypeText is plain UTF-8 text
	MediaTypeText MediaType = "text"
	// MediaTypeMarkdown is UTF-8 markdown (treated as text for extraction)
	MediaTypeMarkdown MediaType = "markdown"
	// MediaTypePDF is a PDF document, extracted page by page
	MediaTypePDF MediaType = "pdf"
)

// SourceDocument is a single uploaded or opened document, identified by its
// filename and consumed exactly once by the extractor.
type SourceDocument struct {
	Name      string    `json:"name"`
	MediaType MediaType `json:"media_type"`
	Data      []byte    `json:"-"`
}

// DocumentSet is an insertion-ordered mapping of document name to extracted
// text. Order is preserved so prompt assembly is reproducible across runs.
type DocumentSet struct {
	names []string
	texts map[string]string
}

// NewDocumentSet creates an empty document set.
func NewDocumentSet() *DocumentSet {
	return &DocumentSet{
		texts: make(map[string]string),
	}
}

// Add appends a document's extracted text, preserving insertion order.
// Re-adding an existing name replaces its text without changing its position.
func (s *DocumentSet) Add(name, text string) {
	if _, exists := s.texts[name]; !exists {
		s.names = append(s.names, name)
	}
	s.texts[name] = text
}

// Get returns the extracted text for a document name.
func (s *DocumentSet) Get(name string) (string, bool) {
	text, ok := s.texts[name]
	return text, ok
}

// Names returns document names in insertion order.
func (s *DocumentSet) Names() []string {
	return s.names
}

// Len returns the number of documents in the set.
func (s *DocumentSet) Len() int {
	return len(s.names)
}

// DetectMediaType resolves a document's media type from its declared content
// type, falling back to the filename extension. Returns an UnsupportedTypeError
// for anything outside {text, markdown, pdf}.
func DetectMediaType(filename, declared string) (MediaType, error) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	switch {
	case strings.Contains(declared, "pdf"):
		return MediaTypePDF, nil
	case strings.Contains(declared, "markdown"):
		return MediaTypeMarkdown, nil
	case strings.HasPrefix(declared, "text/"):
		return MediaTypeText, nil
	}

	// Fall back to the filename extension
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return MediaTypePDF, nil
	case strings.HasSuffix(name, ".md"), strings.HasSuffix(name, ".markdown"):
		return MediaTypeMarkdown, nil
	case strings.HasSuffix(name, ".txt"), strings.HasSuffix(name, ".text"):
		return MediaTypeText, nil
	}

	return "", &UnsupportedTypeError{Name: filename, Declared: declared}
}
