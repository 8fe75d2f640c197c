// -----------------------------------------------------------------------
// Result Exporter - renders generated result text into a downloadable PDF
// Markdown is parsed with goldmark and laid out with fpdf
// -----------------------------------------------------------------------

package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/scrutor/internal/interfaces"
)

// Service renders markdown result text into a PDF document
type Service struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Exporter = (*Service)(nil)

// NewService creates a new export service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// RenderPDF converts markdown result text to PDF bytes. The title goes into
// the document metadata; the body is whatever the model produced, so plain
// text with no markdown structure renders as paragraphs.
func (s *Service) RenderPDF(markdown, title string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)

	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	w := &walker{
		pdf:    pdf,
		source: source,
	}
	if err := ast.Walk(doc, w.visit); err != nil {
		return nil, fmt.Errorf("failed to render PDF body: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF output: %w", err)
	}

	s.logger.Debug().
		Str("title", title).
		Int("markdown_len", len(markdown)).
		Int("pdf_size", buf.Len()).
		Msg("Rendered result PDF")

	return buf.Bytes(), nil
}

// walker translates the markdown AST into fpdf calls. It tracks inline style
// state so nested emphasis restores correctly on exit.
type walker struct {
	pdf       *fpdf.Fpdf
	source    []byte
	bold      bool
	italic    bool
	listDepth int
}

func (w *walker) applyStyle() {
	style := ""
	if w.bold {
		style += "B"
	}
	if w.italic {
		style += "I"
	}
	w.pdf.SetFont("Helvetica", style, 10)
}

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			w.pdf.Ln(5)
			size := 15.0 - float64(node.Level)
			if size < 10 {
				size = 10
			}
			w.pdf.SetFont("Helvetica", "B", size)
		} else {
			w.pdf.Ln(6)
			w.applyStyle()
		}

	case *ast.Paragraph:
		if !entering {
			w.pdf.Ln(6)
		}

	case *ast.Text:
		if entering {
			w.pdf.Write(5, string(node.Text(w.source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.pdf.Ln(5)
			}
		}

	case *ast.Emphasis:
		if node.Level == 2 {
			w.bold = entering
		} else {
			w.italic = entering
		}
		w.applyStyle()

	case *ast.CodeSpan:
		if entering {
			w.pdf.SetFont("Courier", "", 9)
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					w.pdf.Write(5, string(t.Segment.Value(w.source)))
				}
			}
			w.applyStyle()
		}
		return ast.WalkSkipChildren, nil

	case *ast.FencedCodeBlock:
		if entering {
			w.writeCodeLines(node.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			w.writeCodeLines(node.Lines())
		}
		return ast.WalkSkipChildren, nil

	case *ast.List:
		if entering {
			w.listDepth++
		} else {
			w.listDepth--
			if w.listDepth == 0 {
				w.pdf.Ln(2)
			}
		}

	case *ast.ListItem:
		if entering {
			w.pdf.Ln(5)
			w.pdf.SetX(12 + float64(w.listDepth)*5)
			w.pdf.Write(5, "- ")
		}

	case *ast.ThematicBreak:
		if entering {
			w.pdf.Ln(3)
			w.pdf.Line(12, w.pdf.GetY(), 198, w.pdf.GetY())
			w.pdf.Ln(3)
		}
	}

	return ast.WalkContinue, nil
}

func (w *walker) writeCodeLines(lines *text.Segments) {
	w.pdf.Ln(2)
	w.pdf.SetFont("Courier", "", 9)
	w.pdf.SetFillColor(244, 244, 244)
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		w.pdf.MultiCell(0, 4.5, string(segment.Value(w.source)), "", "L", true)
	}
	w.pdf.SetFillColor(255, 255, 255)
	w.pdf.Ln(2)
	w.applyStyle()
}
