// -----------------------------------------------------------------------
// Result Post-Processor - checklist filename derivation and cost estimation
// -----------------------------------------------------------------------

package report

import (
	"fmt"
	"regexp"
	"strings"
)

// companyNamePattern matches the first "Company name:" line in a completed
// checklist, capturing the remainder of the line.
var companyNamePattern = regexp.MustCompile(`(?i)Company name:\s*(.+)`)

// Processor derives output filenames and cost estimates from analysis results
type Processor struct {
	prefix         string
	defaultCompany string
}

// NewProcessor creates a post-processor with the configured checklist
// filename prefix and fallback company name.
func NewProcessor(prefix, defaultCompany string) *Processor {
	if prefix == "" {
		prefix = "checklist_"
	}
	if defaultCompany == "" {
		defaultCompany = "Company"
	}
	return &Processor{
		prefix:         prefix,
		defaultCompany: defaultCompany,
	}
}

// CompanyName scrapes the company name from checklist output text. Returns
// the configured default when no "Company name:" line is present or the
// scraped value sanitizes to nothing.
func (p *Processor) CompanyName(text string) string {
	match := companyNamePattern.FindStringSubmatch(text)
	if match == nil {
		return p.defaultCompany
	}

	name := strings.TrimSpace(match[1])
	name = strings.Trim(name, "[]")
	name = strings.TrimSpace(name)
	name = sanitizeName(name)
	if name == "" {
		return p.defaultCompany
	}
	return name
}

// ChecklistFilename builds the suggested download filename for a completed
// checklist, e.g. "checklist_Acme_Inc.txt".
func (p *Processor) ChecklistFilename(text string) string {
	return fmt.Sprintf("%s%s.txt", p.prefix, p.CompanyName(text))
}

// sanitizeName keeps letters, digits, spaces, hyphens and underscores, then
// collapses spaces to underscores.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	return strings.ReplaceAll(cleaned, " ", "_")
}
