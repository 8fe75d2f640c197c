// -----------------------------------------------------------------------
// Prompt Assembler - deterministic prompt construction
// Embeds the instruction text and every document exactly once, in order
// -----------------------------------------------------------------------

package prompt

import (
	"fmt"
	"strings"

	"github.com/ternarybob/scrutor/internal/models"
)

// Fixed prompt fragments. The exact wording and ordering are load-bearing:
// callers and tests rely on byte-identical output for identical input.
const (
	preambleAnalysis = "You are a helpful assistant that analyzes documents."

	preambleChecklist = "You are a helpful assistant that analyzes documents. " +
		"Your goal is to complete the provided checklist based on the documents. " +
		"Ensure you fill in the 'Company name' field if present."

	instructionLabel = "Here is the template/checklist you must follow for the output:"

	documentsLabel = "Here are the documents to analyze:"

	closingDirective = "Please analyze the documents and produce an output that " +
		"strictly follows the format and structure of the provided template/checklist."
)

// preambles maps each role to its fixed instructional preamble. Adding a role
// means adding an entry here, not changing the Assemble signature.
var preambles = map[models.Role]string{
	models.RoleAnalysis:  preambleAnalysis,
	models.RoleChecklist: preambleChecklist,
}

// Preamble returns the fixed preamble for a role. Unknown roles fall back to
// the generic analysis preamble.
func Preamble(role models.Role) string {
	if p, ok := preambles[role]; ok {
		return p
	}
	return preambleAnalysis
}

// Assemble builds the single prompt string sent to the generation service.
// Pure function: no I/O, no randomness; identical inputs always produce an
// identical prompt. Documents appear in set insertion order, each under a
// delimiter carrying its 1-based index and name.
func Assemble(instruction string, docs *models.DocumentSet, role models.Role) string {
	var b strings.Builder

	b.WriteString(Preamble(role))
	b.WriteString("\n\n")

	b.WriteString(instructionLabel)
	b.WriteString("\n")
	b.WriteString(instruction)
	b.WriteString("\n\n")

	b.WriteString(documentsLabel)
	b.WriteString("\n")
	for i, name := range docs.Names() {
		text, _ := docs.Get(name)
		b.WriteString(fmt.Sprintf("\n--- Document %d (%s) ---\n", i+1, name))
		b.WriteString(text)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(closingDirective)
	b.WriteString("\n")

	return b.String()
}
