// Package pdf renders plan summary documents.
package pdf

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/rakshit1504/insurance-final-bot/pkg/types"
)

// Generator renders paginated plan summary documents
type Generator struct{}

// NewGenerator creates a document generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes a document with the fixed title and the supplied
// body content to path. It returns only after the file is flushed to
// storage; an error is terminal for the request.
func (g *Generator) Generate(content, path string) error {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	doc.SetFont("Helvetica", "U", 20)
	doc.MultiCell(0, 10, tr("Your Selected Insurance Plan"), "", "L", false)
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 14)
	doc.MultiCell(0, 7, tr(content), "", "L", false)

	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write document to %s: %w", path, err)
	}

	return nil
}

// BuildContent assembles the document body for a selected plan: the
// plan summary, its coverage line, and the issuance details.
func BuildContent(plan types.Plan, phone string, issued time.Time) string {
	date := issued.Format("2 January 2006")
	return fmt.Sprintf("%s\n\n%s\nCoverage: ₹%s\n\nIssued To: %s\nDate: %s",
		plan.Name, plan.Description, plan.Coverage, phone, date)
}
