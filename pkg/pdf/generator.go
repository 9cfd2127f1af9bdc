package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// OfferSummary is the data rendered into a published offer's one-pager.
type OfferSummary struct {
	Title       string
	TeamName    string
	Location    string
	Description string
	Packages    []PackageLine
}

// PackageLine is one sponsorship tier row.
type PackageLine struct {
	Name     string
	Price    string
	Benefits string
}

// Generator renders offer one-pagers.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// OfferOnePager renders a single-page PDF summary of a published offer,
// suitable for a sponsor to download or forward.
func (g *Generator) OfferOnePager(summary OfferSummary) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(summary.Title, true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, summary.Title, "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(90, 90, 90)
	doc.CellFormat(0, 8, summary.TeamName, "", 1, "L", false, 0, "")
	if summary.Location != "" {
		doc.CellFormat(0, 8, summary.Location, "", 1, "L", false, 0, "")
	}

	doc.Ln(4)
	doc.SetTextColor(0, 0, 0)
	doc.MultiCell(0, 6, summary.Description, "", "L", false)
	doc.Ln(6)

	if len(summary.Packages) > 0 {
		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 10, "Sponsorship Packages", "", 1, "L", false, 0, "")

		doc.SetFont("Helvetica", "B", 11)
		doc.SetFillColor(230, 230, 230)
		doc.CellFormat(60, 8, "Package", "1", 0, "L", true, 0, "")
		doc.CellFormat(35, 8, "Price", "1", 0, "R", true, 0, "")
		doc.CellFormat(95, 8, "Benefits", "1", 1, "L", true, 0, "")

		doc.SetFont("Helvetica", "", 11)
		for _, pkg := range summary.Packages {
			doc.CellFormat(60, 8, pkg.Name, "1", 0, "L", false, 0, "")
			doc.CellFormat(35, 8, pkg.Price, "1", 0, "R", false, 0, "")
			doc.CellFormat(95, 8, pkg.Benefits, "1", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render one-pager: %w", err)
	}
	return buf.Bytes(), nil
}
