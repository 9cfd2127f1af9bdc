package offers

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{"Title", "Status", "Source", "Packages", "Lowest Price", "Created", "Published"}

// ExportOffersXLSX renders a team's offers (with their packages) into an
// xlsx workbook for the dashboard's download button.
func ExportOffersXLSX(offerList []Offer, packagesByOffer map[string][]Package) ([]byte, error) {
	file := excelize.NewFile()
	const sheet = "Offers"
	file.SetSheetName("Sheet1", sheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, col)
		file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, offer := range offerList {
		packages := packagesByOffer[offer.ID.String()]

		lowest := ""
		if len(packages) > 0 {
			min := packages[0].PriceCents
			for _, pkg := range packages[1:] {
				if pkg.PriceCents < min {
					min = pkg.PriceCents
				}
			}
			lowest = fmt.Sprintf("$%.2f", float64(min)/100)
		}

		published := ""
		if offer.PublishedAt != nil {
			published = offer.PublishedAt.Format(time.DateOnly)
		}

		values := []interface{}{
			offer.Title,
			string(offer.Status),
			string(offer.Source),
			len(packages),
			lowest,
			offer.CreatedAt.Format(time.DateOnly),
			published,
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, val)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
