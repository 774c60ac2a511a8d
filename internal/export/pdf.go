package export

import (
	"fmt"
	"io"

	"bill_split/internal/split"
	"bill_split/internal/table"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"
)

// WritePDF writes a one-page summary: the bill lines with their takers
// followed by what each person owes.
func WritePDF(w io.Writer, g table.Grid, totals split.Totals) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Bill split")
	pdf.Ln(14)

	widths := []float64{70, 25, 20, 75}
	header := func(titles ...string) {
		pdf.SetFont("Arial", "B", 11)
		for i, title := range titles {
			pdf.CellFormat(widths[i], 8, title, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
	}

	header("Item", "Price", "Qty", "Taken by")
	people := g.People()
	for _, item := range g.Items() {
		pdf.CellFormat(widths[0], 7, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, split.FormatAmount(split.ParsePrice(item.Price)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprint(split.ParseQuantity(item.Quantity)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, tr(takers(item, people)), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(8)

	header("Name", "Total")
	for _, s := range totals.Shares() {
		pdf.CellFormat(widths[0], 7, tr(s.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, s.Formatted(), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(widths[0], 7, "Allocated", "1", 0, "L", false, 0, "")
	pdf.CellFormat(widths[1], 7, split.FormatAmount(totals.Sum()), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}

	log.Debug().
		Int("items", len(g)-1).
		Int("people", len(people)).
		Msg("Exported split as pdf")
	return nil
}
