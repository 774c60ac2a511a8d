package export

import (
	"fmt"
	"io"

	"bill_split/internal/split"
	"bill_split/internal/table"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet  = "Items"
	totalsSheet = "Totals"
)

// WriteXLSX writes a workbook with an Items sheet listing every bill line and
// its takers, and a Totals sheet with what each person owes.
func WriteXLSX(w io.Writer, g table.Grid, totals split.Totals) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return fmt.Errorf("failed to name items sheet: %w", err)
	}
	if _, err := f.NewSheet(totalsSheet); err != nil {
		return fmt.Errorf("failed to create totals sheet: %w", err)
	}

	people := g.People()
	itemRows := [][]interface{}{{"Item", "Price", "Quantity", "Taken by"}}
	for _, item := range g.Items() {
		itemRows = append(itemRows, []interface{}{
			item.Name,
			split.ParsePrice(item.Price),
			split.ParseQuantity(item.Quantity),
			takers(item, people),
		})
	}
	if err := writeRows(f, itemsSheet, itemRows); err != nil {
		return err
	}

	totalRows := [][]interface{}{{"Name", "Total"}}
	for _, s := range totals.Shares() {
		totalRows = append(totalRows, []interface{}{s.Name, split.RoundAmount(s.Amount).InexactFloat64()})
	}
	if err := writeRows(f, totalsSheet, totalRows); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}
	if err := setColumnStyle(f, itemsSheet, 2, len(itemRows), style); err != nil {
		return err
	}
	if err := setColumnStyle(f, totalsSheet, 2, len(totalRows), style); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	log.Debug().
		Int("items", len(itemRows)-1).
		Int("people", len(totalRows)-1).
		Msg("Exported split as xlsx")
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

// setColumnStyle styles column col below the header.
func setColumnStyle(f *excelize.File, sheet string, col, rows, style int) error {
	if rows < 2 {
		return nil
	}
	top, err := excelize.CoordinatesToCellName(col, 2)
	if err != nil {
		return err
	}
	bottom, err := excelize.CoordinatesToCellName(col, rows)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, top, bottom, style)
}
