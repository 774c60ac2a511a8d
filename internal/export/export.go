// Package export writes a split table and its totals as a downloadable
// spreadsheet or PDF.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"bill_split/internal/split"
	"bill_split/internal/table"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "xlsx" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

func (f Format) Filename() string {
	return "bill_split." + string(f)
}

// Write renders g and its totals in format f.
func Write(w io.Writer, f Format, g table.Grid) error {
	if len(g) == 0 {
		return table.ErrEmptyTable
	}
	totals := g.Calculate()
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, g, totals)
	case FormatPDF:
		return WritePDF(w, g, totals)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// takers summarises who ticked how many units of an item, e.g. "Alice x2, Bob".
// Boxes beyond the item's quantity are not units and are ignored.
func takers(item split.Item, people []string) string {
	qty := split.ParseQuantity(item.Quantity)

	var parts []string
	for p, name := range people {
		if p >= len(item.Checks) {
			break
		}
		checks := item.Checks[p]
		n := 0
		for u := 0; u < qty && u < len(checks); u++ {
			if checks[u] {
				n++
			}
		}
		switch {
		case n == 1:
			parts = append(parts, name)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%s x%d", name, n))
		}
	}
	return strings.Join(parts, ", ")
}
