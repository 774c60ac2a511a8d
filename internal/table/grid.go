// Package table models the bill split table: a header row with the built-in
// name/price/quantity columns followed by one column per person, and item
// rows whose person cells hold one checkbox per unit.
//
// A Grid is a plain snapshot. It can be read from an HTML document or from a
// sheet's value range, edited with the column operations, and written back
// out in either form.
package table

import (
	"errors"

	"bill_split/internal/split"
)

// Column positions of the built-in columns.
const (
	ColName        = 0
	ColPrice       = 1
	ColQuantity    = 2
	FirstPersonCol = 3
)

// Placeholder is the header text of a column that must never be removed.
const Placeholder = "#"

var (
	ErrTableNotFound   = errors.New("split table not found")
	ErrEmptyTable      = errors.New("table has no header row")
	ErrProtectedColumn = errors.New("cannot remove a built-in column")
)

// Cell is either trimmed text or, for a person cell in an item row, a group
// of checkboxes (one per unit).
type Cell struct {
	Text    string
	Checks  []bool
	IsGroup bool
}

// TextCell returns a plain text cell.
func TextCell(text string) Cell {
	return Cell{Text: text}
}

// GroupCell returns a checkbox group cell.
func GroupCell(checks []bool) Cell {
	return Cell{Checks: checks, IsGroup: true}
}

// Row is an ordered sequence of cells.
type Row []Cell

// text returns the text of column col, or "" when the row is too short.
func (r Row) text(col int) string {
	if col >= len(r) {
		return ""
	}
	return r[col].Text
}

// Grid is a table snapshot. Row 0 is the header.
type Grid []Row

// Header returns the header row, or nil for an empty grid.
func (g Grid) Header() Row {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// People returns the person names from the header, in column order.
func (g Grid) People() []string {
	header := g.Header()
	if len(header) <= FirstPersonCol {
		return nil
	}
	people := make([]string, 0, len(header)-FirstPersonCol)
	for _, c := range header[FirstPersonCol:] {
		people = append(people, c.Text)
	}
	return people
}

// Items converts every row after the header into a split item. Person cells
// that are not checkbox groups contribute no checks.
func (g Grid) Items() []split.Item {
	if len(g) < 2 {
		return nil
	}
	people := len(g.People())
	items := make([]split.Item, 0, len(g)-1)
	for _, row := range g[1:] {
		item := split.Item{
			Name:     row.text(ColName),
			Price:    row.text(ColPrice),
			Quantity: row.text(ColQuantity),
			Checks:   make([][]bool, people),
		}
		for p := 0; p < people; p++ {
			col := FirstPersonCol + p
			if col < len(row) && row[col].IsGroup {
				item.Checks[p] = row[col].Checks
			}
		}
		items = append(items, item)
	}
	return items
}

// Calculate splits the bill held in the grid.
func (g Grid) Calculate() split.Totals {
	return split.Calculate(g.Items(), g.People())
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make(Row, len(row))
		for j, c := range row {
			out[i][j] = c
			if c.Checks != nil {
				out[i][j].Checks = append([]bool(nil), c.Checks...)
			}
		}
	}
	return out
}

// NewGrid builds a table for the given people with one row per item. Checks
// present on an item are kept; missing ones start unticked.
func NewGrid(people []string, items ...split.Item) Grid {
	header := Row{TextCell("name"), TextCell("price"), TextCell("quantity")}
	for _, name := range people {
		header = append(header, TextCell(name))
	}

	g := Grid{header}
	for _, item := range items {
		qty := split.ParseQuantity(item.Quantity)
		row := Row{TextCell(item.Name), TextCell(item.Price), TextCell(item.Quantity)}
		for p := range people {
			checks := make([]bool, qty)
			if p < len(item.Checks) {
				copy(checks, item.Checks[p])
			}
			row = append(row, GroupCell(checks))
		}
		g = append(g, row)
	}
	return g
}
