package table

import (
	"fmt"
	"strings"

	"bill_split/internal/split"

	"github.com/rs/zerolog/log"
)

// AddPerson returns a copy of g with a trailing person column. Every item row
// gets quantity-many unticked boxes. An empty name becomes "Person N".
func (g Grid) AddPerson(name string) (Grid, error) {
	if len(g) == 0 {
		return nil, ErrEmptyTable
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Person %d", len(g.People())+1)
	}

	out := g.Clone()
	width := len(out[0])
	out[0] = append(out[0], TextCell(name))

	for i := 1; i < len(out); i++ {
		row := out[i]
		for len(row) < width {
			row = append(row, Cell{})
		}
		qty := split.ParseQuantity(row.text(ColQuantity))
		out[i] = append(row, GroupCell(make([]bool, qty)))
	}

	log.Debug().
		Str("person", name).
		Int("rows", len(out)-1).
		Msg("Added person column")

	return out, nil
}

// RemovePerson returns a copy of g without its last column. The built-in
// columns and a "#" placeholder column are never removed.
func (g Grid) RemovePerson() (Grid, error) {
	if len(g) == 0 {
		return nil, ErrEmptyTable
	}

	header := g[0]
	if len(header) <= FirstPersonCol || header[len(header)-1].Text == Placeholder {
		return nil, ErrProtectedColumn
	}

	out := g.Clone()
	last := len(header) - 1
	for i, row := range out {
		if len(row) > last {
			out[i] = row[:last]
		}
	}

	log.Debug().
		Str("person", header[last].Text).
		Msg("Removed person column")

	return out, nil
}
