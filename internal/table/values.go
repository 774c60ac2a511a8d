package table

import (
	"fmt"
	"strconv"
	"strings"

	"bill_split/internal/split"

	"github.com/rs/zerolog/log"
)

// FromValues reads a sheet value range laid out like the split table. Person
// cells in item rows hold comma-separated booleans, one per unit, e.g.
// "TRUE,FALSE". Tokens that are not booleans count as unticked.
func FromValues(values [][]interface{}) Grid {
	if len(values) == 0 {
		return nil
	}

	header := make(Row, 0, len(values[0]))
	for _, v := range values[0] {
		header = append(header, TextCell(valueString(v)))
	}
	g := Grid{header}

	for i, raw := range values[1:] {
		row := make(Row, 0, len(raw))
		for col, v := range raw {
			if col >= FirstPersonCol && col < len(header) {
				row = append(row, GroupCell(parseChecks(v)))
				continue
			}
			row = append(row, TextCell(valueString(v)))
		}
		if isBlankRow(row) {
			log.Debug().Int("row", i+2).Msg("Skipping blank sheet row")
			continue
		}
		g = append(g, row)
	}

	log.Debug().
		Int("rows", len(g)).
		Int("people", len(g.People())).
		Msg("Parsed split table from sheet values")

	return g
}

// valueString renders a sheet value the way it is displayed.
func valueString(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func parseChecks(v interface{}) []bool {
	if b, ok := v.(bool); ok {
		return []bool{b}
	}
	s := valueString(v)
	if s == "" {
		return []bool{}
	}
	parts := strings.Split(s, ",")
	checks := make([]bool, len(parts))
	for i, p := range parts {
		checks[i], _ = strconv.ParseBool(strings.TrimSpace(p))
	}
	return checks
}

func isBlankRow(row Row) bool {
	for _, c := range row {
		if c.Text != "" {
			return false
		}
		for _, checked := range c.Checks {
			if checked {
				return false
			}
		}
	}
	return true
}

// Values renders the grid back into sheet values.
func (g Grid) Values() [][]interface{} {
	out := make([][]interface{}, 0, len(g))
	for _, row := range g {
		vals := make([]interface{}, 0, len(row))
		for _, c := range row {
			if c.IsGroup {
				vals = append(vals, formatChecks(c.Checks))
				continue
			}
			vals = append(vals, c.Text)
		}
		out = append(out, vals)
	}
	return out
}

func formatChecks(checks []bool) string {
	parts := make([]string, len(checks))
	for i, checked := range checks {
		parts[i] = strings.ToUpper(strconv.FormatBool(checked))
	}
	return strings.Join(parts, ",")
}

// TotalsValues renders totals as a Name/Total value range.
func TotalsValues(t split.Totals) [][]interface{} {
	out := [][]interface{}{{"Name", "Total"}}
	for _, s := range t.Shares() {
		out = append(out, []interface{}{s.Name, s.Formatted()})
	}
	return out
}
