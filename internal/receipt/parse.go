package receipt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// lineRE matches "[qty x] name amount", where amount is the line total with
// two decimals and an optional trailing currency marker.
var lineRE = regexp.MustCompile(`^(?:(\d+)\s*[xX×*]\s+)?(.*?\S)\s+(-?\d+[.,]\d{2})\s*(?:[A-Za-z€$£]{1,3})?$`)

// summaryWords mark lines that repeat amounts already listed as items.
var summaryWords = []string{
	"total", "subtotal", "summe", "zwischensumme", "gesamt", "balance",
	"change", "cash", "card", "visa", "mastercard", "rückgeld", "mwst", "vat",
}

// ParseText extracts items from OCR text, one candidate per line. The amount at
// the end of a line is its total, so it is divided by the quantity to get
// the unit price.
func ParseText(text string) []Item {
	var items []Item
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := lineRE.FindStringSubmatch(line)
		if m == nil {
			log.Debug().Int("line", i+1).Str("text", line).Msg("Skipping receipt line without an amount")
			continue
		}

		name := strings.TrimSpace(m[2])
		if isSummaryLine(name) {
			log.Debug().Int("line", i+1).Str("name", name).Msg("Skipping receipt summary line")
			continue
		}

		qty := 1
		if m[1] != "" {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				qty = n
			}
		}

		amount, err := decimal.NewFromString(strings.Replace(m[3], ",", ".", 1))
		if err != nil {
			continue
		}
		unit := amount.Div(decimal.NewFromInt(int64(qty))).Round(2)

		items = append(items, Item{
			Name:     name,
			Price:    unit.InexactFloat64(),
			Quantity: qty,
		})
	}

	log.Debug().Int("items", len(items)).Msg("Parsed receipt text")
	return items
}

func isSummaryLine(name string) bool {
	first := strings.ToLower(strings.Fields(name)[0])
	first = strings.TrimRight(first, ":.")
	for _, w := range summaryWords {
		if first == w {
			return true
		}
	}
	return false
}
