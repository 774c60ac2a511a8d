package split

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// MaxUnits bounds how many units a single item row may hold.
const MaxUnits = 1000

var (
	nonNumeric     = regexp.MustCompile(`[^0-9.\-]`)
	leadingDecimal = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	leadingInteger = regexp.MustCompile(`^[+-]?\d+`)
)

// ParsePrice strips currency symbols and separators and returns the leading
// numeric value, or 0 when nothing parseable remains. "12.5.3" reads as 12.5.
func ParsePrice(raw string) float64 {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	num := leadingDecimal.FindString(cleaned)
	if num == "" {
		return 0
	}
	price, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return price
}

// ParseQuantity returns the unit count of an item: the leading integer of
// raw, 1 when there is none, clamped to [1, MaxUnits].
func ParseQuantity(raw string) int {
	num := leadingInteger.FindString(strings.TrimSpace(raw))
	if num == "" {
		return 1
	}
	qty, err := strconv.Atoi(num)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(num, "-") {
			return MaxUnits
		}
		return 1
	}
	return min(max(qty, 1), MaxUnits)
}
