package table

import (
	"math"
	"strconv"
	"strings"

	"bill_split/internal/split"
)

// ColumnType selects the validator applied when a cell edit ends. Values
// match the data-type attribute of rendered cells.
type ColumnType string

const (
	TypeName     ColumnType = "iname"
	TypePrice    ColumnType = "price"
	TypeQuantity ColumnType = "quantity"
	TypePerson   ColumnType = "person"
	TypeChecks   ColumnType = "checks"
)

// ColumnTypeAt returns the column type of position col.
func ColumnTypeAt(col int) ColumnType {
	switch col {
	case ColName:
		return TypeName
	case ColPrice:
		return TypePrice
	case ColQuantity:
		return TypeQuantity
	default:
		return TypePerson
	}
}

var validators = map[ColumnType]func(string) bool{
	TypeName: func(value string) bool {
		return strings.TrimSpace(value) != ""
	},
	TypePrice: func(value string) bool {
		num, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil && !math.IsInf(num, 0) && !math.IsNaN(num) && num >= 0
	},
	TypeQuantity: func(value string) bool {
		value = strings.TrimSpace(value)
		num, err := strconv.Atoi(value)
		// "007" and "+3" parse but are not the canonical form
		return err == nil && num >= 0 && num <= split.MaxUnits && strconv.Itoa(num) == value
	},
}

// Valid reports whether value is acceptable for a cell of the given type.
// Types without a validator accept anything.
func Valid(kind ColumnType, value string) bool {
	validate, ok := validators[kind]
	if !ok {
		return true
	}
	return validate(value)
}
