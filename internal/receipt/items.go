// Package receipt turns a photographed receipt into bill items that seed the
// split table.
//
// Text is recognised with Tesseract when the binary is built with the "ocr"
// tag. In debug mode a canned receipt is used instead so the table can be
// exercised without an OCR engine.
package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bill_split/internal/split"
	"bill_split/internal/table"
)

var (
	ErrNotAReceipt      = errors.New("image is not a receipt")
	ErrNoItems          = errors.New("no items recognised on receipt")
	ErrUnsupportedImage = errors.New("receipt must be a JPEG or PNG image")

	// ErrOCRNotEnabled is returned when OCR support was not compiled in.
	// Rebuild with -tags ocr, which requires Tesseract to be installed.
	ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")
)

// DefaultPeople are the person columns a freshly imported receipt starts with.
var DefaultPeople = []string{"Person 1", "Person 2"}

// Item is one recognised receipt line. Price is per unit.
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// DecodeItems reads a JSON array of items. A lone item named "Error" marks an
// image that was not a receipt.
func DecodeItems(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode receipt items: %w", err)
	}
	if len(items) == 1 && strings.EqualFold(items[0].Name, "Error") {
		return nil, ErrNotAReceipt
	}
	return items, nil
}

// SplitItems converts receipt items into unticked split items.
func SplitItems(items []Item) []split.Item {
	out := make([]split.Item, 0, len(items))
	for _, it := range items {
		out = append(out, split.Item{
			Name:     it.Name,
			Price:    split.FormatAmount(it.Price),
			Quantity: strconv.Itoa(max(it.Quantity, 1)),
		})
	}
	return out
}

// Grid builds a split table from the items with the given people, or
// DefaultPeople when none are given.
func Grid(items []Item, people ...string) table.Grid {
	if len(people) == 0 {
		people = DefaultPeople
	}
	return table.NewGrid(people, SplitItems(items)...)
}
