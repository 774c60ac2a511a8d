// Package split computes what each person owes for a shared bill.
//
// Every item is made of quantity-many units. Each unit is split evenly among
// the people who ticked it ("takers"); a unit nobody ticked is left
// unallocated rather than charged to anyone.
package split

import (
	"github.com/rs/zerolog/log"
)

// Item is one bill line as read from the table. Price and Quantity keep the
// raw cell text; Checks is indexed [person][unit].
type Item struct {
	Name     string
	Price    string
	Quantity string
	Checks   [][]bool
}

// taken reports whether person p ticked unit u. Missing boxes count as
// unticked.
func (it Item) taken(p, u int) bool {
	if p >= len(it.Checks) || u >= len(it.Checks[p]) {
		return false
	}
	return it.Checks[p][u]
}

// Calculate splits every item among its takers and returns one share per
// person, in the order given. Malformed prices and quantities fall back to
// defaults; it never fails.
func Calculate(items []Item, people []string) Totals {
	totals := newTotals(people)

	for row, item := range items {
		price := ParsePrice(item.Price)
		qty := ParseQuantity(item.Quantity)

		if price <= 0 {
			log.Debug().
				Int("row", row+1).
				Str("item", item.Name).
				Str("price", item.Price).
				Msg("Skipping item without a positive price")
			continue
		}

		unallocated := 0
		for u := 0; u < qty; u++ {
			var takers []int
			for p := range people {
				if item.taken(p, u) {
					takers = append(takers, p)
				}
			}

			if len(takers) == 0 {
				unallocated++
				continue
			}

			share := price / float64(len(takers))
			for _, p := range takers {
				totals.add(people[p], share)
			}
		}

		if unallocated > 0 {
			log.Debug().
				Int("row", row+1).
				Str("item", item.Name).
				Int("units", unallocated).
				Float64("price", price).
				Msg("Units have no takers, leaving unallocated")
		}
	}

	log.Debug().
		Int("items", len(items)).
		Int("people", len(people)).
		Msg("Calculated bill split")

	return totals
}
