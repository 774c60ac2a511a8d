package split

import (
	"github.com/shopspring/decimal"
)

// Share is what one person owes.
type Share struct {
	Name   string
	Amount float64
}

// Formatted returns the amount with two decimals, rounding halves away from
// zero.
func (s Share) Formatted() string {
	return FormatAmount(s.Amount)
}

// Totals holds one share per distinct person name, in first-seen order.
// People sharing a name accumulate into the same share.
type Totals struct {
	shares []Share
	index  map[string]int
}

func newTotals(people []string) Totals {
	t := Totals{index: make(map[string]int, len(people))}
	for _, name := range people {
		if _, ok := t.index[name]; ok {
			continue
		}
		t.index[name] = len(t.shares)
		t.shares = append(t.shares, Share{Name: name})
	}
	return t
}

func (t *Totals) add(name string, amount float64) {
	t.shares[t.index[name]].Amount += amount
}

// Shares returns a copy of the per-person shares.
func (t Totals) Shares() []Share {
	out := make([]Share, len(t.shares))
	copy(out, t.shares)
	return out
}

// Amount returns the unrounded total for name and whether name is known.
func (t Totals) Amount(name string) (float64, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.shares[i].Amount, true
}

// Sum returns the total allocated across everyone.
func (t Totals) Sum() float64 {
	var sum float64
	for _, s := range t.shares {
		sum += s.Amount
	}
	return sum
}

// Formatted maps each person to their two-decimal total.
func (t Totals) Formatted() map[string]string {
	out := make(map[string]string, len(t.shares))
	for _, s := range t.shares {
		out[s.Name] = s.Formatted()
	}
	return out
}

// Equal reports whether both totals have the same people, in order, with the
// same formatted amounts.
func (t Totals) Equal(other Totals) bool {
	if len(t.shares) != len(other.shares) {
		return false
	}
	for i, s := range t.shares {
		o := other.shares[i]
		if s.Name != o.Name || s.Formatted() != o.Formatted() {
			return false
		}
	}
	return true
}

// exactExponent keeps enough fractional digits to hold any float64 amount
// without rounding it first.
const exactExponent = -80

// RoundAmount rounds the exact binary value of v to cents, halves away from
// zero. 2.675 is stored as 2.67499... and so rounds to 2.67.
func RoundAmount(v float64) decimal.Decimal {
	return decimal.NewFromFloatWithExponent(v, exactExponent).Round(2)
}

// FormatAmount renders v with exactly two decimals.
func FormatAmount(v float64) string {
	return RoundAmount(v).StringFixed(2)
}
