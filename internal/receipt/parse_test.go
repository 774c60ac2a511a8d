package receipt

import (
	"testing"
)

func TestParseText(t *testing.T) {
	text := `Brauhaus am Markt
Tisch 12
3 x Moscow Mule 26,70 €
Franziskaner Hefeweizen 5.50
Krombacher Pils 0,4L 5,50 A
2x Apple Pie 17.80

Zwischensumme 55,50
TOTAL 55.50
Visa 55.50`

	got := ParseText(text)
	want := []Item{
		{Name: "Moscow Mule", Price: 8.9, Quantity: 3},
		{Name: "Franziskaner Hefeweizen", Price: 5.5, Quantity: 1},
		{Name: "Krombacher Pils 0,4L", Price: 5.5, Quantity: 1},
		{Name: "Apple Pie", Price: 8.9, Quantity: 2},
	}

	if len(got) != len(want) {
		t.Fatalf("ParseText() returned %d items, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseTextUnevenLineTotal(t *testing.T) {
	got := ParseText("3 x Espresso 10.00")
	if len(got) != 1 {
		t.Fatalf("expected one item, got %+v", got)
	}
	if got[0].Price != 3.33 {
		t.Errorf("unit price = %v, want 3.33", got[0].Price)
	}
}

func TestParseTextNoItems(t *testing.T) {
	for _, text := range []string{"", "Thank you for visiting!", "\n\n  \n"} {
		if got := ParseText(text); len(got) != 0 {
			t.Errorf("ParseText(%q) = %+v, want no items", text, got)
		}
	}
}
