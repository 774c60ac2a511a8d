package receipt

// sampleJSON is a real restaurant receipt used in debug mode.
const sampleJSON = `[
  {"name": "Moscow Mule", "price": 8.9, "quantity": 3},
  {"name": "Franziskaner Hefeweizen", "price": 5.5, "quantity": 4},
  {"name": "Riq. Sauvignon Blanc", "price": 6.9, "quantity": 1},
  {"name": "Krombacher Pils 0,4L", "price": 5.5, "quantity": 1},
  {"name": "K1. House Salad", "price": 5.9, "quantity": 1},
  {"name": "Starter Caesar Salad", "price": 6.9, "quantity": 1},
  {"name": "Caesar Garnelen", "price": 17.9, "quantity": 1},
  {"name": "Starter Caesar Salad", "price": 6.9, "quantity": 1},
  {"name": "240g Hähnchenbrustfilet", "price": 22.9, "quantity": 1},
  {"name": "Süßkartoffel Fries", "price": 5.9, "quantity": 1},
  {"name": "M 300g Arg. Rumpsteak", "price": 34.9, "quantity": 1},
  {"name": "M 300g Arg. Huftsteak", "price": 34.9, "quantity": 1},
  {"name": "M 400g Arg. Entrecôte", "price": 49.9, "quantity": 1},
  {"name": "Baked Kartöffeli", "price": 5.9, "quantity": 1},
  {"name": "M 300g Arg. Huftsteak", "price": 34.9, "quantity": 1},
  {"name": "Knoblauch-Kräuterbutter", "price": 3.9, "quantity": 1},
  {"name": "Trüffel Butter", "price": 3.9, "quantity": 1},
  {"name": "Aqua Panna 0,75L", "price": 6.9, "quantity": 1},
  {"name": "Whiskey Sour", "price": 8.9, "quantity": 1},
  {"name": "Oreo Brownie", "price": 8.9, "quantity": 1},
  {"name": "Latte Macchiato", "price": 3.9, "quantity": 1},
  {"name": "Apple Pie", "price": 8.9, "quantity": 2},
  {"name": "Jägermeister 4cl", "price": 4.9, "quantity": 4}
]`

// Sample returns the debug receipt.
func Sample() []Item {
	items, err := DecodeItems([]byte(sampleJSON))
	if err != nil {
		panic(err)
	}
	return items
}
