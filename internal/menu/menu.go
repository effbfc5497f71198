// Package menu serves the kitchen's static catalog. The lineup is fixed
// per deployment; there is no menu admin surface.
package menu

import (
	"encoding/json"
	"net/http"
)

type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Veg      bool    `json:"veg"`
}

var catalog = []Item{
	{ID: "paneer-butter-masala", Name: "Paneer Butter Masala", Price: 240, Category: "mains", Veg: true},
	{ID: "dal-tadka", Name: "Dal Tadka", Price: 160, Category: "mains", Veg: true},
	{ID: "mixed-veg-sabzi", Name: "Mixed Veg Sabzi", Price: 180, Category: "mains", Veg: true},
	{ID: "gkk-thali", Name: "Ghar ka Khana Thali", Price: 320, Category: "thali", Veg: true},
	{ID: "mini-thali", Name: "Mini Thali", Price: 220, Category: "thali", Veg: true},
	{ID: "jeera-rice", Name: "Jeera Rice", Price: 120, Category: "sides", Veg: true},
	{ID: "tawa-roti", Name: "Tawa Roti (4 pc)", Price: 60, Category: "sides", Veg: true},
	{ID: "masala-chaas", Name: "Masala Chaas", Price: 50, Category: "drinks", Veg: true},
	{ID: "gulab-jamun", Name: "Gulab Jamun (2 pc)", Price: 90, Category: "dessert", Veg: true},
}

// Catalog returns a copy of the menu.
func Catalog() []Item {
	out := make([]Item, len(catalog))
	copy(out, catalog)
	return out
}

// Handler serves GET /menu.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "data": Catalog()})
	}
}
