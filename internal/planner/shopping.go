package planner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"cookbook/internal/types"
)

// ShoppingItem is one line of the plan's shopping list.
type ShoppingItem struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	// Recipe is the first planned recipe that needs the ingredient.
	Recipe string `json:"recipe"`
}

// ShoppingList walks the plan in week order and lists each ingredient once, matched
// case-insensitively. The first amount seen is kept; amounts are not added together
// because ingredients carry no comparable units.
func (p *Plan) ShoppingList() []ShoppingItem {
	seen := map[string]bool{}
	items := []ShoppingItem{}
	p.Each(func(_ Day, _ Slot, r types.Recipe) {
		for _, ing := range r.Ingredients {
			key := normalize(ing.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			items = append(items, ShoppingItem{Name: capitalize(key), Amount: ing.Amount, Recipe: r.Name})
		}
	})
	return items
}

// FormatShoppingList renders the list the way the planner screen shows it.
func FormatShoppingList(items []ShoppingItem) string {
	if len(items) == 0 {
		return "Kế hoạch của bạn đang trống!"
	}
	var b strings.Builder
	b.WriteString("Nguyên liệu cần mua:\n\n")
	for _, it := range items {
		b.WriteString("• ")
		b.WriteString(it.Name)
		b.WriteByte('\n')
	}
	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
