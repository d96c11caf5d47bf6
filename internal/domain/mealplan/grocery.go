package mealplan

import (
	"strings"

	"github.com/nutriplan/backend/internal/domain/recipe"
)

const (
	DefaultUnit     = "unit"
	DefaultCategory = "other"
)

// GroceryLine is one consolidated shopping item
type GroceryLine struct {
	IngredientName string  `json:"ingredient_name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Category       string  `json:"category"`
	Purchased      bool    `json:"purchased"`
}

// NormalizeIngredient returns the merge key for an ingredient name
func NormalizeIngredient(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewGroceryLine builds a line from an ingredient, applying the unit and
// category defaults
func NewGroceryLine(name string, quantity float64, unit, category string) GroceryLine {
	if unit = strings.TrimSpace(unit); unit == "" {
		unit = DefaultUnit
	}
	if category = strings.TrimSpace(category); category == "" {
		category = DefaultCategory
	}
	if quantity < 0 {
		quantity = 0
	}
	return GroceryLine{
		IngredientName: NormalizeIngredient(name),
		Quantity:       quantity,
		Unit:           unit,
		Category:       category,
	}
}

// Consolidate merges the ingredients of every assigned recipe into one line
// per normalized name, in first-seen order. Quantities add up; the unit and
// category of the first occurrence are kept even when later units differ.
func Consolidate(days []DayPlan, lookup recipe.Lookup) []GroceryLine {
	lines := []GroceryLine{}
	positions := make(map[string]int)

	for i := range days {
		days[i].Slots(func(_ MealCategory, slot *MealSlot) {
			if slot.RecipeID == nil {
				return
			}
			r, ok := lookup.Recipe(*slot.RecipeID)
			if !ok {
				return
			}
			for _, ing := range r.Ingredients {
				line := NewGroceryLine(ing.Name, ing.Quantity, ing.Unit, ing.Category)
				if line.IngredientName == "" {
					continue
				}
				if pos, seen := positions[line.IngredientName]; seen {
					lines[pos].Quantity += line.Quantity
					continue
				}
				positions[line.IngredientName] = len(lines)
				lines = append(lines, line)
			}
		})
	}
	return lines
}
