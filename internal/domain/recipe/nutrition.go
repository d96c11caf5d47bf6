package recipe

import "math"

// Nutrition holds macro totals. Calories in kcal, the rest in grams.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber"`
}

// Add returns the field-wise sum of n and o
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fats:     n.Fats + o.Fats,
		Fiber:    n.Fiber + o.Fiber,
	}
}

// Rounded returns n rounded to one decimal place
func (n Nutrition) Rounded() Nutrition {
	r := func(v float64) float64 { return math.Round(v*10) / 10 }
	return Nutrition{
		Calories: r(n.Calories),
		Protein:  r(n.Protein),
		Carbs:    r(n.Carbs),
		Fats:     r(n.Fats),
		Fiber:    r(n.Fiber),
	}
}

// SumIngredients totals the nutrition of every ingredient. Ingredients
// without nutrition data contribute zero.
func SumIngredients(ingredients []Ingredient) Nutrition {
	var total Nutrition
	for _, ing := range ingredients {
		if ing.Nutrition == nil {
			continue
		}
		total = total.Add(*ing.Nutrition)
	}
	return total
}
