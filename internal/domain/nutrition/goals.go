package nutrition

import (
	"math"

	"github.com/nutriplan/backend/internal/domain/profile"
)

// Nutrient names used in progress reports
type Nutrient string

const (
	NutrientCalories Nutrient = "calories"
	NutrientProtein  Nutrient = "protein"
	NutrientCarbs    Nutrient = "carbs"
	NutrientFats     Nutrient = "fats"
)

// EvaluateGoals applies the goal policy: calories must land within 90-110%
// of target, macros must reach 90%. A nutrient without a target is never met.
// Comparisons are scaled by ten to keep the band edges exact.
func EvaluateGoals(s DailySummary, t profile.MacroTargets) GoalsMet {
	return GoalsMet{
		Calories: t.DailyCalories > 0 &&
			s.Calories*10 >= t.DailyCalories*9 && s.Calories*10 <= t.DailyCalories*11,
		Protein: floorMet(s.Protein, t.ProteinG),
		Carbs:   floorMet(s.Carbs, t.CarbsG),
		Fats:    floorMet(s.Fats, t.FatsG),
	}
}

func floorMet(actual, target float64) bool {
	return target > 0 && actual*10 >= target*9
}

// Progress reports percent of target per nutrient, capped at 100. Nutrients
// without a target are omitted.
func Progress(s DailySummary, t profile.MacroTargets) map[Nutrient]int {
	out := make(map[Nutrient]int, 4)
	add := func(n Nutrient, actual, target float64) {
		if target <= 0 {
			return
		}
		pct := int(math.Round(actual / target * 100))
		if pct > 100 {
			pct = 100
		}
		out[n] = pct
	}
	add(NutrientCalories, s.Calories, t.DailyCalories)
	add(NutrientProtein, s.Protein, t.ProteinG)
	add(NutrientCarbs, s.Carbs, t.CarbsG)
	add(NutrientFats, s.Fats, t.FatsG)
	return out
}

// Progress of this log against its own targets
func (l *Log) Progress() map[Nutrient]int {
	return Progress(l.DailySummary, l.Targets)
}
