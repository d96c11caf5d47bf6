package profile

import (
	"math"

	apperrors "github.com/nutriplan/backend/pkg/errors"
)

const (
	minCaloriesMale   = 1500
	minCaloriesFemale = 1200

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

var goalAdjustments = map[Goal]float64{
	GoalWeightLoss:  -500,
	GoalMaintenance: 0,
	GoalMuscleGain:  300,
}

// MacroRatios are calorie fractions for protein, carbs and fat
type MacroRatios struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

var macroSplits = map[Goal]MacroRatios{
	GoalWeightLoss: {Protein: 0.35, Carbs: 0.40, Fats: 0.25},
	GoalMuscleGain: {Protein: 0.30, Carbs: 0.50, Fats: 0.20},
}

var defaultMacroSplit = MacroRatios{Protein: 0.25, Carbs: 0.50, Fats: 0.25}

// Targets is the calculator result
type Targets struct {
	BMR                 int         `json:"bmr"`
	MaintenanceCalories int         `json:"maintenance_calories"`
	DailyCalories       int         `json:"daily_calories"`
	Protein             int         `json:"protein"`
	Carbs               int         `json:"carbs"`
	Fats                int         `json:"fats"`
	BMI                 float64     `json:"bmi"`
	ActivityMultiplier  float64     `json:"activity_multiplier"`
	MacroRatios         MacroRatios `json:"macro_ratios"`
}

// MacroTargets projects the result onto the fields persisted on a profile
func (t Targets) MacroTargets() MacroTargets {
	return MacroTargets{
		DailyCalories: float64(t.DailyCalories),
		ProteinG:      float64(t.Protein),
		CarbsG:        float64(t.Carbs),
		FatsG:         float64(t.Fats),
	}
}

// ComputeTargets derives BMR, maintenance calories, the goal-adjusted daily
// target and the macro split from the profile. It has no side effects.
func ComputeTargets(p Profile) (Targets, error) {
	if err := validateMetrics(p); err != nil {
		return Targets{}, err
	}

	bmr := BMR(p.Gender, p.WeightKg, p.HeightCm, p.Age)

	multiplier, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers[ActivitySedentary]
	}
	maintenance := bmr * multiplier

	daily := math.Round(maintenance + goalAdjustments[p.Goal])
	if floor := calorieFloor(p.Gender); daily < floor {
		daily = floor
	}

	ratios, ok := macroSplits[p.Goal]
	if !ok {
		ratios = defaultMacroSplit
	}

	return Targets{
		BMR:                 int(math.Round(bmr)),
		MaintenanceCalories: int(math.Round(maintenance)),
		DailyCalories:       int(daily),
		Protein:             int(math.Round(daily * ratios.Protein / kcalPerGramProtein)),
		Carbs:               int(math.Round(daily * ratios.Carbs / kcalPerGramCarbs)),
		Fats:                int(math.Round(daily * ratios.Fats / kcalPerGramFat)),
		BMI:                 BMI(p.WeightKg, p.HeightCm),
		ActivityMultiplier:  multiplier,
		MacroRatios:         ratios,
	}, nil
}

// BMR is the Mifflin-St Jeor basal metabolic rate. "other" averages the
// male and female formulas.
func BMR(gender Gender, weightKg, heightCm float64, age int) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case GenderMale:
		return base + 5
	case GenderFemale:
		return base - 161
	default:
		return base + (5-161)/2.0
	}
}

// BMI rounded to one decimal
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

func calorieFloor(g Gender) float64 {
	if g == GenderMale {
		return minCaloriesMale
	}
	return minCaloriesFemale
}

func validateMetrics(p Profile) error {
	if p.Age < 1 || p.Age > 120 {
		return apperrors.NewInvalidInputError("age", "must be between 1 and 120")
	}
	if p.HeightCm < 50 || p.HeightCm > 250 {
		return apperrors.NewInvalidInputError("height_cm", "must be between 50 and 250")
	}
	if p.WeightKg < 20 || p.WeightKg > 300 {
		return apperrors.NewInvalidInputError("weight_kg", "must be between 20 and 300")
	}
	switch p.Gender {
	case GenderMale, GenderFemale, GenderOther:
	case "":
		return apperrors.NewInvalidInputError("gender", "is required")
	default:
		return apperrors.NewInvalidInputError("gender", "must be male, female or other")
	}
	if p.Goal == "" {
		return apperrors.NewInvalidInputError("goal", "is required")
	}
	if p.ActivityLevel == "" {
		return apperrors.NewInvalidInputError("activity_level", "is required")
	}
	return nil
}
