// Package profile contains the user's body metrics, goals and the daily
// calorie and macro targets derived from them.
package profile

import (
	"time"

	"github.com/google/uuid"
)

// Gender used by the BMR formula
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Goal is the user's weight goal
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMaintenance Goal = "maintenance"
	GoalMuscleGain  Goal = "muscle_gain"
)

// ActivityLevel scales BMR to maintenance calories
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// DietaryPreference is matched against recipe dietary tags
type DietaryPreference string

const (
	DietVegetarian    DietaryPreference = "vegetarian"
	DietNonVegetarian DietaryPreference = "non-vegetarian"
	DietVegan         DietaryPreference = "vegan"
	DietGlutenFree    DietaryPreference = "gluten-free"
	DietNone          DietaryPreference = "none"
)

// Valid reports whether p is one of the known preferences
func (p DietaryPreference) Valid() bool {
	switch p {
	case DietVegetarian, DietNonVegetarian, DietVegan, DietGlutenFree, DietNone:
		return true
	}
	return false
}

// MacroTargets are the daily targets stored on the profile. Zero means unset.
type MacroTargets struct {
	DailyCalories float64 `json:"daily_calories"`
	ProteinG      float64 `json:"protein_g"`
	CarbsG        float64 `json:"carbs_g"`
	FatsG         float64 `json:"fats_g"`
}

// IsSet reports whether calorie targets have been computed
func (t MacroTargets) IsSet() bool {
	return t.DailyCalories > 0
}

// Profile is owned by a user and mutated by the calculator
type Profile struct {
	UserID            uuid.UUID         `json:"user_id"`
	Age               int               `json:"age"`
	Gender            Gender            `json:"gender"`
	HeightCm          float64           `json:"height_cm"`
	WeightKg          float64           `json:"weight_kg"`
	Goal              Goal              `json:"goal"`
	ActivityLevel     ActivityLevel     `json:"activity_level"`
	DietaryPreference DietaryPreference `json:"dietary_preference"`
	Allergies         []string          `json:"allergies"`
	Restrictions      []string          `json:"restrictions"`
	Targets           MacroTargets      `json:"targets"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Metrics are the calculator inputs of a profile
type Metrics struct {
	Age           *int
	Gender        *Gender
	HeightCm      *float64
	WeightKg      *float64
	Goal          *Goal
	ActivityLevel *ActivityLevel
}

func (m Metrics) empty() bool {
	return m.Age == nil && m.Gender == nil && m.HeightCm == nil &&
		m.WeightKg == nil && m.Goal == nil && m.ActivityLevel == nil
}

// ApplyMetrics updates the given inputs and recomputes the targets when any
// input actually changed. A profile that has no targets and receives no
// inputs is left alone until it is complete. It returns whether targets were
// recomputed.
func (p *Profile) ApplyMetrics(m Metrics) (bool, error) {
	next := *p
	if m.Age != nil {
		next.Age = *m.Age
	}
	if m.Gender != nil {
		next.Gender = *m.Gender
	}
	if m.HeightCm != nil {
		next.HeightCm = *m.HeightCm
	}
	if m.WeightKg != nil {
		next.WeightKg = *m.WeightKg
	}
	if m.Goal != nil {
		next.Goal = *m.Goal
	}
	if m.ActivityLevel != nil {
		next.ActivityLevel = *m.ActivityLevel
	}

	changed := next.Age != p.Age || next.Gender != p.Gender ||
		next.HeightCm != p.HeightCm || next.WeightKg != p.WeightKg ||
		next.Goal != p.Goal || next.ActivityLevel != p.ActivityLevel
	if !changed && p.Targets.IsSet() {
		return false, nil
	}
	if m.empty() && validateMetrics(next) != nil {
		return false, nil
	}

	targets, err := ComputeTargets(next)
	if err != nil {
		return false, err
	}

	next.Targets = targets.MacroTargets()
	next.UpdatedAt = time.Now().UTC()
	*p = next
	return true, nil
}
