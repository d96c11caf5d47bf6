// Package nutrition holds the per-user, per-day nutrition journal and the
// rollups computed from it. Days are keyed by UTC midnight.
package nutrition

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/domain/shared"
	apperrors "github.com/nutriplan/backend/pkg/errors"
)

// DefaultTargets seed a log when the profile has no computed targets
var DefaultTargets = profile.MacroTargets{DailyCalories: 2000, ProteinG: 150, CarbsG: 250, FatsG: 67}

// MealType of a logged meal
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Valid reports whether t is a known meal type
func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// CustomMeal is a meal logged without a catalog recipe
type CustomMeal struct {
	Name        string              `json:"name"`
	Ingredients []recipe.Ingredient `json:"ingredients"`
}

// MealSource is exactly one of a recipe reference or a custom meal
type MealSource struct {
	RecipeID *uuid.UUID
	Custom   *CustomMeal
}

// Validate enforces that exactly one source is given
func (s MealSource) Validate() error {
	switch {
	case s.RecipeID != nil && s.Custom != nil:
		return apperrors.NewInvalidMealSourceError("provide either recipe_id or custom_meal, not both")
	case s.RecipeID == nil && s.Custom == nil:
		return apperrors.NewInvalidMealSourceError("recipe_id or custom_meal is required")
	}
	return nil
}

// LoggedMeal is one journal entry. Nutrition is frozen at log time.
type LoggedMeal struct {
	ID         uuid.UUID        `json:"id"`
	MealType   MealType         `json:"meal_type"`
	RecipeID   *uuid.UUID       `json:"recipe_id,omitempty"`
	CustomMeal *CustomMeal      `json:"custom_meal,omitempty"`
	Nutrition  recipe.Nutrition `json:"nutrition"`
	ConsumedAt time.Time        `json:"consumed_at"`
	Notes      string           `json:"notes,omitempty"`
}

// DailySummary is the derived sum over a day's meals plus water intake
type DailySummary struct {
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fats        float64 `json:"fats"`
	Fiber       float64 `json:"fiber"`
	WaterIntake float64 `json:"water_intake"`
}

// GoalsMet flags per nutrient
type GoalsMet struct {
	Calories bool `json:"calories"`
	Protein  bool `json:"protein"`
	Carbs    bool `json:"carbs"`
	Fats     bool `json:"fats"`
}

// Log is the journal of one user for one UTC day
type Log struct {
	shared.AggregateRoot

	ID           uuid.UUID            `json:"id"`
	UserID       uuid.UUID            `json:"user_id"`
	Date         time.Time            `json:"date"`
	Meals        []LoggedMeal         `json:"meals"`
	DailySummary DailySummary         `json:"daily_summary"`
	Targets      profile.MacroTargets `json:"targets"`
	GoalsMet     GoalsMet             `json:"goals_met"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// SeedTargets picks the profile's targets, or the fallback when unset
func SeedTargets(current, fallback profile.MacroTargets) profile.MacroTargets {
	if current.IsSet() {
		return current
	}
	return fallback
}

// NewLog opens an empty day seeded with targets
func NewLog(userID uuid.UUID, date time.Time, targets profile.MacroTargets) *Log {
	now := time.Now().UTC()
	l := &Log{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      shared.Day(date),
		Meals:     []LoggedMeal{},
		Targets:   targets,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.Recompute()
	return l
}

// MealEntry is the input for LogMeal
type MealEntry struct {
	MealType   MealType
	Source     MealSource
	ConsumedAt time.Time
	Notes      string
}

// LogMeal appends a meal, snapshotting its nutrition, and recomputes the day.
// Recipe sources are resolved through lookup.
func (l *Log) LogMeal(entry MealEntry, lookup recipe.Lookup) (*LoggedMeal, error) {
	if !entry.MealType.Valid() {
		return nil, apperrors.NewInvalidInputError("meal_type", "must be breakfast, lunch, dinner or snack")
	}
	if err := entry.Source.Validate(); err != nil {
		return nil, err
	}

	meal := LoggedMeal{
		ID:         uuid.New(),
		MealType:   entry.MealType,
		ConsumedAt: entry.ConsumedAt,
		Notes:      strings.TrimSpace(entry.Notes),
	}
	if meal.ConsumedAt.IsZero() {
		meal.ConsumedAt = time.Now().UTC()
	}

	if entry.Source.RecipeID != nil {
		r, ok := lookup.Recipe(*entry.Source.RecipeID)
		if !ok {
			return nil, apperrors.NewNotFoundError("recipe", entry.Source.RecipeID.String())
		}
		id := r.ID
		meal.RecipeID = &id
		meal.Nutrition = r.Nutrition
	} else {
		custom := *entry.Source.Custom
		if strings.TrimSpace(custom.Name) == "" {
			return nil, apperrors.NewInvalidInputError("custom_meal.name", "is required")
		}
		for _, ing := range custom.Ingredients {
			if err := ing.Validate(); err != nil {
				return nil, err
			}
		}
		meal.CustomMeal = &custom
		meal.Nutrition = recipe.SumIngredients(custom.Ingredients).Rounded()
	}

	l.Meals = append(l.Meals, meal)
	l.touch()
	l.AddEvent(MealLoggedEvent{
		LogID:    l.ID,
		UserID:   l.UserID,
		Date:     l.Date,
		MealType: meal.MealType,
		Calories: meal.Nutrition.Calories,
		LoggedAt: l.UpdatedAt,
	})
	return &l.Meals[len(l.Meals)-1], nil
}

// RemoveMeal deletes a logged meal and recomputes the day
func (l *Log) RemoveMeal(mealID uuid.UUID) error {
	for i, m := range l.Meals {
		if m.ID == mealID {
			l.Meals = append(l.Meals[:i], l.Meals[i+1:]...)
			l.touch()
			return nil
		}
	}
	return apperrors.NewNotFoundError("logged meal", mealID.String())
}

// UpdateWaterIntake sets the day's water intake in millilitres
func (l *Log) UpdateWaterIntake(ml float64) error {
	if ml < 0 {
		return apperrors.NewInvalidInputError("amount_ml", "cannot be negative")
	}
	l.DailySummary.WaterIntake = ml
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// HasEntries reports whether anything was recorded for the day
func (l *Log) HasEntries() bool {
	return len(l.Meals) > 0 || l.DailySummary.WaterIntake > 0
}

// Recompute derives DailySummary (keeping water intake) and GoalsMet from Meals
func (l *Log) Recompute() {
	var total recipe.Nutrition
	for _, m := range l.Meals {
		total = total.Add(m.Nutrition)
	}
	total = total.Rounded()

	l.DailySummary = DailySummary{
		Calories:    total.Calories,
		Protein:     total.Protein,
		Carbs:       total.Carbs,
		Fats:        total.Fats,
		Fiber:       total.Fiber,
		WaterIntake: l.DailySummary.WaterIntake,
	}
	l.GoalsMet = EvaluateGoals(l.DailySummary, l.Targets)
}

func (l *Log) touch() {
	l.Recompute()
	l.UpdatedAt = time.Now().UTC()
}
