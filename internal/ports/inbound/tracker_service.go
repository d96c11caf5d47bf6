package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/recipe"
)

// TrackerService maintains the daily nutrition journal
type TrackerService interface {
	GetToday(ctx context.Context, userID uuid.UUID) (*DailyLogView, error)
	GetDay(ctx context.Context, userID uuid.UUID, date time.Time) (*DailyLogView, error)
	GetRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*nutrition.Log, error)

	LogMeal(ctx context.Context, cmd LogMealCommand) (*DailyLogView, error)
	RemoveMeal(ctx context.Context, userID uuid.UUID, date time.Time, mealID uuid.UUID) (*DailyLogView, error)
	UpdateWaterIntake(ctx context.Context, userID uuid.UUID, date time.Time, amountMl float64) (*DailyLogView, error)

	GetWeeklySummary(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*nutrition.WeeklySummary, error)
}

// DailyLogView is a log with its progress percentages
type DailyLogView struct {
	Log      *nutrition.Log             `json:"log"`
	Progress map[nutrition.Nutrient]int `json:"progress"`
}

// CustomMealInput describes a meal without a catalog recipe
type CustomMealInput struct {
	Name        string            `json:"name" validate:"required,max=200"`
	Ingredients []IngredientInput `json:"ingredients" validate:"dive"`
}

// LogMealCommand logs one meal. Exactly one of RecipeID and CustomMeal is expected.
type LogMealCommand struct {
	UserID     uuid.UUID        `json:"-"`
	Date       *time.Time       `json:"date"`
	MealType   string           `json:"meal_type" validate:"required"`
	RecipeID   *uuid.UUID       `json:"recipe_id"`
	CustomMeal *CustomMealInput `json:"custom_meal"`
	ConsumedAt *time.Time       `json:"consumed_at"`
	Notes      string           `json:"notes" validate:"max=500"`
}

// Source converts the command into the domain meal source
func (c LogMealCommand) Source() nutrition.MealSource {
	src := nutrition.MealSource{RecipeID: c.RecipeID}
	if c.CustomMeal != nil {
		custom := &nutrition.CustomMeal{Name: c.CustomMeal.Name}
		for _, in := range c.CustomMeal.Ingredients {
			custom.Ingredients = append(custom.Ingredients, recipe.Ingredient{
				Name:      in.Name,
				Quantity:  in.Quantity,
				Unit:      in.Unit,
				Category:  in.Category,
				Nutrition: in.Nutrition,
			})
		}
		src.Custom = custom
	}
	return src
}
