// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"gorm.io/gorm"
)

// ProfileModel represents the GORM model for user profiles
type ProfileModel struct {
	UserID            uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Age               int         `gorm:"default:0"`
	Gender            string      `gorm:"type:varchar(10)"`
	HeightCm          float64     `gorm:"column:height_cm"`
	WeightKg          float64     `gorm:"column:weight_kg"`
	Goal              string      `gorm:"type:varchar(20)"`
	ActivityLevel     string      `gorm:"type:varchar(20)"`
	DietaryPreference string      `gorm:"type:varchar(20);default:'none'"`
	Allergies         StringSlice `gorm:"type:json"`
	Restrictions      StringSlice `gorm:"type:json"`

	// Calculator output, zero until computed
	DailyCalories float64 `gorm:"default:0"`
	ProteinG      float64 `gorm:"column:protein_g;default:0"`
	CarbsG        float64 `gorm:"column:carbs_g;default:0"`
	FatsG         float64 `gorm:"column:fats_g;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Title       string    `gorm:"type:varchar(200);not null;index"`
	Description string    `gorm:"type:text"`
	AuthorID    uuid.UUID `gorm:"type:char(36);not null;index"`

	Ingredients  []recipe.Ingredient `gorm:"type:json;serializer:json"`
	Instructions StringSlice         `gorm:"type:json"`

	// Nutrition, computed from ingredients on write
	Calories float64 `gorm:"default:0"`
	Protein  float64 `gorm:"default:0"`
	Carbs    float64 `gorm:"default:0"`
	Fats     float64 `gorm:"default:0"`
	Fiber    float64 `gorm:"default:0"`

	// Categorization
	DietaryTags StringSlice `gorm:"type:json"`
	Cuisine     string      `gorm:"type:varchar(50);index"`
	Difficulty  string      `gorm:"type:varchar(20)"`

	// Timing (stored in minutes)
	PrepTimeMinutes int `gorm:"column:prep_time_minutes;default:0"`
	CookTimeMinutes int `gorm:"column:cook_time_minutes;default:0"`
	Servings        int `gorm:"default:1"`

	// Moderation
	Status          string     `gorm:"type:varchar(20);default:'pending';index"`
	RejectionReason string     `gorm:"type:text"`
	ModeratedBy     *uuid.UUID `gorm:"type:char(36)"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// MealPlanModel represents the GORM model for meal plans. Days and the
// grocery list are stored as JSON documents on the plan row.
type MealPlanModel struct {
	ID               uuid.UUID                 `gorm:"type:char(36);primaryKey"`
	UserID           uuid.UUID                 `gorm:"type:char(36);not null;index"`
	DurationDays     int                       `gorm:"not null"`
	StartDate        time.Time                 `gorm:"not null"`
	EndDate          time.Time                 `gorm:"not null"`
	Preferences      mealplan.Preferences      `gorm:"type:json;serializer:json"`
	Days             []mealplan.DayPlan        `gorm:"type:json;serializer:json"`
	GroceryList      []mealplan.GroceryLine    `gorm:"type:json;serializer:json"`
	NutritionSummary mealplan.NutritionSummary `gorm:"type:json;serializer:json"`
	Status           string                    `gorm:"type:varchar(20);default:'active';index"`
	CompletionRate   float64                   `gorm:"default:0"`
	CreatedAt        time.Time                 `gorm:"index"`
	UpdatedAt        time.Time
}

// NutritionLogModel represents the GORM model for daily nutrition logs.
// There is at most one row per user and day.
type NutritionLogModel struct {
	ID           uuid.UUID              `gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID              `gorm:"type:char(36);not null;uniqueIndex:idx_nutrition_logs_user_date"`
	Date         time.Time              `gorm:"not null;uniqueIndex:idx_nutrition_logs_user_date"`
	Meals        []nutrition.LoggedMeal `gorm:"type:json;serializer:json"`
	DailySummary nutrition.DailySummary `gorm:"type:json;serializer:json"`
	Targets      profile.MacroTargets   `gorm:"type:json;serializer:json"`
	GoalsMet     nutrition.GoalsMet     `gorm:"type:json;serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GroceryListModel represents the GORM model for standalone grocery lists
type GroceryListModel struct {
	ID         uuid.UUID              `gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID              `gorm:"type:char(36);not null;index"`
	MealPlanID *uuid.UUID             `gorm:"type:char(36);index"`
	Name       string                 `gorm:"type:varchar(100);not null"`
	Items      []mealplan.GroceryLine `gorm:"type:json;serializer:json"`
	CreatedAt  time.Time              `gorm:"index"`
	UpdatedAt  time.Time
}

// AllModels lists every model for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&ProfileModel{},
		&RecipeModel{},
		&MealPlanModel{},
		&NutritionLogModel{},
		&GroceryListModel{},
	}
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for NutritionLogModel
func (n *NutritionLogModel) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for GroceryListModel
func (g *GroceryListModel) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (ProfileModel) TableName() string {
	return "profiles"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (NutritionLogModel) TableName() string {
	return "nutrition_logs"
}

func (GroceryListModel) TableName() string {
	return "grocery_lists"
}
