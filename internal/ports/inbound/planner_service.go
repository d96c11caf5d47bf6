package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/mealplan"
)

// PlannerService generates meal plans and tracks progress through them
type PlannerService interface {
	GeneratePlan(ctx context.Context, cmd GeneratePlanCommand) (*mealplan.MealPlan, error)
	GetPlan(ctx context.Context, ref PlanRef) (*mealplan.MealPlan, error)
	ListPlans(ctx context.Context, userID uuid.UUID, params PaginationParams) (*MealPlanList, error)

	MarkMealConsumed(ctx context.Context, cmd MarkMealCommand) (*mealplan.MealPlan, error)
	RateMeal(ctx context.Context, cmd RateMealCommand) (*mealplan.MealPlan, error)
	ScheduleMeal(ctx context.Context, cmd ScheduleMealCommand) (*mealplan.MealPlan, error)
	SetDayNotes(ctx context.Context, cmd DayNotesCommand) (*mealplan.MealPlan, error)
	SetStatus(ctx context.Context, ref PlanRef, status mealplan.Status) (*mealplan.MealPlan, error)

	GetGroceryList(ctx context.Context, ref PlanRef) ([]mealplan.GroceryLine, error)
	SetGroceryPurchased(ctx context.Context, ref PlanRef, ingredient string, purchased bool) ([]mealplan.GroceryLine, error)
}

// PlanRef identifies a plan owned by a user
type PlanRef struct {
	UserID uuid.UUID `json:"-"`
	PlanID uuid.UUID `json:"-"`
}

// GeneratePlanCommand requests a new plan. StartDate defaults to today (UTC).
type GeneratePlanCommand struct {
	UserID       uuid.UUID            `json:"-"`
	DurationDays int                  `json:"duration_days" validate:"required,min=1,max=30"`
	StartDate    *time.Time           `json:"start_date"`
	Preferences  mealplan.Preferences `json:"preferences"`
}

// SlotInput addresses a meal slot inside a plan
type SlotInput struct {
	DayNumber int    `json:"day_number" validate:"required,min=1,max=30"`
	Category  string `json:"category" validate:"required,oneof=breakfast lunch dinner snacks"`
	Index     int    `json:"index" validate:"gte=0,lt=4"`
}

// Ref converts the input into the domain slot address
func (s SlotInput) Ref() mealplan.SlotRef {
	return mealplan.SlotRef{DayNumber: s.DayNumber, Category: mealplan.MealCategory(s.Category), Index: s.Index}
}

// MarkMealCommand sets the consumed flag of a slot
type MarkMealCommand struct {
	PlanRef
	SlotInput
	Consumed bool `json:"consumed"`
}

// RateMealCommand leaves feedback on a slot
type RateMealCommand struct {
	PlanRef
	SlotInput
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

// ScheduleMealCommand sets the HH:MM time of a slot
type ScheduleMealCommand struct {
	PlanRef
	SlotInput
	Time string `json:"time"`
}

// DayNotesCommand replaces the notes of a plan day
type DayNotesCommand struct {
	PlanRef
	DayNumber int    `json:"-"`
	Notes     string `json:"notes" validate:"max=1000"`
}

// MealPlanList is a page of plans
type MealPlanList struct {
	Plans    []*mealplan.MealPlan `json:"plans"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}
