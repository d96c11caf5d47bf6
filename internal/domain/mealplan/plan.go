// Package mealplan contains the meal plan aggregate, the generator that
// fills it from the recipe catalog and the grocery consolidator.
//
// Derived fields (EndDate, NutritionSummary, CompletionRate and per-day
// nutrition) are only written by Recompute and RecomputeNutrition, which
// every mutation calls before returning.
package mealplan

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/domain/shared"
	apperrors "github.com/nutriplan/backend/pkg/errors"
)

const (
	MinDurationDays = 1
	MaxDurationDays = 30

	// MaxSlotsPerCategory bounds each meal category list of a day
	MaxSlotsPerCategory = 4
)

// MealCategory names the meal slots of a planned day
type MealCategory string

const (
	Breakfast MealCategory = "breakfast"
	Lunch     MealCategory = "lunch"
	Dinner    MealCategory = "dinner"
	Snacks    MealCategory = "snacks"
)

// MealCategories in assignment and iteration order
var MealCategories = []MealCategory{Breakfast, Lunch, Dinner, Snacks}

// Valid reports whether c is a known category
func (c MealCategory) Valid() bool {
	for _, known := range MealCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Status of a meal plan
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var scheduledTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Feedback left on a planned meal
type Feedback struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// MealSlot is one planned meal
type MealSlot struct {
	RecipeID      *uuid.UUID `json:"recipe_id,omitempty"`
	ScheduledTime string     `json:"scheduled_time,omitempty"`
	Consumed      bool       `json:"consumed"`
	Feedback      *Feedback  `json:"feedback,omitempty"`
}

// Meals maps each category to its bounded list of slots
type Meals map[MealCategory][]MealSlot

// Add appends a slot to a category, enforcing the per-category bound
func (m Meals) Add(c MealCategory, slot MealSlot) error {
	if !c.Valid() {
		return apperrors.NewInvalidInputError("category", "must be breakfast, lunch, dinner or snacks")
	}
	if len(m[c]) >= MaxSlotsPerCategory {
		return apperrors.NewInvalidInputError("category", "has reached the maximum number of meals")
	}
	m[c] = append(m[c], slot)
	return nil
}

// DayPlan is one day of a meal plan
type DayPlan struct {
	Date      time.Time        `json:"date"`
	DayNumber int              `json:"day_number"`
	Meals     Meals            `json:"meals"`
	Nutrition recipe.Nutrition `json:"nutrition"`
	Notes     string           `json:"notes,omitempty"`
}

// Slots calls fn for every slot of the day in category order
func (d *DayPlan) Slots(fn func(c MealCategory, slot *MealSlot)) {
	for _, c := range MealCategories {
		for i := range d.Meals[c] {
			fn(c, &d.Meals[c][i])
		}
	}
}

// RecomputeNutrition sums the nutrition of every assigned recipe. Unset
// slots and recipes the lookup cannot resolve contribute zero.
func (d *DayPlan) RecomputeNutrition(lookup recipe.Lookup) {
	var total recipe.Nutrition
	d.Slots(func(_ MealCategory, slot *MealSlot) {
		if slot.RecipeID == nil {
			return
		}
		if r, ok := lookup.Recipe(*slot.RecipeID); ok {
			total = total.Add(r.Nutrition)
		}
	})
	d.Nutrition = total
}

// Preferences constrain candidate selection. They are stored with the plan.
type Preferences struct {
	DietaryPreference   string   `json:"dietary_preference,omitempty"`
	ExcludedIngredients []string `json:"excluded_ingredients,omitempty"`
	Cuisine             []string `json:"cuisine,omitempty"`
	MaxPrepTimeMin      *int     `json:"max_prep_time_min,omitempty"`
	MaxCookTimeMin      *int     `json:"max_cook_time_min,omitempty"`
}

// Validate checks the optional limits
func (p Preferences) Validate() error {
	if p.MaxPrepTimeMin != nil && *p.MaxPrepTimeMin < 0 {
		return apperrors.NewInvalidInputError("max_prep_time_min", "cannot be negative")
	}
	if p.MaxCookTimeMin != nil && *p.MaxCookTimeMin < 0 {
		return apperrors.NewInvalidInputError("max_cook_time_min", "cannot be negative")
	}
	return nil
}

// NutritionSummary is the plan-wide rollup
type NutritionSummary struct {
	TotalCalories        float64 `json:"total_calories"`
	TotalProtein         float64 `json:"total_protein"`
	TotalCarbs           float64 `json:"total_carbs"`
	TotalFats            float64 `json:"total_fats"`
	AverageDailyCalories float64 `json:"average_daily_calories"`
}

// MealPlan is the plan aggregate
type MealPlan struct {
	shared.AggregateRoot

	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	DurationDays     int              `json:"duration_days"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	Preferences      Preferences      `json:"preferences"`
	Days             []DayPlan        `json:"days"`
	GroceryList      []GroceryLine    `json:"grocery_list"`
	NutritionSummary NutritionSummary `json:"nutrition_summary"`
	Status           Status           `json:"status"`
	CompletionRate   float64          `json:"completion_rate"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewMealPlan creates an active plan with empty, dated days
func NewMealPlan(userID uuid.UUID, durationDays int, start time.Time, prefs Preferences) (*MealPlan, error) {
	if durationDays < MinDurationDays || durationDays > MaxDurationDays {
		return nil, apperrors.NewInvalidInputError("duration_days", "must be between 1 and 30")
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	start = shared.Day(start)
	now := time.Now().UTC()
	plan := &MealPlan{
		ID:           uuid.New(),
		UserID:       userID,
		CreatedAt:    now,
		UpdatedAt:    now,
		DurationDays: durationDays,
		StartDate:    start,
		Preferences:  prefs,
		Days:         make([]DayPlan, durationDays),
		Status:       StatusActive,
	}
	for i := range plan.Days {
		plan.Days[i] = DayPlan{
			Date:      start.AddDate(0, 0, i),
			DayNumber: i + 1,
			Meals:     Meals{},
		}
	}
	plan.Recompute()
	return plan, nil
}

// Recompute derives EndDate, NutritionSummary and CompletionRate from Days
func (p *MealPlan) Recompute() {
	p.EndDate = p.StartDate.AddDate(0, 0, p.DurationDays-1)

	var summary NutritionSummary
	total, consumed := 0, 0
	for i := range p.Days {
		day := &p.Days[i]
		summary.TotalCalories += day.Nutrition.Calories
		summary.TotalProtein += day.Nutrition.Protein
		summary.TotalCarbs += day.Nutrition.Carbs
		summary.TotalFats += day.Nutrition.Fats

		day.Slots(func(_ MealCategory, slot *MealSlot) {
			total++
			if slot.Consumed {
				consumed++
			}
		})
	}
	if p.DurationDays > 0 {
		summary.AverageDailyCalories = math.Round(summary.TotalCalories / float64(p.DurationDays))
	}
	p.NutritionSummary = summary

	p.CompletionRate = 0
	if total > 0 {
		p.CompletionRate = math.Round(float64(consumed) / float64(total) * 100)
	}
}

// RecomputeNutrition refreshes every day's nutrition from the lookup, then Recompute
func (p *MealPlan) RecomputeNutrition(lookup recipe.Lookup) {
	for i := range p.Days {
		p.Days[i].RecomputeNutrition(lookup)
	}
	p.Recompute()
}

// RecipeIDs lists the distinct recipes referenced by the plan in first-seen order
func (p *MealPlan) RecipeIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for i := range p.Days {
		p.Days[i].Slots(func(_ MealCategory, slot *MealSlot) {
			if slot.RecipeID != nil && !seen[*slot.RecipeID] {
				seen[*slot.RecipeID] = true
				ids = append(ids, *slot.RecipeID)
			}
		})
	}
	return ids
}

// Day returns the day with the given 1-based number
func (p *MealPlan) Day(dayNumber int) (*DayPlan, error) {
	if dayNumber < 1 || dayNumber > len(p.Days) {
		return nil, apperrors.NewNotFoundError("meal plan day", "")
	}
	return &p.Days[dayNumber-1], nil
}

// SlotRef addresses one slot of a plan
type SlotRef struct {
	DayNumber int
	Category  MealCategory
	Index     int
}

func (p *MealPlan) slot(ref SlotRef) (*MealSlot, error) {
	day, err := p.Day(ref.DayNumber)
	if err != nil {
		return nil, err
	}
	slots := day.Meals[ref.Category]
	if ref.Index < 0 || ref.Index >= len(slots) {
		return nil, apperrors.NewNotFoundError("meal slot", "")
	}
	return &slots[ref.Index], nil
}

// MarkConsumed sets the consumed flag of a slot and recomputes completion
func (p *MealPlan) MarkConsumed(ref SlotRef, consumed bool) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	slot, err := p.slot(ref)
	if err != nil {
		return err
	}
	slot.Consumed = consumed
	p.touch()
	return nil
}

// Rate records feedback on a slot
func (p *MealPlan) Rate(ref SlotRef, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewInvalidInputError("rating", "must be between 1 and 5")
	}
	if len(comment) > 500 {
		return apperrors.NewInvalidInputError("comment", "must not exceed 500 characters")
	}
	slot, err := p.slot(ref)
	if err != nil {
		return err
	}
	slot.Feedback = &Feedback{Rating: rating, Comment: comment}
	p.touch()
	return nil
}

// Schedule sets the HH:MM time of a slot. An empty value clears it.
func (p *MealPlan) Schedule(ref SlotRef, hhmm string) error {
	if hhmm != "" && !scheduledTimePattern.MatchString(hhmm) {
		return apperrors.NewInvalidInputError("scheduled_time", "must be HH:MM")
	}
	slot, err := p.slot(ref)
	if err != nil {
		return err
	}
	slot.ScheduledTime = hhmm
	p.touch()
	return nil
}

// SetNotes replaces the notes of a day
func (p *MealPlan) SetNotes(dayNumber int, notes string) error {
	day, err := p.Day(dayNumber)
	if err != nil {
		return err
	}
	day.Notes = strings.TrimSpace(notes)
	p.touch()
	return nil
}

// SetStatus moves an active plan to completed or cancelled
func (p *MealPlan) SetStatus(status Status) error {
	switch status {
	case StatusCompleted, StatusCancelled:
	default:
		return apperrors.NewInvalidInputError("status", "must be completed or cancelled")
	}
	if err := p.ensureActive(); err != nil {
		return err
	}
	old := p.Status
	p.Status = status
	p.touch()
	p.AddEvent(StatusChangedEvent{PlanID: p.ID, UserID: p.UserID, From: old, To: status, ChangedAt: p.UpdatedAt})
	return nil
}

// SetPurchased toggles a grocery line of the plan by ingredient name
func (p *MealPlan) SetPurchased(ingredient string, purchased bool) error {
	key := NormalizeIngredient(ingredient)
	for i := range p.GroceryList {
		if p.GroceryList[i].IngredientName == key {
			p.GroceryList[i].Purchased = purchased
			p.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return apperrors.NewNotFoundError("grocery item", ingredient)
}

func (p *MealPlan) ensureActive() error {
	if p.Status != StatusActive {
		return apperrors.NewConflictError("meal plan is " + string(p.Status))
	}
	return nil
}

func (p *MealPlan) touch() {
	p.Recompute()
	p.UpdatedAt = time.Now().UTC()
}
