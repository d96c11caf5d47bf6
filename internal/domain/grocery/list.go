// Package grocery is the standalone, user-owned shopping list. Lines share
// the merge rules of the meal plan consolidator.
package grocery

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	apperrors "github.com/nutriplan/backend/pkg/errors"
)

// List is a named grocery list, optionally created from a meal plan
type List struct {
	ID         uuid.UUID              `json:"id"`
	UserID     uuid.UUID              `json:"user_id"`
	MealPlanID *uuid.UUID             `json:"meal_plan_id,omitempty"`
	Name       string                 `json:"name"`
	Items      []mealplan.GroceryLine `json:"items"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// NewList creates an empty list
func NewList(userID uuid.UUID, name string) (*List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidInputError("name", "is required")
	}
	if len(name) > 100 {
		return nil, apperrors.NewInvalidInputError("name", "must not exceed 100 characters")
	}
	now := time.Now().UTC()
	return &List{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Items:     []mealplan.GroceryLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// FromPlan copies a plan's consolidated grocery list into a new list
func FromPlan(plan *mealplan.MealPlan, name string) (*List, error) {
	if name == "" {
		name = "Meal plan " + plan.StartDate.Format("2006-01-02")
	}
	l, err := NewList(plan.UserID, name)
	if err != nil {
		return nil, err
	}
	planID := plan.ID
	l.MealPlanID = &planID
	for _, line := range plan.GroceryList {
		l.merge(line)
	}
	return l, nil
}

// AddItem adds a line, merging quantities with an existing line of the same name
func (l *List) AddItem(name string, quantity float64, unit, category string) (mealplan.GroceryLine, error) {
	if strings.TrimSpace(name) == "" {
		return mealplan.GroceryLine{}, apperrors.NewInvalidInputError("ingredient_name", "is required")
	}
	if quantity < 0 {
		return mealplan.GroceryLine{}, apperrors.NewInvalidInputError("quantity", "cannot be negative")
	}
	line := l.merge(mealplan.NewGroceryLine(name, quantity, unit, category))
	l.UpdatedAt = time.Now().UTC()
	return line, nil
}

// SetPurchased marks a line bought or not
func (l *List) SetPurchased(name string, purchased bool) error {
	i := l.indexOf(name)
	if i < 0 {
		return apperrors.NewNotFoundError("grocery item", name)
	}
	l.Items[i].Purchased = purchased
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveItem drops a line
func (l *List) RemoveItem(name string) error {
	i := l.indexOf(name)
	if i < 0 {
		return apperrors.NewNotFoundError("grocery item", name)
	}
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// Remaining counts lines not yet purchased
func (l *List) Remaining() int {
	n := 0
	for _, item := range l.Items {
		if !item.Purchased {
			n++
		}
	}
	return n
}

func (l *List) merge(line mealplan.GroceryLine) mealplan.GroceryLine {
	if i := l.indexOf(line.IngredientName); i >= 0 {
		l.Items[i].Quantity += line.Quantity
		return l.Items[i]
	}
	l.Items = append(l.Items, line)
	return line
}

func (l *List) indexOf(name string) int {
	key := mealplan.NormalizeIngredient(name)
	for i, item := range l.Items {
		if item.IngredientName == key {
			return i
		}
	}
	return -1
}
