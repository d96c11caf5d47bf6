package grocery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	apperrors "github.com/nutriplan/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListRequiresName(t *testing.T) {
	_, err := NewList(uuid.New(), "  ")

	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestAddItemMergesByName(t *testing.T) {
	l, err := NewList(uuid.New(), "Weekend")
	require.NoError(t, err)

	_, err = l.AddItem("Egg", 2, "piece", "dairy")
	require.NoError(t, err)
	merged, err := l.AddItem("EGG ", 3, "", "")
	require.NoError(t, err)
	_, err = l.AddItem("Bread", 1, "", "")
	require.NoError(t, err)

	assert.Equal(t, 5.0, merged.Quantity)
	require.Len(t, l.Items, 2)
	assert.Equal(t, mealplan.GroceryLine{IngredientName: "egg", Quantity: 5, Unit: "piece", Category: "dairy"}, l.Items[0])
	assert.Equal(t, mealplan.DefaultUnit, l.Items[1].Unit)

	_, err = l.AddItem("Milk", -1, "", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestToggleAndRemove(t *testing.T) {
	l, _ := NewList(uuid.New(), "Groceries")
	_, _ = l.AddItem("Apple", 4, "", "produce")
	_, _ = l.AddItem("Rice", 1, "kg", "")

	require.NoError(t, l.SetPurchased("apple", true))
	assert.Equal(t, 1, l.Remaining())

	require.NoError(t, l.RemoveItem("Rice"))
	assert.Zero(t, l.Remaining())
	assert.True(t, apperrors.Is(l.RemoveItem("rice"), apperrors.CodeNotFound))
	assert.True(t, apperrors.Is(l.SetPurchased("pear", true), apperrors.CodeNotFound))
}

func TestFromPlanCopiesLines(t *testing.T) {
	plan, err := mealplan.NewMealPlan(uuid.New(), 3, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), mealplan.Preferences{})
	require.NoError(t, err)
	plan.GroceryList = []mealplan.GroceryLine{
		mealplan.NewGroceryLine("Oats", 150, "g", "grains"),
		mealplan.NewGroceryLine("Banana", 3, "", "produce"),
	}

	l, err := FromPlan(plan, "")

	require.NoError(t, err)
	assert.Equal(t, "Meal plan 2026-10-19", l.Name)
	assert.Equal(t, plan.ID, *l.MealPlanID)
	assert.Equal(t, plan.UserID, l.UserID)
	assert.Equal(t, plan.GroceryList, l.Items)

	l.Items[0].Purchased = true
	assert.False(t, plan.GroceryList[0].Purchased, "list owns its own copy")
}
