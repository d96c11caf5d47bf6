package grocery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/grocery"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/pkg/errors"
	"github.com/nutriplan/backend/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setup(t *testing.T) (*testutils.MockGroceryListRepository, *testutils.MockMealPlanRepository, inbound.GroceryService) {
	lists := new(testutils.MockGroceryListRepository)
	plans := new(testutils.MockMealPlanRepository)
	return lists, plans, NewGroceryService(lists, plans, zaptest.NewLogger(t))
}

func TestCreateList(t *testing.T) {
	lists, _, svc := setup(t)
	userID := uuid.New()
	lists.On("Create", mock.Anything, mock.AnythingOfType("*grocery.List")).Return(nil)

	list, err := svc.CreateList(context.Background(), userID, "  Weekend  ")
	require.NoError(t, err)
	assert.Equal(t, "Weekend", list.Name)
	assert.Empty(t, list.Items)

	_, err = svc.CreateList(context.Background(), userID, "")
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
	lists.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateFromPlan(t *testing.T) {
	lists, plans, svc := setup(t)
	userID := uuid.New()
	plan, err := mealplan.NewMealPlan(userID, 2, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), mealplan.Preferences{})
	require.NoError(t, err)
	plan.GroceryList = []mealplan.GroceryLine{
		mealplan.NewGroceryLine("Egg", 5, "piece", "dairy"),
		mealplan.NewGroceryLine("spinach", 200, "g", "produce"),
	}
	plans.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
	lists.On("Create", mock.Anything, mock.AnythingOfType("*grocery.List")).Return(nil)

	list, err := svc.CreateFromPlan(context.Background(), inbound.PlanRef{UserID: userID, PlanID: plan.ID}, "")
	require.NoError(t, err)
	assert.Equal(t, "Meal plan 2026-10-19", list.Name)
	assert.Equal(t, plan.ID, *list.MealPlanID)
	assert.Len(t, list.Items, 2)

	_, err = svc.CreateFromPlan(context.Background(), inbound.PlanRef{UserID: uuid.New(), PlanID: plan.ID}, "")
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestListMutations(t *testing.T) {
	lists, _, svc := setup(t)
	userID := uuid.New()
	list, err := grocery.NewList(userID, "Pantry")
	require.NoError(t, err)
	ref := inbound.GroceryRef{UserID: userID, ListID: list.ID}
	lists.On("FindByID", mock.Anything, list.ID).Return(list, nil)
	lists.On("Update", mock.Anything, list).Return(nil)

	_, err = svc.AddItem(context.Background(), inbound.AddGroceryItemCommand{GroceryRef: ref, IngredientName: "Rice", Quantity: 500, Unit: "g"})
	require.NoError(t, err)
	updated, err := svc.AddItem(context.Background(), inbound.AddGroceryItemCommand{GroceryRef: ref, IngredientName: "rice ", Quantity: 250, Unit: "g"})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 750.0, updated.Items[0].Quantity)

	updated, err = svc.SetPurchased(context.Background(), ref, "RICE", true)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Remaining())

	updated, err = svc.RemoveItem(context.Background(), ref, "rice")
	require.NoError(t, err)
	assert.Empty(t, updated.Items)

	_, err = svc.RemoveItem(context.Background(), ref, "rice")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestGetListOwnership(t *testing.T) {
	lists, _, svc := setup(t)
	list, err := grocery.NewList(uuid.New(), "Pantry")
	require.NoError(t, err)
	lists.On("FindByID", mock.Anything, list.ID).Return(list, nil)

	_, err = svc.GetList(context.Background(), inbound.GroceryRef{UserID: uuid.New(), ListID: list.ID})

	assert.True(t, errors.Is(err, errors.CodeForbidden))
}
