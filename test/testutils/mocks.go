// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/grocery"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/domain/shared"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

var (
	_ outbound.ProfileRepository      = (*MockProfileRepository)(nil)
	_ outbound.RecipeRepository       = (*MockRecipeRepository)(nil)
	_ outbound.MealPlanRepository     = (*MockMealPlanRepository)(nil)
	_ outbound.NutritionLogRepository = (*MockNutritionLogRepository)(nil)
	_ outbound.GroceryListRepository  = (*MockGroceryListRepository)(nil)
	_ outbound.CacheRepository        = (*MockCacheRepository)(nil)
	_ outbound.EventPublisher         = (*MockEventPublisher)(nil)
)

// MockProfileRepository provides a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*profile.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, p *profile.Profile) error {
	return m.Called(ctx, p).Error(0)
}

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*recipe.Recipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, ids)
	if rs, ok := args.Get(0).([]*recipe.Recipe); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, int, error) {
	args := m.Called(ctx, filter)
	if rs, ok := args.Get(0).([]*recipe.Recipe); ok {
		return rs, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockRecipeRepository) FindCandidates(ctx context.Context, criteria mealplan.CandidateCriteria, limit int) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, criteria, limit)
	if rs, ok := args.Get(0).([]*recipe.Recipe); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMealPlanRepository provides a mock implementation of MealPlanRepository
type MockMealPlanRepository struct {
	mock.Mock
}

func (m *MockMealPlanRepository) Create(ctx context.Context, plan *mealplan.MealPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockMealPlanRepository) Update(ctx context.Context, plan *mealplan.MealPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*mealplan.MealPlan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMealPlanRepository) FindByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*mealplan.MealPlan, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if ps, ok := args.Get(0).([]*mealplan.MealPlan); ok {
		return ps, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

// MockNutritionLogRepository provides a mock implementation of NutritionLogRepository
type MockNutritionLogRepository struct {
	mock.Mock
}

func (m *MockNutritionLogRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, day time.Time, targets profile.MacroTargets) (*nutrition.Log, error) {
	args := m.Called(ctx, userID, day, targets)
	if l, ok := args.Get(0).(*nutrition.Log); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNutritionLogRepository) FindByDate(ctx context.Context, userID uuid.UUID, day time.Time) (*nutrition.Log, error) {
	args := m.Called(ctx, userID, day)
	if l, ok := args.Get(0).(*nutrition.Log); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNutritionLogRepository) FindRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*nutrition.Log, error) {
	args := m.Called(ctx, userID, from, to)
	if ls, ok := args.Get(0).([]*nutrition.Log); ok {
		return ls, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNutritionLogRepository) Save(ctx context.Context, log *nutrition.Log) error {
	return m.Called(ctx, log).Error(0)
}

// MockGroceryListRepository provides a mock implementation of GroceryListRepository
type MockGroceryListRepository struct {
	mock.Mock
}

func (m *MockGroceryListRepository) Create(ctx context.Context, list *grocery.List) error {
	return m.Called(ctx, list).Error(0)
}

func (m *MockGroceryListRepository) Update(ctx context.Context, list *grocery.List) error {
	return m.Called(ctx, list).Error(0)
}

func (m *MockGroceryListRepository) FindByID(ctx context.Context, id uuid.UUID) (*grocery.List, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*grocery.List); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroceryListRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*grocery.List, error) {
	args := m.Called(ctx, userID)
	if ls, ok := args.Get(0).([]*grocery.List); ok {
		return ls, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
	Published []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.Published = append(m.Published, events...)
	return m.Called(ctx, events).Error(0)
}

// EventNames lists the names of everything published so far
func (m *MockEventPublisher) EventNames() []string {
	names := make([]string, len(m.Published))
	for i, e := range m.Published {
		names[i] = e.EventName()
	}
	return names
}
