// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/grocery"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/domain/nutrition"
	"github.com/nutriplan/backend/internal/domain/profile"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/domain/shared"
)

// Repositories report a missing row as a NOT_FOUND AppError and wrap
// driver failures as DATABASE_ERROR.

// ProfileRepository persists user profiles
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	Save(ctx context.Context, p *profile.Profile) error
}

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]*recipe.Recipe, int, error)

	// FindCandidates returns at most limit approved recipes matching the criteria
	FindCandidates(ctx context.Context, criteria mealplan.CandidateCriteria, limit int) ([]*recipe.Recipe, error)
}

// RecipeFilter selects recipes for listing
type RecipeFilter struct {
	Status   *recipe.Status
	AuthorID *uuid.UUID
	Offset   int
	Limit    int
}

// MealPlanRepository persists whole plans in one write
type MealPlanRepository interface {
	Create(ctx context.Context, plan *mealplan.MealPlan) error
	Update(ctx context.Context, plan *mealplan.MealPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*mealplan.MealPlan, int, error)
}

// NutritionLogRepository persists one log per user per UTC day
type NutritionLogRepository interface {
	// GetOrCreate returns the log for the day, creating it seeded with
	// targets when absent. Repeated calls return the same log.
	GetOrCreate(ctx context.Context, userID uuid.UUID, day time.Time, targets profile.MacroTargets) (*nutrition.Log, error)
	FindByDate(ctx context.Context, userID uuid.UUID, day time.Time) (*nutrition.Log, error)
	FindRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*nutrition.Log, error)
	Save(ctx context.Context, log *nutrition.Log) error
}

// GroceryListRepository persists standalone grocery lists
type GroceryListRepository interface {
	Create(ctx context.Context, list *grocery.List) error
	Update(ctx context.Context, list *grocery.List) error
	FindByID(ctx context.Context, id uuid.UUID) (*grocery.List, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*grocery.List, error)
}

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// EventPublisher hands domain events to whoever subscribed to them
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent) error
}
