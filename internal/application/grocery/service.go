// Package grocery provides the standalone grocery list use cases
package grocery

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/grocery"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"github.com/nutriplan/backend/pkg/errors"
	"go.uber.org/zap"
)

// GroceryService implements the grocery list use cases
type GroceryService struct {
	lists  outbound.GroceryListRepository
	plans  outbound.MealPlanRepository
	logger *zap.Logger
}

// NewGroceryService creates a new grocery service
func NewGroceryService(
	lists outbound.GroceryListRepository,
	plans outbound.MealPlanRepository,
	logger *zap.Logger,
) inbound.GroceryService {
	return &GroceryService{
		lists:  lists,
		plans:  plans,
		logger: logger.Named("grocery-service"),
	}
}

// CreateList creates an empty list
func (s *GroceryService) CreateList(ctx context.Context, userID uuid.UUID, name string) (*grocery.List, error) {
	list, err := grocery.NewList(userID, name)
	if err != nil {
		return nil, err
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	s.logger.Info("Grocery list created", zap.String("list_id", list.ID.String()), zap.String("user_id", userID.String()))
	return list, nil
}

// CreateFromPlan snapshots a plan's consolidated list
func (s *GroceryService) CreateFromPlan(ctx context.Context, ref inbound.PlanRef, name string) (*grocery.List, error) {
	plan, err := s.plans.FindByID(ctx, ref.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != ref.UserID {
		return nil, errors.NewForbiddenError("meal plan belongs to another user")
	}

	list, err := grocery.FromPlan(plan, name)
	if err != nil {
		return nil, err
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	s.logger.Info("Grocery list created from plan",
		zap.String("list_id", list.ID.String()),
		zap.String("plan_id", plan.ID.String()),
		zap.Int("items", len(list.Items)),
	)
	return list, nil
}

// GetList returns a list owned by the user
func (s *GroceryService) GetList(ctx context.Context, ref inbound.GroceryRef) (*grocery.List, error) {
	return s.load(ctx, ref)
}

// ListLists returns all of a user's lists
func (s *GroceryService) ListLists(ctx context.Context, userID uuid.UUID) ([]*grocery.List, error) {
	return s.lists.FindByUserID(ctx, userID)
}

// AddItem adds or merges a line
func (s *GroceryService) AddItem(ctx context.Context, cmd inbound.AddGroceryItemCommand) (*grocery.List, error) {
	return s.mutate(ctx, cmd.GroceryRef, func(l *grocery.List) error {
		_, err := l.AddItem(cmd.IngredientName, cmd.Quantity, cmd.Unit, cmd.Category)
		return err
	})
}

// SetPurchased toggles a line
func (s *GroceryService) SetPurchased(ctx context.Context, ref inbound.GroceryRef, ingredient string, purchased bool) (*grocery.List, error) {
	return s.mutate(ctx, ref, func(l *grocery.List) error {
		return l.SetPurchased(ingredient, purchased)
	})
}

// RemoveItem drops a line
func (s *GroceryService) RemoveItem(ctx context.Context, ref inbound.GroceryRef, ingredient string) (*grocery.List, error) {
	return s.mutate(ctx, ref, func(l *grocery.List) error {
		return l.RemoveItem(ingredient)
	})
}

func (s *GroceryService) load(ctx context.Context, ref inbound.GroceryRef) (*grocery.List, error) {
	list, err := s.lists.FindByID(ctx, ref.ListID)
	if err != nil {
		return nil, err
	}
	if list.UserID != ref.UserID {
		return nil, errors.NewForbiddenError("grocery list belongs to another user")
	}
	return list, nil
}

func (s *GroceryService) mutate(ctx context.Context, ref inbound.GroceryRef, change func(*grocery.List) error) (*grocery.List, error) {
	list, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := change(list); err != nil {
		return nil, err
	}
	if err := s.lists.Update(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}
