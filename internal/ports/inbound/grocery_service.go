package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/grocery"
)

// GroceryService manages standalone grocery lists
type GroceryService interface {
	CreateList(ctx context.Context, userID uuid.UUID, name string) (*grocery.List, error)
	CreateFromPlan(ctx context.Context, ref PlanRef, name string) (*grocery.List, error)
	GetList(ctx context.Context, ref GroceryRef) (*grocery.List, error)
	ListLists(ctx context.Context, userID uuid.UUID) ([]*grocery.List, error)

	AddItem(ctx context.Context, cmd AddGroceryItemCommand) (*grocery.List, error)
	SetPurchased(ctx context.Context, ref GroceryRef, ingredient string, purchased bool) (*grocery.List, error)
	RemoveItem(ctx context.Context, ref GroceryRef, ingredient string) (*grocery.List, error)
}

// GroceryRef identifies a list owned by a user
type GroceryRef struct {
	UserID uuid.UUID `json:"-"`
	ListID uuid.UUID `json:"-"`
}

// AddGroceryItemCommand adds or merges one line
type AddGroceryItemCommand struct {
	GroceryRef
	IngredientName string  `json:"ingredient_name" validate:"required,max=100"`
	Quantity       float64 `json:"quantity" validate:"gte=0"`
	Unit           string  `json:"unit" validate:"max=30"`
	Category       string  `json:"category" validate:"max=50"`
}
