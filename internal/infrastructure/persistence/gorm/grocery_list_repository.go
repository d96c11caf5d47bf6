package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/grocery"
	"github.com/nutriplan/backend/internal/ports/outbound"
	apperrors "github.com/nutriplan/backend/pkg/errors"
	"gorm.io/gorm"
)

// GroceryListRepository implements the grocery list repository interface using GORM
type GroceryListRepository struct {
	db *gorm.DB
}

// NewGroceryListRepository creates a new grocery list repository
func NewGroceryListRepository(db *gorm.DB) outbound.GroceryListRepository {
	return &GroceryListRepository{db: db}
}

func (r *GroceryListRepository) Create(ctx context.Context, list *grocery.List) error {
	result := r.db.WithContext(ctx).Create(GroceryListToModel(list))
	if result.Error != nil {
		return apperrors.NewDatabaseError("create grocery list", result.Error)
	}
	return nil
}

func (r *GroceryListRepository) Update(ctx context.Context, list *grocery.List) error {
	result := r.db.WithContext(ctx).
		Model(&GroceryListModel{ID: list.ID}).
		Select("*").
		Omit("created_at").
		Updates(GroceryListToModel(list))
	if result.Error != nil {
		return apperrors.NewDatabaseError("update grocery list", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("grocery list", list.ID.String())
	}
	return nil
}

func (r *GroceryListRepository) FindByID(ctx context.Context, id uuid.UUID) (*grocery.List, error) {
	var model GroceryListModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("grocery list", id.String())
		}
		return nil, apperrors.NewDatabaseError("find grocery list", result.Error)
	}
	return ModelToGroceryList(&model), nil
}

// FindByUserID returns all of a user's lists, newest first
func (r *GroceryListRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*grocery.List, error) {
	var models []GroceryListModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("list grocery lists", result.Error)
	}

	lists := make([]*grocery.List, len(models))
	for i := range models {
		lists[i] = ModelToGroceryList(&models[i])
	}
	return lists, nil
}
