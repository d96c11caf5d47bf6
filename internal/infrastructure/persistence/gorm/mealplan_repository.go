package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/ports/outbound"
	apperrors "github.com/nutriplan/backend/pkg/errors"
	"gorm.io/gorm"
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Create stores a generated plan with its days and grocery list
func (r *MealPlanRepository) Create(ctx context.Context, plan *mealplan.MealPlan) error {
	result := r.db.WithContext(ctx).Create(MealPlanToModel(plan))
	if result.Error != nil {
		return apperrors.NewDatabaseError("create meal plan", result.Error)
	}
	return nil
}

// Update rewrites the whole plan row
func (r *MealPlanRepository) Update(ctx context.Context, plan *mealplan.MealPlan) error {
	model := MealPlanToModel(plan)

	result := r.db.WithContext(ctx).Model(&MealPlanModel{ID: plan.ID}).Select("*").Omit("created_at").Updates(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("update meal plan", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("meal plan", plan.ID.String())
	}
	return nil
}

// FindByID finds a meal plan by ID
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	var model MealPlanModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("meal plan", id.String())
		}
		return nil, apperrors.NewDatabaseError("find meal plan", result.Error)
	}

	return ModelToMealPlan(&model), nil
}

// FindByUserID pages through a user's plans, newest first
func (r *MealPlanRepository) FindByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*mealplan.MealPlan, int, error) {
	query := r.db.WithContext(ctx).Model(&MealPlanModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError("count meal plans", err)
	}

	var models []MealPlanModel
	result := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&models)
	if result.Error != nil {
		return nil, 0, apperrors.NewDatabaseError("list meal plans", result.Error)
	}

	plans := make([]*mealplan.MealPlan, len(models))
	for i := range models {
		plans[i] = ModelToMealPlan(&models[i])
	}
	return plans, int(total), nil
}
