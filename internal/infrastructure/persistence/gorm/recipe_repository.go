package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/ports/outbound"
	apperrors "github.com/nutriplan/backend/pkg/errors"
	"gorm.io/gorm"
)

// candidatePageSize is how many rows FindCandidates reads per round trip
const candidatePageSize = 100

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create creates a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("create recipe", result.Error)
	}

	return nil
}

// Update updates an existing recipe
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).Model(&RecipeModel{ID: rec.ID}).Select("*").Updates(model)
	if result.Error != nil {
		return apperrors.NewDatabaseError("update recipe", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("recipe", rec.ID.String())
	}

	return nil
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("recipe", id.String())
		}
		return nil, apperrors.NewDatabaseError("find recipe", result.Error)
	}

	return ModelToRecipe(&model), nil
}

// FindByIDs finds recipes by multiple IDs. Unknown ids are skipped.
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return []*recipe.Recipe{}, nil
	}

	var models []RecipeModel
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("find recipes", result.Error)
	}

	return toRecipes(models), nil
}

// List pages through recipes matching the filter, newest first
func (r *RecipeRepository) List(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, int, error) {
	query := r.db.WithContext(ctx).Model(&RecipeModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}

	// Count total
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError("count recipes", err)
	}

	var models []RecipeModel
	result := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&models)
	if result.Error != nil {
		return nil, 0, apperrors.NewDatabaseError("list recipes", result.Error)
	}

	return toRecipes(models), int(total), nil
}

// FindCandidates returns up to limit approved recipes matching the criteria.
// Status, cuisine and time limits are filtered in SQL; tags and excluded
// ingredients live in JSON columns and are checked on the loaded rows, so
// rows are read page by page until the limit is reached.
func (r *RecipeRepository) FindCandidates(ctx context.Context, criteria mealplan.CandidateCriteria, limit int) ([]*recipe.Recipe, error) {
	if limit <= 0 {
		return []*recipe.Recipe{}, nil
	}

	query := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("status = ?", string(recipe.StatusApproved))

	if len(criteria.Cuisines) > 0 {
		query = query.Where("LOWER(cuisine) IN ?", criteria.Cuisines)
	}
	if criteria.MaxPrepTimeMin != nil {
		query = query.Where("prep_time_minutes <= ?", *criteria.MaxPrepTimeMin)
	}
	if criteria.MaxCookTimeMin != nil {
		query = query.Where("cook_time_minutes <= ?", *criteria.MaxCookTimeMin)
	}
	if criteria.DietaryTag != "" {
		query = query.Where("LOWER(CAST(dietary_tags AS TEXT)) LIKE ?", "%\""+strings.ToLower(criteria.DietaryTag)+"\"%")
	}

	out := make([]*recipe.Recipe, 0, limit)
	for offset := 0; len(out) < limit; offset += candidatePageSize {
		var page []RecipeModel
		result := query.Session(&gorm.Session{}).
			Order("created_at DESC").
			Order("id").
			Offset(offset).
			Limit(candidatePageSize).
			Find(&page)
		if result.Error != nil {
			return nil, apperrors.NewDatabaseError("find candidate recipes", result.Error)
		}

		for i := range page {
			rec := ModelToRecipe(&page[i])
			if criteria.Matches(rec) {
				out = append(out, rec)
				if len(out) == limit {
					break
				}
			}
		}
		if len(page) < candidatePageSize {
			break
		}
	}

	return out, nil
}

func toRecipes(models []RecipeModel) []*recipe.Recipe {
	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes
}
