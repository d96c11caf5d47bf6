// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/recipe"
)

// RecipeService defines the use cases for the recipe catalog
// This is the primary port that HTTP handlers and other driving adapters will use
type RecipeService interface {
	// Commands - operations that modify state
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*recipe.Recipe, error)
	UpdateRecipe(ctx context.Context, cmd UpdateRecipeCommand) (*recipe.Recipe, error)
	ApproveRecipe(ctx context.Context, recipeID, moderatorID uuid.UUID) (*recipe.Recipe, error)
	RejectRecipe(ctx context.Context, recipeID, moderatorID uuid.UUID, reason string) (*recipe.Recipe, error)

	// Queries - operations that read state
	GetRecipe(ctx context.Context, recipeID uuid.UUID) (*recipe.Recipe, error)
	ListApproved(ctx context.Context, params PaginationParams) (*RecipeList, error)
	ListPending(ctx context.Context, params PaginationParams) (*RecipeList, error)
}

// IngredientInput is one ingredient line of a recipe command
type IngredientInput struct {
	Name      string            `json:"name" validate:"required,max=100"`
	Quantity  float64           `json:"quantity" validate:"gte=0"`
	Unit      string            `json:"unit" validate:"max=30"`
	Category  string            `json:"category" validate:"max=50"`
	Nutrition *recipe.Nutrition `json:"nutrition"`
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	AuthorID     uuid.UUID         `json:"-"`
	Title        string            `json:"title" validate:"required,min=3,max=200"`
	Description  string            `json:"description" validate:"max=2000"`
	Ingredients  []IngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []string          `json:"instructions"`
	DietaryTags  []string          `json:"dietary_tags"`
	Cuisine      string            `json:"cuisine"`
	PrepTimeMin  int               `json:"prep_time_min" validate:"gte=0"`
	CookTimeMin  int               `json:"cook_time_min" validate:"gte=0"`
	Servings     int               `json:"servings" validate:"gte=0"`
	Difficulty   string            `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// UpdateRecipeCommand replaces the editable fields of a recipe
type UpdateRecipeCommand struct {
	RecipeID uuid.UUID `json:"-"`
	UserID   uuid.UUID `json:"-"`
	CreateRecipeCommand
}

// Details converts the command into domain input
func (c CreateRecipeCommand) Details() recipe.Details {
	ingredients := make([]recipe.Ingredient, len(c.Ingredients))
	for i, in := range c.Ingredients {
		ingredients[i] = recipe.Ingredient{
			Name:      in.Name,
			Quantity:  in.Quantity,
			Unit:      in.Unit,
			Category:  in.Category,
			Nutrition: in.Nutrition,
		}
	}
	return recipe.Details{
		Title:        c.Title,
		Description:  c.Description,
		Ingredients:  ingredients,
		Instructions: c.Instructions,
		DietaryTags:  c.DietaryTags,
		Cuisine:      c.Cuisine,
		PrepTimeMin:  c.PrepTimeMin,
		CookTimeMin:  c.CookTimeMin,
		Servings:     c.Servings,
		Difficulty:   recipe.Difficulty(c.Difficulty),
	}
}

// PaginationParams for list queries
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize applies defaults and bounds, returning offset and limit
func (p PaginationParams) Normalize() (offset, limit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	return (p.Page - 1) * p.PageSize, p.PageSize
}

// RecipeList represents a paginated list of recipes
type RecipeList struct {
	Recipes  []*recipe.Recipe `json:"recipes"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}
