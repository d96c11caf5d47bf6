// Package recipe provides the application layer for the recipe catalog
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/domain/recipe"
	"github.com/nutriplan/backend/internal/domain/shared"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"github.com/nutriplan/backend/pkg/errors"
	"go.uber.org/zap"
)

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	events     outbound.EventPublisher
	logger     *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	events outbound.EventPublisher,
	logger *zap.Logger,
) inbound.RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		events:     events,
		logger:     logger.Named("recipe-service"),
	}
}

// CreateRecipe submits a recipe for moderation
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*recipe.Recipe, error) {
	s.logger.Info("Creating new recipe",
		zap.String("title", cmd.Title),
		zap.String("author_id", cmd.AuthorID.String()),
	)

	recipeEntity, err := recipe.NewRecipe(cmd.AuthorID, cmd.Details())
	if err != nil {
		return nil, err
	}

	if err := s.recipeRepo.Create(ctx, recipeEntity); err != nil {
		return nil, err
	}

	s.publish(ctx, recipeEntity.Events())

	s.logger.Info("Recipe created successfully",
		zap.String("recipe_id", recipeEntity.ID.String()),
		zap.Float64("calories", recipeEntity.Nutrition.Calories),
	)
	return recipeEntity, nil
}

// UpdateRecipe replaces a recipe's content. Only the author may edit, and
// the edit sends the recipe back to moderation.
func (s *RecipeService) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*recipe.Recipe, error) {
	s.logger.Info("Updating recipe",
		zap.String("recipe_id", cmd.RecipeID.String()),
		zap.String("user_id", cmd.UserID.String()),
	)

	recipeEntity, err := s.recipeRepo.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, err
	}
	if recipeEntity.AuthorID != cmd.UserID {
		return nil, errors.NewForbiddenError("only the author can edit this recipe")
	}

	if err := recipeEntity.Update(cmd.Details()); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Update(ctx, recipeEntity); err != nil {
		return nil, err
	}
	return recipeEntity, nil
}

// ApproveRecipe makes a recipe eligible for plans and public listing
func (s *RecipeService) ApproveRecipe(ctx context.Context, recipeID, moderatorID uuid.UUID) (*recipe.Recipe, error) {
	return s.moderate(ctx, recipeID, func(r *recipe.Recipe) error {
		return r.Approve(moderatorID)
	})
}

// RejectRecipe rejects a recipe with a reason
func (s *RecipeService) RejectRecipe(ctx context.Context, recipeID, moderatorID uuid.UUID, reason string) (*recipe.Recipe, error) {
	return s.moderate(ctx, recipeID, func(r *recipe.Recipe) error {
		return r.Reject(moderatorID, reason)
	})
}

func (s *RecipeService) moderate(ctx context.Context, recipeID uuid.UUID, decide func(*recipe.Recipe) error) (*recipe.Recipe, error) {
	recipeEntity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := decide(recipeEntity); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Update(ctx, recipeEntity); err != nil {
		return nil, err
	}

	s.publish(ctx, recipeEntity.Events())
	s.logger.Info("Recipe moderated",
		zap.String("recipe_id", recipeID.String()),
		zap.String("status", string(recipeEntity.Status)),
	)
	return recipeEntity, nil
}

// GetRecipe returns a recipe by id
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*recipe.Recipe, error) {
	return s.recipeRepo.FindByID(ctx, recipeID)
}

// ListApproved lists the public catalog
func (s *RecipeService) ListApproved(ctx context.Context, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	return s.list(ctx, recipe.StatusApproved, params)
}

// ListPending lists the moderation queue
func (s *RecipeService) ListPending(ctx context.Context, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	return s.list(ctx, recipe.StatusPending, params)
}

func (s *RecipeService) list(ctx context.Context, status recipe.Status, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	offset, limit := params.Normalize()
	recipes, total, err := s.recipeRepo.List(ctx, outbound.RecipeFilter{Status: &status, Offset: offset, Limit: limit})
	if err != nil {
		return nil, err
	}
	return &inbound.RecipeList{
		Recipes:  recipes,
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	}, nil
}

func (s *RecipeService) publish(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish events", zap.Error(err))
	}
}
