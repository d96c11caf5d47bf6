package handlers

import (
	"net/http"

	"github.com/nutriplan/backend/internal/infrastructure/http/middleware"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"github.com/nutriplan/backend/pkg/errors"
	"go.uber.org/zap"
)

// RecipeAPIHandlers handles the recipe catalog and its moderation queue
type RecipeAPIHandlers struct {
	base
	recipeService inbound.RecipeService
	moderatorRole string
}

// NewRecipeAPIHandlers creates recipe handlers
func NewRecipeAPIHandlers(recipeService inbound.RecipeService, moderatorRole string, logger *zap.Logger) *RecipeAPIHandlers {
	return &RecipeAPIHandlers{
		base:          newBase(logger, "recipe-api"),
		recipeService: recipeService,
		moderatorRole: moderatorRole,
	}
}

// RejectRecipeRequest carries the moderator's reason
type RejectRecipeRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ListRecipes handles GET /api/v1/recipes
func (h *RecipeAPIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	list, err := h.recipeService.ListApproved(r.Context(), pagination(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, list, "")
}

// ListPending handles GET /api/v1/recipes/pending
func (h *RecipeAPIHandlers) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.recipeService.ListPending(r.Context(), pagination(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, list, "")
}

// GetRecipe handles GET /api/v1/recipes/{recipeID}. Unapproved recipes are
// visible to their author and moderators only.
func (h *RecipeAPIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	recipeID, err := uuidParam(r, "recipeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rec, err := h.recipeService.GetRecipe(r.Context(), recipeID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !rec.IsApproved() && rec.AuthorID != userID && !h.isModerator(r) {
		h.writeError(w, r, errors.NewNotFoundError("recipe", recipeID.String()))
		return
	}

	h.ok(w, rec, "")
}

// CreateRecipe handles POST /api/v1/recipes
func (h *RecipeAPIHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.CreateRecipeCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.AuthorID = userID

	rec, err := h.recipeService.CreateRecipe(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.created(w, rec, "Recipe submitted for moderation")
}

// UpdateRecipe handles PUT /api/v1/recipes/{recipeID}
func (h *RecipeAPIHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	recipeID, err := uuidParam(r, "recipeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.UpdateRecipeCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.RecipeID = recipeID
	cmd.UserID = userID

	rec, err := h.recipeService.UpdateRecipe(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.ok(w, rec, "Recipe updated successfully")
}

// ApproveRecipe handles POST /api/v1/recipes/{recipeID}/approve
func (h *RecipeAPIHandlers) ApproveRecipe(w http.ResponseWriter, r *http.Request) {
	moderatorID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	recipeID, err := uuidParam(r, "recipeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rec, err := h.recipeService.ApproveRecipe(r.Context(), recipeID, moderatorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.ok(w, rec, "Recipe approved")
}

// RejectRecipe handles POST /api/v1/recipes/{recipeID}/reject
func (h *RecipeAPIHandlers) RejectRecipe(w http.ResponseWriter, r *http.Request) {
	moderatorID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	recipeID, err := uuidParam(r, "recipeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req RejectRecipeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	rec, err := h.recipeService.RejectRecipe(r.Context(), recipeID, moderatorID, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.ok(w, rec, "Recipe rejected")
}

func (h *RecipeAPIHandlers) isModerator(r *http.Request) bool {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	return ok && claims.Role == h.moderatorRole
}
