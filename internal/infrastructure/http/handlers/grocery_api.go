package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"go.uber.org/zap"
)

// GroceryAPIHandlers handles standalone grocery lists
type GroceryAPIHandlers struct {
	base
	groceryService inbound.GroceryService
}

// NewGroceryAPIHandlers creates grocery handlers
func NewGroceryAPIHandlers(groceryService inbound.GroceryService, logger *zap.Logger) *GroceryAPIHandlers {
	return &GroceryAPIHandlers{
		base:           newBase(logger, "grocery-api"),
		groceryService: groceryService,
	}
}

// CreateGroceryListRequest creates an empty list, or a copy of a plan's
// consolidated list when PlanID is set
type CreateGroceryListRequest struct {
	Name   string     `json:"name" validate:"required,max=100"`
	PlanID *uuid.UUID `json:"plan_id"`
}

// ListLists handles GET /api/v1/grocery-lists
func (h *GroceryAPIHandlers) ListLists(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	lists, err := h.groceryService.ListLists(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, lists, "")
}

// CreateList handles POST /api/v1/grocery-lists
func (h *GroceryAPIHandlers) CreateList(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req CreateGroceryListRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if req.PlanID != nil {
		list, err := h.groceryService.CreateFromPlan(r.Context(), inbound.PlanRef{UserID: userID, PlanID: *req.PlanID}, req.Name)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.created(w, list, "Grocery list created from meal plan")
		return
	}

	list, err := h.groceryService.CreateList(r.Context(), userID, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.created(w, list, "Grocery list created")
}

// GetList handles GET /api/v1/grocery-lists/{listID}
func (h *GroceryAPIHandlers) GetList(w http.ResponseWriter, r *http.Request) {
	ref, err := groceryRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.groceryService.GetList(r.Context(), ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, list, "")
}

// AddItem handles POST /api/v1/grocery-lists/{listID}/items. An item with
// the same name is merged into the existing line.
func (h *GroceryAPIHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	ref, err := groceryRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.AddGroceryItemCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.GroceryRef = ref

	list, err := h.groceryService.AddItem(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, list, "")
}

// SetPurchased handles PUT /api/v1/grocery-lists/{listID}/items/purchased
func (h *GroceryAPIHandlers) SetPurchased(w http.ResponseWriter, r *http.Request) {
	ref, err := groceryRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req GroceryPurchasedRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.groceryService.SetPurchased(r.Context(), ref, req.IngredientName, req.Purchased)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, list, "")
}

// RemoveItem handles DELETE /api/v1/grocery-lists/{listID}/items?name=...
func (h *GroceryAPIHandlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ref, err := groceryRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	name := r.URL.Query().Get("name")
	list, err := h.groceryService.RemoveItem(r.Context(), ref, name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, list, "")
}

func groceryRef(r *http.Request) (inbound.GroceryRef, error) {
	userID, err := currentUser(r)
	if err != nil {
		return inbound.GroceryRef{}, err
	}
	listID, err := uuidParam(r, "listID")
	if err != nil {
		return inbound.GroceryRef{}, err
	}
	return inbound.GroceryRef{UserID: userID, ListID: listID}, nil
}
