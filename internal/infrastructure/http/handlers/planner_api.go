package handlers

import (
	"net/http"

	"github.com/nutriplan/backend/internal/domain/mealplan"
	"github.com/nutriplan/backend/internal/ports/inbound"
	"go.uber.org/zap"
)

// PlannerAPIHandlers handles meal plan generation and plan progress
type PlannerAPIHandlers struct {
	base
	plannerService inbound.PlannerService
}

// NewPlannerAPIHandlers creates planner handlers
func NewPlannerAPIHandlers(plannerService inbound.PlannerService, logger *zap.Logger) *PlannerAPIHandlers {
	return &PlannerAPIHandlers{
		base:           newBase(logger, "planner-api"),
		plannerService: plannerService,
	}
}

// PlanStatusRequest changes a plan's lifecycle status
type PlanStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed cancelled"`
}

// GroceryPurchasedRequest toggles one grocery line
type GroceryPurchasedRequest struct {
	IngredientName string `json:"ingredient_name" validate:"required,max=100"`
	Purchased      bool   `json:"purchased"`
}

// GeneratePlan handles POST /api/v1/plans
func (h *PlannerAPIHandlers) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.GeneratePlanCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.UserID = userID

	plan, err := h.plannerService.GeneratePlan(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.created(w, plan, "Meal plan generated")
}

// ListPlans handles GET /api/v1/plans
func (h *PlannerAPIHandlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.plannerService.ListPlans(r.Context(), userID, pagination(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, list, "")
}

// GetPlan handles GET /api/v1/plans/{planID}
func (h *PlannerAPIHandlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	ref, err := planRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	plan, err := h.plannerService.GetPlan(r.Context(), ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, plan, "")
}

// SetStatus handles PUT /api/v1/plans/{planID}/status
func (h *PlannerAPIHandlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	ref, err := planRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req PlanStatusRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	plan, err := h.plannerService.SetStatus(r.Context(), ref, mealplan.Status(req.Status))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, plan, "Plan status updated")
}

// MarkMealConsumed handles PUT /api/v1/plans/{planID}/meals/consumed
func (h *PlannerAPIHandlers) MarkMealConsumed(w http.ResponseWriter, r *http.Request) {
	ref, err := planRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.MarkMealCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.PlanRef = ref

	plan, err := h.plannerService.MarkMealConsumed(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, plan, "")
}

// RateMeal handles PUT /api/v1/plans/{planID}/meals/feedback
func (h *PlannerAPIHandlers) RateMeal(w http.ResponseWriter, r *http.Request) {
	ref, err := planRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.RateMealCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.PlanRef = ref

	plan, err := h.plannerService.RateMeal(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, plan, "")
}

// ScheduleMeal handles PUT /api/v1/plans/{planID}/meals/schedule
func (h *PlannerAPIHandlers) ScheduleMeal(w http.ResponseWriter, r *http.Request) {
	ref, err := planRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.ScheduleMealCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.PlanRef = ref

	plan, err := h.plannerService.ScheduleMeal(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, plan, "")
}

// SetDayNotes handles PUT /api/v1/plans/{planID}/days/{dayNumber}/notes
func (h *PlannerAPIHandlers) SetDayNotes(w http.ResponseWriter, r *http.Request) {
	ref, err := planRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	day, err := intParam(r, "dayNumber")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.DayNotesCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.PlanRef = ref
	cmd.DayNumber = day

	plan, err := h.plannerService.SetDayNotes(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, plan, "")
}

// GetGroceryList handles GET /api/v1/plans/{planID}/grocery-list
func (h *PlannerAPIHandlers) GetGroceryList(w http.ResponseWriter, r *http.Request) {
	ref, err := planRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	lines, err := h.plannerService.GetGroceryList(r.Context(), ref)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, lines, "")
}

// SetGroceryPurchased handles PUT /api/v1/plans/{planID}/grocery-list/purchased
func (h *PlannerAPIHandlers) SetGroceryPurchased(w http.ResponseWriter, r *http.Request) {
	ref, err := planRef(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req GroceryPurchasedRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	lines, err := h.plannerService.SetGroceryPurchased(r.Context(), ref, req.IngredientName, req.Purchased)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, lines, "")
}

func planRef(r *http.Request) (inbound.PlanRef, error) {
	userID, err := currentUser(r)
	if err != nil {
		return inbound.PlanRef{}, err
	}
	planID, err := uuidParam(r, "planID")
	if err != nil {
		return inbound.PlanRef{}, err
	}
	return inbound.PlanRef{UserID: userID, PlanID: planID}, nil
}
