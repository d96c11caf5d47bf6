package handlers

import (
	"net/http"
	"time"

	"github.com/nutriplan/backend/internal/ports/inbound"
	"go.uber.org/zap"
)

// TrackerAPIHandlers handles the daily nutrition journal
type TrackerAPIHandlers struct {
	base
	trackerService inbound.TrackerService
	now            func() time.Time
}

// NewTrackerAPIHandlers creates tracker handlers
func NewTrackerAPIHandlers(trackerService inbound.TrackerService, logger *zap.Logger) *TrackerAPIHandlers {
	return &TrackerAPIHandlers{
		base:           newBase(logger, "tracker-api"),
		trackerService: trackerService,
		now:            time.Now,
	}
}

// WaterIntakeRequest sets the day's water intake in millilitres
type WaterIntakeRequest struct {
	AmountMl float64 `json:"amount_ml" validate:"gte=0"`
}

// GetToday handles GET /api/v1/nutrition/today
func (h *TrackerAPIHandlers) GetToday(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.trackerService.GetToday(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, view, "")
}

// GetDay handles GET /api/v1/nutrition/logs/{date}
func (h *TrackerAPIHandlers) GetDay(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	date, err := dateParam(r, "date")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.trackerService.GetDay(r.Context(), userID, date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, view, "")
}

// GetRange handles GET /api/v1/nutrition/logs?start_date=...&end_date=...
func (h *TrackerAPIHandlers) GetRange(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	from, err := dateQuery(r, "start_date")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	to, err := dateQuery(r, "end_date")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logs, err := h.trackerService.GetRange(r.Context(), userID, from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, logs, "")
}

// LogMeal handles POST /api/v1/nutrition/meals
func (h *TrackerAPIHandlers) LogMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.LogMealCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.UserID = userID

	view, err := h.trackerService.LogMeal(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.created(w, view, "Meal logged")
}

// RemoveMeal handles DELETE /api/v1/nutrition/logs/{date}/meals/{mealID}
func (h *TrackerAPIHandlers) RemoveMeal(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	date, err := dateParam(r, "date")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	mealID, err := uuidParam(r, "mealID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.trackerService.RemoveMeal(r.Context(), userID, date, mealID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, view, "Meal removed")
}

// UpdateWaterIntake handles PUT /api/v1/nutrition/logs/{date}/water
func (h *TrackerAPIHandlers) UpdateWaterIntake(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	date, err := dateParam(r, "date")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req WaterIntakeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.trackerService.UpdateWaterIntake(r.Context(), userID, date, req.AmountMl)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, view, "")
}

// GetWeeklySummary handles GET /api/v1/nutrition/weekly?week_start=...
// Without week_start the current week is summarised.
func (h *TrackerAPIHandlers) GetWeeklySummary(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	weekStart := h.now().UTC()
	if r.URL.Query().Get("week_start") != "" {
		if weekStart, err = dateQuery(r, "week_start"); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	summary, err := h.trackerService.GetWeeklySummary(r.Context(), userID, weekStart)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, summary, "")
}
