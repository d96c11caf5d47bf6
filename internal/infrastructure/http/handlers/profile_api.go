package handlers

import (
	"net/http"

	"github.com/nutriplan/backend/internal/ports/inbound"
	"go.uber.org/zap"
)

// ProfileAPIHandlers handles profile and target requests
type ProfileAPIHandlers struct {
	base
	profileService inbound.ProfileService
}

// NewProfileAPIHandlers creates profile handlers
func NewProfileAPIHandlers(profileService inbound.ProfileService, logger *zap.Logger) *ProfileAPIHandlers {
	return &ProfileAPIHandlers{
		base:           newBase(logger, "profile-api"),
		profileService: profileService,
	}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileAPIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.ok(w, p, "")
}

// UpdateProfile handles PUT /api/v1/profile. Targets are recalculated
// whenever a calculator input changes.
func (h *ProfileAPIHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var cmd inbound.UpdateProfileCommand
	if err := h.decode(r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}
	cmd.UserID = userID

	p, err := h.profileService.UpdateProfile(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.ok(w, p, "Profile updated successfully")
}

// GetTargets handles GET /api/v1/profile/targets
func (h *ProfileAPIHandlers) GetTargets(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	targets, err := h.profileService.GetTargets(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.ok(w, targets, "")
}
