package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/chadillac/order-tracker/internal/api/dto"
	"github.com/chadillac/order-tracker/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ResetHandler struct {
	authService *auth.Service
}

func NewResetHandler(authService *auth.Service) *ResetHandler {
	return &ResetHandler{authService: authService}
}

// PendingResetResponse lists a reset request for the admin approval queue.
// The temporary credential itself is not retrievable here.
type PendingResetResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	RequestedAt string `json:"requested_at"`
}

// List handles GET /api/v1/admin/reset-requests
func (h *ResetHandler) List(w http.ResponseWriter, r *http.Request) {
	resets, err := h.authService.PendingResets(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list reset requests"})
		return
	}

	resp := make([]PendingResetResponse, len(resets))
	for i, reset := range resets {
		resp[i] = PendingResetResponse{
			ID:          reset.ID.String(),
			UserID:      reset.UserID.String(),
			RequestedAt: reset.RequestedAt.Format(time.RFC3339),
		}
		if reset.User != nil {
			resp[i].Username = reset.User.Username
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Approve handles POST /api/v1/admin/reset-requests/:id/approve
func (h *ResetHandler) Approve(w http.ResponseWriter, r *http.Request) {
	resetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid reset ID"})
		return
	}

	if err := h.authService.ApproveReset(r.Context(), resetID); err != nil {
		switch {
		case errors.Is(err, auth.ErrResetNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Reset request not found"})
		case errors.Is(err, auth.ErrResetApproved):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Reset request already approved"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to approve reset"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password reset approved"})
}
