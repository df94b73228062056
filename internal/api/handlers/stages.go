package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chadillac/order-tracker/internal/api/dto"
	"github.com/chadillac/order-tracker/internal/stages"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type StageHandler struct {
	registry *stages.Registry
}

func NewStageHandler(registry *stages.Registry) *StageHandler {
	return &StageHandler{registry: registry}
}

// List handles GET /api/v1/admin/stages
func (h *StageHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list stages"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create handles POST /api/v1/admin/stages
func (h *StageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: details})
		return
	}

	stage, err := h.registry.Add(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, stages.ErrEmptyName) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Stage name is required"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add stage"})
		return
	}

	writeJSON(w, http.StatusCreated, stage)
}

// Rename handles PUT /api/v1/admin/stages/:id
func (h *StageHandler) Rename(w http.ResponseWriter, r *http.Request) {
	stageID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid stage ID"})
		return
	}

	var req dto.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: details})
		return
	}

	if err := h.registry.Rename(r.Context(), stageID, req.Name); err != nil {
		switch {
		case errors.Is(err, stages.ErrStageNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Stage not found"})
		case errors.Is(err, stages.ErrEmptyName):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Stage name is required"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to rename stage"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Stage renamed"})
}
