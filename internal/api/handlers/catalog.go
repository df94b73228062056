package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chadillac/order-tracker/internal/api/dto"
	"github.com/chadillac/order-tracker/internal/catalog"
)

type CatalogHandler struct {
	catalogService *catalog.Service
}

func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListEntries handles GET /api/v1/catalog
func (h *CatalogHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalogService.ListEntries(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list catalog"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// CreateEntry handles POST /api/v1/admin/catalog
func (h *CatalogHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: details})
		return
	}

	entry, err := h.catalogService.AddEntry(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyName) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Name is required"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add catalog entry"})
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// ListFields handles GET /api/v1/fields
func (h *CatalogHandler) ListFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.catalogService.ListFields(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list custom fields"})
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// CreateField handles POST /api/v1/admin/fields
func (h *CatalogHandler) CreateField(w http.ResponseWriter, r *http.Request) {
	var req dto.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: details})
		return
	}

	field, err := h.catalogService.AddField(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyName) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Name is required"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add custom field"})
		return
	}

	writeJSON(w, http.StatusCreated, field)
}
