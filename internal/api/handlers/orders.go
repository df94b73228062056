package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chadillac/order-tracker/internal/api/dto"
	"github.com/chadillac/order-tracker/internal/api/middleware"
	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/chadillac/order-tracker/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService *orders.Service
}

func NewOrderHandler(orderService *orders.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderDetail is the full single-order view: the order row, its custom
// field values, and the derived summary (services, history, progress).
type OrderDetail struct {
	Order   *models.Order  `json:"order"`
	Summary orders.Summary `json:"summary"`
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())
	includeArchived := isAdmin && r.URL.Query().Get("include_archived") == "true"

	list, err := h.orderService.ListOrders(r.Context(), viewerID, isAdmin, includeArchived)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list orders"})
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Create handles POST /api/v1/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: details})
		return
	}

	fieldValues := make(map[uuid.UUID]string, len(req.FieldValues))
	for idStr, value := range req.FieldValues {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		fieldValues[id] = value
	}

	order, err := h.orderService.Create(r.Context(), userID, orders.CreateInput{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		FieldValues:  fieldValues,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEmptyBusinessName):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Business name is required"})
		case errors.Is(err, orders.ErrOwnerNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create order"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// Get handles GET /api/v1/orders/:id
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadVisibleOrder(w, r)
	if !ok {
		return
	}

	summaries, err := h.orderService.Aggregate(r.Context(), []uuid.UUID{order.ID})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to aggregate order"})
		return
	}

	writeJSON(w, http.StatusOK, OrderDetail{
		Order:   order,
		Summary: summaries[order.ID],
	})
}

// AddService handles POST /api/v1/orders/:id/services
func (h *OrderHandler) AddService(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadVisibleOrder(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r.Context())

	var req dto.AddServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: details})
		return
	}

	catalogID, _ := uuid.Parse(req.CatalogID)
	var templateID *uuid.UUID
	if req.TemplateID != nil {
		id, _ := uuid.Parse(*req.TemplateID)
		templateID = &id
	}

	service, err := h.orderService.AddService(r.Context(), order.ID, userID, catalogID, templateID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrCatalogEntryNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Catalog entry not found"})
		case errors.Is(err, orders.ErrTemplateNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Template not found"})
		case errors.Is(err, orders.ErrNoStages):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "No pipeline stages configured"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add service"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, service)
}

// MoveStage handles PUT /api/v1/orders/:id/stage
func (h *OrderHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadVisibleOrder(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r.Context())

	var req dto.MoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if details := req.Validate(); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: details})
		return
	}

	stageID, _ := uuid.Parse(req.StageID)
	if err := h.orderService.MoveOrder(r.Context(), order.ID, userID, stageID); err != nil {
		if errors.Is(err, orders.ErrStageNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Stage not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to move order"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Order moved"})
}

// Archive handles POST /api/v1/orders/:id/archive
func (h *OrderHandler) Archive(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadVisibleOrder(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r.Context())

	if err := h.orderService.Archive(r.Context(), order.ID, userID); err != nil {
		if errors.Is(err, orders.ErrAlreadyArchived) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Order is already archived"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to archive order"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Order archived"})
}

// Restore handles POST /api/v1/orders/:id/restore
func (h *OrderHandler) Restore(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadVisibleOrder(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r.Context())

	if err := h.orderService.Restore(r.Context(), order.ID, userID); err != nil {
		if errors.Is(err, orders.ErrNotArchived) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Order is not archived"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to restore order"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Order restored"})
}

// Templates handles GET /api/v1/templates
func (h *OrderHandler) Templates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.orderService.ListTemplates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list templates"})
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// loadVisibleOrder resolves the {id} url param and enforces ownership:
// admins see every order, other users only their own. A foreign order is
// reported as not found, not forbidden.
func (h *OrderHandler) loadVisibleOrder(w http.ResponseWriter, r *http.Request) (*models.Order, bool) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid order ID"})
		return nil, false
	}

	order, err := h.orderService.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Order not found"})
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load order"})
		return nil, false
	}

	if !middleware.IsAdmin(r.Context()) && order.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Order not found"})
		return nil, false
	}

	return order, true
}
