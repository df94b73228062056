package handlers

import (
	"net/http"

	"github.com/chadillac/order-tracker/internal/api/dto"
	"github.com/chadillac/order-tracker/internal/api/middleware"
	"github.com/chadillac/order-tracker/internal/orders"
)

type DashboardHandler struct {
	orderService *orders.Service
}

func NewDashboardHandler(orderService *orders.Service) *DashboardHandler {
	return &DashboardHandler{orderService: orderService}
}

// DashboardResponse is the aggregated view model the presentation layer
// renders: one row per visible order plus the headline numbers.
type DashboardResponse struct {
	ActiveOrders       int                `json:"active_orders"`
	AvgDaysSinceChange float64            `json:"avg_days_since_change"`
	Orders             []orders.OrderView `json:"orders"`
}

// Index handles GET /api/v1/dashboard
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())
	includeArchived := isAdmin && r.URL.Query().Get("include_archived") == "true"

	views, err := h.orderService.Dashboard(r.Context(), viewerID, isAdmin, includeArchived)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to build dashboard"})
		return
	}

	resp := DashboardResponse{
		Orders: views,
	}

	// Orders with no history yet are excluded from the average rather than
	// counted as zero days.
	daysTotal := 0
	daysKnown := 0
	for _, view := range views {
		if !view.Order.Archived {
			resp.ActiveOrders++
		}
		if view.Summary.DaysSinceLast != nil {
			daysTotal += *view.Summary.DaysSinceLast
			daysKnown++
		}
	}
	if daysKnown > 0 {
		resp.AvgDaysSinceChange = float64(daysTotal) / float64(daysKnown)
	}

	writeJSON(w, http.StatusOK, resp)
}
