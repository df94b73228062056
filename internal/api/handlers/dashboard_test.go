package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chadillac/order-tracker/internal/api/handlers"
	"github.com/chadillac/order-tracker/internal/api/middleware"
	"github.com/chadillac/order-tracker/internal/orders"
	"github.com/chadillac/order-tracker/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDashboardTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	orderService := orders.NewService(tc.DB, nil, testutil.SilentLogger())
	handler := handlers.NewDashboardHandler(orderService)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Get("/api/v1/dashboard", handler.Index)
	})

	return r, tc
}

func TestDashboardHandler_Index(t *testing.T) {
	router, tc := setupDashboardTestRouter(t)
	defer tc.Cleanup()

	// Two orders with history, one without
	first := testutil.CreateTestOrder(t, tc.DB, tc.User.ID, "First")
	second := testutil.CreateTestOrder(t, tc.DB, tc.User.ID, "Second")
	testutil.CreateTestOrder(t, tc.DB, tc.User.ID, "Quiet")

	testutil.CreateTestService(t, tc.DB, first.ID, tc.Stages[1].ID, "Design")
	testutil.CreateTestChange(t, tc.DB, first.ID, tc.User.ID, "Order created", time.Now().Add(-73*time.Hour))
	testutil.CreateTestChange(t, tc.DB, second.ID, tc.User.ID, "Order created", time.Now().Add(-25*time.Hour))

	t.Run("aggregates visible orders", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/dashboard", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.DashboardResponse
		testutil.ParseJSONResponse(t, rr, &resp)

		assert.Equal(t, 3, resp.ActiveOrders)
		require.Len(t, resp.Orders, 3)

		// Orders without history do not drag the average to zero:
		// (3 + 1) / 2, not (3 + 1 + 0) / 3
		assert.Equal(t, 2.0, resp.AvgDaysSinceChange)

		byName := make(map[string]orders.Summary, len(resp.Orders))
		for _, view := range resp.Orders {
			byName[view.Order.BusinessName] = view.Summary
		}
		assert.Equal(t, "In Progress", byName["First"].CurrentStage)
		assert.Equal(t, 66.67, byName["First"].Progress)
		assert.Equal(t, "To Do", byName["Quiet"].CurrentStage)
		assert.Nil(t, byName["Quiet"].DaysSinceLast)
	})

	t.Run("requires authentication", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/dashboard", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
