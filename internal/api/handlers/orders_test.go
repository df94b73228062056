package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chadillac/order-tracker/internal/api/handlers"
	"github.com/chadillac/order-tracker/internal/api/middleware"
	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/chadillac/order-tracker/internal/orders"
	"github.com/chadillac/order-tracker/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup, *orders.Service) {
	tc := testutil.NewTestContext(t)

	orderService := orders.NewService(tc.DB, nil, testutil.SilentLogger())
	handler := handlers.NewOrderHandler(orderService)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", handler.List)
			r.Post("/", handler.Create)
			r.Get("/{id}", handler.Get)
			r.Post("/{id}/services", handler.AddService)
			r.Put("/{id}/stage", handler.MoveStage)
			r.Post("/{id}/archive", handler.Archive)
			r.Post("/{id}/restore", handler.Restore)
		})
	})

	return r, tc, orderService
}

func TestOrderHandler_Create(t *testing.T) {
	router, tc, _ := setupOrderTestRouter(t)
	defer tc.Cleanup()

	t.Run("creates order", func(t *testing.T) {
		body := map[string]string{
			"business_name": "Acme Corp",
			"email":         "ops@acme.example",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/orders", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var order models.Order
		testutil.ParseJSONResponse(t, rr, &order)
		assert.Equal(t, "Acme Corp", order.BusinessName)
		assert.Equal(t, tc.User.ID, order.UserID)
	})

	t.Run("missing business name", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/orders", map[string]string{}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		body := map[string]string{
			"business_name": "Acme",
			"email":         "not-an-email",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/orders", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		body := map[string]string{"business_name": "Acme"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/orders", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestOrderHandler_Get(t *testing.T) {
	router, tc, _ := setupOrderTestRouter(t)
	defer tc.Cleanup()

	own := testutil.CreateTestOrder(t, tc.DB, tc.User.ID, "Mine")
	foreign := testutil.CreateTestOrder(t, tc.DB, tc.Admin.ID, "Theirs")
	testutil.CreateTestService(t, tc.DB, own.ID, tc.Stages[1].ID, "Design")

	t.Run("owner sees order with summary", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/orders/"+own.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.OrderDetail
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, own.ID, resp.Order.ID)
		assert.Equal(t, 1, resp.Summary.TotalServices)
		assert.Equal(t, "In Progress", resp.Summary.CurrentStage)
		assert.Equal(t, 66.67, resp.Summary.Progress)
	})

	t.Run("foreign order reads as not found", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/orders/"+foreign.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("admin sees any order", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/orders/"+own.ID.String(), nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/orders/not-a-uuid", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestOrderHandler_AddService(t *testing.T) {
	router, tc, _ := setupOrderTestRouter(t)
	defer tc.Cleanup()

	order := testutil.CreateTestOrder(t, tc.DB, tc.User.ID, "Acme")
	entry := testutil.CreateTestCatalogEntry(t, tc.DB, "Design")

	t.Run("adds service at initial stage", func(t *testing.T) {
		body := map[string]string{"catalog_id": entry.ID.String()}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/orders/"+order.ID.String()+"/services", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var service models.Service
		testutil.ParseJSONResponse(t, rr, &service)
		assert.Equal(t, "Design", service.Name)
		assert.Equal(t, tc.Stages[0].ID, service.StageID)
	})

	t.Run("unknown catalog entry", func(t *testing.T) {
		body := map[string]string{"catalog_id": "00000000-0000-0000-0000-000000000001"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/orders/"+order.ID.String()+"/services", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing catalog id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/orders/"+order.ID.String()+"/services", map[string]string{}, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestOrderHandler_MoveStage(t *testing.T) {
	router, tc, orderService := setupOrderTestRouter(t)
	defer tc.Cleanup()

	order := testutil.CreateTestOrder(t, tc.DB, tc.User.ID, "Acme")
	testutil.CreateTestService(t, tc.DB, order.ID, tc.Stages[0].ID, "Design")

	t.Run("moves all services", func(t *testing.T) {
		body := map[string]string{"stage_id": tc.Stages[2].ID.String()}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/orders/"+order.ID.String()+"/stage", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		changes, err := orderService.Changes(req.Context(), order.ID)
		require.NoError(t, err)
		require.NotEmpty(t, changes)
		assert.Equal(t, "Order moved to Done", changes[0].Description)
	})

	t.Run("unknown stage", func(t *testing.T) {
		body := map[string]string{"stage_id": "00000000-0000-0000-0000-000000000001"}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/orders/"+order.ID.String()+"/stage", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestOrderHandler_ArchiveRestore(t *testing.T) {
	router, tc, _ := setupOrderTestRouter(t)
	defer tc.Cleanup()

	order := testutil.CreateTestOrder(t, tc.DB, tc.User.ID, "Acme")

	archive := func(token string) *httptest.ResponseRecorder {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/orders/"+order.ID.String()+"/archive", nil, token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("archive succeeds once", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, archive(tc.Token).Code)
	})

	t.Run("double archive is rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, archive(tc.Token).Code)
	})

	t.Run("restore brings the order back", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/orders/"+order.ID.String()+"/restore", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var loaded models.Order
		require.NoError(t, tc.DB.First(&loaded, order.ID).Error)
		assert.False(t, loaded.Archived)
	})
}

func TestOrderHandler_List(t *testing.T) {
	router, tc, _ := setupOrderTestRouter(t)
	defer tc.Cleanup()

	testutil.CreateTestOrder(t, tc.DB, tc.User.ID, "Mine")
	testutil.CreateTestOrder(t, tc.DB, tc.Admin.ID, "Theirs")

	t.Run("regular user sees own orders", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/orders", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var list []models.Order
		testutil.ParseJSONResponse(t, rr, &list)
		require.Len(t, list, 1)
		assert.Equal(t, "Mine", list[0].BusinessName)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/orders", nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var list []models.Order
		testutil.ParseJSONResponse(t, rr, &list)
		assert.Len(t, list, 2)
	})
}
