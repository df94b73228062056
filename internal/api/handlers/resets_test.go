package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chadillac/order-tracker/internal/api/handlers"
	"github.com/chadillac/order-tracker/internal/api/middleware"
	"github.com/chadillac/order-tracker/internal/auth"
	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/chadillac/order-tracker/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupResetTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup, *auth.Service) {
	tc := testutil.NewTestContext(t)

	authService := auth.NewService(tc.DB, tc.JWTService)
	handler := handlers.NewResetHandler(authService)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Route("/api/v1/admin/reset-requests", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", handler.List)
			r.Post("/{id}/approve", handler.Approve)
		})
	})

	return r, tc, authService
}

func TestResetHandler_List(t *testing.T) {
	router, tc, authService := setupResetTestRouter(t)
	defer tc.Cleanup()

	_, err := authService.RequestReset(context.Background(), tc.User.Username)
	require.NoError(t, err)

	t.Run("pending queue omits the credential", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/reset-requests", nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var list []handlers.PendingResetResponse
		testutil.ParseJSONResponse(t, rr, &list)
		require.Len(t, list, 1)
		assert.Equal(t, tc.User.Username, list[0].Username)
		assert.NotContains(t, rr.Body.String(), "temp")
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/reset-requests", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestResetHandler_Approve(t *testing.T) {
	router, tc, authService := setupResetTestRouter(t)
	defer tc.Cleanup()

	tempPassword, err := authService.RequestReset(context.Background(), tc.User.Username)
	require.NoError(t, err)

	var reset models.PasswordReset
	require.NoError(t, tc.DB.Where("user_id = ?", tc.User.ID).First(&reset).Error)

	approve := func() *httptest.ResponseRecorder {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/reset-requests/"+reset.ID.String()+"/approve", nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("approval activates the temp credential", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, approve().Code)

		_, err := authService.Login(context.Background(), auth.LoginInput{
			Username: tc.User.Username,
			Password: tempPassword,
		})
		assert.NoError(t, err)
	})

	t.Run("double approval is rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, approve().Code)
	})

	t.Run("unknown reset id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/reset-requests/00000000-0000-0000-0000-000000000001/approve", nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
