package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chadillac/order-tracker/internal/api/dto"
	"github.com/chadillac/order-tracker/internal/api/handlers"
	"github.com/chadillac/order-tracker/internal/auth"
	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/chadillac/order-tracker/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	authService := auth.NewService(tc.DB, tc.JWTService)
	handler := handlers.NewAuthHandler(authService)

	r := chi.NewRouter()
	r.Post("/api/v1/auth/login", handler.Login)
	r.Post("/api/v1/auth/reset-requests", handler.RequestReset)

	return r, tc
}

func TestAuthHandler_Login(t *testing.T) {
	router, tc := setupAuthTestRouter(t)
	defer tc.Cleanup()

	t.Run("successful login", func(t *testing.T) {
		body := map[string]string{
			"username": tc.User.Username,
			"password": "testpassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.AuthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, tc.User.Username, resp.User.Username)
		assert.False(t, resp.User.IsAdmin)

		// Token round-trips through the validator
		claims, err := tc.JWTService.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, tc.User.ID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := map[string]string{
			"username": tc.User.Username,
			"password": "wrongpassword",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown username gets the same status", func(t *testing.T) {
		body := map[string]string{
			"username": "nobody",
			"password": "testpassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", map[string]string{})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_RequestReset(t *testing.T) {
	router, tc := setupAuthTestRouter(t)
	defer tc.Cleanup()

	t.Run("creates pending request and returns temp credential once", func(t *testing.T) {
		body := map[string]string{"username": tc.User.Username}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/reset-requests", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.ResetResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Len(t, resp.TempPassword, 8)

		// Only the hash is at rest
		var reset models.PasswordReset
		require.NoError(t, tc.DB.Where("user_id = ?", tc.User.ID).First(&reset).Error)
		assert.NotContains(t, reset.TempHash, resp.TempPassword)
		assert.True(t, auth.CheckPassword(resp.TempPassword, reset.TempHash))
	})

	t.Run("unknown username", func(t *testing.T) {
		body := map[string]string{"username": "nobody"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/reset-requests", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing username", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/reset-requests", map[string]string{})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
