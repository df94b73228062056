package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chadillac/order-tracker/internal/api/dto"
	"github.com/chadillac/order-tracker/internal/api/validation"
	"github.com/chadillac/order-tracker/internal/auth"
)

type UserHandler struct {
	authService *auth.Service
}

func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

// List handles GET /api/v1/admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list users"})
		return
	}

	resp := make([]dto.UserDTO, len(users))
	for i, u := range users {
		resp[i] = dto.UserDTO{ID: u.ID.String(), Username: u.Username, IsAdmin: u.IsAdmin}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/admin/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	details := req.Validate()
	if ok, msg := validation.IsValidPassword(req.Password); !ok && req.Password != "" {
		details["password"] = msg
	}
	if len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: details})
		return
	}

	user, err := h.authService.CreateUser(r.Context(), auth.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Username already exists"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create user"})
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserDTO{
		ID:       user.ID.String(),
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
}
