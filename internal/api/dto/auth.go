package dto

import "strings"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(r.Username) == "" {
		errors["username"] = "Username is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}
	return errors
}

type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type ResetRequest struct {
	Username string `json:"username"`
}

func (r ResetRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(r.Username) == "" {
		errors["username"] = "Username is required"
	}
	return errors
}

// ResetResponse carries the one-shot temporary credential back to the
// requester. It is never retrievable again.
type ResetResponse struct {
	TempPassword string `json:"temp_password"`
	Message      string `json:"message"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

func (r CreateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(r.Username) == "" {
		errors["username"] = "Username is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}
	return errors
}
