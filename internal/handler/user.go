package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcairns/taskdeck/internal/domain"
	"github.com/mcairns/taskdeck/internal/service"
)

// UserHandler handles user provisioning and lookup HTTP requests.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleProvision finds or creates a user for an email and returns a fresh
// credential.
// POST /api/users
// Request:  {"email":"...","password":"..."} (password optional)
// Response: 201 {"token":"...","created":true} for a new user,
//           200 {"token":"...","created":false} otherwise.
func (h *UserHandler) HandleProvision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token, created, err := h.users.Provision(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("provision user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"token":   token,
		"created": created,
	})
}

// HandleLogin verifies an email/password pair and returns a fresh credential.
// POST /api/users/login
// Request:  {"email":"...","password":"..."}
// Response: 200 {"token":"..."} or 401.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("login user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleExists reports whether an email is already registered.
// GET /api/users/exists/{email}
// Response: 200 {"exists":true,"email":"..."}
func (h *UserHandler) HandleExists(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	exists, err := h.users.Exists(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("check user exists", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	normalized, _ := domain.NormalizeEmail(email)
	writeJSON(w, http.StatusOK, map[string]any{
		"exists": exists,
		"email":  normalized,
	})
}
