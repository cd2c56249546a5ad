package handlers

import (
	"net/http"

	"github.com/ace-TI85/dev-connector/internal/api/middleware"
	"github.com/ace-TI85/dev-connector/internal/api/types"
	"github.com/ace-TI85/dev-connector/internal/api/validators"
	"github.com/ace-TI85/dev-connector/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates an account and returns a token so the client is signed in
// immediately. POST /api/users
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validators.Struct(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	tok, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, map[string]string{"token": tok})
}

// Login authenticates and returns a fresh token. POST /api/auth
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validators.Struct(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	tok, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, map[string]string{"token": tok})
}

// Me returns the caller's user record, password hash excluded. GET /api/auth
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, user)
}

// DeleteAccount removes the caller's profile and user record.
// DELETE /api/profile
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.DeleteAccount(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, map[string]string{"msg": "User deleted"})
}
