package handler

import (
	"errors"
	"net/http"

	"github.com/userdeck/userdeck/internal/server/middleware"
	"github.com/userdeck/userdeck/internal/service"
	"github.com/userdeck/userdeck/internal/store"
)

// AuthHandler serves the login/logout/identity endpoints.
type AuthHandler struct {
	store   *store.Store
	authSvc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(st *store.Store, authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{
		store:   st,
		authSvc: authSvc,
	}
}

// loginResponse is the response payload for a successful login.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

// Login authenticates a user and returns a bearer token. The request is
// form-encoded with "username" (the email) and "password" fields, matching
// the OAuth2 password grant shape SPA login forms post.
// POST /api/v1/auth/token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form body: "+err.Error())
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, user, err := h.authSvc.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "Authentication error: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(h.authSvc.TokenTTL().Seconds()),
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
	})
}

// Logout invalidates the current session. Since tokens are stateless, this is
// a no-op on the server side. Clients should discard their token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
}

// Whoami returns the authenticated user's public fields.
// GET /api/v1/auth/me
func (h *AuthHandler) Whoami(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	writeJSON(w, http.StatusOK, userToMap(user))
}

// changePasswordRequest is the expected payload for ChangePassword.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword replaces the authenticated user's password after verifying
// the current one. Self-service only; admins change other accounts by
// recreating them.
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "current_password and new_password are required")
		return
	}

	user := middleware.GetUser(r.Context())
	if !h.store.VerifyPassword(user, req.CurrentPassword) {
		writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	if err := h.store.UpdatePassword(r.Context(), user.ID, req.NewPassword); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password changed",
	})
}
