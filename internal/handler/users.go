package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/store"
)

// UserHandler serves the admin-only user management endpoints. Authorization
// is enforced by the RequireAdmin middleware on the route group, not here.
type UserHandler struct {
	store *store.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(st *store.Store) *UserHandler {
	return &UserHandler{store: st}
}

// List returns all users in insertion order.
// GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users: "+err.Error())
		return
	}

	resources := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		resources = append(resources, userToMap(&users[i]))
	}

	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: resources,
		Meta: &model.ResponseMeta{
			Count: len(resources),
		},
	})
}

// createUserRequest is the expected payload for Create.
type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Create adds a new (non-admin) user account.
// POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.store.Create(r.Context(), req.Email, req.Name, req.Password, false)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "User with this email already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create user: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, userToMap(user))
}

// Delete removes a user by ID. The bootstrap admin cannot be deleted, even by
// itself.
// DELETE /api/v1/users/{userId}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")

	if err := h.store.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrProtected):
			writeError(w, http.StatusForbidden, "The admin account cannot be deleted")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found: "+id)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to delete user: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted",
	})
}
