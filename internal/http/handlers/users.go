package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/insight-be/internal/http/respond"
	"github.com/hongminglow/insight-be/internal/middleware"
	"github.com/hongminglow/insight-be/internal/models"
	"github.com/hongminglow/insight-be/internal/storage"
)

// UsersHandler owns the admin-only user listing.
type UsersHandler struct {
	users storage.UserStore
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users storage.UserStore) *UsersHandler {
	return &UsersHandler{users: users}
}

// Register attaches the route behind auth and the admin role gate.
func (h *UsersHandler) Register(mux *http.ServeMux, protect, adminOnly middleware.Chain) {
	mux.HandleFunc("GET /api/users", protect(adminOnly(h.handleList)))
}

func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		slog.Error("list users failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respond.JSON(w, http.StatusOK, users)
}
