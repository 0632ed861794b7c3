package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/insight-be/internal/auth"
	"github.com/hongminglow/insight-be/internal/config"
	"github.com/hongminglow/insight-be/internal/http/respond"
	"github.com/hongminglow/insight-be/internal/middleware"
	"github.com/hongminglow/insight-be/internal/models"
	"github.com/hongminglow/insight-be/internal/models/dto"
	"github.com/hongminglow/insight-be/internal/storage"
)

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
	minPasswordLen   = 6
)

// AuthHandler owns register/login/me.
type AuthHandler struct {
	users  storage.UserStore
	tokens *auth.TokenManager
	cfg    *config.Config
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users storage.UserStore, tokens *auth.TokenManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, cfg: cfg}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux, protect middleware.Chain) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("GET /api/auth/me", protect(h.handleMe))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if details := validateRegistration(name, email, req.Password); len(details) > 0 {
		respond.ErrorDetails(w, http.StatusBadRequest, "validation failed", details)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleUser,
		IsActive:     true,
	}
	created, err := h.users.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "email already registered")
			return
		}
		slog.Error("create user failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.tokens.Generate(identityFor(created))
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusCreated, dto.AuthResponse{Token: token, User: created})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	// The demo pair is recognized before any store lookup.
	if h.cfg.DemoEnabled() && email == h.cfg.DemoEmail {
		if req.Password != h.cfg.DemoPassword {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.issueToken(w, auth.Identity{UserID: 0, Email: email, Role: models.RoleUser, Demo: true}, models.User{
			Name:     "Demo Account",
			Email:    email,
			Role:     models.RoleUser,
			IsActive: true,
		})
		return
	}

	user, err := h.users.FindUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slog.Error("login lookup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	now := time.Now()
	if user.Locked(now) {
		respond.Error(w, http.StatusLocked, "account locked due to repeated failed logins")
		return
	}
	if !user.IsActive {
		respond.Error(w, http.StatusUnauthorized, "account is deactivated")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		attempts := user.LoginAttempts + 1
		var lockUntil *time.Time
		if attempts >= maxLoginAttempts {
			deadline := now.Add(lockoutWindow)
			lockUntil = &deadline
		}
		if err := h.users.RecordLoginFailure(r.Context(), user.ID, attempts, lockUntil); err != nil {
			slog.Error("record login failure", "error", err, "user_id", user.ID)
		}
		if lockUntil != nil {
			respond.Error(w, http.StatusLocked, "account locked due to repeated failed logins")
			return
		}
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := h.users.RecordLoginSuccess(r.Context(), user.ID); err != nil {
		slog.Error("record login success", "error", err, "user_id", user.ID)
	}
	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLogin = &now

	h.issueToken(w, identityFor(user), user)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if identity.Demo {
		respond.JSON(w, http.StatusOK, identity)
		return
	}
	user, err := h.users.FindUserByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, identity auth.Identity, user models.User) {
	token, err := h.tokens.Generate(identity)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.AuthResponse{Token: token, User: user})
}

func identityFor(user models.User) auth.Identity {
	return auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func validateRegistration(name, email, password string) []string {
	var details []string
	if name == "" {
		details = append(details, "name is required")
	}
	if email == "" {
		details = append(details, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		details = append(details, "email is not a valid address")
	}
	if len(password) < minPasswordLen {
		details = append(details, "password must be at least 6 characters")
	}
	return details
}
