package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/insight-be/internal/auth"
	"github.com/hongminglow/insight-be/internal/chat"
	"github.com/hongminglow/insight-be/internal/config"
	"github.com/hongminglow/insight-be/internal/http/handlers"
	"github.com/hongminglow/insight-be/internal/middleware"
	"github.com/hongminglow/insight-be/internal/models"
	"github.com/hongminglow/insight-be/internal/storage"
)

// Stores groups the persistence interfaces the server depends on. A single
// postgres.Store satisfies both in production.
type Stores interface {
	storage.UserStore
	storage.EntryStore
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store Stores, chatClient *chat.Client) *Server {
	mux := http.NewServeMux()

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	protect := middleware.RequireAuth(tokenManager, store)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokenManager, &cfg).Register(mux, protect)
	handlers.NewDataHandler(store, &cfg).Register(mux, protect)
	handlers.NewUsersHandler(store).Register(mux, protect, adminOnly)
	handlers.NewChatHandler(chatClient).Register(mux, protect)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler exposes the fully wired handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
