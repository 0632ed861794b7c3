package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hongminglow/insight-be/internal/auth"
	"github.com/hongminglow/insight-be/internal/http/respond"
	"github.com/hongminglow/insight-be/internal/storage"
)

// Chain wraps a handler func with cross-cutting behavior.
type Chain func(http.HandlerFunc) http.HandlerFunc

// RequireAuth verifies the bearer token and attaches the decoded identity to
// the request context. Stored identities are additionally checked against the
// user table so tokens for deleted or deactivated accounts stop working.
func RequireAuth(tokens *auth.TokenManager, users storage.UserStore) Chain {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			identity, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					respond.Error(w, http.StatusUnauthorized, "token expired")
					return
				}
				respond.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}

			if !identity.Demo {
				user, err := users.FindUserByID(r.Context(), identity.UserID)
				if err != nil {
					if errors.Is(err, storage.ErrNotFound) {
						respond.Error(w, http.StatusUnauthorized, "user not found")
						return
					}
					respond.Error(w, http.StatusInternalServerError, "failed to verify user")
					return
				}
				if !user.IsActive {
					respond.Error(w, http.StatusUnauthorized, "account is deactivated")
					return
				}
				// Role changes take effect without reissuing the token.
				identity.Role = user.Role
			}

			next(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		}
	}
}

// RequireRole halts with 403 unless the authenticated identity holds one of
// the allowed roles. Must run after RequireAuth.
func RequireRole(allowed ...string) Chain {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range allowed {
				if identity.Role == role {
					next(w, r)
					return
				}
			}
			respond.Error(w, http.StatusForbidden, "insufficient permissions")
		}
	}
}
