package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/service"
)

type contextKeyAuth string

// AuthUserKey is the context key for the authenticated user.
const AuthUserKey contextKeyAuth = "auth_user"

// Authenticate returns an HTTP middleware that validates the request's JWT
// Bearer token and resolves it to a live user record. On success the user is
// attached to the request context. On failure a 401 JSON error response is
// returned; an expired token gets a distinct message so clients can prompt
// for re-login rather than showing a generic failure.
func Authenticate(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required. Provide a Bearer token.")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authSvc.ResolveToken(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrTokenExpired):
					writeAuthError(w, http.StatusUnauthorized, "Token expired. Please log in again.")
				case errors.Is(err, service.ErrUnknownUser):
					writeAuthError(w, http.StatusUnauthorized, "Unknown user")
				default:
					writeAuthError(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), AuthUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns an HTTP middleware that enforces admin-level access.
// It must be used after Authenticate in the middleware chain; every
// admin-only route goes through this gate, there is no secondary check.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil || !user.IsAdmin {
				writeAuthError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser extracts the authenticated user from the context. Returns nil if
// no user is present (i.e., unauthenticated request).
func GetUser(ctx context.Context) *model.User {
	if u, ok := ctx.Value(AuthUserKey).(*model.User); ok {
		return u
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Manually construct JSON to avoid import cycle with handler package
	w.Write([]byte(`{"error":{"code":` + strconv.Itoa(status) + `,"message":` + strconv.Quote(message) + `}}`))
}
