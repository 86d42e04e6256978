package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/trafficshawarma/storefront/internal/models"
	pkghttp "github.com/trafficshawarma/storefront/pkg/http"
)

// AdminTokenHeader carries the admin session token on protected routes.
const AdminTokenHeader = "X-Admin-Token"

type contextKey string

const adminUsernameKey contextKey = "admin_username"

// SessionValidator validates an admin session token.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.SessionValidation, error)
}

// AdminAuth returns a middleware that requires a valid admin session
// token on every request. A store failure rejects the request rather
// than letting it through unauthenticated.
func AdminAuth(sessions SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AdminTokenHeader)
			if token == "" {
				writeAuthRejection(w, "No token provided")
				return
			}

			validation, err := sessions.ValidateSession(r.Context(), token)
			if err != nil {
				logger.Error("session validation failed", slog.Any("error", err))
				pkghttp.WriteInternalError(w, "Session validation failed")
				return
			}

			if !validation.Valid {
				writeAuthRejection(w, validation.Reason)
				return
			}

			ctx := context.WithValue(r.Context(), adminUsernameKey, validation.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthRejection writes the 401 body the admin frontend expects:
// the full "Unauthorized - <reason>" string in the error field.
func writeAuthRejection(w http.ResponseWriter, reason string) {
	pkghttp.WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error": "Unauthorized - " + reason,
	})
}

// AdminUsername returns the authenticated admin username stored by
// AdminAuth, or "" when the request did not pass through it.
func AdminUsername(ctx context.Context) string {
	username, _ := ctx.Value(adminUsernameKey).(string)
	return username
}
