package authz

import (
	"net/http"

	"github.com/stanstork/contact-api/internal/models"
)

// RequireRole returns a middleware that only lets callers holding the given role through.
func RequireRole(required models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromRequest(r)
			if !ok || role != required {
				http.Error(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoleHandler applies the role middleware inline when registering routes.
func RequireRoleHandler(required models.UserRole, next http.Handler) http.Handler {
	return RequireRole(required)(next)
}
