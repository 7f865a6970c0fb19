package authz

import (
	"context"
	"net/http"

	"github.com/stanstork/contact-api/internal/models"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"
)

// WithIdentity stores the caller's profile id and role on the context.
func WithIdentity(ctx context.Context, userID string, role models.UserRole) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, userIDKey, userID)
	}
	ctx = context.WithValue(ctx, userRoleKey, models.ParseRole(string(role)))
	return ctx
}

func UserIDFromRequest(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value(userIDKey).(string)
	if !ok || uid == "" {
		return "", false
	}
	return uid, true
}

func RoleFromRequest(r *http.Request) (models.UserRole, bool) {
	role, ok := r.Context().Value(userRoleKey).(models.UserRole)
	if !ok || role == "" {
		return "", false
	}
	return role, true
}
