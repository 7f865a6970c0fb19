package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/contact-api/internal/authz"
	"github.com/stanstork/contact-api/internal/models"
)

// NotificationLister reads the notifications addressed to one profile.
type NotificationLister interface {
	ListForRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
}

type NotificationHandler struct {
	lister NotificationLister
	logger zerolog.Logger
}

func NewNotificationHandler(lister NotificationLister, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		lister: lister,
		logger: logger.With().Str("handler", "notification").Logger(),
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	limit := 25
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	notifications, err := h.lister.ListForRecipient(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list notifications")
		http.Error(w, "Failed to list notifications", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
	})
}
