package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stanstork/contact-api/internal/authz"
	"github.com/stanstork/contact-api/internal/contact"
)

// ContactSubmitter runs the contact-admin workflow.
type ContactSubmitter interface {
	Submit(ctx context.Context, input contact.Input, senderID string) (contact.Result, error)
}

type ContactHandler struct {
	submitter ContactSubmitter
	logger    zerolog.Logger
}

type contactResponse struct {
	NotificationID string `json:"notification_id"`
	RecipientID    string `json:"recipient_id"`
	ClearInput     bool   `json:"clear_input"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewContactHandler(submitter ContactSubmitter, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		submitter: submitter,
		logger:    logger.With().Str("handler", "contact").Logger(),
	}
}

func (h *ContactHandler) ContactAdmin(w http.ResponseWriter, r *http.Request) {
	senderID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}
	if role, _ := authz.RoleFromRequest(r); role.IsAdmin() {
		http.Error(w, "Administrators cannot use the contact form", http.StatusForbidden)
		return
	}

	var input contact.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.submitter.Submit(r.Context(), input, senderID)
	if err != nil {
		status, kind := contactFailureStatus(err)
		message := err.Error()
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			h.logger.Error().Err(err).Str("sender_id", senderID).Msg("contact submission failed")
			message = "Failed to deliver your message, please try again later"
		}
		writeJSON(w, status, errorResponse{Error: kind, Message: message})
		return
	}

	writeJSON(w, http.StatusCreated, contactResponse{
		NotificationID: res.Notification.ID,
		RecipientID:    res.Notification.RecipientID,
		ClearInput:     res.ClearInput,
	})
}

func contactFailureStatus(err error) (int, string) {
	switch {
	case errors.Is(err, contact.ErrValidation):
		return http.StatusBadRequest, "validation_failure"
	case errors.Is(err, contact.ErrNoAdminAvailable):
		return http.StatusServiceUnavailable, "no_admin_available"
	case errors.Is(err, contact.ErrLookup):
		return http.StatusBadGateway, "lookup_failure"
	case errors.Is(err, contact.ErrWrite):
		return http.StatusInternalServerError, "write_failure"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
