package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stanstork/contact-api/internal/authz"
	"github.com/stanstork/contact-api/internal/contact"
	"github.com/stanstork/contact-api/internal/models"
	"github.com/stanstork/contact-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	senderID = "2f1c9a3e-5b7d-4e8f-9a0b-1c2d3e4f5a6b"
	adminID  = "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"
)

type stubSubmitter struct {
	result contact.Result
	err    error
	calls  int
}

func (s *stubSubmitter) Submit(_ context.Context, _ contact.Input, _ string) (contact.Result, error) {
	s.calls++
	return s.result, s.err
}

func signToken(t *testing.T, secret, sub, role string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func contactRequest(t *testing.T, userID string, role models.UserRole, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/contact/admin", bytes.NewReader(body))
	if userID != "" {
		req = req.WithContext(authz.WithIdentity(req.Context(), userID, role))
	}
	return req
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestContactAdminSuccess(t *testing.T) {
	stub := &stubSubmitter{result: contact.Result{
		Notification: models.Notification{ID: "N1", RecipientID: adminID},
		ClearInput:   true,
	}}
	h := NewContactHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ContactAdmin(rec, contactRequest(t, senderID, models.RoleUser, contact.Input{Subject: "Hi", Body: "Hello"}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp contactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, contactResponse{NotificationID: "N1", RecipientID: adminID, ClearInput: true}, resp)
}

func TestContactAdminFailureMapping(t *testing.T) {
	storeErr := errors.New(`pq: password authentication failed for user "postgres"`)
	cases := []struct {
		name       string
		err        error
		status     int
		kind       string
		exposesErr bool
	}{
		{"validation", &contact.Failure{Kind: contact.ErrValidation, Cause: errors.New("subject is required")}, http.StatusBadRequest, "validation_failure", true},
		{"no admin", &contact.Failure{Kind: contact.ErrNoAdminAvailable}, http.StatusServiceUnavailable, "no_admin_available", true},
		{"lookup", &contact.Failure{Kind: contact.ErrLookup, Cause: storeErr}, http.StatusBadGateway, "lookup_failure", false},
		{"write", &contact.Failure{Kind: contact.ErrWrite, Cause: storeErr}, http.StatusInternalServerError, "write_failure", false},
		{"unclassified", contact.ErrAlreadyStarted, http.StatusInternalServerError, "internal_error", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewContactHandler(&stubSubmitter{err: tc.err}, zerolog.Nop())

			rec := httptest.NewRecorder()
			h.ContactAdmin(rec, contactRequest(t, senderID, models.RoleUser, contact.Input{Subject: "Hi", Body: "Hello"}))
			require.Equal(t, tc.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.kind, resp.Error)
			if tc.exposesErr {
				assert.Equal(t, tc.err.Error(), resp.Message)
			} else {
				assert.NotContains(t, resp.Message, "pq:")
				assert.NotEmpty(t, resp.Message)
			}
		})
	}
}

func TestContactAdminRejectsCaller(t *testing.T) {
	stub := &stubSubmitter{}
	h := NewContactHandler(stub, zerolog.Nop())
	input := contact.Input{Subject: "Hi", Body: "Hello"}

	rec := httptest.NewRecorder()
	h.ContactAdmin(rec, contactRequest(t, "", "", input))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ContactAdmin(rec, contactRequest(t, adminID, models.RoleAdmin, input))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/contact/admin", bytes.NewBufferString("{"))
	req = req.WithContext(authz.WithIdentity(req.Context(), senderID, models.RoleUser))
	rec = httptest.NewRecorder()
	h.ContactAdmin(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, stub.calls)
}

func TestListNotifications(t *testing.T) {
	store := repository.NewMemoryStore(models.Profile{ID: adminID, Role: models.RoleAdmin})
	_, err := store.Create(context.Background(), models.NotificationDraft{
		Title: "Hi", Message: "Hello", RecipientID: adminID, Type: models.NotificationTypeAdminContact,
	})
	require.NoError(t, err)
	h := NewNotificationHandler(store, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/notifications?limit=10", nil)
	req = req.WithContext(authz.WithIdentity(req.Context(), adminID, models.RoleAdmin))
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "Hi", resp.Notifications[0].Title)
}

func TestJWTMiddleware(t *testing.T) {
	auth := NewAuthHandler("test-secret", zerolog.Nop())
	var gotID string
	var gotRole models.UserRole
	h := auth.JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = authz.UserIDFromRequest(r)
		gotRole, _ = authz.RoleFromRequest(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + signToken(t, "test-secret", senderID, "user", time.Hour), http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", senderID, "user", time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, "test-secret", senderID, "user", -time.Minute), http.StatusUnauthorized},
		{"non uuid subject", "Bearer " + signToken(t, "test-secret", "not-a-uuid", "user", time.Hour), http.StatusUnauthorized},
		{"missing role", "Bearer " + signToken(t, "test-secret", senderID, "", time.Hour), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
	assert.Equal(t, senderID, gotID)
	assert.Equal(t, models.RoleUser, gotRole)
}
