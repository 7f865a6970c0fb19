package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stanstork/contact-api/internal/authz"
	"github.com/stanstork/contact-api/internal/handlers"
	"github.com/stanstork/contact-api/internal/models"
)

// NewRouter sets up the API routes
func NewRouter(auth *handlers.AuthHandler, contact *handlers.ContactHandler, notifications *handlers.NotificationHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check route
	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware)

	api.HandleFunc("/contact/admin", contact.ContactAdmin).Methods(http.MethodPost)
	api.Handle("/notifications", authz.RequireRoleHandler(models.RoleAdmin, http.HandlerFunc(notifications.List))).Methods(http.MethodGet)

	return router
}
