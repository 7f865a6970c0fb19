package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/stanstork/contact-api/internal/config"
	"github.com/stanstork/contact-api/internal/contact"
	"github.com/stanstork/contact-api/internal/handlers"
	"github.com/stanstork/contact-api/internal/middleware"
	"github.com/stanstork/contact-api/internal/migration"
	"github.com/stanstork/contact-api/internal/models"
	"github.com/stanstork/contact-api/internal/repository"
	"github.com/stanstork/contact-api/internal/routes"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type application struct {
	config        *config.Config
	db            *sql.DB
	logger        zerolog.Logger
	profiles      repository.ProfileRepository
	notifications repository.NotificationRepository
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	goose.SetLogger(migration.NewGooseAdapter(logger))

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	app := &application{
		config: cfg,
		logger: logger,
	}
	app.initStorage()
	if app.db != nil {
		defer app.db.Close()
	}

	// Initialize the HTTP router and middleware.
	router := app.initRouter()
	loggedRouter := middleware.LoggingMiddleware(app.logger)(router)
	corsHandler := h.CORS(
		h.AllowedOrigins(cfg.CORS.AllowedOrigins),
		h.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		h.AllowCredentials(),
	)(loggedRouter)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler)

	logger.Info().Msg("Application terminated.")
}

// initStorage wires the profile and notification stores for the configured driver.
func (app *application) initStorage() {
	if app.config.Storage.Driver == config.StorageDriverMemory {
		store := repository.NewMemoryStore()
		for _, seed := range app.config.Storage.Seed {
			store.AddProfile(models.Profile{
				ID:    seed.ID,
				Email: seed.Email,
				Role:  models.ParseRole(seed.Role),
			})
		}
		app.profiles = store
		app.notifications = store
		app.logger.Warn().Int("profiles", len(app.config.Storage.Seed)).Msg("Using in-memory storage; data is lost on restart")
		return
	}

	db, err := sql.Open("postgres", app.config.DatabaseURL)
	if err != nil {
		app.logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	if err := db.Ping(); err != nil {
		app.logger.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Run database migrations.
	if err := migration.RunMigrations(db, app.logger); err != nil {
		app.logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	app.db = db
	app.profiles = repository.NewProfileRepository(db)
	app.notifications = repository.NewNotificationRepository(db)
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter() http.Handler {
	policy, err := contact.NewPolicy(app.config.Contact.RecipientPolicy)
	if err != nil {
		app.logger.Fatal().Err(err).Msg("Invalid recipient policy")
	}

	controller := contact.NewController(app.profiles, app.notifications, contact.Options{
		Policy:    policy,
		IOTimeout: app.config.Contact.IOTimeout,
	}, app.logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(app.config.JWTSecret, app.logger)
	contactHandler := handlers.NewContactHandler(controller, app.logger)
	notificationHandler := handlers.NewNotificationHandler(app.notifications, app.logger)

	return routes.NewRouter(authHandler, contactHandler, notificationHandler)
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler) {
	server := &http.Server{
		Addr:              ":" + app.config.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		app.logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		app.logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		app.logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		app.logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		app.logger.Info().Msg("HTTP server shutdown complete.")
	}
}
