// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects the store, the services,
// the handlers and the middleware, and owns the process lifecycle:
//
//	config.Config
//	   └─ Open()       sqlite.DB → secret.Sealer → services
//	        └─ New()   chi router → middleware → handler.API
//	             └─ Start(ctx)   listen, then drain on ctx cancel
//
// This is the "composition root" pattern: all dependencies are wired in one
// place rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/datanest/internal/auth"
	"github.com/sakif/datanest/internal/config"
	"github.com/sakif/datanest/internal/handler"
	"github.com/sakif/datanest/internal/middleware"
	sqliteRepo "github.com/sakif/datanest/internal/repository/sqlite"
	"github.com/sakif/datanest/internal/secret"
	"github.com/sakif/datanest/internal/service"
)

// Backend is the opened store plus every service built on it. Both the HTTP
// server and the MCP stdio server run on top of one.
type Backend struct {
	DB         *sqliteRepo.DB
	Snippets   *service.SnippetService
	Categories *service.CategoryService
	Tags       *service.TagService
	Stats      *service.StatsService
	Settings   *service.SettingsService
}

// Open creates the data directory if needed, opens the database, and makes
// sure the settings row exists.
//
// IMPORT ALIAS:
// repository/sqlite is imported as `sqliteRepo` so it does not read like the
// driver package.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if cfg.DBPath != ":memory:" {
		// 0755 = owner can read/write/execute, others can read/execute.
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sealer, err := secret.New(cfg.SettingsSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating settings sealer: %w", err)
	}
	if !sealer.Enabled() {
		logger.Warn("settings_secret not set, API keys are stored unencrypted")
	}

	b := &Backend{
		DB:         db,
		Snippets:   service.NewSnippetService(db.Snippets(), logger),
		Categories: service.NewCategoryService(db.Categories(), logger),
		Tags:       service.NewTagService(db.Tags(), logger),
		Stats:      service.NewStatsService(db.Snippets(), db.Categories(), db.Tags(), db.AIQueries(), logger),
		Settings:   service.NewSettingsService(db.Settings(), sealer, logger),
	}

	if err := b.Settings.Init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising settings: %w", err)
	}

	return b, nil
}

// Close releases the database.
func (b *Backend) Close() error {
	return b.DB.Close()
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the Backend. Start closes it once the listener has
// drained, flushing the WAL and releasing the file lock.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	backend *Backend
}

// New builds the router on top of an opened Backend.
//
// When cfg.APISecret is set every route that changes data requires a bearer
// token signed with it (see `datanest token`).
func New(cfg *config.Config, backend *Backend, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		backend: backend,
	}

	var guard func(http.Handler) http.Handler
	if cfg.AuthEnabled() {
		tokens, err := auth.NewTokenService(cfg.APISecret)
		if err != nil {
			return nil, fmt.Errorf("creating token service: %w", err)
		}
		guard = auth.RequireToken(tokens, logger, handler.WriteError)
	} else {
		logger.Warn("api_secret not set, write routes are unauthenticated")
	}

	s.setupRoutes(guard)
	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID: assigns a unique ID to each request (for tracing)
// 2. RealIP: extracts the real client IP from proxy headers
// 3. Recoverer: catches panics and returns 500 instead of crashing
// 4. Logger: logs each request with timing info and the request ID
func (s *Server) setupRoutes(guard func(http.Handler) http.Handler) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	b := s.backend
	api := &handler.API{
		Snippets:   handler.NewSnippetHandler(b.Snippets, s.logger),
		Categories: handler.NewCategoryHandler(b.Categories),
		Tags:       handler.NewTagHandler(b.Tags),
		Dashboard:  handler.NewDashboardHandler(b.Stats, b.Settings, b.DB),
	}
	api.Mount(s.router, guard)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully:
//  1. Stop accepting new connections
//  2. Wait up to ShutdownTimeout for in-flight requests
//  3. Close the database
//
// The caller usually derives ctx from signal.NotifyContext so Ctrl+C and
// SIGTERM trigger the drain.
func (s *Server) Start(ctx context.Context) error {
	defer s.backend.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Bool("auth", s.config.AuthEnabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
