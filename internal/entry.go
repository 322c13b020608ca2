// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/datahub/internal/api"
	"github.com/starford/datahub/internal/dashboard"
	"github.com/starford/datahub/internal/documents"
	"github.com/starford/datahub/internal/mcpserver"
	"github.com/starford/datahub/internal/objectstore"
	"github.com/starford/datahub/internal/records"
	"github.com/starford/datahub/internal/sse"
	"github.com/starford/datahub/internal/store"
	"github.com/starford/datahub/internal/upload"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("bucket_path", cfg.Bucket.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure bucket directory exists.
	if err := os.MkdirAll(cfg.Bucket.Path, 0o755); err != nil {
		return fmt.Errorf("create bucket dir: %w", err)
	}

	// Initialize the file bucket.
	bucket, err := objectstore.NewFS(cfg.Bucket.Path)
	if err != nil {
		return fmt.Errorf("init bucket: %w", err)
	}

	// Initialize the SQLite document catalog.
	docs, err := documents.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init documents: %w", err)
	}
	defer docs.Close()

	// In-memory record store with the demo dataset.
	st := store.New(store.SeedRecords())

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build services and API router.
	uploader := upload.NewUploader(bucket, logger)
	recSvc := records.NewService(st, uploader, broker, logger)
	dashSvc := dashboard.NewService(st, docs)
	apiRouter := api.NewRouter(recSvc, dashSvc, docs,
		cfg.Auth.AuthEnabled(), cfg.Auth.Token, cfg.Auth.Email, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Uploaded files at their stored public URLs.
	r.Get("/files/{key}", api.NewFileHandler(bucket).ServeObject)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start bucket watcher with SSE callback.
	g.Go(func() error {
		err := upload.Watch(gCtx, bucket, cfg.Bucket.Path, recSvc.ReferencedKeys, logger,
			func(kind, key string) {
				broker.Publish(sse.Event{Type: "file." + kind, Data: map[string]string{"key": key}})
			})
		if err != nil {
			logger.Warn("bucket watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server over the same services, without the
// HTTP surface. Intended for the "mcp" CLI command. Logs go to stderr since
// stdout carries the MCP transport.
func RunMCP(cfg *Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Bucket.Path, 0o755); err != nil {
		return fmt.Errorf("create bucket dir: %w", err)
	}
	bucket, err := objectstore.NewFS(cfg.Bucket.Path)
	if err != nil {
		return fmt.Errorf("init bucket: %w", err)
	}
	docs, err := documents.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init documents: %w", err)
	}
	defer docs.Close()

	st := store.New(store.SeedRecords())
	recSvc := records.NewService(st, upload.NewUploader(bucket, logger), nil, logger)
	dashSvc := dashboard.NewService(st, docs)

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(recSvc, dashSvc).ServeStdio()
}
