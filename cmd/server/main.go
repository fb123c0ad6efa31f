/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the bonus plan service.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (config.yaml, .env, BONUSPLAN_* env vars)
  2. Apply command-line flag overrides
  3. Initialize the logger
  4. Open the store, benchmark catalog and default policy
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides server.port)
  -db      SQLite database path (overrides store.path)
           Use ":memory:" for an in-memory SQLite database,
           "" for the plain in-memory store

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/plans.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  BONUSPLAN_SERVER_PORT=3001 ./server

SEE ALSO:
  - app/app.go: Store, catalog and policy wiring
  - api/server.go: Router configuration
  - config/config.go: Configuration keys
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docal56/sharewillow-onboarding/api"
	"github.com/docal56/sharewillow-onboarding/app"
	"github.com/docal56/sharewillow-onboarding/config"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags
	port := flag.Int("port", cfg.Server.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Store.Path, "SQLite database path")
	flag.Parse()
	cfg.Server.Port = *port
	cfg.Store.Path = *dbPath

	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}
	logger := zap.L()
	defer logger.Sync()

	handler, closeStore, err := app.NewHandler(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg.Server.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("api", fmt.Sprintf("http://localhost:%d/api", cfg.Server.Port)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
