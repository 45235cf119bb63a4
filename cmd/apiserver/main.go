// Command apiserver serves the citizen/analyst/authority web API over the
// shared report store.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/aquasentry/aquasentry/internal/api"
	"github.com/aquasentry/aquasentry/internal/config"
	"github.com/aquasentry/aquasentry/internal/observability"
	"github.com/aquasentry/aquasentry/internal/store"
)

func main() {
	// Local development convenience; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	reportStore, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open report store", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}

	srv := api.NewServer(cfg.APIAddr, reportStore, cfg.JWTSecret, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown error", "error", err)
	}
	if err := reportStore.Close(); err != nil {
		logger.Error("report store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
