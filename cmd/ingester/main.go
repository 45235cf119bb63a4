// Command ingester runs the social media ingestion service: it searches the
// feed for hazard chatter, extracts locations and sentiment, and persists
// the results as reports. Operational endpoints (health, readiness, metrics)
// are served over HTTP alongside the loop.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/aquasentry/aquasentry/internal/adapter/http"
	"github.com/aquasentry/aquasentry/internal/adapter/nominatim"
	"github.com/aquasentry/aquasentry/internal/adapter/twitter"
	"github.com/aquasentry/aquasentry/internal/config"
	"github.com/aquasentry/aquasentry/internal/nlp"
	"github.com/aquasentry/aquasentry/internal/observability"
	"github.com/aquasentry/aquasentry/internal/pipeline"
	"github.com/aquasentry/aquasentry/internal/sentiment"
	"github.com/aquasentry/aquasentry/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reportStore, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open report store", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}

	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(cfg.GeocodeTimeout, cfg.GeocodeUserAgent, logger),
		cfg.GeocodeCacheSize,
		metrics,
	)
	locator := pipeline.NewLocationExtractor(
		nlp.NewTagger(),
		geocoder,
		cfg.Bounds,
		cfg.DefaultLocation,
		cfg.GeocodeTimeout,
		cfg.GeocodeDelay,
		logger,
		metrics,
	)

	classifier := sentiment.NewClassifier(sentiment.Thresholds{
		Positive: cfg.PositiveThreshold,
		Negative: cfg.NegativeThreshold,
	})

	feed := twitter.NewClient(cfg.TwitterBearerToken, cfg.FeedMaxResults, logger)

	ingester := pipeline.New(
		feed, classifier, locator, reportStore,
		logger, metrics,
		cfg.FetchInterval, cfg.RateLimitBackoff,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, ingester, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server error", "error", err)
		}
	}()

	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		if err := ingester.Run(ctx); err != nil {
			logger.Error("ingester error", "error", err)
		}
		// In single-cycle mode the loop finishes on its own.
		stop()
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	<-ingestDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("ops server shutdown error", "error", err)
	}
	if err := reportStore.Close(); err != nil {
		logger.Error("report store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
