package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/aquasentry/aquasentry/internal/domain"
	"github.com/aquasentry/aquasentry/internal/observability"
)

// FeedSearcher pulls candidate hazard texts from the social media feed.
type FeedSearcher interface {
	FetchCandidates(ctx context.Context) ([]string, error)
}

// Classifier labels the emotional tone of a text.
type Classifier interface {
	Classify(text string) domain.Sentiment
}

// Locator resolves a text to a coordinate, falling back to a default when
// no place can be resolved.
type Locator interface {
	Locate(ctx context.Context, text string) domain.Coordinate
}

// ReportCreator persists a new report and returns its assigned id.
type ReportCreator interface {
	Create(ctx context.Context, report domain.Report) (int64, error)
}

// Ingester orchestrates the fetch-classify-locate-persist loop. Each fetched
// text becomes one report; items are processed sequentially so geocoding
// stays within the provider's rate expectations.
type Ingester struct {
	feed       FeedSearcher
	classifier Classifier
	locator    Locator
	reports    ReportCreator
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool

	// interval between fetch cycles; zero means run a single cycle and stop.
	interval time.Duration
	// rateLimitBackoff replaces interval after the feed API reports quota
	// exhaustion.
	rateLimitBackoff time.Duration
}

// New creates an Ingester with the given stages and observability.
func New(
	feed FeedSearcher,
	classifier Classifier,
	locator Locator,
	reports ReportCreator,
	logger *slog.Logger,
	metrics *observability.Metrics,
	interval time.Duration,
	rateLimitBackoff time.Duration,
) *Ingester {
	return &Ingester{
		feed:             feed,
		classifier:       classifier,
		locator:          locator,
		reports:          reports,
		logger:           logger,
		metrics:          metrics,
		interval:         interval,
		rateLimitBackoff: rateLimitBackoff,
	}
}

// CheckReadiness returns nil once the ingester has completed at least one
// fetch cycle, or an error describing why the service is not yet ready.
func (in *Ingester) CheckReadiness(_ context.Context) error {
	if !in.ready.Load() {
		return errors.New("ingester has not completed a fetch cycle yet")
	}
	return nil
}

// Run executes fetch cycles until the context is cancelled. With a zero
// interval it runs exactly one cycle.
func (in *Ingester) Run(ctx context.Context) error {
	in.logger.Info("ingester started", "interval", in.interval)
	in.metrics.IngesterRunning.Set(1)
	defer in.metrics.IngesterRunning.Set(0)

	for {
		err := in.runCycle(ctx)
		if ctx.Err() != nil {
			in.logger.Info("ingester stopping", "reason", ctx.Err())
			return nil
		}

		wait := in.interval
		if errors.Is(err, domain.ErrRateLimited) {
			wait = in.rateLimitBackoff
			in.logger.Warn("feed rate limited, backing off", "backoff", wait)
		}

		if in.interval == 0 {
			return err
		}

		if !sleepWithContext(ctx, wait) {
			in.logger.Info("ingester stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// runCycle fetches one batch of candidate texts and ingests each in feed
// order. A fetch failure aborts the cycle; a single bad item does not.
func (in *Ingester) runCycle(ctx context.Context) error {
	start := time.Now()

	texts, err := in.feed.FetchCandidates(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			in.metrics.RateLimitHits.Inc()
			return err
		}
		if ctx.Err() == nil {
			in.logger.Error("feed fetch failed", "error", err)
		}
		return err
	}

	in.metrics.ItemsFetched.Add(float64(len(texts)))
	in.metrics.CycleItems.Observe(float64(len(texts)))

	created := 0
	for _, text := range texts {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if in.ingestOne(ctx, text) {
			created++
		}
	}

	in.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	in.ready.Store(true)
	in.logger.Info("fetch cycle complete",
		"fetched", len(texts), "created", created, "duration", time.Since(start))
	return nil
}

// ingestOne turns a single feed text into a persisted report. Returns true
// on success.
func (in *Ingester) ingestOne(ctx context.Context, text string) bool {
	sentiment := in.classifier.Classify(text)
	coord := in.locator.Locate(ctx, text)

	report := domain.Report{
		Description: describeFeedItem(text),
		Latitude:    coord.Lat,
		Longitude:   coord.Lon,
		Source:      domain.SourceSocialMedia,
		Timestamp:   domain.Now(),
		Status:      domain.StatusNew,
		Sentiment:   &sentiment,
	}

	id, err := in.reports.Create(ctx, report)
	if err != nil {
		in.logger.Warn("failed to persist report, skipping item", "error", err)
		in.metrics.IngestErrors.Inc()
		return false
	}

	in.metrics.ReportsCreated.Inc()
	in.logger.Debug("report created",
		"id", id, "sentiment", sentiment, "lat", coord.Lat, "lon", coord.Lon)
	return true
}

// describeFeedItem builds the report description for a feed text, truncated
// to the storage limit without splitting a multibyte rune.
func describeFeedItem(text string) string {
	desc := "Tweet: " + text
	if len(desc) <= domain.MaxDescriptionLen {
		return desc
	}
	cut := domain.MaxDescriptionLen
	for cut > 0 && !utf8.RuneStart(desc[cut]) {
		cut--
	}
	return desc[:cut]
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
