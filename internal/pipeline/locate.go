package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aquasentry/aquasentry/internal/domain"
	"github.com/aquasentry/aquasentry/internal/observability"
)

// LocationExtractor resolves free text to a coordinate: it tags place names,
// geocodes them in order of appearance, and accepts the first hit inside the
// configured bounding box. Text that yields no acceptable coordinate maps to
// the fallback location so ingestion never stalls on geography.
type LocationExtractor struct {
	tagger   domain.EntityTagger
	geocoder domain.Geocoder
	bounds   domain.BoundingBox
	fallback domain.Coordinate
	timeout  time.Duration
	delay    time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
}

// NewLocationExtractor creates a LocationExtractor. timeout bounds each
// geocoding query; delay is the courtesy pause after every query that did not
// produce an accepted coordinate, keeping request rates polite toward the
// geocoding provider.
func NewLocationExtractor(
	tagger domain.EntityTagger,
	geocoder domain.Geocoder,
	bounds domain.BoundingBox,
	fallback domain.Coordinate,
	timeout time.Duration,
	delay time.Duration,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *LocationExtractor {
	return &LocationExtractor{
		tagger:   tagger,
		geocoder: geocoder,
		bounds:   bounds,
		fallback: fallback,
		timeout:  timeout,
		delay:    delay,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
	}
}

// Locate returns the coordinate for the first place name in text that
// geocodes inside the bounding box. Tagging failures, geocoding failures,
// and out-of-bounds results all degrade to the fallback coordinate.
func (le *LocationExtractor) Locate(ctx context.Context, text string) domain.Coordinate {
	places, err := le.tagger.Places(text)
	if err != nil {
		le.logger.Warn("entity tagging failed, using fallback location", "error", err)
		return le.fallback
	}

	for _, place := range places {
		coord, accepted := le.tryPlace(ctx, place)
		if accepted {
			return coord
		}
		if !le.wait(ctx) {
			break
		}
	}

	return le.fallback
}

// tryPlace geocodes a single place name and reports whether the result was
// accepted. An accepted match returns immediately; every other outcome is
// followed by the courtesy delay in the caller.
func (le *LocationExtractor) tryPlace(ctx context.Context, place string) (domain.Coordinate, bool) {
	gctx, cancel := context.WithTimeout(ctx, le.timeout)
	defer cancel()

	coord, err := le.geocoder.Geocode(gctx, place)
	switch {
	case err != nil:
		le.logger.Warn("geocoding failed, trying next place", "place", place, "error", err)
		le.metrics.GeocodeRequests.WithLabelValues("error").Inc()
	case coord == nil:
		le.logger.Debug("no geocoding result", "place", place)
		le.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
	case !le.bounds.Contains(*coord):
		le.logger.Debug("geocoded coordinate outside bounds, skipping",
			"place", place, "lat", coord.Lat, "lon", coord.Lon)
		le.metrics.GeocodeRequests.WithLabelValues("rejected").Inc()
	default:
		le.metrics.GeocodeRequests.WithLabelValues("accepted").Inc()
		return *coord, true
	}

	return domain.Coordinate{}, false
}

// wait sleeps for the courtesy delay. Returns false if the context was
// cancelled while waiting.
func (le *LocationExtractor) wait(ctx context.Context) bool {
	if le.delay <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-ctx.Done():
		return false
	case <-le.clock.After(le.delay):
		return true
	}
}
