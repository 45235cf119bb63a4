package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	ItemsFetched    prometheus.Counter
	ReportsCreated  prometheus.Counter
	IngestErrors    prometheus.Counter
	RateLimitHits   prometheus.Counter
	IngesterRunning prometheus.Gauge

	// Fetch cycle metrics.
	CycleItems    prometheus.Histogram
	CycleDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={accepted,rejected,empty,error}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all ingester metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ItemsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aquasentry",
			Name:      "feed_items_fetched_total",
			Help:      "Total text items returned by the feed search.",
		}),
		ReportsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aquasentry",
			Name:      "reports_created_total",
			Help:      "Total reports persisted by the ingester.",
		}),
		IngestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aquasentry",
			Name:      "ingest_errors_total",
			Help:      "Total items that failed to ingest.",
		}),
		RateLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aquasentry",
			Name:      "feed_rate_limit_hits_total",
			Help:      "Fetch cycles aborted by the feed API rate limit.",
		}),
		IngesterRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aquasentry",
			Name:      "ingester_running",
			Help:      "1 when the ingester loop is active, 0 when shut down.",
		}),
		CycleItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aquasentry",
			Name:      "cycle_items",
			Help:      "Number of feed items processed per fetch cycle.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aquasentry",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-classify-locate-persist cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aquasentry",
			Name:      "geocode_requests_total",
			Help:      "Geocoding queries by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aquasentry",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.ItemsFetched,
		m.ReportsCreated,
		m.IngestErrors,
		m.RateLimitHits,
		m.IngesterRunning,
		m.CycleItems,
		m.CycleDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ItemsFetched:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aquasentry", Name: "feed_items_fetched_total"}),
		ReportsCreated:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aquasentry", Name: "reports_created_total"}),
		IngestErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aquasentry", Name: "ingest_errors_total"}),
		RateLimitHits:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aquasentry", Name: "feed_rate_limit_hits_total"}),
		IngesterRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aquasentry", Name: "ingester_running"}),
		CycleItems:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aquasentry", Name: "cycle_items"}),
		CycleDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aquasentry", Name: "cycle_duration_seconds"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aquasentry", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aquasentry", Name: "geocode_cache_total"}, []string{"result"}),
	}
}
