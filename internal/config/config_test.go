package config

import (
	"testing"
	"time"

	"github.com/aquasentry/aquasentry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, ":5000", cfg.APIAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data", cfg.DBPath)

	assert.Empty(t, cfg.TwitterBearerToken)
	assert.Equal(t, 10, cfg.FeedMaxResults)
	assert.Equal(t, time.Duration(0), cfg.FetchInterval)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitBackoff)

	assert.Equal(t, 5*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, time.Second, cfg.GeocodeDelay)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Equal(t, "aquasentry_app_v1", cfg.GeocodeUserAgent)

	assert.Equal(t, domain.BoundingBox{MinLat: 5.9, MaxLat: 35.5, MinLon: 68.1, MaxLon: 97.4}, cfg.Bounds)
	assert.Equal(t, domain.Coordinate{Lat: 28.6139, Lon: 77.2090}, cfg.DefaultLocation)

	assert.Equal(t, 0.05, cfg.PositiveThreshold)
	assert.Equal(t, -0.05, cfg.NegativeThreshold)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("API_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DB_PATH", "/var/lib/aquasentry")
	t.Setenv("TWITTER_BEARER_TOKEN", "test-bearer")
	t.Setenv("FEED_MAX_RESULTS", "25")
	t.Setenv("FETCH_INTERVAL", "5m")
	t.Setenv("RATE_LIMIT_BACKOFF", "20m")
	t.Setenv("GEOCODE_TIMEOUT", "8s")
	t.Setenv("GEOCODE_DELAY", "2s")
	t.Setenv("GEOCODE_CACHE_SIZE", "50")
	t.Setenv("DEFAULT_LAT", "19.0760")
	t.Setenv("DEFAULT_LON", "72.8777")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, ":9000", cfg.APIAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/var/lib/aquasentry", cfg.DBPath)
	assert.Equal(t, "test-bearer", cfg.TwitterBearerToken)
	assert.Equal(t, 25, cfg.FeedMaxResults)
	assert.Equal(t, 5*time.Minute, cfg.FetchInterval)
	assert.Equal(t, 20*time.Minute, cfg.RateLimitBackoff)
	assert.Equal(t, 8*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 2*time.Second, cfg.GeocodeDelay)
	assert.Equal(t, 50, cfg.GeocodeCacheSize)
	assert.Equal(t, domain.Coordinate{Lat: 19.0760, Lon: 72.8777}, cfg.DefaultLocation)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad fetch interval", "FETCH_INTERVAL", "soon"},
		{"bad geocode timeout", "GEOCODE_TIMEOUT", "-1s"},
		{"zero max results", "FEED_MAX_RESULTS", "0"},
		{"non-numeric max results", "FEED_MAX_RESULTS", "many"},
		{"bad bounds value", "BOUNDS_MIN_LAT", "north"},
		{"inverted bounds", "BOUNDS_MIN_LAT", "40.0"},
		{"default outside bounds", "DEFAULT_LAT", "51.5"},
		{"inverted thresholds", "SENTIMENT_POSITIVE_THRESHOLD", "-0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
