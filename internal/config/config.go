package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aquasentry/aquasentry/internal/domain"
)

// Config holds all service settings, populated from environment variables.
// One struct serves both binaries; the API server ignores the feed and
// geocode sections and the ingester ignores the API section.
type Config struct {
	HTTPAddr        string // ops endpoints (health, readiness, metrics)
	APIAddr         string // citizen/analyst/authority web API
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DBPath    string
	JWTSecret string

	// Feed search configuration.
	TwitterBearerToken string
	FeedMaxResults     int
	FetchInterval      time.Duration // 0 = run a single cycle and exit
	RateLimitBackoff   time.Duration

	// Geocoding configuration.
	GeocodeTimeout   time.Duration
	GeocodeDelay     time.Duration // courtesy wait between geocode queries
	GeocodeCacheSize int
	GeocodeUserAgent string

	// Region filter and fallback for extracted locations.
	Bounds          domain.BoundingBox
	DefaultLocation domain.Coordinate

	// Sentiment classification thresholds on the VADER compound score.
	PositiveThreshold float64
	NegativeThreshold float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fetchInterval, err := envDuration("FETCH_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	rateLimitBackoff, err := envDuration("RATE_LIMIT_BACKOFF", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := envDuration("GEOCODE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	geocodeDelay, err := envDuration("GEOCODE_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	maxResults, err := envInt("FEED_MAX_RESULTS", 10)
	if err != nil {
		return nil, err
	}
	cacheSize, err := envInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	bounds, err := loadBounds()
	if err != nil {
		return nil, err
	}
	defaultLat, err := envFloat("DEFAULT_LAT", 28.6139)
	if err != nil {
		return nil, err
	}
	defaultLon, err := envFloat("DEFAULT_LON", 77.2090)
	if err != nil {
		return nil, err
	}
	positive, err := envFloat("SENTIMENT_POSITIVE_THRESHOLD", 0.05)
	if err != nil {
		return nil, err
	}
	negative, err := envFloat("SENTIMENT_NEGATIVE_THRESHOLD", -0.05)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8081"),
		APIAddr:         envOrDefault("API_ADDR", ":5000"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DBPath:    envOrDefault("DB_PATH", "data"),
		JWTSecret: envOrDefault("JWT_SECRET", "change_me"),

		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		FeedMaxResults:     maxResults,
		FetchInterval:      fetchInterval,
		RateLimitBackoff:   rateLimitBackoff,

		GeocodeTimeout:   geocodeTimeout,
		GeocodeDelay:     geocodeDelay,
		GeocodeCacheSize: cacheSize,
		GeocodeUserAgent: envOrDefault("GEOCODE_USER_AGENT", "aquasentry_app_v1"),

		Bounds:          bounds,
		DefaultLocation: domain.Coordinate{Lat: defaultLat, Lon: defaultLon},

		PositiveThreshold: positive,
		NegativeThreshold: negative,
	}

	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}
	if cfg.FeedMaxResults <= 0 {
		return nil, errors.New("FEED_MAX_RESULTS must be positive")
	}
	if cfg.GeocodeTimeout <= 0 {
		return nil, errors.New("GEOCODE_TIMEOUT must be positive")
	}
	if cfg.GeocodeDelay < 0 {
		return nil, errors.New("GEOCODE_DELAY must not be negative")
	}
	if cfg.PositiveThreshold < cfg.NegativeThreshold {
		return nil, errors.New("SENTIMENT_POSITIVE_THRESHOLD must not be below SENTIMENT_NEGATIVE_THRESHOLD")
	}
	if !cfg.Bounds.Contains(cfg.DefaultLocation) {
		return nil, errors.New("DEFAULT_LAT/DEFAULT_LON must fall inside the configured bounds")
	}

	return cfg, nil
}

// loadBounds reads the region bounding box, defaulting to India.
func loadBounds() (domain.BoundingBox, error) {
	minLat, err := envFloat("BOUNDS_MIN_LAT", 5.9)
	if err != nil {
		return domain.BoundingBox{}, err
	}
	maxLat, err := envFloat("BOUNDS_MAX_LAT", 35.5)
	if err != nil {
		return domain.BoundingBox{}, err
	}
	minLon, err := envFloat("BOUNDS_MIN_LON", 68.1)
	if err != nil {
		return domain.BoundingBox{}, err
	}
	maxLon, err := envFloat("BOUNDS_MAX_LON", 97.4)
	if err != nil {
		return domain.BoundingBox{}, err
	}

	b := domain.BoundingBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return domain.BoundingBox{}, errors.New("bounding box min values must not exceed max values")
	}
	return b, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
