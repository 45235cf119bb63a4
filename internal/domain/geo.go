package domain

import (
	"context"
	"errors"
)

// ErrRateLimited signals that the external feed API refused the search
// because the request quota is exhausted. It aborts the current fetch cycle;
// the caller retries after a long backoff instead of hammering the API.
var ErrRateLimited = errors.New("feed API rate limit exceeded")

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox is the rectangular lat/lon region used to accept or reject
// geocoded place names. Bounds are inclusive on all four edges.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether c falls inside the box, edges included.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// Geocoder resolves a place name to a coordinate. A nil result with a nil
// error means the provider had no answer for the name; absence is not an
// error.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (*Coordinate, error)
}

// EntityTagger finds geopolitical-entity (place name) mentions in free text,
// in order of appearance.
type EntityTagger interface {
	Places(text string) ([]string, error)
}
