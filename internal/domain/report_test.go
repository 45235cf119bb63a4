package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() Report {
	return Report{
		Description: "Flooding near the river bank",
		Latitude:    13.0827,
		Longitude:   80.2707,
		Source:      SourceCrowdsource,
		Timestamp:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Status:      StatusNew,
	}
}

func TestStatusValid(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"new", StatusNew, true},
		{"verified", StatusVerified, true},
		{"action_taken", StatusActionTaken, true},
		{"false_alarm", StatusFalseAlarm, true},
		{"empty", Status(""), false},
		{"unknown value", Status("resolved"), false},
		{"uppercase rejected", Status("NEW"), false},
		{"whitespace rejected", Status(" new"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestReportValidate(t *testing.T) {
	t.Run("valid crowdsource report", func(t *testing.T) {
		assert.NoError(t, validReport().Validate())
	})

	t.Run("valid social media report", func(t *testing.T) {
		r := validReport()
		r.Source = SourceSocialMedia
		r.UserID = nil
		assert.NoError(t, r.Validate())
	})

	t.Run("missing description", func(t *testing.T) {
		r := validReport()
		r.Description = ""
		assert.Error(t, r.Validate())
	})

	t.Run("description too long", func(t *testing.T) {
		r := validReport()
		r.Description = strings.Repeat("x", MaxDescriptionLen+1)
		assert.Error(t, r.Validate())
	})

	t.Run("NaN latitude", func(t *testing.T) {
		r := validReport()
		r.Latitude = math.NaN()
		assert.Error(t, r.Validate())
	})

	t.Run("infinite longitude", func(t *testing.T) {
		r := validReport()
		r.Longitude = math.Inf(1)
		assert.Error(t, r.Validate())
	})

	t.Run("unknown source", func(t *testing.T) {
		r := validReport()
		r.Source = "Carrier Pigeon"
		assert.Error(t, r.Validate())
	})

	t.Run("invalid status", func(t *testing.T) {
		r := validReport()
		r.Status = "resolved"
		err := r.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("social media report with author", func(t *testing.T) {
		r := validReport()
		r.Source = SourceSocialMedia
		uid := int64(7)
		r.UserID = &uid
		assert.Error(t, r.Validate())
	})
}

func TestReportJSONShape(t *testing.T) {
	sentiment := SentimentNegative
	r := Report{
		ID:          42,
		Description: "Tweet: High waves at Marina Beach",
		Latitude:    13.0827,
		Longitude:   80.2707,
		Source:      SourceSocialMedia,
		Timestamp:   time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC),
		Status:      StatusNew,
		Sentiment:   &sentiment,
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	// Exact field set consumed by the web front end.
	assert.ElementsMatch(t, []string{
		"id", "description", "latitude", "longitude", "source",
		"timestamp", "user_id", "image_url", "status", "notes", "sentiment",
	}, keys(got))

	assert.Equal(t, float64(42), got["id"])
	assert.Equal(t, "Social Media", got["source"])
	assert.Equal(t, "2024-06-01T12:30:00Z", got["timestamp"])
	assert.Equal(t, "negative", got["sentiment"])

	// Nullable fields serialize as JSON null, not as absent keys.
	assert.Nil(t, got["user_id"])
	assert.Nil(t, got["image_url"])
	assert.Nil(t, got["notes"])
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestBoundingBoxContains(t *testing.T) {
	// Bounds configured for India in production.
	box := BoundingBox{MinLat: 5.9, MaxLat: 35.5, MinLon: 68.1, MaxLon: 97.4}

	tests := []struct {
		name  string
		coord Coordinate
		want  bool
	}{
		{"Chennai inside", Coordinate{Lat: 13.0827, Lon: 80.2707}, true},
		{"New Delhi inside", Coordinate{Lat: 28.6139, Lon: 77.2090}, true},
		{"London outside", Coordinate{Lat: 51.5074, Lon: -0.1278}, false},
		{"south of box", Coordinate{Lat: 5.89, Lon: 80}, false},
		{"west of box", Coordinate{Lat: 20, Lon: 68.0}, false},
		{"min corner inclusive", Coordinate{Lat: 5.9, Lon: 68.1}, true},
		{"max corner inclusive", Coordinate{Lat: 35.5, Lon: 97.4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, box.Contains(tt.coord))
		})
	}
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixedTime))
		defer SetClock(nil)

		assert.Equal(t, fixedTime, Now())
	})

	t.Run("reset to real clock", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
		SetClock(nil)

		assert.True(t, time.Since(Now()) < time.Second)
	})
}
