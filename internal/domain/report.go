package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxDescriptionLen bounds the free-text description of a report.
const MaxDescriptionLen = 500

// Source tags where a report came from.
type Source string

// Known report sources.
const (
	SourceCrowdsource Source = "Crowdsource"
	SourceSocialMedia Source = "Social Media"
)

// Status is the triage lifecycle state of a report.
type Status string

// The four accepted lifecycle states. Values outside this set are rejected.
const (
	StatusNew         Status = "new"
	StatusVerified    Status = "verified"
	StatusActionTaken Status = "action_taken"
	StatusFalseAlarm  Status = "false_alarm"
)

// ErrInvalidStatus is returned when a status update names a value outside
// the four-element lifecycle enum.
var ErrInvalidStatus = errors.New("invalid report status")

// Valid reports whether s is one of the four accepted lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusVerified, StatusActionTaken, StatusFalseAlarm:
		return true
	default:
		return false
	}
}

// Sentiment is the polarity label assigned to social-media report text.
type Sentiment string

// Sentiment labels derived from the VADER compound score.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Role identifies what a user is allowed to do in the web API.
type Role string

// User roles.
const (
	RoleCitizen   Role = "citizen"
	RoleAnalyst   Role = "analyst"
	RoleAuthority Role = "authority"
)

// Report is the unit of record: one hazard observation, citizen- or
// feed-sourced. The JSON tags define the wire shape consumed by the web
// front end; nullable fields marshal as JSON null when unset.
type Report struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Source      Source     `json:"source"`
	Timestamp   time.Time  `json:"timestamp"`
	UserID      *int64     `json:"user_id"`
	ImageURL    *string    `json:"image_url"`
	Status      Status     `json:"status"`
	Notes       *string    `json:"notes"`
	Sentiment   *Sentiment `json:"sentiment"`
}

// Validate checks the report invariants before it reaches the store.
func (r Report) Validate() error {
	if r.Description == "" {
		return errors.New("description is required")
	}
	if len(r.Description) > MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d bytes", MaxDescriptionLen)
	}
	if !isFinite(r.Latitude) || !isFinite(r.Longitude) {
		return errors.New("latitude and longitude must be finite")
	}
	switch r.Source {
	case SourceCrowdsource, SourceSocialMedia:
	default:
		return fmt.Errorf("unknown source %q", r.Source)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}
	if r.Source == SourceSocialMedia && r.UserID != nil {
		return errors.New("social media reports cannot have an author")
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// User is the report author reference. Credentials and session handling
// live outside this service; only the id, name, and role matter here.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
