// Package sentiment labels free text as positive, neutral, or negative
// using the VADER lexicon-and-rule compound score.
package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/aquasentry/aquasentry/internal/domain"
)

// Thresholds define the compound-score band that maps to each label.
// The neutral band between Negative and Positive exists to keep near-neutral
// text from flapping between classes; both edges are inclusive of their
// non-neutral class.
type Thresholds struct {
	Positive float64 // score >= Positive → positive
	Negative float64 // score <= Negative → negative
}

// DefaultThresholds returns the standard VADER band of width 0.10 centered at 0.
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 0.05, Negative: -0.05}
}

// Label maps a compound score in [-1, 1] to a sentiment label.
func (t Thresholds) Label(score float64) domain.Sentiment {
	switch {
	case score >= t.Positive:
		return domain.SentimentPositive
	case score <= t.Negative:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// Classifier scores text with VADER and maps the compound score through
// configured thresholds. The analyzer loads its lexicon once at construction;
// build a single Classifier per process and share it.
type Classifier struct {
	analyzer   *govader.SentimentIntensityAnalyzer
	thresholds Thresholds
}

// NewClassifier builds a classifier with the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{
		analyzer:   govader.NewSentimentIntensityAnalyzer(),
		thresholds: t,
	}
}

// Classify returns the sentiment label for text. Pure function of the input;
// no side effects.
func (c *Classifier) Classify(text string) domain.Sentiment {
	return c.thresholds.Label(c.analyzer.PolarityScores(text).Compound)
}
