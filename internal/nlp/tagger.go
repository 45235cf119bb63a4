// Package nlp extracts place-name mentions from free text.
package nlp

import (
	"fmt"

	prose "github.com/jdkato/prose/v2"
)

// gpeLabel is the named-entity tag prose assigns to geopolitical entities
// (countries, cities, states).
const gpeLabel = "GPE"

// Tagger finds geopolitical-entity mentions using the prose NER model.
// It implements domain.EntityTagger. The zero value is ready to use.
type Tagger struct{}

// NewTagger returns a place-name tagger backed by the default English model.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Places returns the GPE-tagged entities in text, in order of appearance.
// Text with no recognized place names yields an empty slice and no error.
func (t *Tagger) Places(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("tag entities: %w", err)
	}

	var places []string
	for _, ent := range doc.Entities() {
		if ent.Label == gpeLabel {
			places = append(places, ent.Text)
		}
	}
	return places, nil
}
