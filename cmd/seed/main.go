// Command seed populates a report database with reproducible sample data for
// local development and demos. It runs reports through the real domain
// validation and store code so the seeded rows match pipeline output.
//
// Usage:
//
//	go run ./cmd/seed -db data -count 40
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aquasentry/aquasentry/internal/domain"
	"github.com/aquasentry/aquasentry/internal/store"
)

var baseDate = time.Date(2024, time.June, 1, 6, 0, 0, 0, time.UTC)

type sampleSite struct {
	name string
	lat  float64
	lon  float64
}

var sites = []sampleSite{
	{"Chennai", 13.0827, 80.2707},
	{"Mumbai", 19.0760, 72.8777},
	{"Kolkata", 22.5726, 88.3639},
	{"Kochi", 9.9312, 76.2673},
	{"Puri", 19.8135, 85.8312},
	{"Visakhapatnam", 17.6868, 83.2185},
	{"Panaji", 15.4909, 73.8278},
	{"Dwarka", 22.2442, 68.9685},
}

var feedTexts = []string{
	"Massive waves hitting the coast near %s, water entering streets",
	"Cyclone alert issued for %s, fishermen told to stay ashore",
	"Flooding reported in low lying areas of %s after overnight rain",
	"Storm surge warning for %s coastline, please stay safe everyone",
	"High tide swallowed the beach road in %s this morning",
}

var citizenTexts = []string{
	"Sea water has entered our lane near the %s fish market",
	"Drainage overflowing on the main road in %s",
	"Boats damaged at the %s jetty, waves still rising",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dbDir := flag.String("db", "data", "directory for the report database")
	count := flag.Int("count", 40, "number of reports to seed")
	seed := flag.Int64("seed", 1, "random seed for reproducible data")
	flag.Parse()

	// Fixed clock for reproducible timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(baseDate))
	defer domain.SetClock(nil)

	s, err := store.Open(*dbDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()

	statusCounts := map[domain.Status]int{}
	sourceCounts := map[domain.Source]int{}

	for i := 0; i < *count; i++ {
		report := buildReport(rng, i)

		id, err := s.Create(ctx, report)
		if err != nil {
			return fmt.Errorf("seeding report %d: %w", i, err)
		}

		status := pickStatus(rng)
		if status != domain.StatusNew {
			notes := "seeded triage note"
			if _, err := s.UpdateStatus(ctx, id, status, &notes); err != nil {
				return fmt.Errorf("setting status on report %d: %w", id, err)
			}
		}

		statusCounts[status]++
		sourceCounts[report.Source]++
	}

	log.Printf("seeded %d reports into %s", *count, *dbDir)
	log.Printf("by status: new=%d verified=%d action_taken=%d false_alarm=%d",
		statusCounts[domain.StatusNew], statusCounts[domain.StatusVerified],
		statusCounts[domain.StatusActionTaken], statusCounts[domain.StatusFalseAlarm])
	log.Printf("by source: crowdsource=%d social=%d",
		sourceCounts[domain.SourceCrowdsource], sourceCounts[domain.SourceSocialMedia])
	return nil
}

func buildReport(rng *rand.Rand, i int) domain.Report {
	site := sites[rng.Intn(len(sites))]
	ts := baseDate.Add(-time.Duration(rng.Intn(72)) * time.Hour)

	// Roughly a third of the seed data is citizen-submitted.
	if i%3 == 0 {
		userID := int64(rng.Intn(5) + 1)
		sentiment := domain.SentimentNeutral
		return domain.Report{
			Description: fmt.Sprintf(citizenTexts[rng.Intn(len(citizenTexts))], site.name),
			Latitude:    jitter(rng, site.lat),
			Longitude:   jitter(rng, site.lon),
			Source:      domain.SourceCrowdsource,
			Timestamp:   ts,
			UserID:      &userID,
			Status:      domain.StatusNew,
			Sentiment:   &sentiment,
		}
	}

	sentiments := []domain.Sentiment{
		domain.SentimentNegative, domain.SentimentNegative, domain.SentimentNeutral,
	}
	sentiment := sentiments[rng.Intn(len(sentiments))]
	return domain.Report{
		Description: "Tweet: " + fmt.Sprintf(feedTexts[rng.Intn(len(feedTexts))], site.name),
		Latitude:    jitter(rng, site.lat),
		Longitude:   jitter(rng, site.lon),
		Source:      domain.SourceSocialMedia,
		Timestamp:   ts,
		Status:      domain.StatusNew,
		Sentiment:   &sentiment,
	}
}

func pickStatus(rng *rand.Rand) domain.Status {
	statuses := []domain.Status{
		domain.StatusNew, domain.StatusNew,
		domain.StatusVerified,
		domain.StatusActionTaken,
		domain.StatusFalseAlarm,
	}
	return statuses[rng.Intn(len(statuses))]
}

func jitter(rng *rand.Rand, v float64) float64 {
	return v + (rng.Float64()-0.5)*0.1
}
