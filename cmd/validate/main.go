// Command validate performs integrity checks over a report database: domain
// validity of every row, source conventions for feed-ingested and
// citizen-submitted reports, geography against the configured region, and
// consistency of the summary aggregates with a full recount.
//
// Usage:
//
//	go run ./cmd/validate -db data
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aquasentry/aquasentry/internal/config"
	"github.com/aquasentry/aquasentry/internal/domain"
	"github.com/aquasentry/aquasentry/internal/store"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dbDir := flag.String("db", "data", "directory containing the report database")
	flag.Parse()

	if code := run(*dbDir); code != 0 {
		os.Exit(code)
	}
}

func run(dbDir string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}

	s, err := store.Open(dbDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open report store: %v\n", err)
		return 1
	}
	defer s.Close()

	ctx := context.Background()

	reports, err := s.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: list reports: %v\n", err)
		return 1
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load summary: %v\n", err)
		return 1
	}

	fmt.Println("=== Report Database Integrity Validation ===")
	fmt.Println()

	phases := []*phase{
		validateDomain(reports),
		validateSourceConventions(reports),
		validateGeography(reports, cfg),
		validateSummaryConsistency(reports, summary),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d reports\n", len(reports))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Domain Validity ──
// Every stored row must still satisfy the domain constraints it was created
// under.

func validateDomain(reports []domain.Report) *phase {
	p := &phase{name: "Phase 1: Domain Validity"}

	seen := map[int64]bool{}
	for i := range reports {
		r := &reports[i]
		if err := r.Validate(); err != nil {
			p.errorf("report %d: %v", r.ID, err)
		}
		if r.Timestamp.IsZero() {
			p.errorf("report %d: zero timestamp", r.ID)
		}
		if r.Sentiment != nil {
			switch *r.Sentiment {
			case domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative:
			default:
				p.errorf("report %d: unknown sentiment %q", r.ID, *r.Sentiment)
			}
		}
		if seen[r.ID] {
			p.errorf("duplicate report id %d", r.ID)
		}
		seen[r.ID] = true
	}
	return p
}

// ── Phase 2: Source Conventions ──
// Feed-ingested reports carry the feed prefix and no author; citizen reports
// carry an author.

func validateSourceConventions(reports []domain.Report) *phase {
	p := &phase{name: "Phase 2: Source Conventions"}

	for i := range reports {
		r := &reports[i]
		switch r.Source {
		case domain.SourceSocialMedia:
			if !strings.HasPrefix(r.Description, "Tweet: ") {
				p.errorf("report %d: social media report without feed prefix: %q", r.ID, truncate(r.Description))
			}
			if r.UserID != nil {
				p.errorf("report %d: social media report has author %d", r.ID, *r.UserID)
			}
			if r.Sentiment == nil {
				p.errorf("report %d: social media report without sentiment", r.ID)
			}
		case domain.SourceCrowdsource:
			if r.UserID == nil {
				p.errorf("report %d: citizen report without author", r.ID)
			}
		default:
			p.errorf("report %d: unknown source %q", r.ID, r.Source)
		}
	}
	return p
}

// ── Phase 3: Geography ──
// Feed-ingested coordinates are either inside the configured region or the
// fallback location; anything else means the bounds filter was bypassed.

func validateGeography(reports []domain.Report, cfg *config.Config) *phase {
	p := &phase{name: "Phase 3: Geography (region filter)"}

	for i := range reports {
		r := &reports[i]
		if r.Source != domain.SourceSocialMedia {
			continue
		}
		coord := domain.Coordinate{Lat: r.Latitude, Lon: r.Longitude}
		if cfg.Bounds.Contains(coord) {
			continue
		}
		if coord == cfg.DefaultLocation {
			continue
		}
		p.errorf("report %d: coordinate (%g, %g) outside region and not the fallback",
			r.ID, r.Latitude, r.Longitude)
	}
	return p
}

// ── Phase 4: Summary Consistency ──
// The summary endpoint's aggregates must match a full recount of the table.

func validateSummaryConsistency(reports []domain.Report, summary domain.Summary) *phase {
	p := &phase{name: "Phase 4: Summary Consistency"}

	// The rollup covers processed reports only.
	statusCounts := map[domain.Status]int{}
	sourceCounts := map[domain.Source]int{}
	nonNew := 0
	for i := range reports {
		if reports[i].Status == domain.StatusNew {
			continue
		}
		statusCounts[reports[i].Status]++
		sourceCounts[reports[i].Source]++
		nonNew++
	}

	for status, want := range statusCounts {
		if got := summary.KPICounts[status]; got != want {
			p.errorf("status %s: recount %d, summary %d", status, want, got)
		}
	}
	for source, want := range sourceCounts {
		if got := summary.SourceCounts[source]; got != want {
			p.errorf("source %s: recount %d, summary %d", source, want, got)
		}
	}

	wantLatest := min(domain.SummaryLatestCount, nonNew)
	if len(summary.LatestProcessed) != wantLatest {
		p.errorf("latest processed: expected %d entries, got %d", wantLatest, len(summary.LatestProcessed))
	}
	for i := range summary.LatestProcessed {
		if summary.LatestProcessed[i].Status == domain.StatusNew {
			p.errorf("latest processed contains unprocessed report %d", summary.LatestProcessed[i].ID)
		}
	}
	return p
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
