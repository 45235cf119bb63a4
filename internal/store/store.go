// Package store provides SQLite-backed persistence for hazard reports.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/aquasentry/aquasentry/internal/domain"
)

// ErrNotFound is returned when a report id does not exist.
var ErrNotFound = errors.New("report not found")

// ReportStore persists Report records in a single SQLite database file.
// Each write is one INSERT or UPDATE statement, so records are atomic
// per-record without explicit transactions.
type ReportStore struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the report database under dbDir.
func Open(dbDir string) (*ReportStore, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	dbPath := filepath.Join(dbDir, "reports.db")

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection keeps
	// the ingester and API server from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &ReportStore{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *ReportStore) Close() error {
	return s.db.Close()
}

func (s *ReportStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		source TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		user_id INTEGER,
		image_url TEXT,
		status TEXT NOT NULL DEFAULT 'new',
		notes TEXT,
		sentiment TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON reports(timestamp);
	CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
	CREATE INDEX IF NOT EXISTS idx_reports_user ON reports(user_id);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Create validates and inserts a report, returning the assigned id.
// The write happens only after every field is computed; a validation
// failure persists nothing.
func (s *ReportStore) Create(ctx context.Context, r domain.Report) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, fmt.Errorf("validate report: %w", err)
	}

	query := `
	INSERT INTO reports (description, latitude, longitude, source, timestamp, user_id, image_url, status, notes, sentiment)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		r.Description,
		r.Latitude,
		r.Longitude,
		string(r.Source),
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		nullableInt(r.UserID),
		nullableString(r.ImageURL),
		string(r.Status),
		nullableString(r.Notes),
		nullableSentiment(r.Sentiment),
	)
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}

	return result.LastInsertId()
}

// List returns every report, newest first.
func (s *ReportStore) List(ctx context.Context) ([]domain.Report, error) {
	return s.query(ctx, selectColumns+` FROM reports ORDER BY timestamp DESC, id DESC`)
}

// ListNonNew returns processed reports (status != new), newest first.
// This is the authority view.
func (s *ReportStore) ListNonNew(ctx context.Context) ([]domain.Report, error) {
	return s.query(ctx, selectColumns+` FROM reports WHERE status != ? ORDER BY timestamp DESC, id DESC`, string(domain.StatusNew))
}

// ListByUser returns the reports a given citizen submitted, newest first.
func (s *ReportStore) ListByUser(ctx context.Context, userID int64) ([]domain.Report, error) {
	return s.query(ctx, selectColumns+` FROM reports WHERE user_id = ? ORDER BY timestamp DESC, id DESC`, userID)
}

// Get returns a single report by id, or ErrNotFound.
func (s *ReportStore) Get(ctx context.Context, id int64) (domain.Report, error) {
	reports, err := s.query(ctx, selectColumns+` FROM reports WHERE id = ?`, id)
	if err != nil {
		return domain.Report{}, err
	}
	if len(reports) == 0 {
		return domain.Report{}, ErrNotFound
	}
	return reports[0], nil
}

// UpdateStatus sets a report's lifecycle status and, when notes is non-nil,
// its analyst notes. A status outside the four-element enum is rejected with
// domain.ErrInvalidStatus and the record is left untouched.
func (s *ReportStore) UpdateStatus(ctx context.Context, id int64, status domain.Status, notes *string) (domain.Report, error) {
	if !status.Valid() {
		return domain.Report{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	var result sql.Result
	var err error
	if notes != nil {
		result, err = s.db.ExecContext(ctx,
			`UPDATE reports SET status = ?, notes = ? WHERE id = ?`,
			string(status), *notes, id)
	} else {
		result, err = s.db.ExecContext(ctx,
			`UPDATE reports SET status = ? WHERE id = ?`,
			string(status), id)
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("update report status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Report{}, err
	}
	if affected == 0 {
		return domain.Report{}, ErrNotFound
	}

	return s.Get(ctx, id)
}

// Summary builds the authority rollup: counts of processed reports by status
// and source, plus the latest processed reports.
func (s *ReportStore) Summary(ctx context.Context) (domain.Summary, error) {
	summary := domain.NewSummary()

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, source FROM reports WHERE status != ?`, string(domain.StatusNew))
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summary query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, source string
		if err := rows.Scan(&status, &source); err != nil {
			return domain.Summary{}, err
		}
		// Count only known keys; anything else would be a schema drift bug.
		if _, ok := summary.KPICounts[domain.Status(status)]; ok {
			summary.KPICounts[domain.Status(status)]++
		}
		if _, ok := summary.SourceCounts[domain.Source(source)]; ok {
			summary.SourceCounts[domain.Source(source)]++
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Summary{}, err
	}

	latest, err := s.query(ctx,
		selectColumns+` FROM reports WHERE status != ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		string(domain.StatusNew), domain.SummaryLatestCount)
	if err != nil {
		return domain.Summary{}, err
	}
	summary.LatestProcessed = latest

	return summary, nil
}

const selectColumns = `SELECT id, description, latitude, longitude, source, timestamp, user_id, image_url, status, notes, sentiment`

func (s *ReportStore) query(ctx context.Context, query string, args ...any) ([]domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func scanReport(rows *sql.Rows) (domain.Report, error) {
	var r domain.Report
	var timestamp string
	var userID sql.NullInt64
	var imageURL, notes, sentiment sql.NullString

	if err := rows.Scan(
		&r.ID,
		&r.Description,
		&r.Latitude,
		&r.Longitude,
		&r.Source,
		&timestamp,
		&userID,
		&imageURL,
		&r.Status,
		&notes,
		&sentiment,
	); err != nil {
		return domain.Report{}, fmt.Errorf("scan report: %w", err)
	}

	r.Timestamp = parseTimestamp(timestamp)
	if userID.Valid {
		r.UserID = &userID.Int64
	}
	if imageURL.Valid {
		r.ImageURL = &imageURL.String
	}
	if notes.Valid {
		r.Notes = &notes.String
	}
	if sentiment.Valid {
		sent := domain.Sentiment(sentiment.String)
		r.Sentiment = &sent
	}
	return r, nil
}

// parseTimestamp handles the formats SQLite may hand back depending on how
// the value was written.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableSentiment(v *domain.Sentiment) any {
	if v == nil {
		return nil
	}
	return string(*v)
}
