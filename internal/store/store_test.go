package store

import (
	"context"
	"testing"
	"time"

	"github.com/aquasentry/aquasentry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *ReportStore {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func socialReport(ts time.Time, sentiment domain.Sentiment) domain.Report {
	return domain.Report{
		Description: "Tweet: Flooding reported near Chennai today",
		Latitude:    13.0827,
		Longitude:   80.2707,
		Source:      domain.SourceSocialMedia,
		Timestamp:   ts,
		Status:      domain.StatusNew,
		Sentiment:   &sentiment,
	}
}

func citizenReport(ts time.Time, userID int64) domain.Report {
	sentiment := domain.SentimentNeutral
	return domain.Report{
		Description: "Water entering ground floor homes",
		Latitude:    19.0760,
		Longitude:   72.8777,
		Source:      domain.SourceCrowdsource,
		Timestamp:   ts,
		UserID:      &userID,
		Status:      domain.StatusNew,
		Sentiment:   &sentiment,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	id, err := s.Create(ctx, socialReport(ts, domain.SentimentNegative))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Tweet: Flooding reported near Chennai today", got.Description)
	assert.Equal(t, 13.0827, got.Latitude)
	assert.Equal(t, 80.2707, got.Longitude)
	assert.Equal(t, domain.SourceSocialMedia, got.Source)
	assert.Equal(t, ts, got.Timestamp)
	assert.Nil(t, got.UserID)
	assert.Nil(t, got.ImageURL)
	assert.Equal(t, domain.StatusNew, got.Status)
	assert.Nil(t, got.Notes)
	require.NotNil(t, got.Sentiment)
	assert.Equal(t, domain.SentimentNegative, *got.Sentiment)
}

func TestCreate_RejectsInvalidReport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := socialReport(time.Now(), domain.SentimentNeutral)
	r.Description = ""

	_, err := s.Create(ctx, r)
	require.Error(t, err)

	reports, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports, "failed create must persist nothing")
}

func TestCreate_NoDeduplication(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := socialReport(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), domain.SentimentNegative)

	id1, err := s.Create(ctx, r)
	require.NoError(t, err)
	id2, err := s.Create(ctx, r)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2, "identical text must yield two distinct records")

	reports, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.Create(ctx, citizenReport(base, 1))
	require.NoError(t, err)
	_, err = s.Create(ctx, citizenReport(base.Add(time.Hour), 1))
	require.NoError(t, err)

	reports, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, base.Add(time.Hour), reports[0].Timestamp)
	assert.Equal(t, base, reports[1].Timestamp)
}

func TestListByUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.Create(ctx, citizenReport(ts, 1))
	require.NoError(t, err)
	_, err = s.Create(ctx, citizenReport(ts, 2))
	require.NoError(t, err)
	_, err = s.Create(ctx, socialReport(ts, domain.SentimentNeutral))
	require.NoError(t, err)

	reports, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].UserID)
	assert.Equal(t, int64(1), *reports[0].UserID)
}

func TestUpdateStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, socialReport(time.Now().UTC(), domain.SentimentNegative))
	require.NoError(t, err)

	t.Run("valid status with notes", func(t *testing.T) {
		notes := "confirmed by coast guard"
		got, err := s.UpdateStatus(ctx, id, domain.StatusVerified, &notes)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusVerified, got.Status)
		require.NotNil(t, got.Notes)
		assert.Equal(t, notes, *got.Notes)
	})

	t.Run("nil notes preserves existing notes", func(t *testing.T) {
		got, err := s.UpdateStatus(ctx, id, domain.StatusActionTaken, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActionTaken, got.Status)
		require.NotNil(t, got.Notes)
		assert.Equal(t, "confirmed by coast guard", *got.Notes)
	})

	t.Run("invalid status rejected, record unchanged", func(t *testing.T) {
		_, err := s.UpdateStatus(ctx, id, "escalated", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActionTaken, got.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.UpdateStatus(ctx, 99999, domain.StatusVerified, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListNonNewAndSummary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// One report per status.
	_, err := s.Create(ctx, socialReport(base, domain.SentimentNegative))
	require.NoError(t, err)

	verifiedID, err := s.Create(ctx, socialReport(base.Add(time.Minute), domain.SentimentNegative))
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, verifiedID, domain.StatusVerified, nil)
	require.NoError(t, err)

	actionID, err := s.Create(ctx, citizenReport(base.Add(2*time.Minute), 1))
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, actionID, domain.StatusActionTaken, nil)
	require.NoError(t, err)

	falseID, err := s.Create(ctx, citizenReport(base.Add(3*time.Minute), 2))
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, falseID, domain.StatusFalseAlarm, nil)
	require.NoError(t, err)

	t.Run("non-new excludes new reports", func(t *testing.T) {
		reports, err := s.ListNonNew(ctx)
		require.NoError(t, err)
		assert.Len(t, reports, 3)
		for _, r := range reports {
			assert.NotEqual(t, domain.StatusNew, r.Status)
		}
	})

	t.Run("summary counts and latest", func(t *testing.T) {
		summary, err := s.Summary(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.KPICounts[domain.StatusVerified])
		assert.Equal(t, 1, summary.KPICounts[domain.StatusActionTaken])
		assert.Equal(t, 1, summary.KPICounts[domain.StatusFalseAlarm])
		assert.Equal(t, 2, summary.SourceCounts[domain.SourceCrowdsource])
		assert.Equal(t, 1, summary.SourceCounts[domain.SourceSocialMedia])

		require.Len(t, summary.LatestProcessed, 3)
		// Newest first.
		assert.Equal(t, falseID, summary.LatestProcessed[0].ID)
	})
}
