package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/newsbot/internal/audit"
	"github.com/edgard/newsbot/internal/database"
	"github.com/edgard/newsbot/internal/logger"
	"github.com/edgard/newsbot/internal/metrics"
	"github.com/edgard/newsbot/internal/news"
)

type memStore struct {
	database.Store
	mu    sync.Mutex
	saved []*database.SummaryRequest
	err   error
}

func (s *memStore) SaveSummaryRequest(_ context.Context, req *database.SummaryRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, req)
	return nil
}

func TestNewRequestIDIsUUID(t *testing.T) {
	t.Parallel()

	a, b := audit.NewRequestID(), audit.NewRequestID()
	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRecordSuccess(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	m := metrics.New(prometheus.NewRegistry())
	rec := audit.NewRecorder(store, m, "discord", logger.Discard())

	rec.Record(context.Background(), audit.Entry{
		RequestID: "req-1",
		Source:    database.SourceButton,
		ChannelID: "chan",
		UserID:    "user",
		Envelope:  &news.Envelope{Description: "ข่าว", Truncated: true},
		Duration:  1500 * time.Millisecond,
	})

	require.Len(t, store.saved, 1)
	got := store.saved[0]
	assert.Equal(t, database.StatusSuccess, got.Status)
	assert.Equal(t, "discord", got.Platform)
	assert.Equal(t, 4, got.BodyLength, "length in characters")
	assert.True(t, got.Truncated)
	assert.EqualValues(t, 1500, got.DurationMS)
	assert.Empty(t, got.ErrorMessage)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Summaries.WithLabelValues("button", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SummariesTruncated), 0)
}

func TestRecordFailureAndStoreErrors(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	rec := audit.NewRecorder(store, nil, "telegram", nil)

	rec.Record(context.Background(), audit.Entry{RequestID: "req-2", Source: database.SourceSchedule, Err: errors.New("quota")})
	require.Len(t, store.saved, 1)
	assert.Equal(t, database.StatusFailed, store.saved[0].Status)
	assert.Equal(t, "quota", store.saved[0].ErrorMessage)

	failing := &memStore{err: errors.New("disk full")}
	assert.NotPanics(t, func() {
		audit.NewRecorder(failing, nil, "telegram", nil).Record(context.Background(), audit.Entry{RequestID: "req-3"})
	})
}

func TestRecordWritesAfterCancellation(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	rec := audit.NewRecorder(store, nil, "discord", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Record(ctx, audit.Entry{RequestID: "req-4", Err: context.Canceled})

	require.Len(t, store.saved, 1)
}
