package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/newsbot/internal/audit"
	"github.com/edgard/newsbot/internal/chat"
	"github.com/edgard/newsbot/internal/config"
	"github.com/edgard/newsbot/internal/database"
	"github.com/edgard/newsbot/internal/logger"
	"github.com/edgard/newsbot/internal/news"
)

type fakeStore struct {
	database.Store
	saved       []*database.SummaryRequest
	cutoff      time.Time
	deleteErr   error
	maintenance int
	maintainErr error
}

func (s *fakeStore) SaveSummaryRequest(_ context.Context, req *database.SummaryRequest) error {
	s.saved = append(s.saved, req)
	return nil
}

func (s *fakeStore) DeleteSummaryRequestsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return 3, s.deleteErr
}

func (s *fakeStore) RunSQLMaintenance(context.Context) error {
	s.maintenance++
	return s.maintainErr
}

type fakeChat struct {
	channels []string
	err      error
}

func (c *fakeChat) SendButtonPrompt(context.Context, string, chat.ButtonPrompt) error { return nil }

func (c *fakeChat) SendEnvelope(_ context.Context, channelID string, _ *news.Envelope) error {
	c.channels = append(c.channels, channelID)
	return c.err
}

type fakeSummarizer struct {
	err error
}

func (s fakeSummarizer) Generate(context.Context) (*news.Envelope, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &news.Envelope{Description: "summary"}, nil
}

func newDeps(store *fakeStore, c *fakeChat, s fakeSummarizer) TaskDeps {
	return TaskDeps{
		Logger: logger.Discard(),
		Config: &config.Config{
			Chat:     config.ChatConfig{ChannelID: "chan-1"},
			Database: config.DatabaseConfig{Retention: 24 * time.Hour},
		},
		Store:      store,
		Chat:       c,
		Summarizer: s,
		Recorder:   audit.NewRecorder(store, nil, config.PlatformDiscord, logger.Discard()),
		Now: func() time.Time {
			return time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC)
		},
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	got := RegisterAllTasks(newDeps(&fakeStore{}, &fakeChat{}, fakeSummarizer{}))
	assert.Len(t, got, 2)
	assert.Contains(t, got, TaskDailyDigest)
	assert.Contains(t, got, TaskRequestLogMaintenance)

	for name := range config.DefaultTasks {
		assert.Contains(t, got, name, "every default task has an implementation")
	}
}

func TestDailyDigest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		genErr     error
		sendErr    error
		wantErr    bool
		wantSends  int
		wantStatus string
	}{
		{name: "posts to target channel", wantSends: 1, wantStatus: database.StatusSuccess},
		{name: "generator failure", genErr: errors.New("quota"), wantErr: true, wantStatus: database.StatusFailed},
		{name: "send failure", sendErr: errors.New("forbidden"), wantErr: true, wantSends: 1, wantStatus: database.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeStore{}
			c := &fakeChat{err: tt.sendErr}
			task := newDailyDigestTask(newDeps(store, c, fakeSummarizer{err: tt.genErr}))

			err := task(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Len(t, c.channels, tt.wantSends)
			for _, ch := range c.channels {
				assert.Equal(t, "chan-1", ch)
			}
			require.Len(t, store.saved, 1)
			assert.Equal(t, database.SourceSchedule, store.saved[0].Source)
			assert.Equal(t, tt.wantStatus, store.saved[0].Status)
		})
	}
}

func TestRequestLogMaintenance(t *testing.T) {
	t.Parallel()

	t.Run("prunes by retention then vacuums", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		task := newRequestLogMaintenanceTask(newDeps(store, &fakeChat{}, fakeSummarizer{}))

		require.NoError(t, task(context.Background()))
		assert.Equal(t, time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC), store.cutoff)
		assert.Equal(t, 1, store.maintenance)
	})

	t.Run("prune failure skips maintenance", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{deleteErr: errors.New("locked")}
		task := newRequestLogMaintenanceTask(newDeps(store, &fakeChat{}, fakeSummarizer{}))

		require.Error(t, task(context.Background()))
		assert.Zero(t, store.maintenance)
	})

	t.Run("maintenance failure", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{maintainErr: errors.New("busy")}
		task := newRequestLogMaintenanceTask(newDeps(store, &fakeChat{}, fakeSummarizer{}))

		assert.Error(t, task(context.Background()))
	})
}
