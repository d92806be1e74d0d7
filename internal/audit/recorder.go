// Package audit records the outcome of every summary request in the request
// log and in metrics. Recording never fails the request it describes.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/newsbot/internal/database"
	"github.com/edgard/newsbot/internal/logger"
	"github.com/edgard/newsbot/internal/metrics"
	"github.com/edgard/newsbot/internal/news"
)

const saveTimeout = 5 * time.Second

// Entry describes one finished summary request.
type Entry struct {
	RequestID string
	Source    string
	ChannelID string
	UserID    string
	Envelope  *news.Envelope
	Err       error
	Duration  time.Duration
}

// Recorder writes entries to the store and metrics.
type Recorder struct {
	store    database.Store
	metrics  *metrics.Metrics
	platform string
	logger   *slog.Logger
}

// NewRecorder creates a Recorder. store and m may be nil.
func NewRecorder(store database.Store, m *metrics.Metrics, platform string, log *slog.Logger) *Recorder {
	if store == nil {
		store = database.NewNopStore()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Recorder{
		store:    store,
		metrics:  m,
		platform: platform,
		logger:   log.With("component", "audit"),
	}
}

// NewRequestID returns a fresh id used to correlate logs and the request log.
func NewRequestID() string {
	return uuid.NewString()
}

// Record stores e. Failures are logged and swallowed.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	status := database.StatusSuccess
	var errMsg string
	if e.Err != nil {
		status = database.StatusFailed
		errMsg = e.Err.Error()
	}

	var bodyLength int
	var truncated bool
	if e.Envelope != nil {
		bodyLength = len([]rune(e.Envelope.Description))
		truncated = e.Envelope.Truncated
	}

	r.metrics.RecordSummary(e.Source, status, e.Duration, truncated)

	// Written even when ctx is already cancelled.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	req := &database.SummaryRequest{
		RequestID:    e.RequestID,
		Source:       e.Source,
		Platform:     r.platform,
		ChannelID:    e.ChannelID,
		UserID:       e.UserID,
		Status:       status,
		ErrorMessage: errMsg,
		BodyLength:   bodyLength,
		Truncated:    truncated,
		DurationMS:   e.Duration.Milliseconds(),
	}
	if err := r.store.SaveSummaryRequest(saveCtx, req); err != nil {
		r.logger.WarnContext(ctx, "Failed to record summary request", "request_id", e.RequestID, "error", err)
	}
}
