package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/newsbot/internal/logger"
)

// Store defines the request-log operations. Methods accept a context for cancellation.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveSummaryRequest inserts a request record and sets its ID.
	SaveSummaryRequest(ctx context.Context, req *SummaryRequest) error

	// GetRecentSummaryRequests returns up to limit records, newest first.
	GetRecentSummaryRequests(ctx context.Context, limit int) ([]*SummaryRequest, error)

	// CountSummaryRequestsSince counts records created at or after since.
	// An empty status counts every record.
	CountSummaryRequestsSince(ctx context.Context, since time.Time, status string) (int, error)

	// DeleteSummaryRequestsBefore deletes records created before cutoff and
	// returns how many were removed.
	DeleteSummaryRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by a connected sqlx.DB.
func NewStore(db *sqlx.DB, log *slog.Logger) Store {
	if log == nil {
		log = logger.Discard()
	}
	return &sqlxStore{
		db:     db,
		logger: log.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveSummaryRequest(ctx context.Context, req *SummaryRequest) error {
	if req == nil {
		return errors.New("cannot save nil summary request")
	}
	if req.RequestID == "" {
		return errors.New("summary request must have a request_id")
	}
	if req.Status != StatusSuccess && req.Status != StatusFailed {
		return fmt.Errorf("summary request has invalid status %q", req.Status)
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	req.CreatedAt = req.CreatedAt.UTC()

	query := `
        INSERT INTO summary_requests
            (request_id, source, platform, channel_id, user_id, status, error_message,
             body_length, truncated, duration_ms, created_at)
        VALUES
            (:request_id, :source, :platform, :channel_id, :user_id, :status, :error_message,
             :body_length, :truncated, :duration_ms, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving summary request", "request_id", req.RequestID, "error", err)
		return fmt.Errorf("failed to save summary request %s: %w", req.RequestID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read id of summary request %s: %w", req.RequestID, err)
	}
	req.ID = id

	s.logger.DebugContext(ctx, "Saved summary request", "id", id, "request_id", req.RequestID, "status", req.Status)
	return nil
}

func (s *sqlxStore) GetRecentSummaryRequests(ctx context.Context, limit int) ([]*SummaryRequest, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var reqs []*SummaryRequest
	query := `SELECT * FROM summary_requests ORDER BY created_at DESC, id DESC LIMIT ?`
	if err := s.db.SelectContext(ctx, &reqs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent summary requests: %w", err)
	}
	return reqs, nil
}

func (s *sqlxStore) CountSummaryRequestsSince(ctx context.Context, since time.Time, status string) (int, error) {
	query := `SELECT COUNT(*) FROM summary_requests WHERE created_at >= ?`
	args := []any{since.UTC()}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count summary requests: %w", err)
	}
	return count, nil
}

func (s *sqlxStore) DeleteSummaryRequestsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM summary_requests WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning summary requests", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete summary requests: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted row count: %w", err)
	}

	s.logger.InfoContext(ctx, "Pruned summary requests", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}

// RunSQLMaintenance runs VACUUM and ANALYZE. VACUUM cannot run inside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	startTime := time.Now()

	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to execute VACUUM", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		s.logger.WarnContext(ctx, "ANALYZE failed after VACUUM", "error", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(startTime))
	return nil
}
