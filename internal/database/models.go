package database

import "time"

// Request sources.
const (
	SourceButton   = "button"
	SourceSchedule = "schedule"
	SourcePreview  = "preview"
)

// Request outcomes.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// SummaryRequest records the metadata of one summary invocation. The summary
// text itself is never stored.
type SummaryRequest struct {
	ID           int64     `db:"id"`
	RequestID    string    `db:"request_id"`
	Source       string    `db:"source"`
	Platform     string    `db:"platform"`
	ChannelID    string    `db:"channel_id"`
	UserID       string    `db:"user_id"`
	Status       string    `db:"status"`
	ErrorMessage string    `db:"error_message"`
	BodyLength   int       `db:"body_length"`
	Truncated    bool      `db:"truncated"`
	DurationMS   int64     `db:"duration_ms"`
	CreatedAt    time.Time `db:"created_at"`
}
