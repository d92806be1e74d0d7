// Package tasks implements the scheduled tasks of the news bot and the
// registry the scheduler looks them up in.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/newsbot/internal/audit"
	"github.com/edgard/newsbot/internal/chat"
	"github.com/edgard/newsbot/internal/config"
	"github.com/edgard/newsbot/internal/database"
	"github.com/edgard/newsbot/internal/news"
)

// Summarizer produces one display envelope per call.
type Summarizer interface {
	Generate(ctx context.Context) (*news.Envelope, error)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Chat       chat.Client
	Summarizer Summarizer
	Recorder   *audit.Recorder
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d TaskDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
