package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/newsbot/internal/audit"
	"github.com/edgard/newsbot/internal/chat"
	"github.com/edgard/newsbot/internal/config"
	"github.com/edgard/newsbot/internal/metrics"
	"github.com/edgard/newsbot/internal/news"
)

// Summarizer produces one display envelope per call.
type Summarizer interface {
	Generate(ctx context.Context) (*news.Envelope, error)
}

// HandlerDeps provides dependencies for the chat event handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Chat       chat.Client
	Summarizer Summarizer
	Recorder   *audit.Recorder
	Metrics    *metrics.Metrics
}
