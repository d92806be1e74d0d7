// Package news implements the summary workflow: it builds the dated analyst
// prompt, asks the text generator for a summary and wraps the answer in a
// display envelope.
package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrEmptySummary is returned when the generator answers with no text.
var ErrEmptySummary = errors.New("generator returned an empty summary")

// Generator turns a prompt into text in a single request/response.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Options configures the fixed parts of the workflow.
type Options struct {
	Prompt PromptOptions
	Title  string
	Footer string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Workflow produces one envelope per call. It holds no per-call state, so
// concurrent calls never share a date pair, prompt or envelope.
type Workflow struct {
	gen    Generator
	opts   Options
	logger *slog.Logger
}

// NewWorkflow creates a workflow that asks gen for summaries.
func NewWorkflow(gen Generator, opts Options, logger *slog.Logger) *Workflow {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		gen:    gen,
		opts:   opts,
		logger: logger.With("component", "summary_workflow"),
	}
}

// Prompt returns the prompt for the calendar day of now.
func (w *Workflow) Prompt(now time.Time) string {
	return BuildPrompt(NewDatePair(now), w.opts.Prompt)
}

// Generate runs one summary request and returns its envelope. Any generator
// failure is returned as is, wrapped; there is no retry and no fallback content.
func (w *Workflow) Generate(ctx context.Context) (*Envelope, error) {
	now := w.opts.Now()
	dates := NewDatePair(now)
	prompt := BuildPrompt(dates, w.opts.Prompt)

	w.logger.DebugContext(ctx, "Requesting news summary", "from", dates.Yesterday, "to", dates.Today, "prompt_length", len(prompt))

	text, err := w.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate news summary: %w", err)
	}
	if text == "" {
		return nil, ErrEmptySummary
	}

	body, truncated := Truncate(text, MaxDescriptionLength)
	if truncated {
		w.logger.InfoContext(ctx, "Summary truncated to embed limit", "limit", MaxDescriptionLength)
	}

	return &Envelope{
		Title:       w.opts.Title,
		Description: body,
		Color:       AccentColor,
		Timestamp:   now,
		Footer:      w.opts.Footer,
		Truncated:   truncated,
	}, nil
}
