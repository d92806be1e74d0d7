package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/newsbot/internal/audit"
	"github.com/edgard/newsbot/internal/chat"
	"github.com/edgard/newsbot/internal/database"
	"github.com/edgard/newsbot/internal/news"
)

// NewActionHandler returns the handler for Generate News activations. It
// acknowledges first, then generates and posts the summary to the target
// channel; any failure is reported to the requester once, privately.
func NewActionHandler(deps HandlerDeps) chat.InteractionHandler {
	return actionHandler{deps}.Handle
}

type actionHandler struct {
	deps HandlerDeps
}

func (h actionHandler) Handle(ctx context.Context, ev chat.InteractionEvent) error {
	requestID := audit.NewRequestID()
	log := h.deps.Logger.With("handler", "action", "request_id", requestID, "interaction_id", ev.ID, "user_id", ev.UserID)
	msgs := h.deps.Config.Messages

	// Acknowledge before generating; unanswered interactions expire.
	if err := ev.Interaction.Acknowledge(ctx, msgs.Generating); err != nil {
		log.ErrorContext(ctx, "Failed to acknowledge interaction", "error", err)
		return fmt.Errorf("failed to acknowledge interaction %s: %w", ev.ID, err)
	}

	log.InfoContext(ctx, "Generating news summary")
	startTime := time.Now()

	env, err := h.generateAndSend(ctx)
	duration := time.Since(startTime)

	h.deps.Recorder.Record(ctx, audit.Entry{
		RequestID: requestID,
		Source:    database.SourceButton,
		ChannelID: h.deps.Config.Chat.ChannelID,
		UserID:    ev.UserID,
		Envelope:  env,
		Err:       err,
		Duration:  duration,
	})

	if err != nil {
		log.ErrorContext(ctx, "Error fetching news", "error", err, "duration", duration)
		if fErr := ev.Interaction.FollowUp(ctx, msgs.FetchFailed); fErr != nil {
			log.ErrorContext(ctx, "Failed to send failure follow-up", "error", fErr)
			return fmt.Errorf("failed to report error to requester: %w", fErr)
		}
		return nil
	}

	log.InfoContext(ctx, "News summary posted", "duration", duration, "body_length", len([]rune(env.Description)), "truncated", env.Truncated)
	return nil
}

// generateAndSend returns the envelope only when it was delivered.
func (h actionHandler) generateAndSend(ctx context.Context) (*news.Envelope, error) {
	env, err := h.deps.Summarizer.Generate(ctx)
	if err != nil {
		return nil, err
	}

	channelID := h.deps.Config.Chat.ChannelID
	if err := h.deps.Chat.SendEnvelope(ctx, channelID, env); err != nil {
		return nil, fmt.Errorf("failed to send summary to channel %s: %w", channelID, err)
	}
	return env, nil
}
