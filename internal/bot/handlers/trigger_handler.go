package handlers

import (
	"context"
	"fmt"

	"github.com/edgard/newsbot/internal/chat"
)

// NewTriggerHandler returns the handler that answers a human message with a
// Generate News button. Filtering by channel and author is done by middleware.
func NewTriggerHandler(deps HandlerDeps) chat.MessageHandler {
	return triggerHandler{deps}.Handle
}

type triggerHandler struct {
	deps HandlerDeps
}

func (h triggerHandler) Handle(ctx context.Context, ev chat.MessageEvent) error {
	log := h.deps.Logger.With("handler", "trigger", "channel_id", ev.ChannelID, "message_id", ev.MessageID)

	prompt := chat.ButtonPrompt{
		Text:     h.deps.Config.Messages.Prompt,
		Label:    h.deps.Config.Messages.ButtonLabel,
		ActionID: ActionGenerateNews,
	}
	if err := h.deps.Chat.SendButtonPrompt(ctx, ev.ChannelID, prompt); err != nil {
		log.ErrorContext(ctx, "Failed to send button prompt", "error", err)
		return fmt.Errorf("failed to send button prompt: %w", err)
	}

	h.deps.Metrics.RecordPrompt()
	log.DebugContext(ctx, "Sent button prompt")
	return nil
}
