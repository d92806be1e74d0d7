package handlers

import (
	"context"

	"github.com/edgard/newsbot/internal/chat"
)

// LogMessages logs every incoming message at debug level.
func LogMessages(deps HandlerDeps) MessageMiddleware {
	log := deps.Logger.With("middleware", "LogMessages")
	return func(next chat.MessageHandler) chat.MessageHandler {
		return func(ctx context.Context, ev chat.MessageEvent) error {
			log.DebugContext(ctx, "Message received",
				"channel_id", ev.ChannelID,
				"author_id", ev.AuthorID,
				"author_is_bot", ev.AuthorIsBot,
				"content", ev.Content)
			return next(ctx, ev)
		}
	}
}

// TargetChannelOnly drops messages from any channel other than the configured one.
func TargetChannelOnly(deps HandlerDeps) MessageMiddleware {
	return func(next chat.MessageHandler) chat.MessageHandler {
		return func(ctx context.Context, ev chat.MessageEvent) error {
			if ev.ChannelID != deps.Config.Chat.ChannelID {
				return nil
			}
			return next(ctx, ev)
		}
	}
}

// IgnoreBots drops messages authored by bot accounts, the bot itself included.
func IgnoreBots(deps HandlerDeps) MessageMiddleware {
	return func(next chat.MessageHandler) chat.MessageHandler {
		return func(ctx context.Context, ev chat.MessageEvent) error {
			if ev.AuthorIsBot {
				return nil
			}
			return next(ctx, ev)
		}
	}
}

// LogInteractions logs every incoming interaction at debug level.
func LogInteractions(deps HandlerDeps) InteractionMiddleware {
	log := deps.Logger.With("middleware", "LogInteractions")
	return func(next chat.InteractionHandler) chat.InteractionHandler {
		return func(ctx context.Context, ev chat.InteractionEvent) error {
			log.DebugContext(ctx, "Interaction received",
				"interaction_id", ev.ID,
				"kind", ev.Kind,
				"action_id", ev.ActionID,
				"user_id", ev.UserID)
			return next(ctx, ev)
		}
	}
}

// ButtonActionOnly drops interactions that are not activations of the button actionID.
func ButtonActionOnly(deps HandlerDeps, actionID string) InteractionMiddleware {
	return func(next chat.InteractionHandler) chat.InteractionHandler {
		return func(ctx context.Context, ev chat.InteractionEvent) error {
			if ev.Kind != chat.KindButton || ev.ActionID != actionID {
				return nil
			}
			return next(ctx, ev)
		}
	}
}
