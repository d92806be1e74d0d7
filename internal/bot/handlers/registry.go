// Package handlers contains the chat event handlers of the news bot and the
// middleware and registration logic around them.
package handlers

import (
	"github.com/edgard/newsbot/internal/chat"
)

// ActionGenerateNews is the action identifier carried by the Generate News button.
const ActionGenerateNews = "genNews"

// MessageMiddleware wraps a message handler.
type MessageMiddleware func(next chat.MessageHandler) chat.MessageHandler

// InteractionMiddleware wraps an interaction handler.
type InteractionMiddleware func(next chat.InteractionHandler) chat.InteractionHandler

// Subscriber is the registration side of a chat.Gateway.
type Subscriber interface {
	OnMessage(h chat.MessageHandler)
	OnInteraction(h chat.InteractionHandler)
}

// RegisterAll wires the trigger listener and the action handler into sub.
func RegisterAll(sub Subscriber, deps HandlerDeps) {
	sub.OnMessage(applyMessageMiddleware(
		NewTriggerHandler(deps),
		LogMessages(deps),
		TargetChannelOnly(deps),
		IgnoreBots(deps),
	))
	sub.OnInteraction(applyInteractionMiddleware(
		NewActionHandler(deps),
		LogInteractions(deps),
		ButtonActionOnly(deps, ActionGenerateNews),
	))

	deps.Logger.Info("Registered chat handlers", "action_id", ActionGenerateNews, "channel_id", deps.Config.Chat.ChannelID)
}

// applyMessageMiddleware applies mw so that the first one in the slice is the outermost.
func applyMessageMiddleware(h chat.MessageHandler, mw ...MessageMiddleware) chat.MessageHandler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func applyInteractionMiddleware(h chat.InteractionHandler, mw ...InteractionMiddleware) chat.InteractionHandler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
