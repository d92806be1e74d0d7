// Package chat defines the platform-neutral surface the bot handlers work
// against: inbound events, the interaction they may answer, and the outbound
// client used to post into a channel.
package chat

import (
	"context"

	"github.com/edgard/newsbot/internal/news"
)

// InteractionKind tells button activations apart from other interactive components.
type InteractionKind int

// Interaction kinds. Anything a platform cannot map to a button is KindOther.
const (
	KindOther InteractionKind = iota
	KindButton
)

// MessageEvent is one message created in a channel the bot can see.
type MessageEvent struct {
	ChannelID   string
	MessageID   string
	AuthorID    string
	AuthorIsBot bool
	Content     string
}

// InteractionEvent is one activation of an interactive component.
type InteractionEvent struct {
	ID        string
	Kind      InteractionKind
	ActionID  string
	ChannelID string
	UserID    string
	// Interaction answers the requester. It is nil only in tests that never reply.
	Interaction Interaction
}

// Interaction replies to the user who triggered an InteractionEvent.
type Interaction interface {
	// Acknowledge answers within the platform deadline, visible to the requester only.
	Acknowledge(ctx context.Context, text string) error
	// FollowUp sends a further message visible to the requester only.
	FollowUp(ctx context.Context, text string) error
}

// ButtonPrompt is a message carrying a single button.
type ButtonPrompt struct {
	Text     string
	Label    string
	ActionID string
}

// Client posts into channels.
type Client interface {
	// SendButtonPrompt posts a message with one button into channelID.
	SendButtonPrompt(ctx context.Context, channelID string, prompt ButtonPrompt) error
	// SendEnvelope fetches channelID and posts env as the platform's rich message.
	SendEnvelope(ctx context.Context, channelID string, env *news.Envelope) error
}

// MessageHandler reacts to a MessageEvent.
type MessageHandler func(ctx context.Context, ev MessageEvent) error

// InteractionHandler reacts to an InteractionEvent.
type InteractionHandler func(ctx context.Context, ev InteractionEvent) error

// Gateway is a live connection to a chat platform.
type Gateway interface {
	Client
	// Platform names the platform, e.g. "discord".
	Platform() string
	// OnMessage registers a handler for created messages. Call before Run.
	OnMessage(h MessageHandler)
	// OnInteraction registers a handler for component interactions. Call before Run.
	OnInteraction(h InteractionHandler)
	// Run connects, logs readiness and dispatches events until ctx is done.
	Run(ctx context.Context) error
}
