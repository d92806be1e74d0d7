// Package discord connects the bot to Discord through a gateway session and
// maps Discord events and replies onto the chat package types.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/newsbot/internal/chat"
	"github.com/edgard/newsbot/internal/config"
	"github.com/edgard/newsbot/internal/logger"
	"github.com/edgard/newsbot/internal/news"
)

// Intents are the gateway subscriptions the bot needs to see guild messages and their content.
const Intents = discordgo.IntentGuilds |
	discordgo.IntentGuildMessages |
	discordgo.IntentGuildMembers |
	discordgo.IntentDirectMessages |
	discordgo.IntentMessageContent

// session is the subset of *discordgo.Session the gateway uses.
type session interface {
	Open() error
	Close() error
	AddHandler(handler any) func()
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Gateway is a chat.Gateway backed by a Discord bot session.
type Gateway struct {
	s      session
	logger *slog.Logger

	mu            sync.RWMutex
	ctx           context.Context
	onMessage     chat.MessageHandler
	onInteraction chat.InteractionHandler
}

var _ chat.Gateway = (*Gateway)(nil)

// New creates a Discord gateway for the bot token. It does not connect.
func New(token string, log *slog.Logger) (*Gateway, error) {
	if token == "" {
		return nil, errors.New("discord bot token cannot be empty")
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = Intents

	return newGateway(s, log), nil
}

func newGateway(s session, log *slog.Logger) *Gateway {
	if log == nil {
		log = logger.Discard()
	}
	g := &Gateway{
		s:      s,
		logger: log.With("component", "discord"),
		ctx:    context.Background(),
	}

	s.AddHandler(g.handleReady)
	s.AddHandler(g.handleMessageCreate)
	s.AddHandler(g.handleInteractionCreate)
	return g
}

// Platform implements chat.Gateway.
func (g *Gateway) Platform() string { return config.PlatformDiscord }

// OnMessage implements chat.Gateway.
func (g *Gateway) OnMessage(h chat.MessageHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onMessage = h
}

// OnInteraction implements chat.Gateway.
func (g *Gateway) OnInteraction(h chat.InteractionHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onInteraction = h
}

// Run opens the gateway connection and keeps it until ctx is cancelled.
// Event handlers receive ctx, so in-flight requests see the shutdown.
func (g *Gateway) Run(ctx context.Context) error {
	g.mu.Lock()
	g.ctx = ctx
	g.mu.Unlock()

	g.logger.InfoContext(ctx, "Connecting to Discord gateway")
	if err := g.s.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	<-ctx.Done()

	g.logger.Info("Closing Discord session")
	if err := g.s.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}
	return nil
}

// SendButtonPrompt implements chat.Client.
func (g *Gateway) SendButtonPrompt(ctx context.Context, channelID string, p chat.ButtonPrompt) error {
	_, err := g.s.ChannelMessageSendComplex(channelID, buttonMessage(p), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send button prompt to channel %s: %w", channelID, err)
	}
	return nil
}

// SendEnvelope resolves the channel first so a missing channel fails before anything is posted.
func (g *Gateway) SendEnvelope(ctx context.Context, channelID string, env *news.Envelope) error {
	if _, err := g.s.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}
	if _, err := g.s.ChannelMessageSendEmbed(channelID, toEmbed(env), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send embed to channel %s: %w", channelID, err)
	}
	return nil
}

func (g *Gateway) state() (context.Context, chat.MessageHandler, chat.InteractionHandler) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ctx, g.onMessage, g.onInteraction
}

func (g *Gateway) handleReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User == nil {
		return
	}
	g.logger.Info("Logged in", "username", r.User.Username, "user_id", r.User.ID, "guilds", len(r.Guilds))
}

func (g *Gateway) handleMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, h, _ := g.state()
	if h == nil || m.Message == nil {
		return
	}
	ev := toMessageEvent(m.Message)
	if err := h(ctx, ev); err != nil {
		g.logger.ErrorContext(ctx, "Message handler failed", "channel_id", ev.ChannelID, "message_id", ev.MessageID, "error", err)
	}
}

func (g *Gateway) handleInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, _, h := g.state()
	if h == nil || i.Interaction == nil {
		return
	}
	ev := g.toInteractionEvent(i.Interaction)
	if err := h(ctx, ev); err != nil {
		g.logger.ErrorContext(ctx, "Interaction handler failed", "interaction_id", ev.ID, "error", err)
	}
}

func toMessageEvent(m *discordgo.Message) chat.MessageEvent {
	ev := chat.MessageEvent{
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Content:   m.Content,
	}
	if m.Author != nil {
		ev.AuthorID = m.Author.ID
		ev.AuthorIsBot = m.Author.Bot
	}
	// Webhook posts carry no real user; treat them like bot traffic.
	if m.WebhookID != "" {
		ev.AuthorIsBot = true
	}
	return ev
}

func (g *Gateway) toInteractionEvent(i *discordgo.Interaction) chat.InteractionEvent {
	ev := chat.InteractionEvent{
		ID:          i.ID,
		Kind:        chat.KindOther,
		ChannelID:   i.ChannelID,
		UserID:      interactionUserID(i),
		Interaction: &interaction{s: g.s, i: i},
	}
	if i.Type == discordgo.InteractionMessageComponent {
		data := i.MessageComponentData()
		ev.ActionID = data.CustomID
		if data.ComponentType == discordgo.ButtonComponent {
			ev.Kind = chat.KindButton
		}
	}
	return ev
}

func interactionUserID(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}

func buttonMessage(p chat.ButtonPrompt) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: p.Text,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    p.Label,
						Style:    discordgo.PrimaryButton,
						CustomID: p.ActionID,
					},
				},
			},
		},
	}
}

func toEmbed(env *news.Envelope) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       env.Title,
		Description: env.Description,
		Color:       env.Color,
	}
	if !env.Timestamp.IsZero() {
		embed.Timestamp = env.Timestamp.Format(time.RFC3339)
	}
	if env.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: env.Footer}
	}
	return embed
}

// interaction answers one Discord interaction. Both replies are ephemeral.
type interaction struct {
	s session
	i *discordgo.Interaction
}

func (in *interaction) Acknowledge(ctx context.Context, text string) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
	if err := in.s.InteractionRespond(in.i, resp, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	return nil
}

func (in *interaction) FollowUp(ctx context.Context, text string) error {
	params := &discordgo.WebhookParams{
		Content: text,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
	if _, err := in.s.FollowupMessageCreate(in.i, true, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send follow-up message: %w", err)
	}
	return nil
}
