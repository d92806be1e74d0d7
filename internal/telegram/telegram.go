// Package telegram connects the bot to Telegram through long polling and maps
// updates and replies onto the chat package types.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/newsbot/internal/chat"
	"github.com/edgard/newsbot/internal/config"
	"github.com/edgard/newsbot/internal/logger"
	"github.com/edgard/newsbot/internal/news"
)

// api is the subset of *bot.Bot used to talk back to Telegram.
type api interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Gateway is a chat.Gateway backed by a Telegram bot.
type Gateway struct {
	b      *bot.Bot
	api    api
	logger *slog.Logger

	mu            sync.RWMutex
	onMessage     chat.MessageHandler
	onInteraction chat.InteractionHandler

	// inflight tracks handlers still running after polling stops.
	inflight sync.WaitGroup
}

var _ chat.Gateway = (*Gateway)(nil)

// New creates a Telegram gateway for the bot token. bot.New validates the
// token against the API, so an invalid token fails here.
func New(token string, log *slog.Logger, opts ...bot.Option) (*Gateway, error) {
	if token == "" {
		return nil, errors.New("telegram bot token cannot be empty")
	}
	if log == nil {
		log = logger.Discard()
	}
	g := newGateway(nil, log)

	opts = append([]bot.Option{
		bot.WithDefaultHandler(g.handleUpdate),
		bot.WithMiddlewares(logger.Middleware(g.logger)),
		bot.WithErrorsHandler(func(err error) {
			g.logger.Error("Telegram polling error", "error", err)
		}),
	}, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		g.logger.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, g.handleUpdate)

	g.b = b
	g.api = b
	return g, nil
}

func newGateway(a api, log *slog.Logger) *Gateway {
	return &Gateway{
		api:    a,
		logger: log.With("component", "telegram"),
	}
}

// Platform implements chat.Gateway.
func (g *Gateway) Platform() string { return config.PlatformTelegram }

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

// Run polls for updates until ctx is cancelled, then waits for running handlers.
func (g *Gateway) Run(ctx context.Context) error {
	if g.b == nil {
		return errors.New("telegram bot is not initialized")
	}

	me, err := g.b.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	g.logger.InfoContext(ctx, "Logged in", "username", me.Username, "user_id", me.ID)

	g.b.Start(ctx)
	g.inflight.Wait()
	g.logger.Info("Telegram polling stopped")
	return nil
}

// SendButtonPrompt implements chat.Client with an inline keyboard button.
func (g *Gateway) SendButtonPrompt(ctx context.Context, channelID string, p chat.ButtonPrompt) error {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return err
	}
	_, err = g.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   p.Text,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: p.Label, CallbackData: p.ActionID}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send button prompt to chat %s: %w", channelID, err)
	}
	return nil
}

// SendEnvelope implements chat.Client with an HTML formatted message.
func (g *Gateway) SendEnvelope(ctx context.Context, channelID string, env *news.Envelope) error {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return err
	}
	disabled := true
	_, err = g.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:             chatID,
		Text:               renderHTML(env),
		ParseMode:          models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: &disabled},
	})
	if err != nil {
		return fmt.Errorf("failed to send summary to chat %s: %w", channelID, err)
	}
	return nil
}

func parseChatID(channelID string) (int64, error) {
	id, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", channelID, err)
	}
	return id, nil
}

func (g *Gateway) handlers() (chat.MessageHandler, chat.InteractionHandler) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.onMessage, g.onInteraction
}

// handleUpdate runs each handler on its own goroutine.
func (g *Gateway) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	onMessage, onInteraction := g.handlers()

	switch {
	case update.CallbackQuery != nil:
		if onInteraction == nil {
			return
		}
		ev := g.toInteractionEvent(update.CallbackQuery)
		g.dispatch(func() {
			if err := onInteraction(ctx, ev); err != nil {
				g.logger.ErrorContext(ctx, "Interaction handler failed", "interaction_id", ev.ID, "error", err)
			}
		})
	case update.Message != nil || update.ChannelPost != nil:
		if onMessage == nil {
			return
		}
		msg := update.Message
		if msg == nil {
			msg = update.ChannelPost
		}
		ev := toMessageEvent(msg)
		g.dispatch(func() {
			if err := onMessage(ctx, ev); err != nil {
				g.logger.ErrorContext(ctx, "Message handler failed", "chat_id", ev.ChannelID, "message_id", ev.MessageID, "error", err)
			}
		})
	}
}

func (g *Gateway) dispatch(fn func()) {
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		fn()
	}()
}

func toMessageEvent(msg *models.Message) chat.MessageEvent {
	ev := chat.MessageEvent{
		ChannelID: strconv.FormatInt(msg.Chat.ID, 10),
		MessageID: strconv.Itoa(msg.ID),
		Content:   msg.Text,
	}
	if ev.Content == "" {
		ev.Content = msg.Caption
	}
	switch {
	case msg.From != nil:
		ev.AuthorID = strconv.FormatInt(msg.From.ID, 10)
		ev.AuthorIsBot = msg.From.IsBot
	case msg.SenderChat != nil:
		ev.AuthorID = strconv.FormatInt(msg.SenderChat.ID, 10)
	}
	return ev
}

func (g *Gateway) toInteractionEvent(q *models.CallbackQuery) chat.InteractionEvent {
	ev := chat.InteractionEvent{
		ID:       q.ID,
		Kind:     chat.KindButton,
		ActionID: q.Data,
		UserID:   strconv.FormatInt(q.From.ID, 10),
		Interaction: &callbackInteraction{
			api:     g.api,
			queryID: q.ID,
			userID:  q.From.ID,
		},
	}
	if q.GameShortName != "" {
		ev.Kind = chat.KindOther
	}
	if m := q.Message.Message; m != nil {
		ev.ChannelID = strconv.FormatInt(m.Chat.ID, 10)
	} else if m := q.Message.InaccessibleMessage; m != nil {
		ev.ChannelID = strconv.FormatInt(m.Chat.ID, 10)
	}
	return ev
}

// callbackInteraction answers a callback query. The acknowledgment is a
// notification shown only to the presser; follow-ups go to a private chat
// with them, which fails if they never started the bot.
type callbackInteraction struct {
	api     api
	queryID string
	userID  int64
}

func (c *callbackInteraction) Acknowledge(ctx context.Context, text string) error {
	if _, err := c.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: c.queryID,
		Text:            text,
	}); err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

func (c *callbackInteraction) FollowUp(ctx context.Context, text string) error {
	if _, err := c.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: c.userID,
		Text:   text,
	}); err != nil {
		return fmt.Errorf("failed to send private follow-up: %w", err)
	}
	return nil
}
