package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/newsbot/internal/audit"
	"github.com/edgard/newsbot/internal/chat"
	"github.com/edgard/newsbot/internal/config"
	"github.com/edgard/newsbot/internal/database"
	"github.com/edgard/newsbot/internal/logger"
	"github.com/edgard/newsbot/internal/news"
)

const targetChannel = "chan-1"

// recorder keeps the order of every outbound call across fakes.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeClient struct {
	rec        *recorder
	promptErr  error
	sendErr    error
	mu         sync.Mutex
	prompts    []chat.ButtonPrompt
	envelopes  []*news.Envelope
	promptChan []string
	envChan    []string
}

func (c *fakeClient) SendButtonPrompt(_ context.Context, channelID string, p chat.ButtonPrompt) error {
	c.rec.add("prompt")
	if c.promptErr != nil {
		return c.promptErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, p)
	c.promptChan = append(c.promptChan, channelID)
	return nil
}

func (c *fakeClient) SendEnvelope(_ context.Context, channelID string, env *news.Envelope) error {
	c.rec.add("send")
	if c.sendErr != nil {
		return c.sendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.envelopes = append(c.envelopes, env)
	c.envChan = append(c.envChan, channelID)
	return nil
}

type fakeSummarizer struct {
	rec   *recorder
	err   error
	delay time.Duration
	mu    sync.Mutex
	n     int
}

func (s *fakeSummarizer) Generate(ctx context.Context) (*news.Envelope, error) {
	s.rec.add("generate")
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	s.n++
	n := s.n
	s.mu.Unlock()
	return &news.Envelope{Title: "Daily News Summary", Description: string(rune('a' + n - 1))}, nil
}

type fakeInteraction struct {
	rec       *recorder
	ackErr    error
	mu        sync.Mutex
	acks      []string
	followUps []string
}

func (i *fakeInteraction) Acknowledge(_ context.Context, text string) error {
	i.rec.add("ack")
	if i.ackErr != nil {
		return i.ackErr
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.acks = append(i.acks, text)
	return nil
}

func (i *fakeInteraction) FollowUp(_ context.Context, text string) error {
	i.rec.add("followup")
	i.mu.Lock()
	defer i.mu.Unlock()
	i.followUps = append(i.followUps, text)
	return nil
}

type memStore struct {
	database.Store
	mu    sync.Mutex
	saved []*database.SummaryRequest
}

func (s *memStore) SaveSummaryRequest(_ context.Context, req *database.SummaryRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, req)
	return nil
}

type fakeGateway struct {
	onMessage     chat.MessageHandler
	onInteraction chat.InteractionHandler
}

func (g *fakeGateway) OnMessage(h chat.MessageHandler)         { g.onMessage = h }
func (g *fakeGateway) OnInteraction(h chat.InteractionHandler) { g.onInteraction = h }

type fixture struct {
	rec        *recorder
	client     *fakeClient
	summarizer *fakeSummarizer
	store      *memStore
	gw         *fakeGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rec := &recorder{}
	f := &fixture{
		rec:        rec,
		client:     &fakeClient{rec: rec},
		summarizer: &fakeSummarizer{rec: rec},
		store:      &memStore{},
		gw:         &fakeGateway{},
	}
	return f
}

func (f *fixture) register() {
	cfg := &config.Config{
		Chat:     config.ChatConfig{Platform: config.PlatformDiscord, ChannelID: targetChannel},
		Messages: config.DefaultMessages,
	}
	RegisterAll(f.gw, HandlerDeps{
		Logger:     logger.Discard(),
		Config:     cfg,
		Chat:       f.client,
		Summarizer: f.summarizer,
		Recorder:   audit.NewRecorder(f.store, nil, config.PlatformDiscord, logger.Discard()),
	})
}

func buttonEvent(i chat.Interaction, actionID string) chat.InteractionEvent {
	return chat.InteractionEvent{
		ID:          "int-1",
		Kind:        chat.KindButton,
		ActionID:    actionID,
		ChannelID:   targetChannel,
		UserID:      "user-1",
		Interaction: i,
	}
}

func TestTriggerListener(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		event      chat.MessageEvent
		wantPrompt bool
	}{
		{
			name:       "human message in target channel",
			event:      chat.MessageEvent{ChannelID: targetChannel, AuthorID: "u1", Content: "hello"},
			wantPrompt: true,
		},
		{
			name:       "empty content still triggers",
			event:      chat.MessageEvent{ChannelID: targetChannel, AuthorID: "u1"},
			wantPrompt: true,
		},
		{
			name:  "bot author ignored",
			event: chat.MessageEvent{ChannelID: targetChannel, AuthorID: "b1", AuthorIsBot: true, Content: config.DefaultMessages.Prompt},
		},
		{
			name:  "other channel ignored",
			event: chat.MessageEvent{ChannelID: "elsewhere", AuthorID: "u1", Content: "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.register()

			require.NoError(t, f.gw.onMessage(context.Background(), tt.event))

			if !tt.wantPrompt {
				assert.Empty(t, f.rec.snapshot())
				return
			}
			require.Len(t, f.client.prompts, 1)
			assert.Equal(t, chat.ButtonPrompt{
				Text:     config.DefaultMessages.Prompt,
				Label:    config.DefaultMessages.ButtonLabel,
				ActionID: ActionGenerateNews,
			}, f.client.prompts[0])
			assert.Equal(t, []string{targetChannel}, f.client.promptChan)
		})
	}
}

func TestTriggerListenerOnePromptPerMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register()

	ev := chat.MessageEvent{ChannelID: targetChannel, AuthorID: "u1", Content: "again"}
	for range 3 {
		require.NoError(t, f.gw.onMessage(context.Background(), ev))
	}
	assert.Len(t, f.client.prompts, 3)
}

func TestTriggerListenerSendFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.client.promptErr = errors.New("missing permissions")
	f.register()

	err := f.gw.onMessage(context.Background(), chat.MessageEvent{ChannelID: targetChannel, AuthorID: "u1"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing permissions")
}

func TestActionHandlerSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register()

	in := &fakeInteraction{rec: f.rec}
	require.NoError(t, f.gw.onInteraction(context.Background(), buttonEvent(in, ActionGenerateNews)))

	assert.Equal(t, []string{"ack", "generate", "send"}, f.rec.snapshot())
	assert.Equal(t, []string{config.DefaultMessages.Generating}, in.acks)
	assert.Empty(t, in.followUps)
	require.Len(t, f.client.envelopes, 1)
	assert.Equal(t, []string{targetChannel}, f.client.envChan)

	require.Len(t, f.store.saved, 1)
	assert.Equal(t, database.SourceButton, f.store.saved[0].Source)
	assert.Equal(t, database.StatusSuccess, f.store.saved[0].Status)
	assert.Equal(t, "user-1", f.store.saved[0].UserID)
}

func TestActionHandlerFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		genErr    error
		sendErr   error
		wantCalls []string
	}{
		{
			name:      "generator fails",
			genErr:    errors.New("quota exceeded"),
			wantCalls: []string{"ack", "generate", "followup"},
		},
		{
			name:      "channel send fails",
			sendErr:   errors.New("unknown channel"),
			wantCalls: []string{"ack", "generate", "send", "followup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.summarizer.err = tt.genErr
			f.client.sendErr = tt.sendErr
			f.register()

			in := &fakeInteraction{rec: f.rec}
			require.NoError(t, f.gw.onInteraction(context.Background(), buttonEvent(in, ActionGenerateNews)))

			assert.Equal(t, tt.wantCalls, f.rec.snapshot())
			assert.Equal(t, []string{config.DefaultMessages.FetchFailed}, in.followUps)
			assert.Empty(t, f.client.envelopes)

			require.Len(t, f.store.saved, 1)
			assert.Equal(t, database.StatusFailed, f.store.saved[0].Status)
			assert.NotEmpty(t, f.store.saved[0].ErrorMessage)
		})
	}
}

func TestActionHandlerAckFailureSkipsWorkflow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.register()

	in := &fakeInteraction{rec: f.rec, ackErr: errors.New("unknown interaction")}
	err := f.gw.onInteraction(context.Background(), buttonEvent(in, ActionGenerateNews))
	require.Error(t, err)

	assert.Equal(t, []string{"ack"}, f.rec.snapshot())
	assert.Empty(t, f.store.saved)
}

func TestActionHandlerIgnoresOtherInteractions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event func(chat.Interaction) chat.InteractionEvent
	}{
		{
			name: "unknown action id",
			event: func(i chat.Interaction) chat.InteractionEvent {
				return buttonEvent(i, "otherAction")
			},
		},
		{
			name: "non-button component",
			event: func(i chat.Interaction) chat.InteractionEvent {
				ev := buttonEvent(i, ActionGenerateNews)
				ev.Kind = chat.KindOther
				return ev
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.register()

			in := &fakeInteraction{rec: f.rec}
			require.NoError(t, f.gw.onInteraction(context.Background(), tt.event(in)))
			assert.Empty(t, f.rec.snapshot())
		})
	}
}

func TestActionHandlerConcurrentRequestsAreIndependent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.summarizer.delay = 20 * time.Millisecond
	f.register()

	const n = 5
	interactions := make([]*fakeInteraction, n)
	var wg sync.WaitGroup
	for i := range n {
		interactions[i] = &fakeInteraction{rec: f.rec}
		wg.Add(1)
		go func(in *fakeInteraction) {
			defer wg.Done()
			assert.NoError(t, f.gw.onInteraction(context.Background(), buttonEvent(in, ActionGenerateNews)))
		}(interactions[i])
	}
	wg.Wait()

	for _, in := range interactions {
		assert.Len(t, in.acks, 1)
		assert.Empty(t, in.followUps)
	}
	require.Len(t, f.client.envelopes, n)

	seen := make(map[string]bool)
	for _, env := range f.client.envelopes {
		assert.False(t, seen[env.Description], "each request posts its own envelope")
		seen[env.Description] = true
	}
	assert.Len(t, f.store.saved, n)
}
