// Package bot runs the news bot: the chat gateway, the task scheduler and the
// optional metrics listener, until shutdown or the first fatal error.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/newsbot/internal/chat"
)

// Runner is a component that blocks until ctx is done or it fails.
type Runner interface {
	Run(ctx context.Context) error
}

// Bot owns the lifecycle of the running components.
type Bot struct {
	logger    *slog.Logger
	gateway   chat.Gateway
	scheduler *Scheduler
	metrics   Runner
}

// NewBot creates the orchestrator. scheduler and metrics may be nil.
func NewBot(logger *slog.Logger, gateway chat.Gateway, scheduler *Scheduler, metrics Runner) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		gateway:   gateway,
		scheduler: scheduler,
		metrics:   metrics,
	}
}

// Run starts every component and returns when ctx is cancelled or one of
// them fails, after the others have stopped.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...", "platform", b.gateway.Platform())

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := b.gateway.Run(gCtx); err != nil {
			b.logger.Error("Chat gateway failed", "error", err)
			return fmt.Errorf("chat gateway: %w", err)
		}
		b.logger.Info("Chat gateway stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Chat gateway stopped unexpectedly without context cancellation.")
			return errors.New("chat gateway stopped unexpectedly")
		}
		return nil
	})

	if b.scheduler != nil {
		g.Go(func() error {
			if err := b.scheduler.Start(gCtx); err != nil {
				b.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler...")

			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	if b.metrics != nil {
		g.Go(func() error {
			return b.metrics.Run(gCtx)
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
