package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/edgard/newsbot/internal/audit"
	"github.com/edgard/newsbot/internal/bot"
	"github.com/edgard/newsbot/internal/bot/handlers"
	"github.com/edgard/newsbot/internal/bot/tasks"
	"github.com/edgard/newsbot/internal/chat"
	"github.com/edgard/newsbot/internal/config"
	"github.com/edgard/newsbot/internal/discord"
	"github.com/edgard/newsbot/internal/metrics"
	"github.com/edgard/newsbot/internal/telegram"
)

// runBot starts every component and blocks until ctx is cancelled or one fails.
func runBot(ctx context.Context, configPath string) error {
	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	gw, err := newGateway(cfg, log)
	if err != nil {
		log.Error("Failed to create chat gateway", "platform", cfg.Chat.Platform, "error", err)
		return err
	}

	recorder := audit.NewRecorder(a.store, m, gw.Platform(), log)

	handlers.RegisterAll(gw, handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		Chat:       gw,
		Summarizer: a.workflow,
		Recorder:   recorder,
		Metrics:    m,
	})

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:     log,
		Config:     cfg,
		Store:      a.store,
		Chat:       gw,
		Summarizer: a.workflow,
		Recorder:   recorder,
	})
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return err
	}

	var metricsServer bot.Runner
	if cfg.Metrics.Addr != "" {
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, reg, a.store.Ping, log)
	}

	b := bot.NewBot(log, gw, sched, metricsServer)

	log.Info("Starting bot...", "platform", gw.Platform(), "channel_id", cfg.Chat.ChannelID)
	runErr := b.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return runErr
	}

	log.Info("Bot stopped gracefully.")
	return nil
}

func newGateway(cfg *config.Config, log *slog.Logger) (chat.Gateway, error) {
	switch cfg.Chat.Platform {
	case config.PlatformDiscord:
		return discord.New(cfg.BotToken(), log)
	case config.PlatformTelegram:
		return telegram.New(cfg.BotToken(), log)
	default:
		return nil, unknownPlatform(cfg.Chat.Platform)
	}
}
