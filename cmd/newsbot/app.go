package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/newsbot/internal/config"
	"github.com/edgard/newsbot/internal/database"
	"github.com/edgard/newsbot/internal/gemini"
	"github.com/edgard/newsbot/internal/logger"
	"github.com/edgard/newsbot/internal/news"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	db       *sqlx.DB
	store    database.Store
	workflow *news.Workflow
}

// newApp loads configuration, sets up logging and builds the summary workflow.
// The caller must call close.
func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return nil, err
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	a := &app{cfg: cfg, log: log, store: database.NewNopStore()}

	if cfg.Database.Path != "" {
		db, err := database.NewDB(cfg.Database.Path)
		if err != nil {
			log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
			return nil, err
		}
		a.db = db
		a.store = database.NewStore(db, log)
	} else {
		log.Info("Request log disabled")
	}

	gemClient, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		ModelName:   cfg.Gemini.ModelName,
		Temperature: cfg.Gemini.Temperature,
	}, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		a.close()
		return nil, err
	}

	a.workflow = news.NewWorkflow(gemClient, news.Options{
		Prompt: news.PromptOptions{
			Region:     cfg.Summary.Region,
			CharBudget: cfg.Summary.CharBudget,
		},
		Title:  cfg.Messages.EmbedTitle,
		Footer: cfg.Messages.EmbedFooter,
	}, log)

	return a, nil
}

func (a *app) close() {
	database.CloseDB(a.db)
}

var errUnknownPlatform = errors.New("unknown chat platform")

func unknownPlatform(name string) error {
	return fmt.Errorf("%w: %q", errUnknownPlatform, name)
}
