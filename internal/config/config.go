// Package config provides configuration loading, validation, and defaults
// for the news bot. Values come from built-in defaults, an optional YAML file,
// a .env file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every error returned while loading or validating configuration.
var ErrConfiguration = errors.New("configuration error")

// Supported chat platforms.
const (
	PlatformDiscord  = "discord"
	PlatformTelegram = "telegram"
)

// Config defines the application configuration for all components of the bot.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Summary   SummaryConfig   `mapstructure:"summary"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ChatConfig selects the chat platform and the one channel the bot works in.
type ChatConfig struct {
	Platform  string `mapstructure:"platform"   validate:"required,oneof=discord telegram"`
	ChannelID string `mapstructure:"channel_id" validate:"required"`
}

// DiscordConfig holds the Discord bot credential.
type DiscordConfig struct {
	Token string `mapstructure:"token"`
}

// TelegramConfig holds the Telegram bot credential.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

// GeminiConfig configures the generative-text client.
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"     validate:"required"`
	ModelName   string  `mapstructure:"model"       validate:"required"`
	Temperature float32 `mapstructure:"temperature" validate:"min=0,max=2"`
}

// SummaryConfig parameterizes the news prompt.
type SummaryConfig struct {
	Region     string `mapstructure:"region"      validate:"required"`
	CharBudget int    `mapstructure:"char_budget" validate:"min=100,max=4096"`
}

// MessagesConfig holds every user-visible string the bot sends.
type MessagesConfig struct {
	Prompt      string `mapstructure:"prompt"       validate:"required"`
	ButtonLabel string `mapstructure:"button_label" validate:"required,max=80"`
	Generating  string `mapstructure:"generating"   validate:"required"`
	FetchFailed string `mapstructure:"fetch_failed" validate:"required"`
	EmbedTitle  string `mapstructure:"embed_title"  validate:"required,max=256"`
	EmbedFooter string `mapstructure:"embed_footer" validate:"required,max=2048"`
}

// DatabaseConfig configures the request log. An empty Path disables it.
type DatabaseConfig struct {
	Path      string        `mapstructure:"path"`
	Retention time.Duration `mapstructure:"retention" validate:"min=1h"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MetricsConfig configures the metrics and health listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}
