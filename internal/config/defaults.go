package config

import "time"

// Default values for configuration.
const (
	DefaultLogLevel = "info"

	DefaultPlatform = PlatformDiscord

	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultGeminiTemperature = 1.0

	DefaultSummaryRegion     = "Thailand"
	DefaultSummaryCharBudget = 2000

	DefaultDBPath      = "newsbot.db"
	DefaultDBRetention = 30 * 24 * time.Hour
)

// DefaultMessages are the strings of the original bot.
var DefaultMessages = MessagesConfig{
	Prompt:      "Generate News",
	ButtonLabel: "Generate News",
	Generating:  "⏳ Generating news...",
	FetchFailed: "❌ Failed to fetch news.",
	EmbedTitle:  "📰 Daily World News",
	EmbedFooter: "Daily News Update",
}

// DefaultTasks lists the built-in scheduled tasks. The digest is off unless enabled.
var DefaultTasks = map[string]TaskConfig{
	"daily_digest":            {Enabled: false, Schedule: "0 0 8 * * *"},
	"request_log_maintenance": {Enabled: true, Schedule: "0 0 3 * * *"},
}

func setDefaults(v viperSetter) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("chat.platform", DefaultPlatform)

	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)

	v.SetDefault("summary.region", DefaultSummaryRegion)
	v.SetDefault("summary.char_budget", DefaultSummaryCharBudget)

	v.SetDefault("messages.prompt", DefaultMessages.Prompt)
	v.SetDefault("messages.button_label", DefaultMessages.ButtonLabel)
	v.SetDefault("messages.generating", DefaultMessages.Generating)
	v.SetDefault("messages.fetch_failed", DefaultMessages.FetchFailed)
	v.SetDefault("messages.embed_title", DefaultMessages.EmbedTitle)
	v.SetDefault("messages.embed_footer", DefaultMessages.EmbedFooter)

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.retention", DefaultDBRetention)

	for name, task := range DefaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}

	v.SetDefault("metrics.addr", "")
}

type viperSetter interface {
	SetDefault(key string, value any)
}
