package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps configuration keys to the environment variable names the
// bot has always used. Every key can also be set as NEWSBOT_<SECTION>_<KEY>.
var envBindings = map[string][]string{
	"gemini.api_key":  {"GEMINI_API_KEY"},
	"gemini.model":    {"GEMINI_MODEL"},
	"chat.platform":   {"CHAT_PLATFORM"},
	"chat.channel_id": {"CHANNEL_ID"},
	"discord.token":   {"DISCORD_TOKEN"},
	"telegram.token":  {"TELEGRAM_TOKEN"},
	"logger.level":    {"LOG_LEVEL"},
	"logger.json":     {"LOG_JSON"},
	"database.path":   {"DATABASE_PATH"},
	"metrics.addr":    {"METRICS_ADDR"},
}

const envPrefix = "NEWSBOT"

// LoadConfig reads configuration from defaults, the YAML file at path and the
// environment, then validates it. A missing file is an error only when path
// is set explicitly; with an empty path ./config.yaml is used if present.
// A .env file in the working directory is loaded into the environment first.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to load .env file: %v", ErrConfiguration, err)
	}

	v := viper.New()
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	slog.Debug("Configuration loaded",
		"platform", cfg.Chat.Platform,
		"channel_id", cfg.Chat.ChannelID,
		"model", cfg.Gemini.ModelName,
		"db_path", cfg.Database.Path,
		"config_file", v.ConfigFileUsed())

	return cfg, nil
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envBindings {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		args := append([]string{key, prefixed}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}
