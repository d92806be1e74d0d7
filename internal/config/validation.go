package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct-level rules and the rules that depend on the selected platform.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Chat.Platform {
	case PlatformDiscord:
		if c.Discord.Token == "" {
			return errors.New("discord.token is required when chat.platform is discord")
		}
	case PlatformTelegram:
		if c.Telegram.Token == "" {
			return errors.New("telegram.token is required when chat.platform is telegram")
		}
		if _, err := strconv.ParseInt(c.Chat.ChannelID, 10, 64); err != nil {
			return fmt.Errorf("chat.channel_id must be a numeric chat id for telegram: %w", err)
		}
	}

	return nil
}

// BotToken returns the credential for the selected platform.
func (c *Config) BotToken() string {
	if c.Chat.Platform == PlatformTelegram {
		return c.Telegram.Token
	}
	return c.Discord.Token
}
