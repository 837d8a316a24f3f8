package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Validation happens before any
// network call so credential problems surface to the operator immediately.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.VendorKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/marquee/config.toml"
		}
		return fmt.Errorf("catalog.vendor_key is required. Set MARQUEE_VENDOR_KEY env var or edit %s (create with 'marquee config init')", defaultPath)
	}
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url must be set")
	}
	if c.Catalog.Theatre == "" {
		return errors.New("catalog.theatre must be set to a theatre name or slug")
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token is required. Set TELEGRAM_BOT_TOKEN env var or edit the config file")
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id must be set to the target chat")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.TitleThreshold <= 0 || c.Matching.TitleThreshold > 1 {
		return errors.New("matching.title_threshold must be between 0 and 1")
	}
	if c.Matching.TheatreThreshold <= 0 || c.Matching.TheatreThreshold > 1 {
		return errors.New("matching.theatre_threshold must be between 0 and 1")
	}
	return nil
}
