package config

import (
	"os"
	"strconv"
	"strings"
)

// normalize expands paths, trims string fields, and applies environment
// overrides. Environment values take precedence over file values.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}

	c.Catalog.VendorKey = strings.TrimSpace(c.Catalog.VendorKey)
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	c.Catalog.Theatre = strings.TrimSpace(c.Catalog.Theatre)
	c.Telegram.BotToken = strings.TrimSpace(c.Telegram.BotToken)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if value, ok := os.LookupEnv("MARQUEE_VENDOR_KEY"); ok {
		c.Catalog.VendorKey = strings.TrimSpace(value)
	} else if value, ok := os.LookupEnv("AMC_VENDOR_KEY"); ok {
		c.Catalog.VendorKey = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("TELEGRAM_BOT_TOKEN"); ok {
		c.Telegram.BotToken = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("TELEGRAM_CHAT_ID"); ok {
		parsed, parseErr := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if parseErr == nil {
			c.Telegram.ChatID = parsed
		}
	}

	if c.Catalog.RequestTimeout <= 0 {
		c.Catalog.RequestTimeout = defaultRequestTimeout
	}
	if c.Notifications.SendDelayMillis < 0 {
		c.Notifications.SendDelayMillis = defaultSendDelayMillis
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
