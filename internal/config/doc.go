// Package config loads, normalizes, and validates marquee configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// MARQUEE_VENDOR_KEY and TELEGRAM_BOT_TOKEN. The Config type centralizes every
// knob the CLI needs: data directories, catalog and Telegram credentials,
// fuzzy-match thresholds, and notification pacing.
package config
