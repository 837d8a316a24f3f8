package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"marquee/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
[catalog]
vendor_key = " key-123 "
theatre = "Empire 25"
base_url = "https://example.test/v2/"

[telegram]
bot_token = "token"
chat_id = 42
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Catalog.VendorKey != "key-123" {
		t.Fatalf("vendor key not trimmed: %q", cfg.Catalog.VendorKey)
	}
	if cfg.Catalog.BaseURL != "https://example.test/v2" {
		t.Fatalf("base url not normalized: %q", cfg.Catalog.BaseURL)
	}
	if cfg.Matching.TitleThreshold <= 0 {
		t.Fatal("expected default title threshold to be applied")
	}
}

func TestLoadRejectsMissingVendorKey(t *testing.T) {
	path := writeConfig(t, `
[catalog]
theatre = "Empire 25"

[telegram]
bot_token = "token"
chat_id = 42
`)

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for missing vendor key")
	}
}

func TestLoadRejectsMissingTheatre(t *testing.T) {
	path := writeConfig(t, `
[catalog]
vendor_key = "key"

[telegram]
bot_token = "token"
chat_id = 42
`)

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for missing theatre")
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[catalog]
vendor_key = "file-key"
theatre = "Empire 25"

[telegram]
bot_token = "file-token"
chat_id = 42
`)

	t.Setenv("MARQUEE_VENDOR_KEY", "env-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_CHAT_ID", "99")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.VendorKey != "env-key" {
		t.Fatalf("expected env vendor key, got %q", cfg.Catalog.VendorKey)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Fatalf("expected env bot token, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != 99 {
		t.Fatalf("expected env chat id, got %d", cfg.Telegram.ChatID)
	}
}

func TestValidateThresholdBounds(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.VendorKey = "key"
	cfg.Catalog.Theatre = "Empire 25"
	cfg.Telegram.BotToken = "token"
	cfg.Telegram.ChatID = 1

	cfg.Matching.TitleThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range title threshold")
	}
	cfg.Matching.TitleThreshold = 0.65
	cfg.Matching.TheatreThreshold = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero theatre threshold")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("sample config is empty")
	}
}
