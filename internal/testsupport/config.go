package testsupport

import (
	"path/filepath"
	"testing"

	"marquee/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test and
// placeholder credentials that pass validation.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Catalog.VendorKey = "test"
	cfg.Catalog.Theatre = "Test Theatre"
	cfg.Telegram.BotToken = "test-token"
	cfg.Telegram.ChatID = 1
	return &cfg
}
