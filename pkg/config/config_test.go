package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MAIL_WINDOW_DAYS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mail.WindowDays != 7 || cfg.Mail.MaxMessages != 50 || cfg.Mail.BodyLimit != 1500 {
		t.Errorf("unexpected mail defaults: %+v", cfg.Mail)
	}
	if cfg.DedupPrefixLength != 20 {
		t.Errorf("DedupPrefixLength = %d, want 20", cfg.DedupPrefixLength)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
port: "9090"
database_driver: sqlite
database_url: "file:test.db"
mail:
  window_days: 3
  max_messages: 20
  body_limit: 800
sync:
  timeout: 2m
  concurrency: 8
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAIL_MAX_MESSAGES", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" && os.Getenv("PORT") == "" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Errorf("DatabaseDriver = %q", cfg.DatabaseDriver)
	}
	if cfg.Mail.WindowDays != 3 {
		t.Errorf("WindowDays = %d, want 3", cfg.Mail.WindowDays)
	}
	if cfg.Mail.MaxMessages != 10 {
		t.Errorf("MaxMessages = %d, want env override 10", cfg.Mail.MaxMessages)
	}
	if cfg.Sync.Timeout != 2*time.Minute {
		t.Errorf("Sync.Timeout = %v", cfg.Sync.Timeout)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.DatabaseDriver = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
