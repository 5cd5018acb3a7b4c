package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Remove(tmpFile.Name())
	})

	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"MAILTRIAGE_OWNER",
		"MAILTRIAGE_STORE_DRIVER",
		"MAILTRIAGE_STORE_PATH",
		"MAILTRIAGE_FIRESTORE_PROJECT",
		"MAILTRIAGE_IMAP_PASSWORD",
		"MAILTRIAGE_UI_INTERACTIVE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `owner: "student-42"
log:
  level: debug
  format: text
store:
  driver: sqlite
  path: "/tmp/mail.db"
pipeline:
  dedup: query
  cacheSize: 16
  cacheTTL: 1m
imap:
  enabled: true
  server: "imap.test.com:993"
  login: "test@example.com"
  password: "testpass"
  since: 48h
  fetchRate: 2.5
metrics:
  addr: ":9100"
ui:
  interactive: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Owner != "student-42" {
		t.Errorf("Expected owner 'student-42', got '%s'", cfg.Owner)
	}
	if cfg.Store.Path != "/tmp/mail.db" {
		t.Errorf("Expected store path '/tmp/mail.db', got '%s'", cfg.Store.Path)
	}
	if cfg.Pipeline.Dedup != DedupQuery {
		t.Errorf("Expected dedup 'query', got '%s'", cfg.Pipeline.Dedup)
	}
	if cfg.Pipeline.CacheTTL != time.Minute {
		t.Errorf("Expected cacheTTL 1m, got %v", cfg.Pipeline.CacheTTL)
	}
	if cfg.Imap.Since != 48*time.Hour {
		t.Errorf("Expected since 48h, got %v", cfg.Imap.Since)
	}
	if cfg.Imap.MailBox != "INBOX" {
		t.Errorf("Expected default mailbox 'INBOX', got '%s'", cfg.Imap.MailBox)
	}
	if cfg.Imap.FetchRate != 2.5 {
		t.Errorf("Expected fetchRate 2.5, got %v", cfg.Imap.FetchRate)
	}
	if !cfg.UI.Interactive {
		t.Error("Expected ui.interactive to be true")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, "owner: demo\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Store.Driver != DriverSQLite || cfg.Store.Path != "data/mailtriage.db" {
		t.Errorf("Unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.Pipeline.Dedup != DedupAtomic {
		t.Errorf("Expected default dedup 'atomic', got '%s'", cfg.Pipeline.Dedup)
	}
	if cfg.Pipeline.CacheSize != 256 {
		t.Errorf("Expected default cacheSize 256, got %d", cfg.Pipeline.CacheSize)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoad_CacheDisabled(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, "pipeline:\n  cacheSize: -1\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Pipeline.CacheSize != CacheDisabled {
		t.Errorf("Expected cacheSize %d to be kept, got %d", CacheDisabled, cfg.Pipeline.CacheSize)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAILTRIAGE_OWNER", "env-owner")
	t.Setenv("MAILTRIAGE_STORE_DRIVER", "memory")
	t.Setenv("MAILTRIAGE_UI_INTERACTIVE", "false")

	cfg, err := Load(writeConfig(t, "owner: file-owner\nui:\n  interactive: true\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Owner != "env-owner" {
		t.Errorf("Expected owner from env, got '%s'", cfg.Owner)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Expected memory driver from env, got '%s'", cfg.Store.Driver)
	}
	if cfg.UI.Interactive {
		t.Error("Expected ui.interactive to be overridden to false")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Unknown driver", content: "store:\n  driver: mongo\n"},
		{name: "Unknown dedup strategy", content: "pipeline:\n  dedup: optimistic\n"},
		{name: "Firestore without project", content: "store:\n  driver: firestore\n"},
		{name: "IMAP without server", content: "imap:\n  enabled: true\n"},
		{name: "Negative cache size", content: "pipeline:\n  cacheSize: -2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("Load() expected an error for %q", tt.content)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	if err := LoadDotEnv(filepath.Join(dir, ".env")); err != nil {
		t.Fatalf("LoadDotEnv() on missing file error: %v", err)
	}

	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("MAILTRIAGE_DOTENV_PROBE=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("MAILTRIAGE_DOTENV_PROBE")
	})

	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}
	if got := os.Getenv("MAILTRIAGE_DOTENV_PROBE"); got != "from-dotenv" {
		t.Errorf("Expected MAILTRIAGE_DOTENV_PROBE 'from-dotenv', got '%s'", got)
	}
}
