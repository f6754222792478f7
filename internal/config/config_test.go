package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":3000" || cfg.Store.Path != "./database.sqlite" {
		t.Fatalf("unexpected server/store defaults: %+v", cfg)
	}
	if cfg.Client.BaseURL != "http://localhost:3000" || cfg.Client.RequestTimeout != 10*time.Second {
		t.Fatalf("unexpected client defaults: %+v", cfg.Client)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PUNCHLIST_SERVER_ADDR", ":8081")
	t.Setenv("PUNCHLIST_STORE_PATH", "/tmp/tasks.db")
	t.Setenv("PUNCHLIST_CLIENT_BASE_URL", "http://tasks.internal:8081")
	t.Setenv("PUNCHLIST_CLIENT_REQUEST_TIMEOUT", "3s")
	t.Setenv("PUNCHLIST_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8081" || cfg.Store.Path != "/tmp/tasks.db" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Client.BaseURL != "http://tasks.internal:8081" || cfg.Client.RequestTimeout != 3*time.Second {
		t.Fatalf("client env overrides not applied: %+v", cfg.Client)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level override not applied: %+v", cfg.Log)
	}
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchlist.yaml")
	body := []byte("server:\n  addr: \":9000\"\nlog:\n  level: warn\n  format: text\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PUNCHLIST_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Log.Format != "text" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Log.Level != "error" {
		t.Fatalf("expected env to win over file, got %q", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsRelativeBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Client.BaseURL = "localhost:3000/api"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected base url validation error")
	}
}
