package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Content.Source != "static" {
		t.Errorf("expected default content source 'static', got %q", cfg.Content.Source)
	}
	if cfg.Events.Enabled {
		t.Error("expected events to be disabled by default")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: "9090"
content:
  source: postgres
events:
  enabled: true
  url: nats://localhost:4222
  stream_name: LIVEQUIZ_EVENTS
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Content.Source != "postgres" {
		t.Errorf("expected content source 'postgres', got %q", cfg.Content.Source)
	}
	if !cfg.Events.Enabled || cfg.Events.URL != "nats://localhost:4222" {
		t.Errorf("unexpected events config %+v", cfg.Events)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("CONTENT_SOURCE", "postgres")
	t.Setenv("NATS_URL", "nats://broker:4222")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected env port 7070, got %q", cfg.Server.Port)
	}
	if cfg.Content.Source != "postgres" {
		t.Errorf("expected env content source 'postgres', got %q", cfg.Content.Source)
	}
	if cfg.Events.URL != "nats://broker:4222" {
		t.Errorf("expected env NATS URL, got %q", cfg.Events.URL)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
