package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v4"
)

func TestLoad_MissingConfig(t *testing.T) {
	t.Setenv("HABITS_CONFIG", "nonexistent.yaml")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}

func TestLoad_CustomConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	t.Setenv("HABITS_CONFIG", configFile)

	c := Config{}
	d, err := yaml.Marshal(&c)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(configFile, d, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal("error opening config:", err)
	}
	if cfg.Backend != BackendBolt {
		t.Errorf("expected default backend %q, got %q", BackendBolt, cfg.Backend)
	}
	if cfg.DBPath != "habits.db" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestLoad_FileValues(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
db_path: /tmp/h.sqlite
backend: sqlite
timezone: Europe/Dublin
log:
  level: debug
  format: json
reminders:
  poll_interval: 30s
`)
	if err := os.WriteFile(configFile, body, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFile(configFile)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.DBPath != "/tmp/h.sqlite" {
		t.Errorf("unexpected storage settings: %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log settings: %+v", cfg.Log)
	}
	d, err := cfg.PollInterval()
	if err != nil || d != 30*time.Second {
		t.Errorf("PollInterval = %v, %v; want 30s", d, err)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Dublin" {
		t.Errorf("Location = %v, %v", loc, err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("backend: bolt\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("HABITS_BACKEND", "memory")
	t.Setenv("HABITS_DB_PATH", "override.db")

	cfg, err := LoadFile(configFile)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Backend != BackendMemory || cfg.DBPath != "override.db" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("backend: postgres\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadFile(configFile); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:8080" {
		t.Errorf("expected default listen addr, got %q", cfg.ListenAddr)
	}
}
