package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata"

	"go.yaml.in/yaml/v4"
)

const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	DefaultPath = "config.yaml"
)

type Config struct {
	DBPath     string         `yaml:"db_path"`
	Backend    string         `yaml:"backend"`
	ListenAddr string         `yaml:"listen_addr"`
	APIBaseURL string         `yaml:"api_base_url"`
	Timezone   string         `yaml:"timezone"`
	Log        LogConfig      `yaml:"log"`
	Reminders  ReminderConfig `yaml:"reminders"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ReminderConfig struct {
	PollInterval string `yaml:"poll_interval"`
	ResendAPIKey string `yaml:"resend_api_key"`
	NotifyEmail  string `yaml:"notify_email"`
	FromEmail    string `yaml:"from_email"`
}

func Default() *Config {
	return &Config{
		DBPath:     "habits.db",
		Backend:    BackendBolt,
		ListenAddr: "127.0.0.1:8080",
		APIBaseURL: "http://localhost:8080",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Reminders: ReminderConfig{
			PollInterval: "1m",
			FromEmail:    "onboarding@resend.dev",
		},
	}
}

// Load reads the file named by HABITS_CONFIG (config.yaml when unset). A
// missing file is an error.
func Load() (*Config, error) {
	return LoadFile(Path())
}

func Path() string {
	if p := os.Getenv("HABITS_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like LoadFile but falls back to defaults (plus env
// overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.DBPath, "HABITS_DB_PATH")
	set(&c.Backend, "HABITS_BACKEND")
	set(&c.ListenAddr, "HABITS_LISTEN")
	set(&c.APIBaseURL, "HABITS_API_BASE")
	set(&c.Timezone, "HABITS_TIMEZONE")
	set(&c.Log.Level, "HABITS_LOG_LEVEL")
	set(&c.Reminders.ResendAPIKey, "HABITS_RESEND_API_KEY")
	set(&c.Reminders.NotifyEmail, "HABITS_NOTIFY_EMAIL")
}

// fillDefaults restores defaults for keys an explicit file left empty.
func (c *Config) fillDefaults() {
	d := Default()
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = d.APIBaseURL
	}
	if c.Reminders.PollInterval == "" {
		c.Reminders.PollInterval = d.Reminders.PollInterval
	}
	if c.Reminders.FromEmail == "" {
		c.Reminders.FromEmail = d.Reminders.FromEmail
	}
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendBolt, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("config.backend must be one of bolt, sqlite, memory; got %q", c.Backend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.PollInterval(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; empty means the host's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config.timezone: %w", err)
	}
	return loc, nil
}

func (c *Config) PollInterval() (time.Duration, error) {
	if c.Reminders.PollInterval == "" {
		return time.Minute, nil
	}
	d, err := time.ParseDuration(c.Reminders.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("config.reminders.poll_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config.reminders.poll_interval must be positive")
	}
	return d, nil
}
