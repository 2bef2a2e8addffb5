package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/careerwatch/internal/adapter"
	"github.com/amishk599/careerwatch/internal/store"
)

// Config is the root configuration for careerwatch.
type Config struct {
	State        StateConfig
	HTTP         HTTPConfig
	Sources      SourcesConfig
	Filters      FilterConfig
	Notification NotificationConfig
	Email        EmailConfig
}

// StateConfig controls where seen identifiers are persisted.
type StateConfig struct {
	Path    string // state file (json) or database (sqlite)
	Backend string // "json" or "sqlite"
}

// HTTPConfig controls the client shared by all sources.
type HTTPConfig struct {
	Timeout time.Duration
}

// SourceConfig describes a single career page to poll.
type SourceConfig struct {
	URL     string
	Enabled bool
}

// SourcesConfig holds the fixed set of sources.
type SourcesConfig struct {
	Netflix  SourceConfig
	Wrapbook SourceConfig
}

// FilterConfig holds optional keyword and location filters. Empty lists
// match everything.
type FilterConfig struct {
	TitleKeywords []string `yaml:"title_keywords"`
	Locations     []string `yaml:"locations"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "email", "slack" or "log"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// EmailConfig holds non-secret email options. SMTP credentials come from the
// environment, see SMTPFromEnv.
type EmailConfig struct {
	KeyringAccount string `yaml:"keyring_account"` // optional password fallback
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	defaultSQLitePath  = "data/seen.db"
	defaultHTTPTimeout = 30 * time.Second
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	State struct {
		Path    string `yaml:"path"`
		Backend string `yaml:"backend"`
	} `yaml:"state"`
	HTTP struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"http"`
	Sources struct {
		Netflix  rawSourceConfig `yaml:"netflix"`
		Wrapbook rawSourceConfig `yaml:"wrapbook"`
	} `yaml:"sources"`
	Filters      FilterConfig       `yaml:"filters"`
	Notification NotificationConfig `yaml:"notification"`
	Email        EmailConfig        `yaml:"email"`
}

type rawSourceConfig struct {
	URL     string `yaml:"url"`
	Enabled *bool  `yaml:"enabled"` // nil means enabled
}

func (r rawSourceConfig) resolve(defaultURL string) SourceConfig {
	sc := SourceConfig{URL: r.URL, Enabled: true}
	if sc.URL == "" {
		sc.URL = defaultURL
	}
	if r.Enabled != nil {
		sc.Enabled = *r.Enabled
	}
	return sc
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg, _ := build(rawConfig{})
	return cfg
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return build(raw)
}

// LoadOrDefault behaves like Load but falls back to Default when path does
// not exist and was not explicitly requested.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	return Load(path)
}

// LoadDotEnv loads each env file that exists. Variables already set in the
// process environment are never overridden, so earlier files win over later
// ones. It returns the files that were loaded.
func LoadDotEnv(paths ...string) []string {
	var loaded []string
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			loaded = append(loaded, p)
		}
	}
	return loaded
}

func build(raw rawConfig) (*Config, error) {
	timeout := defaultHTTPTimeout
	if raw.HTTP.Timeout != "" {
		var err error
		timeout, err = time.ParseDuration(raw.HTTP.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse http.timeout %q: %w", raw.HTTP.Timeout, err)
		}
	}

	backend := strings.ToLower(strings.TrimSpace(raw.State.Backend))
	if backend == "" {
		backend = BackendJSON
	}
	statePath := raw.State.Path
	if statePath == "" {
		statePath = store.DefaultStatePath
		if backend == BackendSQLite {
			statePath = defaultSQLitePath
		}
	}

	notification := raw.Notification
	notification.Type = strings.ToLower(strings.TrimSpace(notification.Type))
	if notification.Type == "" {
		notification.Type = "email"
	}

	cfg := &Config{
		State: StateConfig{Path: statePath, Backend: backend},
		HTTP:  HTTPConfig{Timeout: timeout},
		Sources: SourcesConfig{
			Netflix:  raw.Sources.Netflix.resolve(adapter.DefaultNetflixURL),
			Wrapbook: raw.Sources.Wrapbook.resolve(adapter.DefaultWrapbookURL),
		},
		Filters:      raw.Filters,
		Notification: notification,
		Email:        raw.Email,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.State.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("state.backend must be %q or %q, got %q", BackendJSON, BackendSQLite, cfg.State.Backend)
	}

	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %v", cfg.HTTP.Timeout)
	}

	if !cfg.Sources.Netflix.Enabled && !cfg.Sources.Wrapbook.Enabled {
		return fmt.Errorf("at least one source must be enabled")
	}

	switch cfg.Notification.Type {
	case "email", "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be email, slack or log, got %q", cfg.Notification.Type)
	}

	return nil
}
