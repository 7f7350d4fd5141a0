package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime settings for the passvault CLI.
type Config struct {
	ServerURL      string        `envconfig:"SERVER_URL"`
	ProfilePath    string        `envconfig:"PROFILE_PATH"`
	ClipboardDelay time.Duration `envconfig:"CLIPBOARD_DELAY"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	Verbose        bool          `envconfig:"VERBOSE"`
}

// DefaultProfilePath is ~/.passvault/default.db, or ./default.db when the
// home directory is unknown.
func DefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "default.db"
	}
	return filepath.Join(home, ".passvault", "default.db")
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.ProfilePath = DefaultProfilePath()
	c.ClipboardDelay = 15 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.Verbose = false
}

// Load builds a Config from defaults, the JSON file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := loadJSON(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("passvault", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	if c.ProfilePath == "" {
		return fmt.Errorf("profile path is required")
	}
	if c.ClipboardDelay <= 0 {
		return fmt.Errorf("clipboard delay must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}
