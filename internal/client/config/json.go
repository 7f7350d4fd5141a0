package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/passvault/internal/timex"
)

// JsonConfig is the on-disk shape. Zero values leave the current setting
// alone.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	ProfilePath    string         `json:"profile_path"`
	ClipboardDelay timex.Duration `json:"clipboard_delay"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	Verbose        *bool          `json:"verbose"`
}

func loadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.ProfilePath != "" {
		cfg.ProfilePath = jc.ProfilePath
	}
	if jc.ClipboardDelay.Duration != 0 {
		cfg.ClipboardDelay = jc.ClipboardDelay.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
	return nil
}
