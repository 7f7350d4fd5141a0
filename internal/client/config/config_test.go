package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, 15*time.Second, c.ClipboardDelay)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "default.db", filepath.Base(c.ProfilePath))
	assert.NoError(t, c.Validate())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_url":      "https://file.example",
		"clipboard_delay": "30s",
	})
	t.Setenv("PASSVAULT_SERVER_URL", "https://env.example")
	t.Setenv("PASSVAULT_REQUEST_TIMEOUT", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.ClipboardDelay)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("PASSVAULT_CLIPBOARD_DELAY", "soon")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no server", mutate: func(c *Config) { c.ServerURL = "" }},
		{name: "no profile", mutate: func(c *Config) { c.ProfilePath = "" }},
		{name: "zero delay", mutate: func(c *Config) { c.ClipboardDelay = 0 }},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestMain(m *testing.M) {
	for _, k := range []string{"PASSVAULT_SERVER_URL", "PASSVAULT_PROFILE_PATH", "PASSVAULT_CLIPBOARD_DELAY", "PASSVAULT_REQUEST_TIMEOUT", "PASSVAULT_VERBOSE"} {
		_ = os.Unsetenv(k)
	}
	os.Exit(m.Run())
}
