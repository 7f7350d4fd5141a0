package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadJSON_OverlaysSetFields(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"http_addr":         "127.0.0.1:9090",
		"grpc_addr":         "",
		"database_dsn":      "mongodb://mongo:27017",
		"mongo_database":    "vault_test",
		"secret_key":        "my_secret_key",
		"session_validity":  "1h",
		"secure_cookie":     true,
		"login_rate":        2.5,
		"login_burst":       10,
		"trusted_proxies":   []string{"10.0.0.0/8"},
		"s3_bucket":         "bucket",
		"backup_url_expiry": "5m",
	})

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, loadJSON(cfg, path))

	assert.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.GRPCAddr)
	assert.Equal(t, "mongodb://mongo:27017", cfg.DatabaseDSN)
	assert.Equal(t, "vault_test", cfg.MongoDatabase)
	assert.Equal(t, "my_secret_key", cfg.SecretKey)
	assert.Equal(t, time.Hour, cfg.SessionValidity)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, 2.5, cfg.LoginRate)
	assert.Equal(t, 10, cfg.LoginBurst)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
	assert.Equal(t, "bucket", cfg.S3Bucket)
	assert.Equal(t, 5*time.Minute, cfg.BackupURLExpiry)

	// untouched
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadJSON_NumericDuration(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"session_validity": int64(2 * time.Hour)})

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, loadJSON(cfg, path))
	assert.Equal(t, 2*time.Hour, cfg.SessionValidity)
}

func TestLoadJSON_Errors(t *testing.T) {
	cfg := &Config{}

	err := loadJSON(cfg, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read config file")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	err = loadJSON(cfg, bad)
	assert.ErrorContains(t, err, "failed to parse config file")
}
