package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "memory://"
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func TestNewApp_UnsupportedBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.DatabaseDSN = "redis://localhost"

	_, err := NewApp(context.Background(), cfg, logging.Nop{})
	assert.ErrorContains(t, err, "db init error")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestRun_FailsOnBadAddress(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = "127.0.0.1:99999"
	cfg.GRPCAddr = ""

	app, err := NewApp(context.Background(), cfg, logging.Nop{})
	require.NoError(t, err)

	err = app.Run(context.Background())
	assert.ErrorContains(t, err, "http server")
}
