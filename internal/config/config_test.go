package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, DefaultDBPath(), cfg.Store.Path)
	assert.Equal(t, "sql", cfg.Notify.Center)
	assert.Equal(t, 20*time.Second, cfg.Dispatch.Tick)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Telegram.Token)
	assert.Empty(t, cfg.Slack.WebhookURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SMARTMEMO_STORE_PATH", "/tmp/memo.db")
	t.Setenv("SMARTMEMO_DISPATCH_TICK", "5s")
	t.Setenv("SMARTMEMO_LOG_LEVEL", "debug")
	t.Setenv("SMARTMEMO_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("SMARTMEMO_TELEGRAM_CHAT_ID", "42")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/memo.db", cfg.Store.Path)
	assert.Equal(t, 5*time.Second, cfg.Dispatch.Tick)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smartmemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  driver: memory
notify:
  center: memory
log:
  format: json
slack:
  webhook_url: https://hooks.slack.com/services/T000/B000/XXX
`), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.Notify.Center)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://hooks.slack.com/services/T000/B000/XXX", cfg.Slack.WebhookURL)
}

func TestOverridesWin(t *testing.T) {
	t.Setenv("SMARTMEMO_STORE_PATH", "/from/env.db")

	cfg, err := Load("", map[string]any{"store.path": "/from/flag.db"})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.db", cfg.Store.Path)
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"unknown driver", map[string]any{"store.driver": "mysql"}},
		{"postgres without dsn", map[string]any{"store.driver": "postgres"}},
		{"unknown center", map[string]any{"notify.center": "apns"}},
		{"tick too short", map[string]any{"dispatch.tick": "10ms"}},
		{"bad log level", map[string]any{"log.level": "verbose"}},
		{"bad log format", map[string]any{"log.format": "xml"}},
		{"telegram token without chat", map[string]any{"telegram.token": "123:abc"}},
		{"bad webhook url", map[string]any{"slack.webhook_url": "not a url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", tt.overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
