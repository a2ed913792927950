package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  env: development\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "development", cfg.App.Env)
	require.Equal(t, ":8080", cfg.Server.ListenAddr)
	require.Equal(t, "chat_session", cfg.Session.CookieName)
	require.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	require.Equal(t, 5, cfg.Chat.QueueLimit)
	require.Equal(t, 5000, cfg.Chat.MaxTextLength)
	require.Equal(t, 30*time.Second, cfg.Chat.PollTimeout)
	require.Equal(t, time.Second, cfg.Chat.PollInterval)
	require.EqualValues(t, 50*1024*1024, cfg.Upload.MaxSize)
	require.Equal(t, "/uploads/", cfg.Upload.URLPrefix)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
chat:
  queue_limit: 10
  poll_timeout: 5s
database:
  host: db.internal
  port: 3307
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 10, cfg.Chat.QueueLimit)
	require.Equal(t, 5*time.Second, cfg.Chat.PollTimeout)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, 3307, cfg.Database.Port)
}

func TestLoadRequiresPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
