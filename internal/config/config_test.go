package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ModeOffline, cfg.Mode)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "sql", cfg.CacheDriver)
	require.Equal(t, 30*time.Second, cfg.RelayTimeout)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins())
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MODE", "online")
	t.Setenv("CACHE_DRIVER", "Redis")
	t.Setenv("RELAY_URL", "http://relay.test:3001/")
	t.Setenv("RELAY_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.test , ,https://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ModeOnline, cfg.Mode)
	require.Equal(t, "redis", cfg.CacheDriver)
	require.Equal(t, "http://relay.test:3001", cfg.RelayURL)
	require.Equal(t, 5*time.Second, cfg.RelayTimeout)
	require.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
