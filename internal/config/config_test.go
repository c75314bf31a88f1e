package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "combo_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "absent.yaml"), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
  allowed_origins: ["http://localhost:5173"]
catalog:
  dir: ./content
database:
  path: /tmp/runs.db
log:
  level: debug
  file: /tmp/combo.log
game:
  seed: 42
  run_idle_timeout: 30m
`)
	cfg, err := load(path, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "./content", cfg.Catalog.Dir)
	assert.Equal(t, "/tmp/runs.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/combo.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB, "unset keys keep defaults")
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, 30*time.Minute, cfg.Game.RunIdleTimeout)
	assert.Equal(t, time.Minute, cfg.Game.SweepInterval)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  address: \":9090\"\n")
	cfg, err := load(path, map[string]string{
		"COMBO_SERVER_ADDRESS":         ":7000",
		"COMBO_SERVER_ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"COMBO_DATABASE_PATH":          "env.db",
		"COMBO_GAME_SEED":              "7",
		"COMBO_GAME_RUN_IDLE_TIMEOUT":  "5m",
		"COMBO_LOG_LEVEL":              "warn",
	})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "env.db", cfg.Database.Path)
	assert.Equal(t, int64(7), cfg.Game.Seed)
	assert.Equal(t, 5*time.Minute, cfg.Game.RunIdleTimeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		env  map[string]string
	}{
		"bad yaml":       {body: "server: [", env: map[string]string{}},
		"empty address":  {body: "server:\n  address: \" \"\n", env: map[string]string{}},
		"empty db path":  {body: "database:\n  path: \"\"\n", env: map[string]string{}},
		"bad level":      {body: "log:\n  level: loud\n", env: map[string]string{}},
		"negative buf":   {body: "server:\n  stream_buffer: -1\n", env: map[string]string{}},
		"bad env number": {body: "", env: map[string]string{"COMBO_GAME_SEED": "abc"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(writeConfig(t, tc.body), tc.env)
			assert.Error(t, err)
		})
	}
}

func TestIsOriginAllowed(t *testing.T) {
	same := ServerConfig{}
	assert.True(t, same.IsOriginAllowed("", "localhost:8080"))
	assert.True(t, same.IsOriginAllowed("http://localhost:8080/", "localhost:8080"))
	assert.False(t, same.IsOriginAllowed("http://evil.example", "localhost:8080"))

	listed := ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}}
	assert.True(t, listed.IsOriginAllowed("http://localhost:5173", "localhost:8080"))
	assert.False(t, listed.IsOriginAllowed("http://localhost:8080", "localhost:8080"))

	wildcard := ServerConfig{AllowedOrigins: []string{"*"}}
	assert.True(t, wildcard.IsOriginAllowed("http://anything", "localhost:8080"))
}
