package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.Debug)
	assert.Contains(t, cfg.DatabaseURL, "postgres://")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configYAML := "PORT: \"6001\"\nTMDB_API_KEY: from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0o644))

	t.Setenv("TMDB_API_KEY", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "6001", cfg.ServerPort)
	assert.Equal(t, "from-env", cfg.TMDBAPIKey)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://x"}

	assert.NoError(t, cfg.ValidateWeb())
	assert.Error(t, cfg.ValidateBot(), "bot requires telegram token")

	cfg.TelegramBotToken = "token"
	assert.Error(t, cfg.ValidateBot(), "bot requires tmdb key")

	cfg.TMDBAPIKey = "key"
	assert.NoError(t, cfg.ValidateBot())

	cfg.DatabaseURL = ""
	assert.Error(t, cfg.ValidateWeb())
}
