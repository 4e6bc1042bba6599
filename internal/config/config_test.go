package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/adcraft/internal/config"
	"github.com/unclebandit/adcraft/internal/db"
)

// clearEnv blanks the variables Load reads; empty values are ignored.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "AI_PROVIDER", "STORAGE_DRIVER", "GENERATE_RATE_PER_MIN"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, config.StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Generate.RatePerMinute)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
ai:
  provider: openai
  model: gpt-4o-mini
storage:
  driver: postgres
  db_name: adcraft
generate:
  rate_per_minute: 3
`), 0o600))

	t.Setenv("AI_API_KEY", "secret")
	t.Setenv("PORT", "7070")
	t.Setenv("GENERATE_RATE_PER_MIN", "0")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port, "env wins over file")
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, 0, cfg.Generate.RatePerMinute)

	driver, dsn := cfg.DSN()
	assert.Equal(t, db.DriverPostgres, driver)
	assert.Contains(t, dsn, "/adcraft?sslmode=disable")

	settings := cfg.LLMSettings()
	assert.Equal(t, "gpt-4o-mini", settings.Model)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("AI_PROVIDER", "clippy")
	_, err := config.Load("")
	assert.Error(t, err)
}

func TestLoadRejectsBadNumber(t *testing.T) {
	t.Setenv("GENERATE_RATE_PER_MIN", "lots")
	_, err := config.Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "redis"
	assert.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.Storage.Driver = config.StoragePostgres
	assert.Error(t, cfg.Validate(), "postgres needs a database name")

	cfg = config.Default()
	cfg.Storage.Driver = config.StorageMemory
	driver, dsn := cfg.DSN()
	assert.Empty(t, driver)
	assert.Empty(t, dsn)
}
