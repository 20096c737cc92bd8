package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"DISCORD_BOT_TOKEN", "BOT_TOKEN", "API_ADDR", "STORAGE_DRIVER", "STORAGE_PATH",
	"LOG_WEBHOOK_URL", "COMMAND_GUILD_ID", "CORS_ORIGINS", "WORKFLOW_TIMEOUT", "SYNC_INTERVAL",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "token")

	cfg, err := Load(missingEnvFile(t), "")
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.BotToken)
	assert.Equal(t, ":5000", cfg.APIAddr)
	assert.True(t, cfg.APIEnabled())
	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, "data/cache.db", cfg.StoragePath)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.WorkflowTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SyncInterval)
	assert.Empty(t, cfg.CommandGuildID)
}

func TestLoadMissingToken(t *testing.T) {
	clearEnv(t)

	_, err := Load(missingEnvFile(t), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestLoadLegacyTokenVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "legacy")

	cfg, err := Load(missingEnvFile(t), "")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.BotToken)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DISCORD_BOT_TOKEN=from-file\nCORS_ORIGINS=http://a.example, http://b.example\n"), 0o600))
	// godotenv sets real process variables; drop them afterwards.
	t.Cleanup(func() {
		os.Unsetenv("DISCORD_BOT_TOKEN")
		os.Unsetenv("CORS_ORIGINS")
	})

	cfg, err := Load(envFile, "")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.BotToken)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "bot_token: yaml-token\nstorage_driver: sqlite\nstorage_path: /tmp/janitor.db\nworkflow_timeout: 90s\napi_addr: \":8080\"\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("API_ADDR", ":9090")

	cfg, err := Load(missingEnvFile(t), path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-token", cfg.BotToken)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, "/tmp/janitor.db", cfg.StoragePath)
	assert.Equal(t, 90*time.Second, cfg.WorkflowTimeout)
	assert.Equal(t, ":9090", cfg.APIAddr)
}

func TestLoadEmptyAPIAddrDisablesAPI(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("API_ADDR", "")

	cfg, err := Load(missingEnvFile(t), "")
	require.NoError(t, err)
	assert.False(t, cfg.APIEnabled())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := Load(missingEnvFile(t), "")
	assert.Error(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "token")

	_, err := Load(missingEnvFile(t), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadSyncIntervalZeroDisables(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("SYNC_INTERVAL", "0s")

	cfg, err := Load(missingEnvFile(t), "")
	require.NoError(t, err)
	assert.Zero(t, cfg.SyncInterval)
}
