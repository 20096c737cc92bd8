package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"guild-janitor/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingToken is returned when no bot token is configured.
var ErrMissingToken = errors.New("DISCORD_BOT_TOKEN environment variable not set")

const (
	defaultAPIAddr         = ":5000"
	defaultStorageDriver   = "memory"
	defaultStoragePath     = "data/cache.db"
	defaultWorkflowTimeout = 5 * time.Minute
	defaultSyncInterval    = 30 * time.Minute
)

// Load reads envFile into the environment, then resolves the configuration
// from the optional YAML configFile and environment variables, the latter
// taking precedence.
func Load(envFile, configFile string) (*model.Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	v := viper.New()
	v.SetDefault("api_addr", defaultAPIAddr)
	v.SetDefault("storage_driver", defaultStorageDriver)
	v.SetDefault("storage_path", defaultStoragePath)
	v.SetDefault("cors_origins", "*")
	v.SetDefault("workflow_timeout", defaultWorkflowTimeout)
	v.SetDefault("sync_interval", defaultSyncInterval)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("bot_token", "DISCORD_BOT_TOKEN", "BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind bot token: %w", err)
	}

	token := strings.TrimSpace(v.GetString("bot_token"))
	if token == "" {
		return nil, ErrMissingToken
	}

	driver := strings.ToLower(v.GetString("storage_driver"))
	if driver != "memory" && driver != "sqlite" {
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	timeout := v.GetDuration("workflow_timeout")
	if timeout <= 0 {
		log.Printf("Warning: Invalid WORKFLOW_TIMEOUT value, using default of %s", defaultWorkflowTimeout)
		timeout = defaultWorkflowTimeout
	}

	cfg := &model.Config{
		BotToken:        token,
		APIAddr:         v.GetString("api_addr"),
		StorageDriver:   driver,
		StoragePath:     v.GetString("storage_path"),
		LogWebhookURL:   v.GetString("log_webhook_url"),
		CommandGuildID:  v.GetString("command_guild_id"),
		CORSOrigins:     splitList(v.GetString("cors_origins")),
		WorkflowTimeout: timeout,
		SyncInterval:    v.GetDuration("sync_interval"),
	}

	if cfg.LogWebhookURL == "" {
		log.Println("Warning: LOG_WEBHOOK_URL not set, webhook logging will be disabled")
	}
	if !cfg.APIEnabled() {
		log.Println("Info: API_ADDR is empty, REST API disabled")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
