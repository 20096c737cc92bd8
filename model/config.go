package model

import "time"

// Config holds the runtime configuration of the bot and its dashboard API.
type Config struct {
	BotToken        string
	APIAddr         string
	StorageDriver   string
	StoragePath     string
	LogWebhookURL   string
	CommandGuildID  string
	CORSOrigins     []string
	WorkflowTimeout time.Duration
	SyncInterval    time.Duration
}

// APIEnabled reports whether the REST surface should be served.
func (c *Config) APIEnabled() bool {
	return c.APIAddr != ""
}
