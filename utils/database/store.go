package database

import (
	"fmt"

	"guild-janitor/model"
)

// Store is the local mirror of remote guild state plus the operation log.
// Get* methods return (nil, nil) when the entity is absent.
type Store interface {
	GetGuild(id string) (*model.Guild, error)
	ListGuilds() ([]model.Guild, error)
	CreateGuild(g model.Guild) error
	UpdateGuild(g model.Guild) error

	GetChannel(id string) (*model.Channel, error)
	ListChannels(guildID string) ([]model.Channel, error)
	CreateChannel(c model.Channel) error
	UpdateChannel(c model.Channel) error
	DeleteChannel(id string) error

	GetRole(id string) (*model.Role, error)
	ListRoles(guildID string) ([]model.Role, error)
	CreateRole(r model.Role) error
	UpdateRole(r model.Role) error
	DeleteRole(id string) error

	// CreateLog assigns the next sequence id and returns the stored entry.
	CreateLog(entry model.LogEntry) (model.LogEntry, error)
	// ListLogs returns the newest entries first. limit <= 0 means no limit.
	ListLogs(guildID string, limit int) ([]model.LogEntry, error)
	ClearLogs(guildID string) error

	Close() error
}

// Open returns the store selected by driver ("memory" or "sqlite").
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemStore(), nil
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
