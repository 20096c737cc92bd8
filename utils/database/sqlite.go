package database

import (
	"database/sql"
	"errors"
	"fmt"

	"guild-janitor/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a Store backed by a sqlite file.
type SQLiteStore struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS guilds (
	id TEXT NOT NULL PRIMARY KEY,
	name TEXT NOT NULL,
	icon TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS channels (
	id TEXT NOT NULL PRIMARY KEY,
	guild_id TEXT NOT NULL,
	name TEXT NOT NULL,
	type INTEGER NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	parent_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_channels_guild ON channels(guild_id);
CREATE TABLE IF NOT EXISTS roles (
	id TEXT NOT NULL PRIMARY KEY,
	guild_id TEXT NOT NULL,
	name TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	hoist BOOLEAN NOT NULL DEFAULT 0,
	color INTEGER NOT NULL DEFAULT 0,
	managed BOOLEAN NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_roles_guild ON roles(guild_id);
CREATE TABLE IF NOT EXISTS logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id TEXT NOT NULL,
	severity TEXT NOT NULL,
	message TEXT NOT NULL,
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_logs_guild ON logs(guild_id);`

// NewSQLiteStore opens path and makes sure every table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// sqlite serialises writers anyway; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetGuild(id string) (*model.Guild, error) {
	var g model.Guild
	err := s.db.Get(&g, `SELECT id, name, icon, owner_id FROM guilds WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}
	return &g, nil
}

func (s *SQLiteStore) ListGuilds() ([]model.Guild, error) {
	var guilds []model.Guild
	if err := s.db.Select(&guilds, `SELECT id, name, icon, owner_id FROM guilds ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	return guilds, nil
}

func (s *SQLiteStore) CreateGuild(g model.Guild) error {
	_, err := s.db.NamedExec(`INSERT OR REPLACE INTO guilds (id, name, icon, owner_id) VALUES (:id, :name, :icon, :owner_id)`, g)
	if err != nil {
		return fmt.Errorf("failed to create guild: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateGuild(g model.Guild) error {
	_, err := s.db.NamedExec(`UPDATE guilds SET name = :name, icon = :icon, owner_id = :owner_id WHERE id = :id`, g)
	if err != nil {
		return fmt.Errorf("failed to update guild: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetChannel(id string) (*model.Channel, error) {
	var c model.Channel
	err := s.db.Get(&c, `SELECT id, guild_id, name, type, position, parent_id FROM channels WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return &c, nil
}

func (s *SQLiteStore) ListChannels(guildID string) ([]model.Channel, error) {
	channels := []model.Channel{}
	err := s.db.Select(&channels, `SELECT id, guild_id, name, type, position, parent_id FROM channels WHERE guild_id = ? ORDER BY position, id`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

func (s *SQLiteStore) CreateChannel(c model.Channel) error {
	_, err := s.db.NamedExec(`INSERT OR REPLACE INTO channels (id, guild_id, name, type, position, parent_id)
		VALUES (:id, :guild_id, :name, :type, :position, :parent_id)`, c)
	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateChannel(c model.Channel) error {
	_, err := s.db.NamedExec(`UPDATE channels SET name = :name, type = :type, position = :position, parent_id = :parent_id WHERE id = :id`, c)
	if err != nil {
		return fmt.Errorf("failed to update channel: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteChannel(id string) error {
	if _, err := s.db.Exec(`DELETE FROM channels WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRole(id string) (*model.Role, error) {
	var r model.Role
	err := s.db.Get(&r, `SELECT id, guild_id, name, position, hoist, color, managed FROM roles WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &r, nil
}

func (s *SQLiteStore) ListRoles(guildID string) ([]model.Role, error) {
	roles := []model.Role{}
	err := s.db.Select(&roles, `SELECT id, guild_id, name, position, hoist, color, managed FROM roles WHERE guild_id = ? ORDER BY position DESC, id`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (s *SQLiteStore) CreateRole(r model.Role) error {
	_, err := s.db.NamedExec(`INSERT OR REPLACE INTO roles (id, guild_id, name, position, hoist, color, managed)
		VALUES (:id, :guild_id, :name, :position, :hoist, :color, :managed)`, r)
	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateRole(r model.Role) error {
	_, err := s.db.NamedExec(`UPDATE roles SET name = :name, position = :position, hoist = :hoist, color = :color, managed = :managed WHERE id = :id`, r)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteRole(id string) error {
	if _, err := s.db.Exec(`DELETE FROM roles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateLog(entry model.LogEntry) (model.LogEntry, error) {
	res, err := s.db.NamedExec(`INSERT INTO logs (guild_id, severity, message, timestamp) VALUES (:guild_id, :severity, :message, :timestamp)`, entry)
	if err != nil {
		return entry, fmt.Errorf("failed to create log entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return entry, fmt.Errorf("failed to read log entry id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

func (s *SQLiteStore) ListLogs(guildID string, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	entries := []model.LogEntry{}
	err := s.db.Select(&entries, `SELECT id, guild_id, severity, message, timestamp FROM logs WHERE guild_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) ClearLogs(guildID string) error {
	if _, err := s.db.Exec(`DELETE FROM logs WHERE guild_id = ?`, guildID); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
