package database

import (
	"sort"
	"sync"

	"guild-janitor/model"
)

// MemStore keeps everything in maps. Nothing survives a restart.
type MemStore struct {
	mu       sync.RWMutex
	guilds   map[string]model.Guild
	channels map[string]model.Channel
	roles    map[string]model.Role
	logs     []model.LogEntry
	nextLog  int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		guilds:   make(map[string]model.Guild),
		channels: make(map[string]model.Channel),
		roles:    make(map[string]model.Role),
		nextLog:  1,
	}
}

func (m *MemStore) GetGuild(id string) (*model.Guild, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.guilds[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *MemStore) ListGuilds() ([]model.Guild, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	guilds := make([]model.Guild, 0, len(m.guilds))
	for _, g := range m.guilds {
		guilds = append(guilds, g)
	}
	sort.Slice(guilds, func(i, j int) bool { return guilds[i].Name < guilds[j].Name })
	return guilds, nil
}

func (m *MemStore) CreateGuild(g model.Guild) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guilds[g.ID] = g
	return nil
}

func (m *MemStore) UpdateGuild(g model.Guild) error {
	return m.CreateGuild(g)
}

func (m *MemStore) GetChannel(id string) (*model.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.channels[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *MemStore) ListChannels(guildID string) ([]model.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	channels := make([]model.Channel, 0)
	for _, c := range m.channels {
		if c.GuildID == guildID {
			channels = append(channels, c)
		}
	}
	sort.Slice(channels, func(i, j int) bool {
		if channels[i].Position != channels[j].Position {
			return channels[i].Position < channels[j].Position
		}
		return channels[i].ID < channels[j].ID
	})
	return channels, nil
}

func (m *MemStore) CreateChannel(c model.Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[c.ID] = c
	return nil
}

func (m *MemStore) UpdateChannel(c model.Channel) error {
	return m.CreateChannel(c)
}

func (m *MemStore) DeleteChannel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.channels, id)
	return nil
}

func (m *MemStore) GetRole(id string) (*model.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MemStore) ListRoles(guildID string) ([]model.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roles := make([]model.Role, 0)
	for _, r := range m.roles {
		if r.GuildID == guildID {
			roles = append(roles, r)
		}
	}
	sort.Slice(roles, func(i, j int) bool {
		if roles[i].Position != roles[j].Position {
			return roles[i].Position > roles[j].Position
		}
		return roles[i].ID < roles[j].ID
	})
	return roles, nil
}

func (m *MemStore) CreateRole(r model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[r.ID] = r
	return nil
}

func (m *MemStore) UpdateRole(r model.Role) error {
	return m.CreateRole(r)
}

func (m *MemStore) DeleteRole(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles, id)
	return nil
}

func (m *MemStore) CreateLog(entry model.LogEntry) (model.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.nextLog
	m.nextLog++
	m.logs = append(m.logs, entry)
	return entry, nil
}

func (m *MemStore) ListLogs(guildID string, limit int) ([]model.LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]model.LogEntry, 0)
	// logs is append-only, so walking backwards yields newest first.
	for i := len(m.logs) - 1; i >= 0; i-- {
		if m.logs[i].GuildID != guildID {
			continue
		}
		entries = append(entries, m.logs[i])
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func (m *MemStore) ClearLogs(guildID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.logs[:0]
	for _, e := range m.logs {
		if e.GuildID != guildID {
			kept = append(kept, e)
		}
	}
	m.logs = kept
	return nil
}

func (m *MemStore) Close() error {
	return nil
}
