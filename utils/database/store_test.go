package database

import (
	"path/filepath"
	"testing"
	"time"

	"guild-janitor/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemStore(),
		"sqlite": sqlite,
	}
}

func TestStoreGuildsAndChannels(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			g, err := s.GetGuild("1")
			require.NoError(t, err)
			assert.Nil(t, g)

			require.NoError(t, s.CreateGuild(model.Guild{ID: "1", Name: "Alpha", OwnerID: "9"}))
			require.NoError(t, s.UpdateGuild(model.Guild{ID: "1", Name: "Alpha 2", OwnerID: "9"}))
			g, err = s.GetGuild("1")
			require.NoError(t, err)
			require.NotNil(t, g)
			assert.Equal(t, "Alpha 2", g.Name)

			require.NoError(t, s.CreateChannel(model.Channel{ID: "c2", GuildID: "1", Name: "voice", Type: model.ChannelTypeVoice, Position: 2}))
			require.NoError(t, s.CreateChannel(model.Channel{ID: "c1", GuildID: "1", Name: "general", Type: model.ChannelTypeText, Position: 1, ParentID: "cat"}))
			require.NoError(t, s.CreateChannel(model.Channel{ID: "x", GuildID: "2", Name: "other", Type: model.ChannelTypeText}))

			channels, err := s.ListChannels("1")
			require.NoError(t, err)
			require.Len(t, channels, 2)
			assert.Equal(t, "c1", channels[0].ID)
			assert.Equal(t, "cat", channels[0].ParentID)
			assert.Equal(t, model.ChannelTypeVoice, channels[1].Type)

			require.NoError(t, s.DeleteChannel("c1"))
			c, err := s.GetChannel("c1")
			require.NoError(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestStoreRolesOrderedByPosition(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.CreateRole(model.Role{ID: "r1", GuildID: "1", Name: "low", Position: 1}))
			require.NoError(t, s.CreateRole(model.Role{ID: "r2", GuildID: "1", Name: "high", Position: 20, Hoist: true, Color: 0xff0000}))

			roles, err := s.ListRoles("1")
			require.NoError(t, err)
			require.Len(t, roles, 2)
			assert.Equal(t, "r2", roles[0].ID)
			assert.True(t, roles[0].Hoist)
			assert.Equal(t, 0xff0000, roles[0].Color)

			require.NoError(t, s.DeleteRole("r2"))
			r, err := s.GetRole("r2")
			require.NoError(t, err)
			assert.Nil(t, r)
		})
	}
}

func TestStoreLogs(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i, msg := range []string{"first", "second", "third"} {
				e, err := s.CreateLog(model.LogEntry{GuildID: "1", Severity: model.SeverityInfo, Message: msg, Timestamp: base.Add(time.Duration(i) * time.Second)})
				require.NoError(t, err)
				assert.NotZero(t, e.ID)
			}
			_, err := s.CreateLog(model.LogEntry{GuildID: "2", Severity: model.SeverityError, Message: "elsewhere", Timestamp: base})
			require.NoError(t, err)

			logs, err := s.ListLogs("1", 0)
			require.NoError(t, err)
			require.Len(t, logs, 3)
			assert.Equal(t, "third", logs[0].Message)
			assert.Equal(t, "first", logs[2].Message)
			assert.Greater(t, logs[0].ID, logs[1].ID)

			logs, err = s.ListLogs("1", 2)
			require.NoError(t, err)
			assert.Len(t, logs, 2)

			require.NoError(t, s.ClearLogs("1"))
			logs, err = s.ListLogs("1", 0)
			require.NoError(t, err)
			assert.Empty(t, logs)

			logs, err = s.ListLogs("2", 0)
			require.NoError(t, err)
			assert.Len(t, logs, 1)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "")
	assert.Error(t, err)
}
