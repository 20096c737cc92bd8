package engine

import (
	"context"
	"fmt"
	"testing"

	"guild-janitor/model"
	"guild-janitor/platform/platformtest"
	"guild-janitor/scanner"
	"guild-janitor/utils/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guildID = "100"

func newEngine(fake *platformtest.Fake) (*Engine, *database.MemStore) {
	store := database.NewMemStore()
	syncer := scanner.NewSyncer(fake, store)
	return New(fake, syncer, NewJournal(store, nil)), store
}

func logMessages(t *testing.T, store database.Store) []string {
	t.Helper()
	entries, err := store.ListLogs(guildID, 0)
	require.NoError(t, err)
	msgs := make([]string, len(entries))
	// ListLogs is newest first; flip to emission order
	for i, e := range entries {
		msgs[len(entries)-1-i] = string(e.Severity) + " " + e.Message
	}
	return msgs
}

func TestDeleteChannelsKeepsOnlyKeepSet(t *testing.T) {
	fake := platformtest.New()
	channels := make([]model.Channel, 0, 30)
	for i := 0; i < 30; i++ {
		channels = append(channels, model.Channel{ID: fmt.Sprintf("c%02d", i), GuildID: guildID, Name: fmt.Sprintf("chan-%d", i), Type: model.ChannelTypeText})
	}
	fake.ChannelList[guildID] = channels
	fake.FailChannels["c05"] = true
	e, _ := newEngine(fake)

	result := e.DeleteChannels(context.Background(), guildID, []string{"c00"})

	assert.True(t, result.Success)
	assert.Equal(t, 29, result.PlanSize)
	assert.Equal(t, 28, result.DeletedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, result.PlanSize, result.DeletedCount+result.FailedCount)
	assert.NotContains(t, fake.DeletedChannels, "c00")
}

func TestDeleteChannelsSkipsUnmanageableTypes(t *testing.T) {
	fake := platformtest.New()
	fake.ChannelList[guildID] = []model.Channel{
		{ID: "keep", GuildID: guildID, Name: "keep", Type: model.ChannelTypeText},
		{ID: "cat", GuildID: guildID, Name: "Stuff", Type: model.ChannelTypeCategory},
		{ID: "thread", GuildID: guildID, Name: "thread", Type: model.ChannelTypeOther},
	}
	e, store := newEngine(fake)

	result := e.DeleteChannels(context.Background(), guildID, []string{"keep"})

	assert.Equal(t, 1, result.PlanSize)
	assert.Equal(t, []string{"cat"}, fake.DeletedChannels)
	assert.Equal(t, []string{
		"INFO Starting channel deletion operation...",
		"INFO Found 1 channels to delete out of 3 total channels.",
		"INFO Deleting channel: Stuff (cat)...",
		"SUCCESS Deleted channel: Stuff (cat)",
		"SUCCESS Successfully deleted 1 channels. Failed to delete 0 channels.",
	}, logMessages(t, store))

	// resync after deletion leaves only the surviving manageable channel
	cached, err := store.ListChannels(guildID)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "keep", cached[0].ID)
}

func TestDeleteChannelsAllFailuresLogsWarning(t *testing.T) {
	fake := platformtest.New()
	fake.ChannelList[guildID] = []model.Channel{
		{ID: "a", GuildID: guildID, Name: "a", Type: model.ChannelTypeText},
	}
	fake.FailChannels["a"] = true
	e, store := newEngine(fake)

	result := e.DeleteChannels(context.Background(), guildID, nil)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.DeletedCount)
	assert.Equal(t, 1, result.FailedCount)
	msgs := logMessages(t, store)
	assert.Equal(t, "ERROR Failed to delete channel a (a): missing permissions", msgs[3])
	assert.Equal(t, "WARNING No channels were deleted. Failed to delete 1 channels.", msgs[4])
}

func TestDeleteChannelsFetchFailure(t *testing.T) {
	fake := platformtest.New()
	fake.FailFetchChannels = true
	e, store := newEngine(fake)

	result := e.DeleteChannels(context.Background(), guildID, nil)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.DeletedCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Contains(t, result.Error, "unreachable")
	msgs := logMessages(t, store)
	require.Len(t, msgs, 2)
	assert.Equal(t, "ERROR Channel deletion operation failed: guild 100 unreachable", msgs[1])
}

func TestDeleteRolesNeverTouchesEveryoneOrManaged(t *testing.T) {
	fake := platformtest.New()
	fake.RoleList[guildID] = []model.Role{
		{ID: guildID, GuildID: guildID, Name: "@everyone"},
		{ID: "bot", GuildID: guildID, Name: "Some Bot", Managed: true, Position: 9},
		{ID: "r1", GuildID: guildID, Name: "One", Position: 1},
		{ID: "r2", GuildID: guildID, Name: "Two", Position: 2},
		{ID: "r3", GuildID: guildID, Name: "Three", Position: 3},
	}
	e, _ := newEngine(fake)

	result := e.DeleteRoles(context.Background(), guildID, nil)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.PlanSize)
	assert.Equal(t, 3, result.DeletedCount)
	assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, fake.DeletedRoles)
}

func TestDeleteRolesRespectsKeepSet(t *testing.T) {
	fake := platformtest.New()
	fake.RoleList[guildID] = []model.Role{
		{ID: guildID, GuildID: guildID, Name: "@everyone"},
		{ID: "r1", GuildID: guildID, Name: "One", Position: 1},
		{ID: "r2", GuildID: guildID, Name: "Two", Position: 2},
	}
	e, store := newEngine(fake)

	result := e.DeleteRoles(context.Background(), guildID, []string{"r2", guildID})

	assert.Equal(t, 1, result.PlanSize)
	assert.Equal(t, []string{"r1"}, fake.DeletedRoles)
	msgs := logMessages(t, store)
	assert.Equal(t, "INFO Starting role deletion operation...", msgs[0])
	assert.Equal(t, "INFO Found 1 roles to delete out of 3 total roles.", msgs[1])
}
