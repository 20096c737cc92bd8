// Package platformtest provides an in-memory platform.Client for tests.
package platformtest

import (
	"context"
	"fmt"
	"sync"

	"guild-janitor/model"
	"guild-janitor/platform"
)

var _ platform.Client = (*Fake)(nil)

// Fake is a platform.Client backed by maps. Fail* maps make the matching
// call return an error for that id.
type Fake struct {
	mu sync.Mutex

	GuildList   []model.Guild
	ChannelList map[string][]model.Channel
	RoleList    map[string][]model.Role
	MessageList map[string][]model.Message

	FailChannels      map[string]bool
	FailRoles         map[string]bool
	FailMessages      map[string]bool
	FailFetchChannels bool
	FailFetchRoles    bool
	FailFetchMessages bool
	FailBulkDelete    bool

	DeletedChannels []string
	DeletedRoles    []string
	BulkDeleted     [][]string
	SingleDeleted   []string
}

func New() *Fake {
	return &Fake{
		ChannelList:  make(map[string][]model.Channel),
		RoleList:     make(map[string][]model.Role),
		MessageList:  make(map[string][]model.Message),
		FailChannels: make(map[string]bool),
		FailRoles:    make(map[string]bool),
		FailMessages: make(map[string]bool),
	}
}

func (f *Fake) Guilds(ctx context.Context) ([]model.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Guild(nil), f.GuildList...), nil
}

func (f *Fake) Channels(ctx context.Context, guildID string) ([]model.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailFetchChannels {
		return nil, fmt.Errorf("guild %s unreachable", guildID)
	}
	return append([]model.Channel(nil), f.ChannelList[guildID]...), nil
}

func (f *Fake) Roles(ctx context.Context, guildID string) ([]model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailFetchRoles {
		return nil, fmt.Errorf("guild %s unreachable", guildID)
	}
	return append([]model.Role(nil), f.RoleList[guildID]...), nil
}

func (f *Fake) DeleteChannel(ctx context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailChannels[channelID] {
		return fmt.Errorf("missing permissions")
	}
	for guildID, list := range f.ChannelList {
		for i, c := range list {
			if c.ID == channelID {
				f.ChannelList[guildID] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
	f.DeletedChannels = append(f.DeletedChannels, channelID)
	return nil
}

func (f *Fake) DeleteRole(ctx context.Context, guildID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailRoles[roleID] {
		return fmt.Errorf("missing permissions")
	}
	list := f.RoleList[guildID]
	for i, r := range list {
		if r.ID == roleID {
			f.RoleList[guildID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	f.DeletedRoles = append(f.DeletedRoles, roleID)
	return nil
}

func (f *Fake) Messages(ctx context.Context, channelID string, limit int) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailFetchMessages {
		return nil, fmt.Errorf("unknown channel")
	}
	list := f.MessageList[channelID]
	if limit < len(list) {
		list = list[:limit]
	}
	return append([]model.Message(nil), list...), nil
}

func (f *Fake) BulkDeleteMessages(ctx context.Context, channelID string, messageIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailBulkDelete {
		return fmt.Errorf("bulk delete rejected")
	}
	f.BulkDeleted = append(f.BulkDeleted, append([]string(nil), messageIDs...))
	return nil
}

func (f *Fake) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailMessages[messageID] {
		return fmt.Errorf("unknown message")
	}
	f.SingleDeleted = append(f.SingleDeleted, messageID)
	return nil
}
