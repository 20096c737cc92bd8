package platform

import (
	"context"
	"fmt"
	"sync/atomic"

	"guild-janitor/model"

	"github.com/bwmarrin/discordgo"
)

// Discord implements Client on top of a discordgo session. The session can be
// swapped at runtime when the bot is restarted with a new token.
type Discord struct {
	session atomic.Pointer[discordgo.Session]
}

func NewDiscord() *Discord {
	return &Discord{}
}

// Attach makes s the session used for all subsequent calls. A nil session
// detaches and makes every call fail with ErrNotConnected.
func (d *Discord) Attach(s *discordgo.Session) {
	d.session.Store(s)
}

func (d *Discord) get() (*discordgo.Session, error) {
	s := d.session.Load()
	if s == nil {
		return nil, ErrNotConnected
	}
	return s, nil
}

func (d *Discord) Guilds(ctx context.Context) ([]model.Guild, error) {
	s, err := d.get()
	if err != nil {
		return nil, err
	}

	if s.StateEnabled && s.State != nil {
		s.State.RLock()
		guilds := make([]model.Guild, 0, len(s.State.Guilds))
		for _, g := range s.State.Guilds {
			if g.Unavailable {
				continue
			}
			guilds = append(guilds, guildFromDiscord(g))
		}
		s.State.RUnlock()
		if len(guilds) > 0 {
			return guilds, nil
		}
	}

	userGuilds, err := s.UserGuilds(200, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guilds: %w", err)
	}
	guilds := make([]model.Guild, 0, len(userGuilds))
	for _, ug := range userGuilds {
		g, err := s.Guild(ug.ID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch guild %s: %w", ug.ID, err)
		}
		guilds = append(guilds, guildFromDiscord(g))
	}
	return guilds, nil
}

func (d *Discord) Channels(ctx context.Context, guildID string) ([]model.Channel, error) {
	s, err := d.get()
	if err != nil {
		return nil, err
	}
	raw, err := s.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channels: %w", err)
	}
	channels := make([]model.Channel, 0, len(raw))
	for _, c := range raw {
		channels = append(channels, channelFromDiscord(guildID, c))
	}
	return channels, nil
}

func (d *Discord) Roles(ctx context.Context, guildID string) ([]model.Role, error) {
	s, err := d.get()
	if err != nil {
		return nil, err
	}
	raw, err := s.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	roles := make([]model.Role, 0, len(raw))
	for _, r := range raw {
		roles = append(roles, roleFromDiscord(guildID, r))
	}
	return roles, nil
}

func (d *Discord) DeleteChannel(ctx context.Context, channelID string) error {
	s, err := d.get()
	if err != nil {
		return err
	}
	_, err = s.ChannelDelete(channelID, discordgo.WithContext(ctx))
	return err
}

func (d *Discord) DeleteRole(ctx context.Context, guildID, roleID string) error {
	s, err := d.get()
	if err != nil {
		return err
	}
	return s.GuildRoleDelete(guildID, roleID, discordgo.WithContext(ctx))
}

func (d *Discord) Messages(ctx context.Context, channelID string, limit int) ([]model.Message, error) {
	s, err := d.get()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxMessagesPerFetch {
		limit = MaxMessagesPerFetch
	}
	raw, err := s.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	messages := make([]model.Message, 0, len(raw))
	for _, m := range raw {
		messages = append(messages, messageFromDiscord(m))
	}
	return messages, nil
}

// BulkDeleteMessages deletes up to 100 messages younger than 14 days in one
// request. discordgo falls back to a single delete for one id.
func (d *Discord) BulkDeleteMessages(ctx context.Context, channelID string, messageIDs []string) error {
	s, err := d.get()
	if err != nil {
		return err
	}
	if len(messageIDs) == 0 {
		return nil
	}
	return s.ChannelMessagesBulkDelete(channelID, messageIDs, discordgo.WithContext(ctx))
}

func (d *Discord) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	s, err := d.get()
	if err != nil {
		return err
	}
	return s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}
