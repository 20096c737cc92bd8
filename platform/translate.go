package platform

import (
	"guild-janitor/model"

	"github.com/bwmarrin/discordgo"
)

func guildFromDiscord(g *discordgo.Guild) model.Guild {
	return model.Guild{
		ID:      g.ID,
		Name:    g.Name,
		Icon:    g.Icon,
		OwnerID: g.OwnerID,
	}
}

// ChannelTypeFromDiscord narrows a discordgo channel type. Threads, DMs and
// stage channels all collapse to ChannelTypeOther.
func ChannelTypeFromDiscord(t discordgo.ChannelType) model.ChannelType {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return model.ChannelTypeText
	case discordgo.ChannelTypeGuildVoice:
		return model.ChannelTypeVoice
	case discordgo.ChannelTypeGuildCategory:
		return model.ChannelTypeCategory
	case discordgo.ChannelTypeGuildNews:
		return model.ChannelTypeAnnouncement
	case discordgo.ChannelTypeGuildForum:
		return model.ChannelTypeForum
	default:
		return model.ChannelTypeOther
	}
}

func channelFromDiscord(guildID string, c *discordgo.Channel) model.Channel {
	if c.GuildID != "" {
		guildID = c.GuildID
	}
	return model.Channel{
		ID:       c.ID,
		GuildID:  guildID,
		Name:     c.Name,
		Type:     ChannelTypeFromDiscord(c.Type),
		Position: c.Position,
		ParentID: c.ParentID,
	}
}

func roleFromDiscord(guildID string, r *discordgo.Role) model.Role {
	return model.Role{
		ID:       r.ID,
		GuildID:  guildID,
		Name:     r.Name,
		Position: r.Position,
		Hoist:    r.Hoist,
		Color:    r.Color,
		Managed:  r.Managed,
	}
}

// isSystemMessage reports whether a message was generated by Discord rather
// than typed by an author or sent by an application command.
func isSystemMessage(t discordgo.MessageType) bool {
	switch t {
	case discordgo.MessageTypeDefault, discordgo.MessageTypeReply, discordgo.MessageTypeChatInputCommand, discordgo.MessageTypeContextMenuCommand:
		return false
	default:
		return true
	}
}

func messageFromDiscord(m *discordgo.Message) model.Message {
	msg := model.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		System:    isSystemMessage(m.Type),
		Pinned:    m.Pinned,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorBot = m.Author.Bot
	}
	return msg
}
