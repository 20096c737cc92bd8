package defs

import "github.com/bwmarrin/discordgo"

var (
	adminPerms          int64 = discordgo.PermissionAdministrator
	manageMessagesPerms int64 = discordgo.PermissionManageMessages
	guildOnly                 = false
	minAmount                 = 1.0
)

var DeleteChannels = &discordgo.ApplicationCommand{
	Name:                     "delete-channels",
	Description:              "Interactively choose channels to keep and delete all others",
	DefaultMemberPermissions: &adminPerms,
	DMPermission:             &guildOnly,
}

var DeleteRoles = &discordgo.ApplicationCommand{
	Name:                     "delete-roles",
	Description:              "Interactively choose roles to keep and delete all others",
	DefaultMemberPermissions: &adminPerms,
	DMPermission:             &guildOnly,
}

var Clear = &discordgo.ApplicationCommand{
	Name:                     "clear",
	Description:              "Bulk delete recent messages in this channel",
	DefaultMemberPermissions: &manageMessagesPerms,
	DMPermission:             &guildOnly,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "Number of messages to scan (1-100)",
			Required:    true,
			MinValue:    &minAmount,
			MaxValue:    100,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "Which messages to delete",
			Required:    false,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "All messages", Value: "all"},
				{Name: "User messages", Value: "user"},
				{Name: "Bot messages", Value: "bot"},
				{Name: "Non-system messages", Value: "non-system"},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "from",
			Description: "Only delete messages from this user",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "include_pinned",
			Description: "Also delete pinned messages (default: false)",
			Required:    false,
		},
	},
}
