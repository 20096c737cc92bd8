package commands

import (
	"guild-janitor/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns every application command the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.DeleteChannels,
		defs.DeleteRoles,
		defs.Clear,
	}
}
