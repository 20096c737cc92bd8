package handlers

import (
	"guild-janitor/bot"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	b.OnSession(func(s *discordgo.Session) {
		addHandlers(s, b)
	})
}

// addHandlers wires gateway events. Deletions made outside the bot are evicted
// from the cache as they arrive.
func addHandlers(s *discordgo.Session, b *bot.Bot) {
	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
	s.AddHandler(func(s *discordgo.Session, c *discordgo.ChannelDelete) {
		b.Syncer.ForgetChannel(c.ID)
	})
	s.AddHandler(func(s *discordgo.Session, r *discordgo.GuildRoleDelete) {
		b.Syncer.ForgetRole(r.RoleID)
	})
}
