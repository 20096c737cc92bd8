package handlers

import (
	"context"
	"log"
	"time"

	"guild-janitor/bot"
	"guild-janitor/handlers/purge"
	"guild-janitor/model"
	"guild-janitor/utils"
	"guild-janitor/workflow"

	"github.com/bwmarrin/discordgo"
)

const (
	noPermissionMessage = "You do not have permission to use this command."
	fetchTimeout        = 30 * time.Second
)

type commandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"delete-channels": requirePermission(discordgo.PermissionAdministrator, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			handleDeleteChannels(s, i, b)
		}),
		"delete-roles": requirePermission(discordgo.PermissionAdministrator, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			handleDeleteRoles(s, i, b)
		}),
		"clear": requirePermission(discordgo.PermissionManageMessages, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			purge.Handle(s, i, b.Engine)
		}),
	}
}

// requirePermission rejects the interaction before any workflow state exists
// unless the member holds perm or Administrator.
func requirePermission(perm int64, next commandHandler) commandHandler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if !permitted(s, i.Interaction, perm) {
			return
		}
		next(s, i)
	}
}

func permitted(r utils.Responder, i *discordgo.Interaction, perm int64) bool {
	if i.GuildID == "" || !hasPermission(i.Member, perm) {
		utils.SendEphemeral(r, i, noPermissionMessage)
		return false
	}
	return true
}

func hasPermission(m *discordgo.Member, perm int64) bool {
	if m == nil {
		return false
	}
	if m.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return m.Permissions&perm == perm
}

func handleDeleteChannels(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i.Interaction, true); err != nil {
		log.Printf("Error deferring delete-channels response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	channels, err := b.Client.Channels(ctx, i.GuildID)
	if err != nil {
		log.Printf("Error fetching channels for guild %s: %v", i.GuildID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to fetch channels. Please try again later.")
		return
	}

	guildID := i.GuildID
	desc := workflow.ChannelDescriptor(channels, i.ChannelID, func(ctx context.Context, keep []string) model.DeleteResult {
		return b.Engine.DeleteChannels(ctx, guildID, keep)
	})
	startWorkflow(s, i, b, desc)
}

func handleDeleteRoles(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i.Interaction, true); err != nil {
		log.Printf("Error deferring delete-roles response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	roles, err := b.Client.Roles(ctx, i.GuildID)
	if err != nil {
		log.Printf("Error fetching roles for guild %s: %v", i.GuildID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to fetch roles. Please try again later.")
		return
	}

	guildID := i.GuildID
	desc := workflow.RoleDescriptor(roles, func(ctx context.Context, keep []string) model.DeleteResult {
		return b.Engine.DeleteRoles(ctx, guildID, keep)
	})
	startWorkflow(s, i, b, desc)
}

func startWorkflow(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, desc workflow.Descriptor) {
	if err := b.Workflows.Start(s, i.Interaction, i.Member.User.ID, desc); err != nil {
		log.Printf("Error starting %s workflow: %v", desc.Kind, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to open the selection menu.")
	}
}
