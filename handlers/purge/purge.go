// Package purge handles the /clear command.
package purge

import (
	"context"
	"fmt"
	"log"
	"time"

	"guild-janitor/model"
	"guild-janitor/utils"

	"github.com/bwmarrin/discordgo"
)

// Purger runs a message purge.
type Purger interface {
	DeleteMessages(ctx context.Context, req model.PurgeRequest) model.PurgeResult
}

const purgeTimeout = 5 * time.Minute

// ParseRequest builds a purge request from the command options.
func ParseRequest(guildID, channelID string, options []*discordgo.ApplicationCommandInteractionDataOption) model.PurgeRequest {
	req := model.PurgeRequest{
		GuildID:   guildID,
		ChannelID: channelID,
		Type:      model.MessageFilterAll,
	}
	for _, opt := range options {
		switch opt.Name {
		case "amount":
			req.Limit = int(opt.IntValue())
		case "type":
			req.Type = model.MessageFilterType(opt.StringValue())
		case "from":
			// UserValue(nil) only reads the id without a state lookup.
			if u := opt.UserValue(nil); u != nil {
				req.AuthorID = u.ID
			}
		case "include_pinned":
			req.IncludePinned = opt.BoolValue()
		}
	}
	return req
}

// ConfirmationText is shown while the purge runs.
func ConfirmationText(req model.PurgeRequest) string {
	text := fmt.Sprintf("Processing... Deleting %d messages", req.Limit)
	switch req.Type {
	case model.MessageFilterBot:
		text += " (bot messages only)"
	case model.MessageFilterUser:
		text += " (user messages only)"
	case model.MessageFilterNonSystem:
		text += " (non-system messages only)"
	}
	if req.AuthorID != "" {
		text += fmt.Sprintf(" from <@%s>", req.AuthorID)
	}
	if !req.IncludePinned {
		text += " (excluding pinned messages)"
	}
	return text + "..."
}

// ResultText summarises a finished purge.
func ResultText(req model.PurgeRequest, res model.PurgeResult) string {
	if !res.Success {
		return "❌ Failed to delete messages: " + res.Error
	}
	text := fmt.Sprintf("Successfully deleted %d messages", res.DeletedCount)
	if res.FailedCount > 0 {
		text += fmt.Sprintf(" (%d could not be deleted)", res.FailedCount)
	}
	if !req.IncludePinned {
		text += " (pinned messages were preserved)"
	}
	return text
}

// running holds one lock per channel so purges there never overlap.
var running = utils.NewKeyedLock()

const busyText = "A purge is already running in this channel. Please wait for it to finish."

// Handle defers the interaction, runs the purge and reports the outcome.
func Handle(s *discordgo.Session, i *discordgo.InteractionCreate, purger Purger) {
	handle(s, i.Interaction, i.ApplicationCommandData().Options, purger)
}

func handle(r utils.Responder, i *discordgo.Interaction, options []*discordgo.ApplicationCommandInteractionDataOption, purger Purger) {
	req := ParseRequest(i.GuildID, i.ChannelID, options)

	if !running.TryAcquire(req.ChannelID) {
		utils.SendEphemeral(r, i, busyText)
		return
	}
	defer running.Release(req.ChannelID)

	if err := utils.DeferResponse(r, i, true); err != nil {
		log.Printf("Error deferring clear command: %v", err)
		return
	}
	utils.SendFollowUp(r, i, ConfirmationText(req))

	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()
	res := purger.DeleteMessages(ctx, req)

	utils.SendFollowUp(r, i, ResultText(req, res))
}
