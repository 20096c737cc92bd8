package utils

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// Responder is the part of *discordgo.Session used to answer interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// SendEphemeral answers an interaction with a message only the invoker sees.
func SendEphemeral(r Responder, i *discordgo.Interaction, message string) {
	err := r.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending ephemeral response: %v", err)
	}
}

// SendFollowUp replaces the content of a deferred response.
func SendFollowUp(r Responder, i *discordgo.Interaction, message string) {
	_, err := r.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content: &message,
	})
	if err != nil {
		log.Printf("Error sending follow-up message: %v", err)
	}
}

// SendFollowUpError replaces the content of a deferred response with an error.
func SendFollowUpError(r Responder, i *discordgo.Interaction, message string) {
	SendFollowUp(r, i, "❌ "+message)
}

// DeferResponse acknowledges an interaction so it can be answered later,
// optionally as an ephemeral message.
func DeferResponse(r Responder, i *discordgo.Interaction, ephemeral bool) error {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		}
	}
	return r.InteractionRespond(i, response)
}
