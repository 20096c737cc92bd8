package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// CreatePaginationComponents creates a Prev / page / Next button row.
// currentPage is 1-based. Both arrows are disabled when everything fits on
// one page.
func CreatePaginationComponents(currentPage, totalPages int, prevID, nextID, indicatorID string) []discordgo.MessageComponent {
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀ Previous",
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage <= 1,
					CustomID: prevID,
				},
				discordgo.Button{
					Label:    fmt.Sprintf("Page %d/%d", currentPage, totalPages),
					Style:    discordgo.SecondaryButton,
					Disabled: true,
					CustomID: indicatorID,
				},
				discordgo.Button{
					Label:    "Next ▶",
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage >= totalPages,
					CustomID: nextID,
				},
			},
		},
	}
}
