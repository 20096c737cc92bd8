package keep

import (
	"fmt"
	"strings"

	"guild-janitor/utils"
	"guild-janitor/workflow"

	"github.com/bwmarrin/discordgo"
)

const (
	colorInfo    = 0x5865F2
	colorWarning = 0xFEE75C
	colorDanger  = 0xED4245
	colorSuccess = 0x57F287
	colorMuted   = 0x99AAB5

	// Discord caps option labels/descriptions at 100 and embed field values at 1024.
	maxOptionText = 100
	maxFieldValue = 1024
	maxEmbedDesc  = 4096
)

// view is a rendered workflow state.
type view struct {
	embeds     []*discordgo.MessageEmbed
	components []discordgo.MessageComponent
}

func render(sessionID string, w *workflow.Workflow) view {
	switch w.State() {
	case workflow.StateMainMenu:
		return renderMainMenu(sessionID, w)
	case workflow.StateSelecting:
		return renderSelecting(sessionID, w)
	case workflow.StateConfirming:
		return renderConfirming(sessionID, w)
	case workflow.StateExecuting:
		return renderExecuting(w)
	case workflow.StateResult:
		return renderResult(w)
	case workflow.StateCancelled:
		return final(&discordgo.MessageEmbed{
			Title:       "Operation Cancelled",
			Description: fmt.Sprintf("No %s were deleted.", w.Descriptor().Noun),
			Color:       colorMuted,
		})
	default:
		return renderTimedOut(w)
	}
}

// final renders a terminal view. Components is non-nil so the edit clears the controls.
func final(embed *discordgo.MessageEmbed) view {
	return view{
		embeds:     []*discordgo.MessageEmbed{embed},
		components: []discordgo.MessageComponent{},
	}
}

func renderTimedOut(w *workflow.Workflow) view {
	return final(&discordgo.MessageEmbed{
		Title:       "Operation Timed Out",
		Description: fmt.Sprintf("The %s cleanup was cancelled due to inactivity.", strings.TrimSuffix(w.Descriptor().Noun, "s")),
		Color:       colorMuted,
	})
}

func itemLine(it workflow.Item) string {
	if it.Emoji == "" {
		return "• " + it.Label
	}
	return fmt.Sprintf("• %s %s", it.Emoji, it.Label)
}

func itemLines(items []workflow.Item) []string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = itemLine(it)
	}
	return lines
}

func renderMainMenu(sessionID string, w *workflow.Workflow) view {
	desc := w.Descriptor()
	embed := &discordgo.MessageEmbed{
		Title: desc.Title,
		Description: fmt.Sprintf("Choose the %s you want to **keep**. Every other %s will be deleted.\n\nClick **Continue** to start selecting.",
			desc.Noun, strings.TrimSuffix(desc.Noun, "s")),
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total " + desc.Noun, Value: fmt.Sprintf("%d", len(desc.Items)), Inline: true},
			{Name: "Currently keeping", Value: fmt.Sprintf("%d", len(w.KeepIDs())), Inline: true},
		},
	}
	return view{
		embeds: []*discordgo.MessageEmbed{embed},
		components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Continue", Style: discordgo.PrimaryButton, CustomID: customID(sessionID, actionContinue)},
				discordgo.Button{Label: "Cancel", Style: discordgo.DangerButton, CustomID: customID(sessionID, actionCancel)},
			}},
		},
	}
}

func renderSelecting(sessionID string, w *workflow.Workflow) view {
	desc := w.Descriptor()

	selecting := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Select %s to keep", desc.Noun),
		Description: "Selections add up across pages and filters. Click **Confirm Selection** when you are done.",
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Filter", Value: desc.FilterLabel(w.Filter()), Inline: true},
			{Name: "Page", Value: fmt.Sprintf("%d/%d", w.Page()+1, w.TotalPages()), Inline: true},
		},
	}
	selected := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Currently Selected %s (%d)", titleCase(desc.Noun), len(w.KeepIDs())),
		Description: utils.JoinLines(itemLines(w.Selected()), maxEmbedDesc),
		Color:       colorSuccess,
	}
	if selected.Description == "" {
		selected.Description = "Nothing selected yet."
	}

	filterOptions := make([]discordgo.SelectMenuOption, 0, len(desc.Filters))
	for _, f := range desc.Filters {
		filterOptions = append(filterOptions, discordgo.SelectMenuOption{
			Label:   f.Label,
			Value:   f.Value,
			Default: f.Value == w.Filter(),
		})
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    customID(sessionID, actionFilter),
				Placeholder: "Filter by type",
				Options:     filterOptions,
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{itemMenu(sessionID, w)}},
	}
	components = append(components, utils.CreatePaginationComponents(
		w.Page()+1, w.TotalPages(),
		customID(sessionID, actionPrev), customID(sessionID, actionNext), customID(sessionID, "page"),
	)...)
	components = append(components, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "Back", Style: discordgo.SecondaryButton, CustomID: customID(sessionID, actionBack)},
		discordgo.Button{Label: "Clear Selection", Style: discordgo.SecondaryButton, CustomID: customID(sessionID, actionReset)},
		discordgo.Button{Label: "Confirm Selection", Style: discordgo.SuccessButton, CustomID: customID(sessionID, actionConfirm)},
	}})

	return view{
		embeds:     []*discordgo.MessageEmbed{selecting, selected},
		components: components,
	}
}

func itemMenu(sessionID string, w *workflow.Workflow) discordgo.SelectMenu {
	minValues := 0
	items := w.PageItems()
	if len(items) == 0 {
		return discordgo.SelectMenu{
			CustomID:    customID(sessionID, actionSelect),
			Placeholder: "Nothing matches this filter",
			MinValues:   &minValues,
			MaxValues:   1,
			Disabled:    true,
			Options:     []discordgo.SelectMenuOption{{Label: "No items", Value: "none"}},
		}
	}

	options := make([]discordgo.SelectMenuOption, 0, len(items))
	selected := make(map[string]bool)
	for _, id := range w.KeepIDs() {
		selected[id] = true
	}
	for _, it := range items {
		description := it.Description
		if selected[it.ID] {
			description = "✓ kept · " + description
		}
		opt := discordgo.SelectMenuOption{
			Label:       utils.Truncate(it.Label, maxOptionText),
			Value:       it.ID,
			Description: utils.Truncate(description, maxOptionText),
		}
		if it.Emoji != "" {
			opt.Emoji = &discordgo.ComponentEmoji{Name: it.Emoji}
		}
		options = append(options, opt)
	}

	return discordgo.SelectMenu{
		CustomID:    customID(sessionID, actionSelect),
		Placeholder: fmt.Sprintf("Select %s to keep", w.Descriptor().Noun),
		MinValues:   &minValues,
		MaxValues:   len(options),
		Options:     options,
	}
}

func renderConfirming(sessionID string, w *workflow.Workflow) view {
	desc := w.Descriptor()
	keep := w.Selected()
	toDelete := w.ToDelete()
	preview, more := w.DeletePreview()

	deleteLines := itemLines(preview)
	if more > 0 {
		deleteLines = append(deleteLines, fmt.Sprintf("• ... and %d more", more))
	}
	deleteValue := utils.JoinLines(deleteLines, maxFieldValue)
	if deleteValue == "" {
		deleteValue = "Nothing will be deleted."
	}

	embed := &discordgo.MessageEmbed{
		Title:       "⚠️ Final Confirmation Required ⚠️",
		Description: fmt.Sprintf("You are about to delete **%d** %s. This cannot be undone.", len(toDelete), desc.Noun),
		Color:       colorWarning,
		Fields: []*discordgo.MessageEmbedField{
			{Name: fmt.Sprintf("%s to Keep (%d)", titleCase(desc.Noun), len(keep)), Value: utils.JoinLines(itemLines(keep), maxFieldValue)},
			{Name: fmt.Sprintf("%s to Delete (%d)", titleCase(desc.Noun), len(toDelete)), Value: deleteValue},
		},
	}
	if embed.Fields[0].Value == "" {
		embed.Fields[0].Value = "Nothing will be kept."
	}

	return view{
		embeds: []*discordgo.MessageEmbed{embed},
		components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Yes, delete", Style: discordgo.DangerButton, CustomID: customID(sessionID, actionYes)},
				discordgo.Button{Label: "No, go back", Style: discordgo.SecondaryButton, CustomID: customID(sessionID, actionNo)},
				discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: customID(sessionID, actionCancel)},
			}},
		},
	}
}

func renderExecuting(w *workflow.Workflow) view {
	return final(&discordgo.MessageEmbed{
		Title:       "Processing",
		Description: fmt.Sprintf("Deleting %d %s. This may take a while...", len(w.ToDelete()), w.Descriptor().Noun),
		Color:       colorWarning,
	})
}

func renderResult(w *workflow.Workflow) view {
	noun := w.Descriptor().Noun
	res := w.Result()
	if res == nil || !res.Success {
		msg := "unknown error"
		if res != nil && res.Error != "" {
			msg = res.Error
		}
		return final(&discordgo.MessageEmbed{
			Title:       "Operation Failed",
			Description: "Error: " + msg,
			Color:       colorDanger,
		})
	}
	return final(&discordgo.MessageEmbed{
		Title:       "Operation Completed",
		Description: fmt.Sprintf("Successfully deleted %d %s. Failed to delete %d %s.", res.DeletedCount, noun, res.FailedCount, noun),
		Color:       colorSuccess,
	})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
