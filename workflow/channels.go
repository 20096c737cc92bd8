package workflow

import (
	"context"
	"sort"
	"strings"

	"guild-janitor/model"
)

var channelFilters = []Filter{
	{Value: FilterAll, Label: "All Channels"},
	{Value: model.ChannelTypeText.String(), Label: "Text Channels"},
	{Value: model.ChannelTypeVoice.String(), Label: "Voice Channels"},
	{Value: model.ChannelTypeCategory.String(), Label: "Categories"},
	{Value: model.ChannelTypeAnnouncement.String(), Label: "Announcement Channels"},
	{Value: model.ChannelTypeForum.String(), Label: "Forum Channels"},
}

// ChannelDescriptor builds the workflow parameters for /delete-channels.
// currentChannelID is pinned so the command channel always survives.
func ChannelDescriptor(channels []model.Channel, currentChannelID string, execute func(ctx context.Context, keep []string) model.DeleteResult) Descriptor {
	manageable := make([]model.Channel, 0, len(channels))
	for _, c := range channels {
		if c.Type.IsManageable() {
			manageable = append(manageable, c)
		}
	}
	sort.SliceStable(manageable, func(i, j int) bool {
		if manageable[i].Type != manageable[j].Type {
			return manageable[i].Type < manageable[j].Type
		}
		return strings.ToLower(manageable[i].Name) < strings.ToLower(manageable[j].Name)
	})

	types := make(map[string]model.ChannelType, len(manageable))
	items := make([]Item, 0, len(manageable))
	for _, c := range manageable {
		types[c.ID] = c.Type
		items = append(items, Item{
			ID:          c.ID,
			Label:       c.Name,
			Description: c.Type.Label(),
			Emoji:       c.Type.Emoji(),
		})
	}

	return Descriptor{
		Kind:    "channels",
		Noun:    "channels",
		Title:   "Channel Cleanup",
		Items:   items,
		Filters: channelFilters,
		Match: func(item Item, filter string) bool {
			return types[item.ID].String() == filter
		},
		PinnedID: currentChannelID,
		Execute:  execute,
	}
}
