package workflow

import (
	"context"

	"guild-janitor/model"
)

// Item is one selectable entity as shown in a menu.
type Item struct {
	ID          string
	Label       string
	Description string
	Emoji       string
}

// Filter is one entry of the type filter control.
type Filter struct {
	Value string
	Label string
}

// FilterAll is the value of the filter that matches every item.
const FilterAll = "all"

// Descriptor parameterises the workflow for one entity kind.
type Descriptor struct {
	// Kind is a short machine name, e.g. "channels".
	Kind string
	// Noun is the plural used in prose, e.g. "channels".
	Noun string
	// Title heads the main menu embed.
	Title string
	// Items are all selectable entities, already in display order.
	Items []Item
	// Filters lists the filter control entries. The first one is the default.
	Filters []Filter
	// Match reports whether item passes filter. FilterAll never reaches it.
	Match func(item Item, filter string) bool
	// PinnedID is force-kept and cannot be deselected. May be empty.
	PinnedID string
	// Execute deletes everything not in keep.
	Execute func(ctx context.Context, keep []string) model.DeleteResult
}

func (d *Descriptor) hasFilter(value string) bool {
	for _, f := range d.Filters {
		if f.Value == value {
			return true
		}
	}
	return false
}

// FilterLabel returns the display label for a filter value.
func (d *Descriptor) FilterLabel(value string) string {
	for _, f := range d.Filters {
		if f.Value == value {
			return f.Label
		}
	}
	return value
}
