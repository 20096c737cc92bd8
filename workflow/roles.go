package workflow

import (
	"context"
	"fmt"
	"sort"

	"guild-janitor/model"
)

const (
	RoleFilterHigh    = "high"
	RoleFilterMedium  = "medium"
	RoleFilterLow     = "low"
	RoleFilterHoisted = "hoisted"
	RoleFilterColor   = "color"
)

var roleFilters = []Filter{
	{Value: FilterAll, Label: "All Roles"},
	{Value: RoleFilterHigh, Label: "High Priority (position > 15)"},
	{Value: RoleFilterMedium, Label: "Medium Priority (5-15)"},
	{Value: RoleFilterLow, Label: "Low Priority (< 5)"},
	{Value: RoleFilterHoisted, Label: "Hoisted Roles"},
	{Value: RoleFilterColor, Label: "Colored Roles"},
}

// RoleMatches evaluates the derived role filters.
func RoleMatches(r model.Role, filter string) bool {
	switch filter {
	case FilterAll:
		return true
	case RoleFilterHigh:
		return r.Position > 15
	case RoleFilterMedium:
		return r.Position >= 5 && r.Position <= 15
	case RoleFilterLow:
		return r.Position < 5
	case RoleFilterHoisted:
		return r.Hoist
	case RoleFilterColor:
		return r.Color != 0
	default:
		return false
	}
}

// RoleDescriptor builds the workflow parameters for /delete-roles. @everyone
// and integration-managed roles are never offered.
func RoleDescriptor(roles []model.Role, execute func(ctx context.Context, keep []string) model.DeleteResult) Descriptor {
	deletable := make([]model.Role, 0, len(roles))
	for _, r := range roles {
		if r.Deletable() {
			deletable = append(deletable, r)
		}
	}
	sort.SliceStable(deletable, func(i, j int) bool {
		return deletable[i].Position > deletable[j].Position
	})

	byID := make(map[string]model.Role, len(deletable))
	items := make([]Item, 0, len(deletable))
	for _, r := range deletable {
		byID[r.ID] = r
		items = append(items, Item{
			ID:          r.ID,
			Label:       r.Name,
			Description: fmt.Sprintf("Position: %d", r.Position),
			Emoji:       "🏷️",
		})
	}

	return Descriptor{
		Kind:    "roles",
		Noun:    "roles",
		Title:   "Role Cleanup",
		Items:   items,
		Filters: roleFilters,
		Match: func(item Item, filter string) bool {
			return RoleMatches(byID[item.ID], filter)
		},
		Execute: execute,
	}
}
