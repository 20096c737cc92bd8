// Package engine runs the destructive operations: bulk channel and role
// deletion and message purges. Each call is sequential and never returns a Go
// error; failures are reported in the result and in the journal.
package engine

import (
	"context"
	"fmt"
	"time"

	"guild-janitor/model"
	"guild-janitor/platform"
	"guild-janitor/scanner"
)

type Engine struct {
	client  platform.Client
	syncer  *scanner.Syncer
	journal *Journal
	now     func() time.Time
}

func New(client platform.Client, syncer *scanner.Syncer, journal *Journal) *Engine {
	return &Engine{
		client:  client,
		syncer:  syncer,
		journal: journal,
		now:     time.Now,
	}
}

// target is one entity scheduled for deletion.
type target struct {
	id   string
	name string
}

// deletion describes one entity kind for runDeletion.
type deletion struct {
	singular string
	plural   string
	plan     func(ctx context.Context) (plan []target, total int, err error)
	remove   func(ctx context.Context, id string) error
	forget   func(id string)
	resync   func(ctx context.Context)
}

func (e *Engine) runDeletion(ctx context.Context, guildID string, d deletion) model.DeleteResult {
	e.journal.Info(guildID, fmt.Sprintf("Starting %s deletion operation...", d.singular))

	plan, total, err := d.plan(ctx)
	if err != nil {
		e.journal.Error(guildID, fmt.Sprintf("%s deletion operation failed: %v", capitalize(d.singular), err))
		return model.DeleteResult{Success: false, Error: err.Error()}
	}

	e.journal.Info(guildID, fmt.Sprintf("Found %d %s to delete out of %d total %s.", len(plan), d.plural, total, d.plural))

	result := model.DeleteResult{Success: true, PlanSize: len(plan)}
	for _, t := range plan {
		e.journal.Info(guildID, fmt.Sprintf("Deleting %s: %s (%s)...", d.singular, t.name, t.id))
		if err := d.remove(ctx, t.id); err != nil {
			result.FailedCount++
			e.journal.Error(guildID, fmt.Sprintf("Failed to delete %s %s (%s): %v", d.singular, t.name, t.id, err))
			continue
		}
		result.DeletedCount++
		d.forget(t.id)
		e.journal.Success(guildID, fmt.Sprintf("Deleted %s: %s (%s)", d.singular, t.name, t.id))
	}

	if result.DeletedCount > 0 {
		e.journal.Success(guildID, fmt.Sprintf("Successfully deleted %d %s. Failed to delete %d %s.", result.DeletedCount, d.plural, result.FailedCount, d.plural))
	} else {
		e.journal.Warning(guildID, fmt.Sprintf("No %s were deleted. Failed to delete %d %s.", d.plural, result.FailedCount, d.plural))
	}

	d.resync(ctx)
	return result
}

// DeleteChannels deletes every manageable channel of the guild whose id is not
// in keepIDs.
func (e *Engine) DeleteChannels(ctx context.Context, guildID string, keepIDs []string) model.DeleteResult {
	keep := toSet(keepIDs)
	return e.runDeletion(ctx, guildID, deletion{
		singular: "channel",
		plural:   "channels",
		plan: func(ctx context.Context) ([]target, int, error) {
			channels, err := e.client.Channels(ctx, guildID)
			if err != nil {
				return nil, 0, err
			}
			plan := make([]target, 0, len(channels))
			for _, c := range channels {
				if _, ok := keep[c.ID]; ok || !c.Type.IsManageable() {
					continue
				}
				plan = append(plan, target{id: c.ID, name: c.Name})
			}
			return plan, len(channels), nil
		},
		remove: e.client.DeleteChannel,
		forget: e.syncer.ForgetChannel,
		resync: func(ctx context.Context) { e.syncer.SyncChannels(ctx, guildID) },
	})
}

// DeleteRoles deletes every role not in keepIDs. @everyone and
// integration-managed roles are never planned, whatever keepIDs contains.
func (e *Engine) DeleteRoles(ctx context.Context, guildID string, keepIDs []string) model.DeleteResult {
	keep := toSet(keepIDs)
	return e.runDeletion(ctx, guildID, deletion{
		singular: "role",
		plural:   "roles",
		plan: func(ctx context.Context) ([]target, int, error) {
			roles, err := e.client.Roles(ctx, guildID)
			if err != nil {
				return nil, 0, err
			}
			plan := make([]target, 0, len(roles))
			for _, r := range roles {
				if _, ok := keep[r.ID]; ok || !r.Deletable() {
					continue
				}
				plan = append(plan, target{id: r.ID, name: r.Name})
			}
			return plan, len(roles), nil
		},
		remove: func(ctx context.Context, id string) error {
			return e.client.DeleteRole(ctx, guildID, id)
		},
		forget: e.syncer.ForgetRole,
		resync: func(ctx context.Context) { e.syncer.SyncRoles(ctx, guildID) },
	})
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
