package scanner

import (
	"context"
	"log"

	"guild-janitor/platform"
	"guild-janitor/utils/database"
)

// Report counts the cache mutations one sync pass made.
type Report struct {
	Created int
	Updated int
	Deleted int
}

func (r *Report) add(o Report) {
	r.Created += o.Created
	r.Updated += o.Updated
	r.Deleted += o.Deleted
}

// Changed reports whether the pass touched the cache at all.
func (r Report) Changed() bool {
	return r.Created+r.Updated+r.Deleted > 0
}

// Syncer mirrors remote guild state into the store. Every method is best
// effort: failures are logged and the partial report is returned.
type Syncer struct {
	client platform.Client
	store  database.Store
}

func NewSyncer(client platform.Client, store database.Store) *Syncer {
	return &Syncer{client: client, store: store}
}

// SyncGuilds upserts every visible guild. Newly seen guilds also get their
// channels and roles synced.
func (s *Syncer) SyncGuilds(ctx context.Context) Report {
	var report Report

	guilds, err := s.client.Guilds(ctx)
	if err != nil {
		log.Printf("Error syncing guilds: %v", err)
		return report
	}

	for _, g := range guilds {
		existing, err := s.store.GetGuild(g.ID)
		if err != nil {
			log.Printf("Error reading cached guild %s: %v", g.ID, err)
			continue
		}

		if existing == nil {
			if err := s.store.CreateGuild(g); err != nil {
				log.Printf("Error caching guild %s: %v", g.ID, err)
				continue
			}
			report.Created++
			report.add(s.SyncChannels(ctx, g.ID))
			report.add(s.SyncRoles(ctx, g.ID))
			continue
		}

		if *existing != g {
			if err := s.store.UpdateGuild(g); err != nil {
				log.Printf("Error updating cached guild %s: %v", g.ID, err)
				continue
			}
			report.Updated++
		}
	}
	return report
}

// SyncChannels reconciles the cached channels of one guild with a fresh
// fetch. Only manageable channel types are kept in the cache.
func (s *Syncer) SyncChannels(ctx context.Context, guildID string) Report {
	var report Report

	channels, err := s.client.Channels(ctx, guildID)
	if err != nil {
		log.Printf("Error syncing channels for guild %s: %v", guildID, err)
		return report
	}

	seen := make(map[string]struct{}, len(channels))
	for _, c := range channels {
		if !c.Type.IsManageable() {
			continue
		}
		seen[c.ID] = struct{}{}

		existing, err := s.store.GetChannel(c.ID)
		if err != nil {
			log.Printf("Error reading cached channel %s: %v", c.ID, err)
			continue
		}
		switch {
		case existing == nil:
			if err := s.store.CreateChannel(c); err != nil {
				log.Printf("Error caching channel %s: %v", c.ID, err)
				continue
			}
			report.Created++
		case *existing != c:
			if err := s.store.UpdateChannel(c); err != nil {
				log.Printf("Error updating cached channel %s: %v", c.ID, err)
				continue
			}
			report.Updated++
		}
	}

	cached, err := s.store.ListChannels(guildID)
	if err != nil {
		log.Printf("Error listing cached channels for guild %s: %v", guildID, err)
		return report
	}
	for _, c := range cached {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		if err := s.store.DeleteChannel(c.ID); err != nil {
			log.Printf("Error removing stale channel %s: %v", c.ID, err)
			continue
		}
		report.Deleted++
	}
	return report
}

// SyncRoles reconciles the cached roles of one guild. Unlike channels every
// role is mirrored; exclusion of @everyone and managed roles happens when
// building deletion plans.
func (s *Syncer) SyncRoles(ctx context.Context, guildID string) Report {
	var report Report

	roles, err := s.client.Roles(ctx, guildID)
	if err != nil {
		log.Printf("Error syncing roles for guild %s: %v", guildID, err)
		return report
	}

	seen := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		seen[r.ID] = struct{}{}

		existing, err := s.store.GetRole(r.ID)
		if err != nil {
			log.Printf("Error reading cached role %s: %v", r.ID, err)
			continue
		}
		switch {
		case existing == nil:
			if err := s.store.CreateRole(r); err != nil {
				log.Printf("Error caching role %s: %v", r.ID, err)
				continue
			}
			report.Created++
		case *existing != r:
			if err := s.store.UpdateRole(r); err != nil {
				log.Printf("Error updating cached role %s: %v", r.ID, err)
				continue
			}
			report.Updated++
		}
	}

	cached, err := s.store.ListRoles(guildID)
	if err != nil {
		log.Printf("Error listing cached roles for guild %s: %v", guildID, err)
		return report
	}
	for _, r := range cached {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		if err := s.store.DeleteRole(r.ID); err != nil {
			log.Printf("Error removing stale role %s: %v", r.ID, err)
			continue
		}
		report.Deleted++
	}
	return report
}

// ForgetChannel drops one channel from the cache after a confirmed delete.
func (s *Syncer) ForgetChannel(id string) {
	if err := s.store.DeleteChannel(id); err != nil {
		log.Printf("Error removing deleted channel %s from cache: %v", id, err)
	}
}

// ForgetRole drops one role from the cache after a confirmed delete.
func (s *Syncer) ForgetRole(id string) {
	if err := s.store.DeleteRole(id); err != nil {
		log.Printf("Error removing deleted role %s from cache: %v", id, err)
	}
}
