package bot

import (
	"context"
	"log"
	"sync"
	"time"

	"guild-janitor/scanner"
	"guild-janitor/utils/database"
)

const (
	resyncWorkerLimit = 5
	resyncTimeout     = 5 * time.Minute
)

// Scheduler periodically refreshes the cache while the bot is online.
type Scheduler struct {
	syncer   *scanner.Syncer
	store    database.Store
	online   func() bool
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewScheduler(syncer *scanner.Syncer, store database.Store, online func() bool, interval time.Duration) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		store:    store,
		online:   online,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the resync loop. A non-positive interval disables it.
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		log.Println("Periodic cache resync is disabled.")
		return
	}
	s.wg.Add(1)
	go s.run()
}

func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.online() {
				continue
			}
			log.Println("Running periodic cache resync...")
			ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
			report := s.resyncAll(ctx)
			cancel()
			if report.Changed() {
				log.Printf("Cache resync: %d created, %d updated, %d deleted", report.Created, report.Updated, report.Deleted)
			}
		case <-s.done:
			return
		}
	}
}

// resyncAll refreshes guilds, then every cached guild's channels and roles
// with a bounded number of guilds in flight.
func (s *Scheduler) resyncAll(ctx context.Context) scanner.Report {
	total := s.syncer.SyncGuilds(ctx)

	guilds, err := s.store.ListGuilds()
	if err != nil {
		log.Printf("Error listing cached guilds for resync: %v", err)
		return total
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		guard = make(chan struct{}, resyncWorkerLimit)
	)
	for _, g := range guilds {
		wg.Add(1)
		guard <- struct{}{}

		go func(guildID string) {
			defer func() {
				<-guard
				wg.Done()
			}()
			channels := s.syncer.SyncChannels(ctx, guildID)
			roles := s.syncer.SyncRoles(ctx, guildID)

			mu.Lock()
			defer mu.Unlock()
			for _, r := range []scanner.Report{channels, roles} {
				total.Created += r.Created
				total.Updated += r.Updated
				total.Deleted += r.Deleted
			}
		}(g.ID)
	}
	wg.Wait()
	return total
}
