package bot

import (
	"context"
	"log"

	"guild-janitor/model"
)

// Run connects with the configured token and blocks until ctx is done. When
// the REST API is enabled a failed login leaves the process running in a
// degraded state so the token can be fixed through the API.
func (b *Bot) Run(ctx context.Context) error {
	cfg := b.GetConfig()
	if err := b.Start(ctx, cfg.BotToken); err != nil {
		if !cfg.APIEnabled() {
			return err
		}
		log.Printf("Bot failed to start, continuing in degraded mode: %v", err)
	} else {
		log.Println("Bot is now running. Press CTRL-C to exit.")
	}

	scheduler := NewScheduler(b.Syncer, b.Store, func() bool {
		return b.Status().Status == model.BotOnline
	}, cfg.SyncInterval)
	scheduler.Start()

	<-ctx.Done()
	scheduler.Stop()
	b.Close()
	b.notifier.Close()
	return nil
}
