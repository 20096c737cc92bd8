package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"guild-janitor/commands"
	"guild-janitor/engine"
	"guild-janitor/handlers/keep"
	"guild-janitor/model"
	"guild-janitor/platform"
	"guild-janitor/scanner"
	"guild-janitor/utils"
	"guild-janitor/utils/database"

	"github.com/bwmarrin/discordgo"
)

// Bot is the process-wide session object. It is built once by main and passed
// by reference to the handlers and the REST API.
type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	Client    *platform.Discord
	Store     database.Store
	Syncer    *scanner.Syncer
	Engine    *engine.Engine
	Workflows *keep.Manager

	notifier *utils.Notifier
	open     func(s *discordgo.Session) error

	status  statusTracker
	mu      sync.Mutex // guards Session swaps
	setups  []func(s *discordgo.Session)
	syncing atomic.Bool
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

// New wires the core components. No connection is made until Start.
func New(cfg *model.Config, store database.Store) *Bot {
	client := platform.NewDiscord()
	syncer := scanner.NewSyncer(client, store)
	notifier := utils.NewNotifier(cfg.LogWebhookURL)
	journal := engine.NewJournal(store, notifier)

	b := &Bot{
		Client:    client,
		Store:     store,
		Syncer:    syncer,
		Engine:    engine.New(client, syncer, journal),
		Workflows: keep.NewManager(cfg.WorkflowTimeout),
		notifier:  notifier,
	}
	b.config.Store(cfg)
	return b
}

// OnSession registers fn to be applied to every new discordgo session before
// it connects, e.g. to add event handlers.
func (b *Bot) OnSession(fn func(s *discordgo.Session)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setups = append(b.setups, fn)
}

func (b *Bot) Status() model.BotStatus {
	return b.status.get()
}

// Start connects with token, replacing any existing connection.
func (b *Bot) Start(ctx context.Context, token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Session != nil {
		log.Println("Closing existing session before reconnecting.")
		b.Client.Attach(nil)
		if err := b.Session.Close(); err != nil {
			log.Printf("Error closing previous session: %v", err)
		}
		b.Session = nil
		b.status.set(model.BotOffline, nil)
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		b.status.set(model.BotError, err)
		return fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	dg.StateEnabled = true

	dg.AddHandler(b.onReady)
	for _, fn := range b.setups {
		fn(dg)
	}

	open := b.open
	if open == nil {
		open = (*discordgo.Session).Open
	}
	// READY is dispatched on its own goroutine and may sync before Open returns.
	b.Client.Attach(dg)
	if err := open(dg); err != nil {
		b.Client.Attach(nil)
		b.status.set(model.BotError, err)
		return fmt.Errorf("error opening connection: %w", err)
	}

	b.Session = dg
	b.status.set(model.BotOnline, nil)
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("Logged in as: %v#%v", r.User.Username, r.User.Discriminator)
	b.RefreshCommands(s)

	if !b.syncing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer b.syncing.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		report := b.Syncer.SyncGuilds(ctx)
		log.Printf("Initial guild sync finished: %d created, %d updated, %d deleted", report.Created, report.Updated, report.Deleted)
	}()
}

// RefreshCommands overwrites the registered application commands, globally or
// for the configured guild only.
func (b *Bot) RefreshCommands(s *discordgo.Session) {
	guildID := b.GetConfig().CommandGuildID
	cmds := commands.GenerateCommands()
	if guildID == "" {
		log.Printf("Registering %d global commands...", len(cmds))
	} else {
		log.Printf("Registering %d commands for guild %s...", len(cmds), guildID)
	}

	registered, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, cmds)
	if err != nil {
		log.Printf("cannot register commands: %v", err)
		return
	}
	b.RegisteredCommands = registered
}

func (b *Bot) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	log.Println("Gracefully shutting down.")
	b.Client.Attach(nil)
	if b.Session != nil {
		if err := b.Session.Close(); err != nil {
			log.Printf("Error closing session: %v", err)
		}
		b.Session = nil
	}
	b.status.set(model.BotOffline, nil)
}
