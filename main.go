package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"guild-janitor/api"
	"guild-janitor/bot"
	"guild-janitor/config"
	"guild-janitor/handlers"
	"guild-janitor/utils/database"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	envFile    string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:           "guild-janitor",
	Short:         "Discord bot for bulk channel, role and message cleanup",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.Flags().StringVar(&configFile, "config", "", "optional YAML config file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(envFile, configFile)
	if err != nil {
		return err
	}

	if cfg.StorageDriver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), os.ModePerm); err != nil {
			return err
		}
	}
	store, err := database.Open(cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer store.Close()

	b := bot.New(cfg, store)
	handlers.Register(b)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(ctx)
	})
	if cfg.APIEnabled() {
		srv := api.NewServer(b, store, b.Syncer, b.Engine, cfg.CORSOrigins)
		g.Go(func() error {
			return srv.Run(ctx, cfg.APIAddr)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
