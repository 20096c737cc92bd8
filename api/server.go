// Package api exposes the bot over a small JSON REST surface for dashboards.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"guild-janitor/model"
	"guild-janitor/scanner"
	"guild-janitor/utils/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// BotService is the part of the bot the API controls.
type BotService interface {
	Status() model.BotStatus
	Start(ctx context.Context, token string) error
}

// Syncer refreshes the cache before reads.
type Syncer interface {
	SyncGuilds(ctx context.Context) scanner.Report
	SyncChannels(ctx context.Context, guildID string) scanner.Report
	SyncRoles(ctx context.Context, guildID string) scanner.Report
}

// Deleter runs bulk deletions.
type Deleter interface {
	DeleteChannels(ctx context.Context, guildID string, keepIDs []string) model.DeleteResult
	DeleteRoles(ctx context.Context, guildID string, keepIDs []string) model.DeleteResult
}

type Server struct {
	bot     BotService
	store   database.Store
	syncer  Syncer
	deleter Deleter
	origins []string
}

func NewServer(bot BotService, store database.Store, syncer Syncer, deleter Deleter, origins []string) *Server {
	registerValidators()
	return &Server{
		bot:     bot,
		store:   store,
		syncer:  syncer,
		deleter: deleter,
		origins: origins,
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.origins) == 0 || (len(s.origins) == 1 && s.origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = s.origins
	}
	return cors.New(config)
}

// Router builds the gin engine with every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(s.corsMiddleware())

	r.GET("/api/system", s.getSystem)

	botAPI := r.Group("/api/bot")
	{
		botAPI.GET("/status", s.getBotStatus)
		botAPI.POST("/start", s.startBot)
	}

	guildAPI := r.Group("/api/guilds")
	guildAPI.Use(s.requireConnection())
	{
		guildAPI.GET("", s.listGuilds)
		guildAPI.GET("/:guildId/channels", s.listChannels)
		guildAPI.GET("/:guildId/roles", s.listRoles)
		guildAPI.POST("/:guildId/delete-channels", s.deleteChannels)
		guildAPI.POST("/:guildId/delete-roles", s.deleteRoles)
	}

	// Logs are served from the cache and stay readable while offline.
	logAPI := r.Group("/api/guilds/:guildId/logs")
	{
		logAPI.GET("", s.listLogs)
		logAPI.DELETE("", s.clearLogs)
	}

	return r
}

// requireConnection answers 503 for routes that need the platform.
func (s *Server) requireConnection() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.bot.Status().Status != model.BotOnline {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Bot is not connected"})
			return
		}
		c.Next()
	}
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("REST API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Println("Shutting down REST API...")
		return srv.Shutdown(shutdownCtx)
	}
}
