package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"guild-janitor/model"

	"github.com/gin-gonic/gin"
)

const (
	defaultLogLimit = 100
	requestTimeout  = 30 * time.Second
	deleteTimeout   = 10 * time.Minute
)

type guildURI struct {
	GuildID string `uri:"guildId" binding:"required,snowflake"`
}

type startRequest struct {
	Token string `json:"token" binding:"required,min=50,max=100"`
}

type logsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type deleteChannelsRequest struct {
	KeepChannelIDs []string `json:"keepChannelIds" binding:"required,dive,snowflake"`
}

type deleteRolesRequest struct {
	KeepRoleIDs []string `json:"keepRoleIds" binding:"required,dive,snowflake"`
}

func (s *Server) getBotStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": s.bot.Status()})
}

func (s *Server) startBot(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	// A rejected token or refused gateway connection is the caller's to fix.
	if err := s.bot.Start(ctx, req.Token); err != nil {
		log.Printf("Failed to start bot from API: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to start bot", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bot started successfully", "status": s.bot.Status().Status})
}

func (s *Server) listGuilds(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	s.syncer.SyncGuilds(ctx)

	guilds, err := s.store.ListGuilds()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list guilds", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(guilds))
}

func (s *Server) listChannels(c *gin.Context) {
	var uri guildURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	s.syncer.SyncChannels(ctx, uri.GuildID)

	channels, err := s.store.ListChannels(uri.GuildID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list channels", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(channels))
}

func (s *Server) listRoles(c *gin.Context) {
	var uri guildURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	s.syncer.SyncRoles(ctx, uri.GuildID)

	roles, err := s.store.ListRoles(uri.GuildID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list roles", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(roles))
}

func (s *Server) listLogs(c *gin.Context) {
	var uri guildURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var q logsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultLogLimit
	}

	entries, err := s.store.ListLogs(uri.GuildID, q.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list logs", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(entries))
}

func (s *Server) clearLogs(c *gin.Context) {
	var uri guildURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.store.ClearLogs(uri.GuildID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear logs", "error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteChannels(c *gin.Context) {
	var uri guildURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req deleteChannelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), deleteTimeout)
	defer cancel()
	res := s.deleter.DeleteChannels(ctx, uri.GuildID, req.KeepChannelIDs)
	writeDeleteResult(c, res, "Channels deleted successfully", "Failed to delete channels")
}

func (s *Server) deleteRoles(c *gin.Context) {
	var uri guildURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	var req deleteRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), deleteTimeout)
	defer cancel()
	res := s.deleter.DeleteRoles(ctx, uri.GuildID, req.KeepRoleIDs)
	writeDeleteResult(c, res, "Roles deleted successfully", "Failed to delete roles")
}

func writeDeleteResult(c *gin.Context, res model.DeleteResult, okMessage, failMessage string) {
	if !res.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message":      failMessage,
			"success":      false,
			"error":        res.Error,
			"deletedCount": res.DeletedCount,
			"failedCount":  res.FailedCount,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      okMessage,
		"success":      true,
		"deletedCount": res.DeletedCount,
		"failedCount":  res.FailedCount,
	})
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
