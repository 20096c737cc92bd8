// Package platform is the boundary between the bot's core and the Discord API.
// Everything past this package works on model types only.
package platform

import (
	"context"
	"errors"

	"guild-janitor/model"
)

// MaxMessagesPerFetch is the Discord cap on a single message history request.
const MaxMessagesPerFetch = 100

var ErrNotConnected = errors.New("bot is not connected")

// Client is the subset of the chat platform the sync cache and engines use.
type Client interface {
	Guilds(ctx context.Context) ([]model.Guild, error)
	Channels(ctx context.Context, guildID string) ([]model.Channel, error)
	Roles(ctx context.Context, guildID string) ([]model.Role, error)
	DeleteChannel(ctx context.Context, channelID string) error
	DeleteRole(ctx context.Context, guildID, roleID string) error
	// Messages returns up to limit of the newest messages, newest first.
	Messages(ctx context.Context, channelID string, limit int) ([]model.Message, error)
	BulkDeleteMessages(ctx context.Context, channelID string, messageIDs []string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}
