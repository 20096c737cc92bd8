package model

import "time"

// DeleteResult is the outcome of a bulk channel or role deletion.
type DeleteResult struct {
	Success      bool   `json:"success"`
	DeletedCount int    `json:"deletedCount"`
	FailedCount  int    `json:"failedCount"`
	PlanSize     int    `json:"planSize"`
	Error        string `json:"error,omitempty"`
}

// Message is a chat message narrowed to the fields the purge engine filters on.
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	AuthorBot bool
	System    bool
	Pinned    bool
	Timestamp time.Time
}

type MessageFilterType string

const (
	MessageFilterAll       MessageFilterType = "all"
	MessageFilterUser      MessageFilterType = "user"
	MessageFilterBot       MessageFilterType = "bot"
	MessageFilterNonSystem MessageFilterType = "non-system"
)

// PurgeRequest describes a /clear invocation. Zero Before/After means unbounded.
type PurgeRequest struct {
	GuildID       string
	ChannelID     string
	Limit         int
	Type          MessageFilterType
	AuthorID      string
	IncludePinned bool
	Before        time.Time
	After         time.Time
}

// Matches reports whether m passes every filter of the request.
func (r PurgeRequest) Matches(m Message) bool {
	switch r.Type {
	case MessageFilterUser:
		if m.AuthorBot {
			return false
		}
	case MessageFilterBot:
		if !m.AuthorBot {
			return false
		}
	case MessageFilterNonSystem:
		if m.System {
			return false
		}
	}
	if r.AuthorID != "" && m.AuthorID != r.AuthorID {
		return false
	}
	if m.Pinned && !r.IncludePinned {
		return false
	}
	if !r.Before.IsZero() && !m.Timestamp.Before(r.Before) {
		return false
	}
	if !r.After.IsZero() && !m.Timestamp.After(r.After) {
		return false
	}
	return true
}

// PurgeResult is the outcome of a message purge.
type PurgeResult struct {
	Success      bool   `json:"success"`
	DeletedCount int    `json:"deletedCount"`
	FailedCount  int    `json:"failedCount"`
	Error        string `json:"error,omitempty"`
}

type BotState string

const (
	BotOffline BotState = "offline"
	BotOnline  BotState = "online"
	BotError   BotState = "error"
)

type BotStatus struct {
	Status BotState `json:"status"`
	Error  string   `json:"error,omitempty"`
}
