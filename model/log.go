package model

import "time"

type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
	SeveritySuccess Severity = "SUCCESS"
)

// LogEntry is one line of a guild's operation audit trail.
type LogEntry struct {
	ID        int64     `json:"id" db:"id"`
	GuildID   string    `json:"guildId" db:"guild_id"`
	Severity  Severity  `json:"type" db:"severity"`
	Message   string    `json:"message" db:"message"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
