package engine

import (
	"log"
	"time"

	"guild-janitor/model"
	"guild-janitor/utils"
	"guild-janitor/utils/database"
)

// Journal records the audit trail of engine operations. Entries go to the
// store and the console; non-INFO entries are also mirrored to the webhook.
type Journal struct {
	store    database.Store
	notifier *utils.Notifier
	now      func() time.Time
}

func NewJournal(store database.Store, notifier *utils.Notifier) *Journal {
	return &Journal{store: store, notifier: notifier, now: time.Now}
}

func (j *Journal) Record(guildID string, severity model.Severity, message string) {
	log.Printf("[%s] guild %s: %s", severity, guildID, message)

	_, err := j.store.CreateLog(model.LogEntry{
		GuildID:   guildID,
		Severity:  severity,
		Message:   message,
		Timestamp: j.now(),
	})
	if err != nil {
		log.Printf("Error storing log entry for guild %s: %v", guildID, err)
	}

	if severity == model.SeverityInfo {
		return
	}
	j.notifier.Enqueue(utils.LogLevel(severity), guildID, message)
}

func (j *Journal) Info(guildID, message string)    { j.Record(guildID, model.SeverityInfo, message) }
func (j *Journal) Warning(guildID, message string) { j.Record(guildID, model.SeverityWarning, message) }
func (j *Journal) Error(guildID, message string)   { j.Record(guildID, model.SeverityError, message) }
func (j *Journal) Success(guildID, message string) { j.Record(guildID, model.SeveritySuccess, message) }
