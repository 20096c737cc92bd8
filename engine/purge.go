package engine

import (
	"context"
	"fmt"
	"time"

	"guild-janitor/model"
	"guild-janitor/platform"
)

// BulkDeleteMaxAge is the platform limit on batch message deletion. Messages
// at or beyond this age must be deleted one by one.
const BulkDeleteMaxAge = 14 * 24 * time.Hour

const progressEvery = 10

// DeleteMessages purges up to req.Limit of the newest messages in a channel
// that match the request filters.
func (e *Engine) DeleteMessages(ctx context.Context, req model.PurgeRequest) model.PurgeResult {
	limit := req.Limit
	if limit < 1 {
		limit = 1
	}
	if limit > platform.MaxMessagesPerFetch {
		limit = platform.MaxMessagesPerFetch
	}

	messages, err := e.client.Messages(ctx, req.ChannelID, limit)
	if err != nil {
		e.journal.Error(req.GuildID, fmt.Sprintf("Message deletion failed: %v", err))
		return model.PurgeResult{Success: false, Error: err.Error()}
	}

	recent, old := partitionByAge(messages, req, e.now())
	result := model.PurgeResult{Success: true}

	if len(recent) > 0 {
		if err := e.client.BulkDeleteMessages(ctx, req.ChannelID, recent); err != nil {
			result.FailedCount += len(recent)
			e.journal.Error(req.GuildID, fmt.Sprintf("Failed to bulk delete %d recent messages: %v", len(recent), err))
		} else {
			result.DeletedCount += len(recent)
			e.journal.Success(req.GuildID, fmt.Sprintf("Bulk deleted %d recent messages", len(recent)))
		}
	}

	deletedOld := 0
	for _, id := range old {
		// Old-message failures are common and are only counted.
		if err := e.client.DeleteMessage(ctx, req.ChannelID, id); err != nil {
			result.FailedCount++
			continue
		}
		deletedOld++
		if deletedOld%progressEvery == 0 {
			e.journal.Info(req.GuildID, fmt.Sprintf("Deleted %d/%d older messages", deletedOld, len(old)))
		}
	}
	result.DeletedCount += deletedOld

	summary := fmt.Sprintf("Deleted %d messages from channel %s", result.DeletedCount, req.ChannelID)
	if result.FailedCount > 0 {
		summary += fmt.Sprintf(" (%d failed)", result.FailedCount)
	}
	e.journal.Success(req.GuildID, summary)
	return result
}

// partitionByAge filters messages and splits the ids into those eligible for
// batch deletion and those that are too old. A message exactly at the cutoff
// counts as old.
func partitionByAge(messages []model.Message, req model.PurgeRequest, now time.Time) (recent, old []string) {
	cutoff := now.Add(-BulkDeleteMaxAge)
	for _, m := range messages {
		if !req.Matches(m) {
			continue
		}
		if m.Timestamp.After(cutoff) {
			recent = append(recent, m.ID)
		} else {
			old = append(old, m.ID)
		}
	}
	return recent, old
}
