package bot

import (
	"sync"

	"guild-janitor/model"
)

type statusTracker struct {
	mu     sync.RWMutex
	status model.BotStatus
}

func (t *statusTracker) set(state model.BotState, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = model.BotStatus{Status: state}
	if err != nil {
		t.status.Error = err.Error()
	}
}

func (t *statusTracker) get() model.BotStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.status.Status == "" {
		return model.BotStatus{Status: model.BotOffline}
	}
	return t.status
}
