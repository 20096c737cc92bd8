package keep

import (
	"fmt"
	"strings"

	"guild-janitor/workflow"
)

// Prefix routes component interactions to this package.
const Prefix = "keep:"

// Component actions. The CustomID format is "keep:<session>:<action>".
const (
	actionContinue = "continue"
	actionCancel   = "cancel"
	actionBack     = "back"
	actionSelect   = "select"
	actionFilter   = "filter"
	actionPrev     = "prev"
	actionNext     = "next"
	actionReset    = "reset"
	actionConfirm  = "confirm"
	actionYes      = "yes"
	actionNo       = "no"
)

var actionEvents = map[string]workflow.EventType{
	actionContinue: workflow.EventContinue,
	actionCancel:   workflow.EventCancel,
	actionBack:     workflow.EventBack,
	actionSelect:   workflow.EventSelect,
	actionFilter:   workflow.EventFilter,
	actionPrev:     workflow.EventPrevPage,
	actionNext:     workflow.EventNextPage,
	actionReset:    workflow.EventReset,
	actionConfirm:  workflow.EventConfirmSelection,
	actionYes:      workflow.EventFinalConfirm,
	actionNo:       workflow.EventFinalCancel,
}

func customID(sessionID, action string) string {
	return Prefix + sessionID + ":" + action
}

// parseCustomID splits a CustomID into its session id and workflow event type.
func parseCustomID(id string) (string, workflow.EventType, error) {
	rest, ok := strings.CutPrefix(id, Prefix)
	if !ok {
		return "", 0, fmt.Errorf("custom id %q has no %q prefix", id, Prefix)
	}
	sessionID, action, ok := strings.Cut(rest, ":")
	if !ok || sessionID == "" {
		return "", 0, fmt.Errorf("malformed custom id %q", id)
	}
	ev, ok := actionEvents[action]
	if !ok {
		return "", 0, fmt.Errorf("unknown action %q", action)
	}
	return sessionID, ev, nil
}
