// Package workflow implements the keep-selection state machine behind the
// interactive bulk-delete commands. It knows nothing about Discord; handlers
// feed it events and render whatever state it ends up in.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"guild-janitor/model"
)

const (
	// PageSize is the maximum number of options in one select menu.
	PageSize = 25
	// PreviewSize is how many delete targets the confirmation screen lists.
	PreviewSize = 15
)

type State int

const (
	StateMainMenu State = iota
	StateSelecting
	StateConfirming
	StateExecuting
	StateResult
	StateCancelled
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateMainMenu:
		return "main-menu"
	case StateSelecting:
		return "selecting"
	case StateConfirming:
		return "confirming"
	case StateExecuting:
		return "executing"
	case StateResult:
		return "result"
	case StateCancelled:
		return "cancelled"
	case StateTimedOut:
		return "timed-out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further event can change the state.
func (s State) Terminal() bool {
	return s == StateResult || s == StateCancelled || s == StateTimedOut
}

type EventType int

const (
	EventContinue EventType = iota
	EventCancel
	EventBack
	EventSelect
	EventFilter
	EventPrevPage
	EventNextPage
	EventConfirmSelection
	EventFinalConfirm
	EventFinalCancel
	EventTimeout
	EventExecuted
	EventReset
)

func (t EventType) String() string {
	switch t {
	case EventContinue:
		return "continue"
	case EventCancel:
		return "cancel"
	case EventBack:
		return "back"
	case EventSelect:
		return "select"
	case EventFilter:
		return "filter"
	case EventPrevPage:
		return "prev"
	case EventNextPage:
		return "next"
	case EventConfirmSelection:
		return "confirm"
	case EventFinalConfirm:
		return "final-confirm"
	case EventFinalCancel:
		return "final-cancel"
	case EventTimeout:
		return "timeout"
	case EventExecuted:
		return "executed"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is one input to the state machine. Values carries the chosen ids for
// EventSelect and the filter value for EventFilter; Result is set only on
// EventExecuted.
type Event struct {
	Type   EventType
	Values []string
	Result *model.DeleteResult
}

var (
	ErrInvalidEvent = errors.New("event not allowed in current state")
	ErrFinished     = errors.New("workflow already finished")
)

// Workflow is one invocation's state. It is not safe for concurrent use;
// callers serialise events per instance.
type Workflow struct {
	desc      Descriptor
	index     map[string]int
	state     State
	selection *Selection
	page      int
	filter    string
	result    *model.DeleteResult
}

func New(desc Descriptor) *Workflow {
	w := &Workflow{
		desc:      desc,
		index:     make(map[string]int, len(desc.Items)),
		state:     StateMainMenu,
		selection: NewSelection(desc.PinnedID),
		filter:    FilterAll,
	}
	for i, it := range desc.Items {
		w.index[it.ID] = i
	}
	if len(desc.Filters) > 0 {
		w.filter = desc.Filters[0].Value
	}
	return w
}

func (w *Workflow) State() State { return w.state }
func (w *Workflow) Descriptor() *Descriptor { return &w.desc }
func (w *Workflow) Filter() string { return w.filter }
func (w *Workflow) Page() int { return w.page }
func (w *Workflow) Result() *model.DeleteResult { return w.result }

// KeepIDs is the current Selection Set in insertion order.
func (w *Workflow) KeepIDs() []string {
	return w.selection.IDs()
}

// HandleEvent applies ev and returns the resulting state. Events that are not
// valid in the current state leave it unchanged and return an error.
func (w *Workflow) HandleEvent(ev Event) (State, error) {
	if w.state.Terminal() {
		return w.state, ErrFinished
	}
	if ev.Type == EventTimeout {
		if w.state == StateExecuting {
			return w.state, ErrInvalidEvent
		}
		w.state = StateTimedOut
		return w.state, nil
	}

	switch w.state {
	case StateMainMenu:
		switch ev.Type {
		case EventContinue:
			w.state = StateSelecting
		case EventCancel:
			w.state = StateCancelled
		default:
			return w.state, ErrInvalidEvent
		}

	case StateSelecting:
		switch ev.Type {
		case EventSelect:
			for _, id := range ev.Values {
				if _, ok := w.index[id]; ok {
					w.selection.Add(id)
				}
			}
		case EventFilter:
			if len(ev.Values) == 0 || !w.desc.hasFilter(ev.Values[0]) {
				return w.state, ErrInvalidEvent
			}
			w.filter = ev.Values[0]
			w.page = 0
		case EventPrevPage:
			if w.page > 0 {
				w.page--
			}
		case EventNextPage:
			if w.page < w.TotalPages()-1 {
				w.page++
			}
		case EventReset:
			w.selection.Reset()
		case EventBack:
			w.state = StateMainMenu
		case EventConfirmSelection:
			w.state = StateConfirming
		default:
			return w.state, ErrInvalidEvent
		}

	case StateConfirming:
		switch ev.Type {
		case EventFinalConfirm:
			w.state = StateExecuting
		case EventFinalCancel:
			w.state = StateMainMenu
		case EventCancel:
			w.state = StateCancelled
		default:
			return w.state, ErrInvalidEvent
		}

	case StateExecuting:
		if ev.Type != EventExecuted || ev.Result == nil {
			return w.state, ErrInvalidEvent
		}
		w.result = ev.Result
		w.state = StateResult
	}

	return w.state, nil
}

// Execute runs the descriptor's executor with the current keep set and moves
// the workflow to Result. It must be called in StateExecuting.
func (w *Workflow) Execute(ctx context.Context) (State, error) {
	if w.state != StateExecuting {
		return w.state, ErrInvalidEvent
	}
	var result model.DeleteResult
	if w.desc.Execute == nil {
		result = model.DeleteResult{Success: false, Error: "no executor configured"}
	} else {
		result = w.desc.Execute(ctx, w.KeepIDs())
	}
	return w.HandleEvent(Event{Type: EventExecuted, Result: &result})
}

// FilteredItems returns the items passing the current filter.
func (w *Workflow) FilteredItems() []Item {
	if w.filter == FilterAll || w.desc.Match == nil {
		return w.desc.Items
	}
	items := make([]Item, 0, len(w.desc.Items))
	for _, it := range w.desc.Items {
		if w.desc.Match(it, w.filter) {
			items = append(items, it)
		}
	}
	return items
}

// TotalPages is at least 1, even when the filter matches nothing.
func (w *Workflow) TotalPages() int {
	n := len(w.FilteredItems())
	if n == 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// PageItems returns the slice of filtered items on the current page.
func (w *Workflow) PageItems() []Item {
	items := w.FilteredItems()
	start := w.page * PageSize
	if start >= len(items) {
		return nil
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Selected returns the kept items in selection order.
func (w *Workflow) Selected() []Item {
	items := make([]Item, 0, w.selection.Len())
	for _, id := range w.selection.IDs() {
		if i, ok := w.index[id]; ok {
			items = append(items, w.desc.Items[i])
		} else {
			items = append(items, Item{ID: id, Label: id})
		}
	}
	return items
}

// ToDelete returns every item not in the Selection Set.
func (w *Workflow) ToDelete() []Item {
	items := make([]Item, 0, len(w.desc.Items))
	for _, it := range w.desc.Items {
		if !w.selection.Has(it.ID) {
			items = append(items, it)
		}
	}
	return items
}

// DeletePreview returns at most PreviewSize delete targets and how many more
// were left out.
func (w *Workflow) DeletePreview() ([]Item, int) {
	all := w.ToDelete()
	if len(all) <= PreviewSize {
		return all, 0
	}
	return all[:PreviewSize], len(all) - PreviewSize
}
