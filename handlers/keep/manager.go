// Package keep drives the interactive keep-selection workflows on Discord.
// Each invocation gets a session that owns one workflow.Workflow, the
// interaction used to edit its ephemeral message, and an inactivity timer.
package keep

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"guild-janitor/utils"
	"guild-janitor/workflow"

	"github.com/bwmarrin/discordgo"
	"github.com/oklog/ulid/v2"
)

// DefaultTimeout is the inactivity window after which a workflow is abandoned.
const DefaultTimeout = 5 * time.Minute

const (
	expiredMessage   = "This menu has expired. Please run the command again."
	notOwnerMessage  = "This menu belongs to someone else. Run the command yourself to get your own."
	busyMessage      = "Still working on your last action, please wait."
	executeTimeLimit = 10 * time.Minute
)

type session struct {
	mu        sync.Mutex
	id        string
	userID    string
	wf        *workflow.Workflow
	responder utils.Responder
	// last is the most recent interaction whose token can edit the message.
	last  *discordgo.Interaction
	timer *time.Timer
	// gen invalidates timers that fired while an event was being handled.
	gen uint64
}

// Manager owns every live session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	timeout  time.Duration
}

func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		sessions: make(map[string]*session),
		timeout:  timeout,
	}
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) get(id string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Start creates a workflow for desc and shows its main menu by editing the
// already deferred ephemeral response of origin.
func (m *Manager) Start(r utils.Responder, origin *discordgo.Interaction, userID string, desc workflow.Descriptor) error {
	s := &session{
		id:        ulid.Make().String(),
		userID:    userID,
		wf:        workflow.New(desc),
		responder: r,
		last:      origin,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.edit(render(s.id, s.wf)); err != nil {
		return err
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.armTimer(s)
	log.Printf("Started %s workflow %s for user %s", desc.Kind, s.id, userID)
	return nil
}

// armTimer (re)starts the inactivity timer. Callers hold s.mu.
func (m *Manager) armTimer(s *session) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(m.timeout, func() { m.expire(s.id, gen) })
}

func (m *Manager) stopTimer(s *session) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
}

// expire injects a synthetic timeout event, through the same transition
// function as user events.
func (m *Manager) expire(id string, gen uint64) {
	s := m.get(id)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}

	state, err := s.wf.HandleEvent(workflow.Event{Type: workflow.EventTimeout})
	if err != nil {
		return
	}
	m.remove(id)
	log.Printf("Workflow %s timed out", id)
	if state == workflow.StateTimedOut {
		if err := s.edit(render(s.id, s.wf)); err != nil {
			log.Printf("Error rendering timeout for workflow %s: %v", id, err)
		}
	}
}

// HandleComponent processes a button or select menu interaction whose
// CustomID starts with Prefix.
func (m *Manager) HandleComponent(r utils.Responder, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	sessionID, evType, err := parseCustomID(data.CustomID)
	if err != nil {
		log.Printf("Ignoring component interaction: %v", err)
		utils.SendEphemeral(r, i.Interaction, expiredMessage)
		return
	}

	s := m.get(sessionID)
	if s == nil {
		utils.SendEphemeral(r, i.Interaction, expiredMessage)
		return
	}
	if interactionUserID(i.Interaction) != s.userID {
		utils.SendEphemeral(r, i.Interaction, notOwnerMessage)
		return
	}
	if !s.mu.TryLock() {
		utils.SendEphemeral(r, i.Interaction, busyMessage)
		return
	}
	defer s.mu.Unlock()

	s.responder = r
	ev := workflow.Event{Type: evType, Values: data.Values}
	state, err := s.wf.HandleEvent(ev)
	if errors.Is(err, workflow.ErrFinished) {
		m.remove(s.id)
		utils.SendEphemeral(r, i.Interaction, expiredMessage)
		return
	}
	if err != nil {
		log.Printf("Workflow %s rejected %s in state %s", s.id, evType, state)
	}

	s.last = i.Interaction
	if err := s.update(i.Interaction, render(s.id, s.wf)); err != nil {
		log.Printf("Error updating workflow %s message: %v", s.id, err)
	}

	switch {
	case state == workflow.StateExecuting:
		m.stopTimer(s)
		m.execute(s)
	case state.Terminal():
		m.stopTimer(s)
		m.remove(s.id)
		log.Printf("Workflow %s finished in state %s", s.id, state)
	default:
		m.armTimer(s)
	}
}

// execute runs the deletion and renders the result. Callers hold s.mu.
func (m *Manager) execute(s *session) {
	ctx, cancel := context.WithTimeout(context.Background(), executeTimeLimit)
	defer cancel()

	state, err := s.wf.Execute(ctx)
	m.remove(s.id)
	if err != nil {
		log.Printf("Workflow %s failed to execute: %v", s.id, err)
		return
	}
	if res := s.wf.Result(); res != nil {
		log.Printf("Workflow %s finished in state %s: deleted %d, failed %d", s.id, state, res.DeletedCount, res.FailedCount)
	}
	if err := s.edit(render(s.id, s.wf)); err != nil {
		log.Printf("Error rendering result for workflow %s: %v", s.id, err)
	}
}

// update answers a component interaction by replacing the message in place.
func (s *session) update(i *discordgo.Interaction, v view) error {
	return s.responder.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     v.embeds,
			Components: v.components,
		},
	})
}

// edit rewrites the ephemeral message through the latest interaction token.
func (s *session) edit(v view) error {
	components := v.components
	embeds := v.embeds
	_, err := s.responder.InteractionResponseEdit(s.last, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
