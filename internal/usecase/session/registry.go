package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// meetingIDAlphabet is used for generated meeting ids
const meetingIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// meetingIDLength is the length of a generated meeting id
const meetingIDLength = 12

// sessionSuffixLength is the length of the random part of a session id
const sessionSuffixLength = 8

// Defaults fill in configuration the client did not provide
type Defaults struct {
	UserName        string
	DurationMinutes int
}

type entry struct {
	session *entities.MeetingSession
	cancel  context.CancelFunc
}

// Registry tracks meeting sessions of this process.
// Entries are keyed by session id. A meeting id resolves to its newest session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	latest   map[string]string
	defaults Defaults
	now      func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(defaults Defaults) *Registry {
	if defaults.UserName == "" {
		defaults.UserName = "User"
	}
	if defaults.DurationMinutes <= 0 {
		defaults.DurationMinutes = 30
	}
	return &Registry{
		sessions: make(map[string]*entry),
		latest:   make(map[string]string),
		defaults: defaults,
		now:      time.Now,
	}
}

// Create registers a new active session, generating a meeting id when empty
func (r *Registry) Create(meetingID, userName string, durationMinutes int, agendaItems []string) (*entities.MeetingSession, error) {
	if meetingID == "" {
		id, err := nanoid.Generate(meetingIDAlphabet, meetingIDLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate meeting id: %w", err)
		}
		meetingID = id
	}
	if userName == "" {
		userName = r.defaults.UserName
	}
	if durationMinutes <= 0 {
		durationMinutes = r.defaults.DurationMinutes
	}
	if agendaItems == nil {
		agendaItems = []string{}
	}

	suffix, err := nanoid.Generate(meetingIDAlphabet, sessionSuffixLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	userID := "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	sessionID := "session_" + meetingID + "_" + suffix

	s := entities.NewMeetingSession(meetingID, userID, sessionID, entities.MeetingConfig{
		UserName:        userName,
		DurationMinutes: durationMinutes,
		AgendaItems:     agendaItems,
	}, r.now())

	r.mu.Lock()
	r.sessions[sessionID] = &entry{session: s}
	r.latest[meetingID] = sessionID
	r.mu.Unlock()

	return cloneSession(s), nil
}

// Get returns a copy of the newest session for a meeting
func (r *Registry) Get(meetingID string) (*entities.MeetingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[r.latest[meetingID]]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	return cloneSession(e.session), nil
}

// UpdateConfig replaces the configuration snapshot of a session
func (r *Registry) UpdateConfig(sessionID string, cfg entities.MeetingConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return entities.ErrSessionNotFound
	}
	cfg.AgendaItems = slices.Clone(cfg.AgendaItems)
	e.session.Config = cfg
	return nil
}

// AttachCancel stores the function that tears down the session's connection
func (r *Registry) AttachCancel(sessionID string, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return entities.ErrSessionNotFound
	}
	e.cancel = cancel
	return nil
}

// End marks the session inactive without removing it
func (r *Registry) End(sessionID string) (*entities.MeetingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	e.session.End()
	return cloneSession(e.session), nil
}

// Remove deletes the session entry. The meeting keeps resolving to a newer session if one exists.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)
	if r.latest[e.session.MeetingID] == sessionID {
		delete(r.latest, e.session.MeetingID)
	}
}

// ActiveCount returns the number of sessions still active
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.sessions {
		if e.session.IsActive {
			n++
		}
	}
	return n
}

// CancelAll cancels every tracked connection and returns how many were signalled
func (r *Registry) CancelAll() int {
	var cancels []context.CancelFunc
	r.mu.RLock()
	for _, e := range r.sessions {
		if e.cancel != nil {
			cancels = append(cancels, e.cancel)
		}
	}
	r.mu.RUnlock()

	for _, cancel := range cancels {
		cancel()
	}
	return len(cancels)
}

func cloneSession(s *entities.MeetingSession) *entities.MeetingSession {
	c := *s
	c.Config.AgendaItems = slices.Clone(s.Config.AgendaItems)
	return &c
}
