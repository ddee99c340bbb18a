package coach

import (
	"slices"
	"sync"
	"time"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// Clock returns the current time
type Clock func() time.Time

// StateView is the compact progress report sent to the client
type StateView struct {
	CurrentTopic     string  `json:"current_topic"`
	ActionItemsCount int     `json:"action_items_count"`
	ElapsedMinutes   float64 `json:"elapsed_minutes"`
}

// Meeting serializes every access to one MeetingState.
// The inbound loop, the outbound loop and the agent's tool calls all go through it.
type Meeting struct {
	mu    sync.Mutex
	state *entities.MeetingState
	now   Clock
}

// NewMeeting wraps a state. A nil clock uses time.Now.
func NewMeeting(state *entities.MeetingState, clock Clock) *Meeting {
	if clock == nil {
		clock = time.Now
	}
	return &Meeting{state: state, now: clock}
}

// ID returns the meeting id
func (m *Meeting) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.MeetingID
}

// EmitNudge routes a nudge through the rate-limited emitter
func (m *Meeting) EmitNudge(category entities.NudgeCategory, message string, priority entities.NudgePriority) EmitResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return EmitNudge(m.state, category, message, priority, m.now())
}

// EmitParticipationReminder emits a participation nudge
func (m *Meeting) EmitParticipationReminder(minutesSilent int) EmitResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return EmitParticipationReminder(m.state, minutesSilent, m.now())
}

// EmitTimeWarning emits a high priority time nudge
func (m *Meeting) EmitTimeWarning(kind string, minutes int) EmitResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return EmitTimeWarning(m.state, kind, minutes, m.now())
}

// RecordActionItem records an action item
func (m *Meeting) RecordActionItem(assignee, description, deadline string) (entities.ActionItem, EmitResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return RecordActionItem(m.state, assignee, description, deadline, m.now())
}

// UpdateCurrentTopic switches the current topic
func (m *Meeting) UpdateCurrentTopic(topic string) TopicStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return UpdateCurrentTopic(m.state, topic, m.now())
}

// LogSpeakerTurn logs a speaker turn
func (m *Meeting) LogSpeakerTurn(speaker string, isCoachee bool) entities.SpeakerTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return LogSpeakerTurn(m.state, speaker, isCoachee, m.now())
}

// CheckAgendaStatus reports agenda coverage
func (m *Meeting) CheckAgendaStatus() AgendaStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return CheckAgendaStatus(m.state, m.now())
}

// CompileSummary compiles the summary under the lock so it observes a consistent snapshot
func (m *Meeting) CompileSummary() *entities.MeetingSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return CompileSummary(m.state, m.now())
}

// Summary returns a copy of the stored summary, or nil if not compiled yet
func (m *Meeting) Summary() *entities.MeetingSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Summary == nil {
		return nil
	}
	return m.state.Summary.Clone()
}

// NudgesSince returns nudges appended after the first `seen` entries and the new log length
func (m *Meeting) NudgesSince(seen int) ([]entities.Nudge, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := len(m.state.Nudges)
	if seen >= total {
		return nil, total
	}
	if seen < 0 {
		seen = 0
	}
	return slices.Clone(m.state.Nudges[seen:]), total
}

// View returns the progress report for the client
func (m *Meeting) View() StateView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return StateView{
		CurrentTopic:     m.state.CurrentTopic,
		ActionItemsCount: len(m.state.ActionItems),
		ElapsedMinutes:   m.state.ElapsedMinutes(m.now()),
	}
}

// ApplyConfig merges a validated configuration into the live state
func (m *Meeting) ApplyConfig(cfg entities.MeetingConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg.UserName != "" {
		m.state.UserName = cfg.UserName
	}
	if cfg.DurationMinutes > 0 {
		m.state.ScheduledDurationMinutes = cfg.DurationMinutes
	}
	if cfg.AgendaItems != nil {
		m.state.AgendaItems = slices.Clone(cfg.AgendaItems)
	}
}

// Snapshot returns a deep copy of the state
func (m *Meeting) Snapshot() *entities.MeetingState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}
