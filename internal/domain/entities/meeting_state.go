package entities

import (
	"math"
	"slices"
	"time"
)

// MeetingState is the mutable record of one live meeting.
// Logs are append-only; only the last TopicEntry may be closed in place.
type MeetingState struct {
	MeetingID                string          `json:"meeting_id"`
	UserName                 string          `json:"user_name"`
	ScheduledStart           time.Time       `json:"scheduled_start"`
	ScheduledDurationMinutes int             `json:"scheduled_duration_minutes"`
	AgendaItems              []string        `json:"agenda_items"`
	ActionItems              []ActionItem    `json:"action_items"`
	Topics                   []TopicEntry    `json:"topics"`
	SpeakerTurns             []SpeakerTurn   `json:"speaker_turns"`
	Nudges                   []Nudge         `json:"nudges"`
	CurrentTopic             string          `json:"current_topic"`
	UserLastSpokeAt          *time.Time      `json:"user_last_spoke_at,omitempty"`
	LastNudgeAt              *time.Time      `json:"last_nudge_at,omitempty"`
	PendingNudge             *Nudge          `json:"pending_nudge,omitempty"`
	Summary                  *MeetingSummary `json:"summary,omitempty"`
}

// TopicEntry is one stretch of discussion. EndedAt is nil while the topic is open.
type TopicEntry struct {
	Topic     string     `json:"topic"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

// IsOpen reports whether the topic is still being discussed
func (t TopicEntry) IsOpen() bool {
	return t.EndedAt == nil
}

// SpeakerTurn records who spoke and when
type SpeakerTurn struct {
	Speaker   string    `json:"speaker"`
	IsCoachee bool      `json:"is_coachee"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMeetingState creates an empty meeting state starting at now.
// Callers validate durationMinutes before construction.
func NewMeetingState(meetingID, userName string, durationMinutes int, agendaItems []string, now time.Time) *MeetingState {
	agenda := make([]string, len(agendaItems))
	copy(agenda, agendaItems)

	return &MeetingState{
		MeetingID:                meetingID,
		UserName:                 userName,
		ScheduledStart:           now,
		ScheduledDurationMinutes: durationMinutes,
		AgendaItems:              agenda,
		ActionItems:              []ActionItem{},
		Topics:                   []TopicEntry{},
		SpeakerTurns:             []SpeakerTurn{},
		Nudges:                   []Nudge{},
	}
}

// OpenTopic returns the currently open topic entry, if any
func (s *MeetingState) OpenTopic() *TopicEntry {
	if len(s.Topics) == 0 {
		return nil
	}
	last := &s.Topics[len(s.Topics)-1]
	if !last.IsOpen() {
		return nil
	}
	return last
}

// IsTerminal reports whether the summary has been compiled
func (s *MeetingState) IsTerminal() bool {
	return s.Summary != nil
}

// ElapsedMinutes returns minutes since the scheduled start, rounded to one decimal
func (s *MeetingState) ElapsedMinutes(now time.Time) float64 {
	if s.ScheduledStart.IsZero() {
		return 0
	}
	return RoundOneDecimal(now.Sub(s.ScheduledStart).Minutes())
}

// Clone returns a deep copy safe to serialize outside the owner's lock
func (s *MeetingState) Clone() *MeetingState {
	c := *s
	c.AgendaItems = slices.Clone(s.AgendaItems)
	c.ActionItems = slices.Clone(s.ActionItems)
	c.SpeakerTurns = slices.Clone(s.SpeakerTurns)
	c.Nudges = slices.Clone(s.Nudges)
	c.Topics = make([]TopicEntry, len(s.Topics))
	for i, t := range s.Topics {
		c.Topics[i] = t
		if t.EndedAt != nil {
			ended := *t.EndedAt
			c.Topics[i].EndedAt = &ended
		}
	}
	if s.UserLastSpokeAt != nil {
		v := *s.UserLastSpokeAt
		c.UserLastSpokeAt = &v
	}
	if s.LastNudgeAt != nil {
		v := *s.LastNudgeAt
		c.LastNudgeAt = &v
	}
	if s.PendingNudge != nil {
		v := *s.PendingNudge
		c.PendingNudge = &v
	}
	if s.Summary != nil {
		c.Summary = s.Summary.Clone()
	}
	return &c
}

// Clone returns a deep copy of the summary
func (m *MeetingSummary) Clone() *MeetingSummary {
	c := *m
	c.Topics = slices.Clone(m.Topics)
	c.ActionItems = slices.Clone(m.ActionItems)
	c.CoachingStats.Breakdown = make(map[NudgeCategory]int, len(m.CoachingStats.Breakdown))
	for k, v := range m.CoachingStats.Breakdown {
		c.CoachingStats.Breakdown[k] = v
	}
	return &c
}

// RoundOneDecimal rounds half away from zero to one decimal place
func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
