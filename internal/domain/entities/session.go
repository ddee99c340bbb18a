package entities

import (
	"slices"
	"time"
)

// MeetingConfig is the coachee-supplied meeting configuration
type MeetingConfig struct {
	UserName        string   `json:"user_name"`
	DurationMinutes int      `json:"meeting_duration_minutes"`
	AgendaItems     []string `json:"agenda_items"`
}

// MeetingSession represents the identity of one coached connection.
// It outlives the live MeetingState and is owned by the session registry.
type MeetingSession struct {
	MeetingID string        `json:"meeting_id"`
	UserID    string        `json:"user_id"`
	SessionID string        `json:"session_id"`
	StartTime time.Time     `json:"start_time"`
	Config    MeetingConfig `json:"config"`
	IsActive  bool          `json:"is_active"`
}

// NewMeetingSession creates a new active session
func NewMeetingSession(meetingID, userID, sessionID string, cfg MeetingConfig, now time.Time) *MeetingSession {
	cfg.AgendaItems = slices.Clone(cfg.AgendaItems)
	return &MeetingSession{
		MeetingID: meetingID,
		UserID:    userID,
		SessionID: sessionID,
		StartTime: now,
		Config:    cfg,
		IsActive:  true,
	}
}

// End marks the session as gracefully ended
func (s *MeetingSession) End() {
	s.IsActive = false
}
