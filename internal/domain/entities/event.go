package entities

import "time"

// CoachingEventType names a lifecycle event published for other consumers
type CoachingEventType string

const (
	EventSessionStarted  CoachingEventType = "session.started"
	EventNudgeEmitted    CoachingEventType = "nudge.emitted"
	EventSummaryCompiled CoachingEventType = "summary.compiled"
	EventSessionEnded    CoachingEventType = "session.ended"
)

// CoachingEvent is the payload fanned out to the event bus
type CoachingEvent struct {
	Type      CoachingEventType `json:"type"`
	MeetingID string            `json:"meeting_id"`
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   any               `json:"payload,omitempty"`
}
