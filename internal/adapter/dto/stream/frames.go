package stream

import (
	"encoding/json"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// Client -> server frame types
const (
	TypeScreenFrame = "screen_frame"
	TypeConfig      = "config"
	TypeEndMeeting  = "end_meeting"
	TypeTextCommand = "text_command"
)

// Server -> client frame types
const (
	TypeConnectionReady = "connection_ready"
	TypeAudioWhisper    = "audio_whisper"
	TypeNudge           = "nudge"
	TypeStateUpdate     = "state_update"
	TypeSummary         = "summary"
	TypeError           = "error"
)

// Error categories sent in error frames
const (
	ErrorCategoryInvalidConfig = "invalid_config"
	ErrorCategoryAgent         = "agent"
)

// Media types forwarded to the agent
const (
	AudioInputMimeType  = "audio/pcm;rate=16000"
	ImageInputMimeType  = "image/jpeg"
	AudioOutputMimeType = "audio/pcm;rate=24000"
)

// ClientFrame is the envelope of every JSON frame sent by the client
type ClientFrame struct {
	Type   string          `json:"type"`
	Data   string          `json:"data,omitempty"`
	Text   string          `json:"text,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
}

// ConfigPayload is a partial meeting configuration. Absent fields keep their current value.
type ConfigPayload struct {
	UserName               *string  `json:"user_name" validate:"omitempty,min=1,max=200"`
	MeetingDurationMinutes *int     `json:"meeting_duration_minutes" validate:"omitempty,min=1,max=1440"`
	AgendaItems            []string `json:"agenda_items" validate:"omitempty,max=50,dive,min=1,max=200"`
}

// Merge applies the payload on top of the current configuration
func (p ConfigPayload) Merge(current entities.MeetingConfig) entities.MeetingConfig {
	merged := current
	if p.UserName != nil {
		merged.UserName = *p.UserName
	}
	if p.MeetingDurationMinutes != nil {
		merged.DurationMinutes = *p.MeetingDurationMinutes
	}
	if p.AgendaItems != nil {
		merged.AgendaItems = append([]string{}, p.AgendaItems...)
	}
	return merged
}

// ConnectionReady acknowledges an accepted connection
type ConnectionReady struct {
	Type      string `json:"type"`
	MeetingID string `json:"meeting_id"`
	SessionID string `json:"session_id"`
}

// AudioWhisper carries base64 agent audio
type AudioWhisper struct {
	Type     string `json:"type"`
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

// NudgeFrame carries one accepted nudge
type NudgeFrame struct {
	Type  string         `json:"type"`
	Nudge entities.Nudge `json:"nudge"`
}

// StateUpdate is the periodic progress report
type StateUpdate struct {
	Type             string  `json:"type"`
	CurrentTopic     string  `json:"current_topic"`
	ActionItemsCount int     `json:"action_items_count"`
	ElapsedMinutes   float64 `json:"elapsed_minutes"`
}

// SummaryFrame carries the compiled summary
type SummaryFrame struct {
	Type    string                   `json:"type"`
	Summary *entities.MeetingSummary `json:"summary"`
}

// ErrorFrame reports a recoverable or terminal problem to the client
type ErrorFrame struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
}

// NewErrorFrame creates an error frame
func NewErrorFrame(category, message string) ErrorFrame {
	return ErrorFrame{Type: TypeError, Message: message, Category: category}
}
