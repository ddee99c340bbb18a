package history

import (
	"time"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// MeetingHistoryResponse represents one completed meeting
type MeetingHistoryResponse struct {
	MeetingID   string                   `json:"meeting_id"`
	UserID      string                   `json:"user_id"`
	UserName    string                   `json:"user_name"`
	Status      string                   `json:"status"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
	Summary     *entities.MeetingSummary `json:"summary,omitempty"`
}

// MeetingHistoryListResponse represents a user's meeting history
type MeetingHistoryListResponse struct {
	UserID   string                    `json:"user_id"`
	Count    int                       `json:"count"`
	Meetings []*MeetingHistoryResponse `json:"meetings"`
}
