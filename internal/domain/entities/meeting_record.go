package entities

import (
	"time"

	"gorm.io/datatypes"
)

// MeetingStatus represents the persisted lifecycle of a meeting
type MeetingStatus string

const (
	MeetingStatusActive    MeetingStatus = "active"
	MeetingStatusCompleted MeetingStatus = "completed"
)

// MeetingRecord is the durable row for one meeting
type MeetingRecord struct {
	MeetingID   string         `json:"meeting_id" gorm:"column:meeting_id;type:varchar(64);primaryKey"`
	UserID      string         `json:"user_id" gorm:"column:user_id;type:varchar(64);index"`
	UserName    string         `json:"user_name" gorm:"column:user_name;type:varchar(255)"`
	Status      MeetingStatus  `json:"status" gorm:"column:status;type:varchar(20);not null;index"`
	State       datatypes.JSON `json:"state,omitempty" gorm:"column:state;type:jsonb"`
	Summary     datatypes.JSON `json:"summary,omitempty" gorm:"column:summary;type:jsonb"`
	CompletedAt *time.Time     `json:"completed_at,omitempty" gorm:"column:completed_at"`
	CreatedAt   time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (MeetingRecord) TableName() string {
	return "meetings"
}

// MeetingHistoryEntry is one completed meeting returned by history queries
type MeetingHistoryEntry struct {
	MeetingID   string          `json:"meeting_id"`
	UserID      string          `json:"user_id"`
	UserName    string          `json:"user_name"`
	Status      MeetingStatus   `json:"status"`
	Summary     *MeetingSummary `json:"summary"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}
