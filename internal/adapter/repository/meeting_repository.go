package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appErrors "github.com/johnquangdev/meeting-coach/errors"
	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/internal/domain/repositories"
)

// DefaultHistoryLimit is used when a history query does not set a positive limit
const DefaultHistoryLimit = 10

// meetingRepository implements the MeetingRepository interface on PostgreSQL
type meetingRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Save upserts the state snapshot. Status and summary columns are left untouched.
func (r *meetingRepository) Save(ctx context.Context, meetingID string, state *entities.MeetingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting state: %w", err)
	}

	now := r.now()
	record := &entities.MeetingRecord{
		MeetingID: meetingID,
		UserName:  state.UserName,
		Status:    entities.MeetingStatusActive,
		State:     datatypes.JSON(data),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_name", "state", "updated_at"}),
		}).
		Create(record).Error
	if err != nil {
		return appErrors.ErrDBQueryFailed("save_meeting", fmt.Errorf("failed to save meeting %s: %w", meetingID, err))
	}
	return nil
}

// SaveSummary stores the summary and marks the meeting completed for the user
func (r *meetingRepository) SaveSummary(ctx context.Context, meetingID string, summary *entities.MeetingSummary, userID string) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting summary: %w", err)
	}

	now := r.now()
	record := &entities.MeetingRecord{
		MeetingID:   meetingID,
		UserID:      userID,
		Status:      entities.MeetingStatusCompleted,
		Summary:     datatypes.JSON(data),
		CompletedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "status", "summary", "completed_at", "updated_at"}),
		}).
		Create(record).Error
	if err != nil {
		return appErrors.ErrDBQueryFailed("save_summary", fmt.Errorf("failed to save summary for meeting %s: %w", meetingID, err))
	}
	return nil
}

// ListHistory returns completed meetings for a user, most recent first
func (r *meetingRepository) ListHistory(ctx context.Context, userID string, limit int) ([]*entities.MeetingHistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var records []entities.MeetingRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, entities.MeetingStatusCompleted).
		Order("completed_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, appErrors.ErrDBQueryFailed("list_history", fmt.Errorf("failed to list meeting history: %w", err))
	}

	entries := make([]*entities.MeetingHistoryEntry, 0, len(records))
	for i := range records {
		entry, err := toHistoryEntry(&records[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func toHistoryEntry(record *entities.MeetingRecord) (*entities.MeetingHistoryEntry, error) {
	entry := &entities.MeetingHistoryEntry{
		MeetingID:   record.MeetingID,
		UserID:      record.UserID,
		UserName:    record.UserName,
		Status:      record.Status,
		CompletedAt: record.CompletedAt,
	}
	if len(record.Summary) > 0 {
		var summary entities.MeetingSummary
		if err := json.Unmarshal(record.Summary, &summary); err != nil {
			return nil, fmt.Errorf("failed to decode summary of meeting %s: %w", record.MeetingID, err)
		}
		entry.Summary = &summary
	}
	return entry, nil
}
