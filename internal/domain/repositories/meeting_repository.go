package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting history persistence.
// Implementations return entities.ErrStoreUnavailable when the backing store cannot be reached.
type MeetingRepository interface {
	// Save stores a snapshot of the live meeting state
	Save(ctx context.Context, meetingID string, state *entities.MeetingState) error

	// SaveSummary stores the compiled summary and marks the meeting completed
	SaveSummary(ctx context.Context, meetingID string, summary *entities.MeetingSummary, userID string) error

	// ListHistory returns completed meetings for a user, most recent first
	ListHistory(ctx context.Context, userID string, limit int) ([]*entities.MeetingHistoryEntry, error)
}
