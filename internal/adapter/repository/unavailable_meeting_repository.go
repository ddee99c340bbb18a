package repository

import (
	"context"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/internal/domain/repositories"
)

// unavailableMeetingRepository stands in when the configured store cannot be reached.
// Writes report ErrStoreUnavailable; history is empty.
type unavailableMeetingRepository struct{}

// NewUnavailableMeetingRepository creates the degraded repository
func NewUnavailableMeetingRepository() repositories.MeetingRepository {
	return unavailableMeetingRepository{}
}

func (unavailableMeetingRepository) Save(context.Context, string, *entities.MeetingState) error {
	return entities.ErrStoreUnavailable
}

func (unavailableMeetingRepository) SaveSummary(context.Context, string, *entities.MeetingSummary, string) error {
	return entities.ErrStoreUnavailable
}

func (unavailableMeetingRepository) ListHistory(context.Context, string, int) ([]*entities.MeetingHistoryEntry, error) {
	return []*entities.MeetingHistoryEntry{}, nil
}
