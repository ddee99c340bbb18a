package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/internal/domain/repositories"
)

const (
	// DefaultLimit is used when the caller does not ask for a positive limit
	DefaultLimit = 10
	// MaxLimit caps a single history page
	MaxLimit = 100
)

// Service defines the interface for meeting history use case
type Service interface {
	// ListHistory returns a user's completed meetings, most recent first
	ListHistory(ctx context.Context, userID string, limit int) ([]*entities.MeetingHistoryEntry, error)
}

// Ensure HistoryService implements Service interface
var _ Service = (*HistoryService)(nil)

// HistoryService reads meeting history from the meeting repository
type HistoryService struct {
	repo   repositories.MeetingRepository
	logger *zap.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(repo repositories.MeetingRepository, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		repo:   repo,
		logger: logger,
	}
}

// ListHistory returns completed meetings for userID.
// An unreachable store yields an empty history rather than an error.
func (s *HistoryService) ListHistory(ctx context.Context, userID string, limit int) ([]*entities.MeetingHistoryEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", entities.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	entries, err := s.repo.ListHistory(ctx, userID, limit)
	if errors.Is(err, entities.ErrStoreUnavailable) {
		if s.logger != nil {
			s.logger.Warn("⚠️ Meeting store unavailable, returning empty history", zap.String("user_id", userID))
		}
		return []*entities.MeetingHistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	if entries == nil {
		entries = []*entities.MeetingHistoryEntry{}
	}
	return entries, nil
}
