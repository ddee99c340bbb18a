package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/internal/domain/repositories"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/storage"
)

// SummaryArchive stores documents in object storage
type SummaryArchive interface {
	UploadJSON(ctx context.Context, objectName string, v any) error
}

// archivingMeetingRepository copies every saved summary to object storage
type archivingMeetingRepository struct {
	repositories.MeetingRepository
	archive SummaryArchive
	logger  *zap.Logger
}

// NewArchivingMeetingRepository wraps next. Archive failures are logged, never returned.
func NewArchivingMeetingRepository(next repositories.MeetingRepository, archive SummaryArchive, logger *zap.Logger) repositories.MeetingRepository {
	return &archivingMeetingRepository{
		MeetingRepository: next,
		archive:           archive,
		logger:            logger,
	}
}

func (r *archivingMeetingRepository) SaveSummary(ctx context.Context, meetingID string, summary *entities.MeetingSummary, userID string) error {
	err := r.MeetingRepository.SaveSummary(ctx, meetingID, summary, userID)

	objectName := storage.SummaryObjectName(userID, meetingID)
	doc := map[string]any{
		"meeting_id": meetingID,
		"user_id":    userID,
		"summary":    summary,
	}
	if archiveErr := r.archive.UploadJSON(ctx, objectName, doc); archiveErr != nil {
		if r.logger != nil {
			r.logger.Warn("⚠️ Failed to archive meeting summary",
				zap.String("meeting_id", meetingID),
				zap.String("object", objectName),
				zap.Error(archiveErr),
			)
		}
	}
	return err
}
