package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/internal/domain/repositories"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/cache"
)

const meetingKeyPrefix = "meeting:"

// memoryMeetingRepository keeps meeting records in the process-local TTL store
type memoryMeetingRepository struct {
	mu    sync.Mutex
	store *cache.MemoryStore
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryMeetingRepository creates a repository on store. Records expire after ttl (0 keeps them).
func NewMemoryMeetingRepository(store *cache.MemoryStore, ttl time.Duration) repositories.MeetingRepository {
	return &memoryMeetingRepository{
		store: store,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryMeetingRepository) load(meetingID string) (*entities.MeetingRecord, error) {
	raw, ok := r.store.Get(meetingKeyPrefix + meetingID)
	if !ok {
		return nil, nil
	}
	var record entities.MeetingRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode meeting %s: %w", meetingID, err)
	}
	return &record, nil
}

func (r *memoryMeetingRepository) put(record *entities.MeetingRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode meeting %s: %w", record.MeetingID, err)
	}
	r.store.Set(meetingKeyPrefix+record.MeetingID, raw, r.ttl)
	return nil
}

func (r *memoryMeetingRepository) upsert(meetingID string, apply func(*entities.MeetingRecord)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.load(meetingID)
	if err != nil {
		return err
	}
	now := r.now()
	if record == nil {
		record = &entities.MeetingRecord{
			MeetingID: meetingID,
			Status:    entities.MeetingStatusActive,
			CreatedAt: now,
		}
	}
	apply(record)
	record.UpdatedAt = now
	return r.put(record)
}

func (r *memoryMeetingRepository) Save(ctx context.Context, meetingID string, state *entities.MeetingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting state: %w", err)
	}
	return r.upsert(meetingID, func(record *entities.MeetingRecord) {
		record.UserName = state.UserName
		record.State = datatypes.JSON(data)
	})
}

func (r *memoryMeetingRepository) SaveSummary(ctx context.Context, meetingID string, summary *entities.MeetingSummary, userID string) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting summary: %w", err)
	}
	completedAt := r.now()
	return r.upsert(meetingID, func(record *entities.MeetingRecord) {
		record.UserID = userID
		record.Status = entities.MeetingStatusCompleted
		record.Summary = datatypes.JSON(data)
		record.CompletedAt = &completedAt
	})
}

func (r *memoryMeetingRepository) ListHistory(ctx context.Context, userID string, limit int) ([]*entities.MeetingHistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var records []*entities.MeetingRecord
	for key, raw := range r.store.Scan(meetingKeyPrefix) {
		var record entities.MeetingRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		if record.UserID != userID || record.Status != entities.MeetingStatusCompleted {
			continue
		}
		records = append(records, &record)
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].CompletedAt, records[j].CompletedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if a.Equal(*b) {
			return records[i].MeetingID < records[j].MeetingID
		}
		return a.After(*b)
	})
	if len(records) > limit {
		records = records[:limit]
	}

	entries := make([]*entities.MeetingHistoryEntry, 0, len(records))
	for _, record := range records {
		entry, err := toHistoryEntry(record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
