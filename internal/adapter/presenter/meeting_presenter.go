package presenter

import (
	"github.com/johnquangdev/meeting-coach/internal/adapter/dto/history"
	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// ToMeetingHistoryResponse converts a history entry to its DTO
func ToMeetingHistoryResponse(e *entities.MeetingHistoryEntry) *history.MeetingHistoryResponse {
	if e == nil {
		return nil
	}
	return &history.MeetingHistoryResponse{
		MeetingID:   e.MeetingID,
		UserID:      e.UserID,
		UserName:    e.UserName,
		Status:      string(e.Status),
		CompletedAt: e.CompletedAt,
		Summary:     e.Summary,
	}
}

// ToMeetingHistoryListResponse converts history entries to the list DTO
func ToMeetingHistoryListResponse(userID string, entries []*entities.MeetingHistoryEntry) *history.MeetingHistoryListResponse {
	meetings := make([]*history.MeetingHistoryResponse, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		meetings = append(meetings, ToMeetingHistoryResponse(e))
	}
	return &history.MeetingHistoryListResponse{
		UserID:   userID,
		Count:    len(meetings),
		Meetings: meetings,
	}
}
