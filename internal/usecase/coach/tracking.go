package coach

import (
	"fmt"
	"time"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// TopicStatus is the outcome of a topic update
type TopicStatus string

const (
	TopicChanged  TopicStatus = "success"
	TopicNoChange TopicStatus = "no_change"
)

// RecordActionItem appends an action item and routes a capture nudge through the emitter
func RecordActionItem(state *entities.MeetingState, assignee, description, deadline string, now time.Time) (entities.ActionItem, EmitResult) {
	item := entities.NewActionItem(assignee, description, deadline, now)
	state.ActionItems = append(state.ActionItems, item)

	message := fmt.Sprintf("Captured: %s will %s (deadline: %s)", item.Assignee, item.Description, item.Deadline)
	result := EmitNudge(state, entities.NudgeActionItem, message, entities.PriorityMedium, now)

	return item, result
}

// UpdateCurrentTopic closes the open topic and opens a new one.
// Re-opening the label of the currently open topic is a no-op.
func UpdateCurrentTopic(state *entities.MeetingState, topic string, now time.Time) TopicStatus {
	if open := state.OpenTopic(); open != nil {
		if open.Topic == topic {
			return TopicNoChange
		}
		ended := now
		open.EndedAt = &ended
	}

	state.Topics = append(state.Topics, entities.TopicEntry{
		Topic:     topic,
		StartedAt: now,
	})
	state.CurrentTopic = topic

	return TopicChanged
}

// LogSpeakerTurn appends a speaker turn and tracks when the coachee last spoke
func LogSpeakerTurn(state *entities.MeetingState, speaker string, isCoachee bool, now time.Time) entities.SpeakerTurn {
	turn := entities.SpeakerTurn{
		Speaker:   speaker,
		IsCoachee: isCoachee,
		Timestamp: now,
	}
	state.SpeakerTurns = append(state.SpeakerTurns, turn)

	if isCoachee {
		spoke := now
		state.UserLastSpokeAt = &spoke
	}

	return turn
}
