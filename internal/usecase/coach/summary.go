package coach

import (
	"time"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// CompileSummary closes the open topic and aggregates the meeting into a report.
// The first compiled summary is stored on the state; later calls recompute without replacing it.
func CompileSummary(state *entities.MeetingState, now time.Time) *entities.MeetingSummary {
	// 1. bound the current topic
	if open := state.OpenTopic(); open != nil {
		ended := now
		open.EndedAt = &ended
	}

	// 2-3. duration
	var actual float64
	if !state.ScheduledStart.IsZero() {
		actual = entities.RoundOneDecimal(now.Sub(state.ScheduledStart).Minutes())
	}
	onTime := true
	if state.ScheduledDurationMinutes > 0 {
		onTime = actual <= float64(state.ScheduledDurationMinutes)
	}

	// 4. participation
	participation := entities.ParticipationStat{TotalSpeakerTurns: len(state.SpeakerTurns)}
	for _, t := range state.SpeakerTurns {
		if t.IsCoachee {
			participation.CoacheeTurns++
		}
	}
	participation.OtherTurns = participation.TotalSpeakerTurns - participation.CoacheeTurns
	if participation.TotalSpeakerTurns > 0 {
		participation.CoacheeParticipationPct = entities.RoundOneDecimal(
			float64(participation.CoacheeTurns) / float64(participation.TotalSpeakerTurns) * 100,
		)
	}

	// 5. nudge breakdown
	breakdown := make(map[entities.NudgeCategory]int)
	for _, n := range state.Nudges {
		breakdown[n.Category]++
	}

	// 6. topic durations
	topics := make([]entities.TopicDuration, 0, len(state.Topics))
	for _, t := range state.Topics {
		ended := now
		if t.EndedAt != nil {
			ended = *t.EndedAt
		}
		var minutes float64
		if !t.StartedAt.IsZero() {
			minutes = entities.RoundOneDecimal(ended.Sub(t.StartedAt).Minutes())
		}
		topics = append(topics, entities.TopicDuration{Topic: t.Topic, DurationMinutes: minutes})
	}

	actionItems := make([]entities.ActionItem, len(state.ActionItems))
	copy(actionItems, state.ActionItems)

	summary := &entities.MeetingSummary{
		DurationPlannedMinutes: state.ScheduledDurationMinutes,
		DurationActualMinutes:  actual,
		OnTime:                 onTime,
		Topics:                 topics,
		ActionItems:            actionItems,
		Participation:          participation,
		CoachingStats: entities.CoachingStats{
			TotalNudges: len(state.Nudges),
			Breakdown:   breakdown,
		},
	}

	// 7. store once
	if state.Summary == nil {
		state.Summary = summary.Clone()
	}

	return summary
}
