package coach

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newState(agenda ...string) *entities.MeetingState {
	return entities.NewMeetingState("m1", "Alex", 30, agenda, t0)
}

func openTopics(state *entities.MeetingState) int {
	n := 0
	for _, t := range state.Topics {
		if t.IsOpen() {
			n++
		}
	}
	return n
}

func TestNewMeetingState(t *testing.T) {
	agenda := []string{"Budget Review"}
	state := entities.NewMeetingState("m1", "Alex", 45, agenda, t0)

	assert.Equal(t, "m1", state.MeetingID)
	assert.Equal(t, t0, state.ScheduledStart)
	assert.Equal(t, 45, state.ScheduledDurationMinutes)
	assert.Empty(t, state.CurrentTopic)
	assert.Empty(t, state.ActionItems)
	assert.Empty(t, state.Topics)
	assert.Empty(t, state.SpeakerTurns)
	assert.Empty(t, state.Nudges)
	assert.Nil(t, state.Summary)

	agenda[0] = "mutated"
	assert.Equal(t, "Budget Review", state.AgendaItems[0])
}

func TestEmitNudge_RateLimit(t *testing.T) {
	state := newState()

	first := EmitNudge(state, entities.NudgeDecision, "first", entities.PriorityLow, t0)
	require.True(t, first.Accepted())
	require.NotNil(t, state.LastNudgeAt)
	assert.Equal(t, t0, *state.LastNudgeAt)
	assert.Equal(t, "first", state.PendingNudge.Message)

	for _, p := range []entities.NudgePriority{entities.PriorityLow, entities.PriorityMedium} {
		r := EmitNudge(state, entities.NudgeTopic, "too soon", p, t0.Add(119*time.Second))
		assert.Equal(t, EmitSkipped, r.Status)
		assert.NotEmpty(t, r.Reason)
	}
	assert.Len(t, state.Nudges, 1)
	assert.Equal(t, t0, *state.LastNudgeAt, "rejected nudges must not advance the limiter")

	later := EmitNudge(state, entities.NudgeTopic, "after cooldown", entities.PriorityLow, t0.Add(NudgeCooldown))
	assert.True(t, later.Accepted())
	assert.Len(t, state.Nudges, 2)
}

func TestEmitNudge_HighPriorityBypassesLimiter(t *testing.T) {
	state := newState()

	for i := 0; i < 5; i++ {
		r := EmitNudge(state, entities.NudgeTime, fmt.Sprintf("urgent %d", i), entities.PriorityHigh, t0.Add(time.Duration(i)*time.Second))
		require.True(t, r.Accepted())
	}
	assert.Len(t, state.Nudges, 5)
	assert.Equal(t, t0.Add(4*time.Second), *state.LastNudgeAt)
}

func TestEmitNudge_RejectsUnknownValues(t *testing.T) {
	state := newState()

	r := EmitNudge(state, entities.NudgeCategory("gossip"), "x", entities.PriorityHigh, t0)
	assert.Equal(t, EmitInvalid, r.Status)

	r = EmitNudge(state, entities.NudgeTime, "x", entities.NudgePriority("urgent"), t0)
	assert.Equal(t, EmitInvalid, r.Status)

	assert.Empty(t, state.Nudges)
	assert.Nil(t, state.LastNudgeAt)
}

func TestConvenienceEmitters(t *testing.T) {
	state := newState()

	r := EmitParticipationReminder(state, 6, t0)
	require.True(t, r.Accepted())
	assert.Equal(t, entities.NudgeParticipation, r.Nudge.Category)
	assert.Equal(t, entities.PriorityMedium, r.Nudge.Priority)
	assert.Equal(t, "You haven't spoken in about 6 minutes. Look for an opening to contribute.", r.Nudge.Message)

	tests := []struct {
		kind string
		want string
	}{
		{TimeWarningRemaining, "Heads up: only 5 minutes remaining in the meeting."},
		{TimeWarningOvertime, "The meeting is 5 minutes over the scheduled time."},
		{"topic", "Time check: 5 minutes on the current topic."},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			r := EmitTimeWarning(state, tt.kind, 5, t0.Add(time.Second))
			require.True(t, r.Accepted())
			assert.Equal(t, entities.NudgeTime, r.Nudge.Category)
			assert.Equal(t, entities.PriorityHigh, r.Nudge.Priority)
			assert.Equal(t, tt.want, r.Nudge.Message)
		})
	}
}

func TestRecordActionItem(t *testing.T) {
	state := newState()

	item, result := RecordActionItem(state, "John", "Send the report", "Friday", t0)

	require.Len(t, state.ActionItems, 1)
	assert.Equal(t, "John", state.ActionItems[0].Assignee)
	assert.Equal(t, "Send the report", state.ActionItems[0].Description)
	assert.Equal(t, "Friday", state.ActionItems[0].Deadline)
	assert.Equal(t, item, state.ActionItems[0])

	require.True(t, result.Accepted())
	require.Len(t, state.Nudges, 1)
	assert.Equal(t, entities.NudgeActionItem, state.Nudges[0].Category)
	assert.Equal(t, entities.PriorityMedium, state.Nudges[0].Priority)
	assert.Equal(t, "Captured: John will Send the report (deadline: Friday)", state.Nudges[0].Message)
}

func TestRecordActionItem_LogGrowsByOneNudgeByAtMostOne(t *testing.T) {
	state := newState()

	for i := 0; i < 4; i++ {
		itemsBefore, nudgesBefore := len(state.ActionItems), len(state.Nudges)
		_, _ = RecordActionItem(state, "Sam", fmt.Sprintf("task %d", i), "", t0.Add(time.Duration(i)*30*time.Second))

		assert.Equal(t, itemsBefore+1, len(state.ActionItems))
		delta := len(state.Nudges) - nudgesBefore
		assert.True(t, delta == 0 || delta == 1, "nudge delta %d", delta)
	}

	assert.Len(t, state.Nudges, 1, "later captures fall inside the cooldown")
	assert.Equal(t, entities.DeadlineUnspecified, state.ActionItems[0].Deadline)
}

func TestUpdateCurrentTopic(t *testing.T) {
	state := newState()

	assert.Equal(t, TopicChanged, UpdateCurrentTopic(state, "Intro", t0))
	assert.Equal(t, TopicNoChange, UpdateCurrentTopic(state, "Intro", t0.Add(time.Minute)))
	assert.Len(t, state.Topics, 1)

	assert.Equal(t, TopicChanged, UpdateCurrentTopic(state, "Roadmap", t0.Add(2*time.Minute)))
	require.Len(t, state.Topics, 2)
	require.NotNil(t, state.Topics[0].EndedAt)
	assert.Equal(t, t0.Add(2*time.Minute), *state.Topics[0].EndedAt)
	assert.Equal(t, "Roadmap", state.CurrentTopic)
	assert.Equal(t, 1, openTopics(state))
	assert.Empty(t, state.Nudges)
}

func TestUpdateCurrentTopic_SingleOpenInvariant(t *testing.T) {
	state := newState()
	labels := []string{"a", "b", "b", "a", "c", "c", "c", "a", "b"}

	for i, label := range labels {
		before := len(state.Topics)
		status := UpdateCurrentTopic(state, label, t0.Add(time.Duration(i)*time.Minute))
		if status == TopicNoChange {
			assert.Equal(t, before, len(state.Topics))
		}
		assert.LessOrEqual(t, openTopics(state), 1)
	}
	assert.Len(t, state.Topics, 6)
}

func TestUpdateCurrentTopic_ReentryAfterCloseCreatesNewEntry(t *testing.T) {
	state := newState()
	UpdateCurrentTopic(state, "Budget", t0)
	CompileSummary(state, t0.Add(time.Minute))

	assert.Equal(t, TopicChanged, UpdateCurrentTopic(state, "Budget", t0.Add(2*time.Minute)))
	assert.Len(t, state.Topics, 2)
}

func TestLogSpeakerTurn(t *testing.T) {
	state := newState()

	LogSpeakerTurn(state, "Dana", false, t0)
	assert.Nil(t, state.UserLastSpokeAt)

	LogSpeakerTurn(state, "Alex", true, t0.Add(time.Minute))
	require.NotNil(t, state.UserLastSpokeAt)
	assert.Equal(t, t0.Add(time.Minute), *state.UserLastSpokeAt)
	assert.Len(t, state.SpeakerTurns, 2)
	assert.Empty(t, state.Nudges)
}

func TestCheckAgendaStatus_NoAgenda(t *testing.T) {
	state := newState()
	UpdateCurrentTopic(state, "Lunch Plans", t0)

	status := CheckAgendaStatus(state, t0)

	assert.Equal(t, AgendaNoAgenda, status.Status)
	assert.Nil(t, status.Nudge)
	assert.Empty(t, state.Nudges)
}

func TestCheckAgendaStatus_OnAgenda(t *testing.T) {
	state := newState("Budget Review", "Team Updates")
	UpdateCurrentTopic(state, "Budget Review", t0)

	status := CheckAgendaStatus(state, t0.Add(time.Minute))

	assert.Equal(t, AgendaChecked, status.Status)
	assert.True(t, status.OnAgenda)
	assert.Contains(t, status.CoveredItems, "Budget Review")
	assert.Equal(t, []string{"Team Updates"}, status.RemainingItems)
	assert.Equal(t, 50.0, status.CoveragePct)
	assert.Empty(t, state.Nudges)
}

func TestCheckAgendaStatus_OffAgenda(t *testing.T) {
	state := newState("Budget Review", "Team Updates")
	UpdateCurrentTopic(state, "Lunch Plans", t0)

	status := CheckAgendaStatus(state, t0.Add(time.Minute))

	assert.False(t, status.OnAgenda)
	require.Len(t, state.Nudges, 1)
	assert.Equal(t, entities.NudgeTopic, state.Nudges[0].Category)
	assert.Equal(t, entities.PriorityLow, state.Nudges[0].Priority)
	assert.Contains(t, state.Nudges[0].Message, "Budget Review")
	assert.Contains(t, state.Nudges[0].Message, "Team Updates")
	assert.Equal(t, 0.0, status.CoveragePct)
}

func TestCheckAgendaStatus_CaseInsensitiveContainment(t *testing.T) {
	state := newState("Q3 budget review", "Hiring", "Roadmap", "Retro", "Demo")
	UpdateCurrentTopic(state, "BUDGET", t0)
	UpdateCurrentTopic(state, "roadmap for next year", t0.Add(time.Minute))
	UpdateCurrentTopic(state, "Weather", t0.Add(2*time.Minute))

	status := CheckAgendaStatus(state, t0.Add(3*time.Minute))

	assert.Equal(t, []string{"Q3 budget review", "Roadmap"}, status.CoveredItems)
	assert.Equal(t, 40.0, status.CoveragePct)
	assert.GreaterOrEqual(t, status.CoveragePct, 0.0)
	assert.LessOrEqual(t, status.CoveragePct, 100.0)
	require.Len(t, state.Nudges, 1)
	assert.Equal(t, "The discussion seems off-agenda. Remaining items: Hiring, Retro, Demo", state.Nudges[0].Message)
}

func TestCheckAgendaStatus_EmptyCurrentTopicIsOnAgenda(t *testing.T) {
	state := newState("Budget Review")

	status := CheckAgendaStatus(state, t0)

	assert.True(t, status.OnAgenda)
	assert.Empty(t, state.Nudges)
}

func TestCompileSummary(t *testing.T) {
	state := newState()
	UpdateCurrentTopic(state, "Intro", t0)
	UpdateCurrentTopic(state, "Budget", t0.Add(6*time.Minute))
	LogSpeakerTurn(state, "Alex", true, t0.Add(time.Minute))
	LogSpeakerTurn(state, "Dana", false, t0.Add(2*time.Minute))
	LogSpeakerTurn(state, "Sam", false, t0.Add(3*time.Minute))
	RecordActionItem(state, "John", "Send the report", "Friday", t0.Add(4*time.Minute))
	EmitTimeWarning(state, TimeWarningRemaining, 5, t0.Add(5*time.Minute))

	now := t0.Add(25 * time.Minute)
	summary := CompileSummary(state, now)

	assert.Equal(t, 0, openTopics(state))
	assert.Equal(t, now, *state.Topics[1].EndedAt)

	assert.Equal(t, 30, summary.DurationPlannedMinutes)
	assert.Equal(t, 25.0, summary.DurationActualMinutes)
	assert.True(t, summary.OnTime)

	assert.Equal(t, 3, summary.Participation.TotalSpeakerTurns)
	assert.Equal(t, 1, summary.Participation.CoacheeTurns)
	assert.Equal(t, 2, summary.Participation.OtherTurns)
	assert.Equal(t, 33.3, summary.Participation.CoacheeParticipationPct)

	assert.Equal(t, 2, summary.CoachingStats.TotalNudges)
	assert.Equal(t, 1, summary.CoachingStats.Breakdown[entities.NudgeActionItem])
	assert.Equal(t, 1, summary.CoachingStats.Breakdown[entities.NudgeTime])

	require.Len(t, summary.Topics, 2)
	assert.Equal(t, entities.TopicDuration{Topic: "Intro", DurationMinutes: 6}, summary.Topics[0])
	assert.Equal(t, entities.TopicDuration{Topic: "Budget", DurationMinutes: 19}, summary.Topics[1])
	assert.Len(t, summary.ActionItems, 1)

	require.NotNil(t, state.Summary)
	assert.Equal(t, summary, state.Summary)
}

func TestCompileSummary_Overtime(t *testing.T) {
	state := newState()
	summary := CompileSummary(state, t0.Add(31*time.Minute))

	assert.False(t, summary.OnTime)
	assert.Equal(t, 0.0, summary.Participation.CoacheeParticipationPct)
	assert.Empty(t, summary.Topics)
}

func TestCompileSummary_SafeTwice(t *testing.T) {
	state := newState()
	UpdateCurrentTopic(state, "Intro", t0)
	LogSpeakerTurn(state, "Alex", true, t0)
	RecordActionItem(state, "John", "Send the report", "Friday", t0)

	first := CompileSummary(state, t0.Add(10*time.Minute))
	topics := append([]entities.TopicEntry(nil), state.Topics...)
	items := append([]entities.ActionItem(nil), state.ActionItems...)
	turns := append([]entities.SpeakerTurn(nil), state.SpeakerTurns...)
	nudges := append([]entities.Nudge(nil), state.Nudges...)

	second := CompileSummary(state, t0.Add(12*time.Minute))

	assert.Equal(t, topics, state.Topics)
	assert.Equal(t, items, state.ActionItems)
	assert.Equal(t, turns, state.SpeakerTurns)
	assert.Equal(t, nudges, state.Nudges)

	assert.Equal(t, 12.0, second.DurationActualMinutes)
	assert.Equal(t, first.DurationActualMinutes, state.Summary.DurationActualMinutes, "stored summary is not regenerated")
}
