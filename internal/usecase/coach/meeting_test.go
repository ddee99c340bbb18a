package coach

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newMeeting(agenda ...string) (*Meeting, *fakeClock) {
	clock := &fakeClock{now: t0}
	return NewMeeting(entities.NewMeetingState("m1", "Alex", 30, agenda, t0), clock.Now), clock
}

func TestMeeting_NudgesSince(t *testing.T) {
	m, clock := newMeeting()

	nudges, seen := m.NudgesSince(0)
	assert.Empty(t, nudges)
	assert.Equal(t, 0, seen)

	m.EmitTimeWarning(TimeWarningRemaining, 5)
	clock.Advance(time.Second)
	m.EmitTimeWarning(TimeWarningOvertime, 1)

	nudges, seen = m.NudgesSince(0)
	require.Len(t, nudges, 2)
	assert.Equal(t, 2, seen)
	assert.True(t, strings.HasPrefix(nudges[0].Message, "Heads up"))

	nudges, seen = m.NudgesSince(seen)
	assert.Empty(t, nudges)
	assert.Equal(t, 2, seen)

	m.EmitNudge(entities.NudgeDecision, "Restate the decision", entities.PriorityHigh)
	nudges, seen = m.NudgesSince(seen)
	require.Len(t, nudges, 1)
	assert.Equal(t, "Restate the decision", nudges[0].Message)
	assert.Equal(t, 3, seen)
}

func TestMeeting_ViewAndConfig(t *testing.T) {
	m, clock := newMeeting()
	m.UpdateCurrentTopic("Budget")
	m.RecordActionItem("John", "Send the report", "Friday")
	clock.Advance(90 * time.Second)

	view := m.View()
	assert.Equal(t, StateView{CurrentTopic: "Budget", ActionItemsCount: 1, ElapsedMinutes: 1.5}, view)

	m.ApplyConfig(entities.MeetingConfig{UserName: "Riley", DurationMinutes: 45, AgendaItems: []string{"Budget"}})
	snap := m.Snapshot()
	assert.Equal(t, "Riley", snap.UserName)
	assert.Equal(t, 45, snap.ScheduledDurationMinutes)
	assert.Equal(t, []string{"Budget"}, snap.AgendaItems)
	assert.Equal(t, t0, snap.ScheduledStart)
}

func TestMeeting_SnapshotIsDetached(t *testing.T) {
	m, _ := newMeeting()
	m.UpdateCurrentTopic("Intro")

	snap := m.Snapshot()
	m.UpdateCurrentTopic("Budget")

	assert.Len(t, snap.Topics, 1)
	assert.Nil(t, snap.Topics[0].EndedAt)
}

func TestMeeting_SummaryOnce(t *testing.T) {
	m, clock := newMeeting()
	assert.Nil(t, m.Summary())

	clock.Advance(10 * time.Minute)
	m.CompileSummary()
	stored := m.Summary()
	require.NotNil(t, stored)

	clock.Advance(5 * time.Minute)
	again := m.CompileSummary()
	assert.Equal(t, 15.0, again.DurationActualMinutes)
	assert.Equal(t, 10.0, m.Summary().DurationActualMinutes)
}

func TestMeeting_ConcurrentAccess(t *testing.T) {
	m, _ := newMeeting("Budget")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.LogSpeakerTurn("speaker", j%2 == 0)
				m.UpdateCurrentTopic([]string{"Budget", "Lunch"}[j%2])
				m.CheckAgendaStatus()
				m.NudgesSince(0)
				m.View()
			}
		}(i)
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Len(t, snap.SpeakerTurns, 400)
	open := 0
	for _, topic := range snap.Topics {
		if topic.IsOpen() {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

func TestDispatch(t *testing.T) {
	m, clock := newMeeting("Budget Review", "Team Updates")

	res := m.Dispatch(ToolTrackActionItem, map[string]any{
		"assignee":    "John",
		"description": "Send the report",
		"deadline":    "Friday",
	})
	assert.Equal(t, "success", res["status"])
	assert.Equal(t, "success", res["nudge_status"])

	res = m.Dispatch(ToolEmitNudge, map[string]any{
		"nudge_type": "decision",
		"message":    "Clarify",
		"priority":   "low",
	})
	assert.Equal(t, "skipped", res["status"])

	res = m.Dispatch(ToolEmitNudge, map[string]any{
		"nudge_type": "bogus",
		"message":    "Clarify",
		"priority":   "high",
	})
	assert.Equal(t, "error", res["status"])

	res = m.Dispatch(ToolEmitTimeWarning, map[string]any{"warning_type": "overtime", "minutes_info": float64(3)})
	assert.Equal(t, "success", res["status"])

	res = m.Dispatch(ToolEmitParticipationReminder, map[string]any{"minutes_silent": "7"})
	assert.Equal(t, "skipped", res["status"])

	res = m.Dispatch(ToolUpdateCurrentTopic, map[string]any{"topic": "Lunch Plans"})
	assert.Equal(t, "success", res["status"])
	res = m.Dispatch(ToolUpdateCurrentTopic, map[string]any{"topic": "Lunch Plans"})
	assert.Equal(t, "no_change", res["status"])

	res = m.Dispatch(ToolLogSpeakerTurn, map[string]any{"speaker_name": "Alex", "is_user": true})
	assert.Equal(t, "success", res["status"])
	assert.Equal(t, true, res["is_coachee"])

	clock.Advance(3 * time.Minute)
	res = m.Dispatch(ToolCheckAgendaStatus, nil)
	assert.Equal(t, "success", res["status"])
	assert.Equal(t, false, res["on_agenda"])
	assert.Equal(t, []string{"Budget Review", "Team Updates"}, res["remaining_items"])

	res = m.Dispatch(ToolGenerateMeetingSummary, nil)
	assert.Equal(t, "success", res["status"])
	summary, ok := res["summary"].(*entities.MeetingSummary)
	require.True(t, ok)
	assert.Equal(t, 1, summary.Participation.TotalSpeakerTurns)
	assert.Equal(t, 3, summary.CoachingStats.TotalNudges)
	assert.NotNil(t, m.Summary())
}

func TestDispatch_BadArguments(t *testing.T) {
	m, _ := newMeeting()

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"unknown tool", "make_coffee", nil},
		{"missing assignee", ToolTrackActionItem, map[string]any{"description": "x"}},
		{"non numeric minutes", ToolEmitParticipationReminder, map[string]any{"minutes_silent": "lots"}},
		{"wrong type topic", ToolUpdateCurrentTopic, map[string]any{"topic": 42.0}},
		{"bad bool", ToolLogSpeakerTurn, map[string]any{"speaker_name": "A", "is_user": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Dispatch(tt.tool, tt.args)
			assert.Equal(t, "error", res["status"])
			assert.NotEmpty(t, res["reason"])
		})
	}

	snap := m.Snapshot()
	assert.Empty(t, snap.ActionItems)
	assert.Empty(t, snap.Topics)
	assert.Empty(t, snap.SpeakerTurns)
	assert.Empty(t, snap.Nudges)
}

func TestSystemInstruction(t *testing.T) {
	state := entities.NewMeetingState("m1", "Alex", 45, []string{"Budget", "Hiring"}, t0)

	text := SystemInstruction(state)

	assert.Contains(t, text, "Meeting scheduled duration: 45 minutes")
	assert.Contains(t, text, "Agenda items: Budget; Hiring")
	assert.Contains(t, text, "User's name: Alex")
	assert.Contains(t, text, t0.Format(time.RFC3339))
}
