package coach

import (
	"fmt"
	"time"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// NudgeCooldown is the minimum gap between two non-high-priority nudges
const NudgeCooldown = 120 * time.Second

// EmitStatus is the outcome of a nudge emission
type EmitStatus string

const (
	EmitSuccess EmitStatus = "success"
	EmitSkipped EmitStatus = "skipped"
	EmitInvalid EmitStatus = "invalid"
)

// EmitResult reports whether a nudge was appended
type EmitResult struct {
	Status EmitStatus      `json:"status"`
	Nudge  *entities.Nudge `json:"nudge,omitempty"`
	Reason string          `json:"reason,omitempty"`
}

// Accepted reports whether the nudge was appended to the log
func (r EmitResult) Accepted() bool {
	return r.Status == EmitSuccess
}

// EmitNudge is the only path that appends to the nudge log.
// Nudges closer than NudgeCooldown to the last accepted one are skipped unless high priority.
func EmitNudge(state *entities.MeetingState, category entities.NudgeCategory, message string, priority entities.NudgePriority, now time.Time) EmitResult {
	if !category.IsValid() {
		return EmitResult{Status: EmitInvalid, Reason: fmt.Sprintf("%s: %q", entities.ErrInvalidNudgeCategory, category)}
	}
	if !priority.IsValid() {
		return EmitResult{Status: EmitInvalid, Reason: fmt.Sprintf("%s: %q", entities.ErrInvalidNudgePriority, priority)}
	}

	if priority != entities.PriorityHigh && state.LastNudgeAt != nil && now.Sub(*state.LastNudgeAt) < NudgeCooldown {
		return EmitResult{
			Status: EmitSkipped,
			Reason: "Rate limited: last nudge was less than 2 minutes ago.",
		}
	}

	nudge := entities.Nudge{
		Category:  category,
		Message:   message,
		Priority:  priority,
		Timestamp: now,
	}
	state.Nudges = append(state.Nudges, nudge)
	state.LastNudgeAt = &now
	state.PendingNudge = &nudge

	return EmitResult{Status: EmitSuccess, Nudge: &nudge}
}

// EmitParticipationReminder nudges a coachee who has been silent for a while
func EmitParticipationReminder(state *entities.MeetingState, minutesSilent int, now time.Time) EmitResult {
	message := fmt.Sprintf("You haven't spoken in about %d minutes. Look for an opening to contribute.", minutesSilent)
	return EmitNudge(state, entities.NudgeParticipation, message, entities.PriorityMedium, now)
}

// Time warning kinds
const (
	TimeWarningRemaining = "remaining"
	TimeWarningOvertime  = "overtime"
)

// EmitTimeWarning emits a high priority time nudge. Unknown kinds become a topic time check.
func EmitTimeWarning(state *entities.MeetingState, kind string, minutes int, now time.Time) EmitResult {
	var message string
	switch kind {
	case TimeWarningRemaining:
		message = fmt.Sprintf("Heads up: only %d minutes remaining in the meeting.", minutes)
	case TimeWarningOvertime:
		message = fmt.Sprintf("The meeting is %d minutes over the scheduled time.", minutes)
	default:
		message = fmt.Sprintf("Time check: %d minutes on the current topic.", minutes)
	}
	return EmitNudge(state, entities.NudgeTime, message, entities.PriorityHigh, now)
}
