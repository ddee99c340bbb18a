package entities

import "time"

// NudgeCategory represents the kind of coaching nudge
type NudgeCategory string

const (
	NudgeParticipation     NudgeCategory = "participation"
	NudgeTime              NudgeCategory = "time"
	NudgeActionItem        NudgeCategory = "action_item"
	NudgeTopic             NudgeCategory = "topic"
	NudgeDecision          NudgeCategory = "decision"
	NudgeSummarySuggestion NudgeCategory = "summary_suggestion"
)

// IsValid checks if the category is known
func (c NudgeCategory) IsValid() bool {
	switch c {
	case NudgeParticipation, NudgeTime, NudgeActionItem, NudgeTopic, NudgeDecision, NudgeSummarySuggestion:
		return true
	}
	return false
}

// NudgePriority represents how urgent a nudge is
type NudgePriority string

const (
	PriorityLow    NudgePriority = "low"
	PriorityMedium NudgePriority = "medium"
	PriorityHigh   NudgePriority = "high"
)

// IsValid checks if the priority is known
func (p NudgePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Nudge is a short advisory message surfaced to the coachee
type Nudge struct {
	Category  NudgeCategory `json:"type"`
	Message   string        `json:"message"`
	Priority  NudgePriority `json:"priority"`
	Timestamp time.Time     `json:"timestamp"`
}
