package entities

import "time"

// DeadlineUnspecified is recorded when no deadline was mentioned
const DeadlineUnspecified = "unspecified"

// ActionItem is a task commitment captured during the meeting. Immutable once created.
type ActionItem struct {
	Assignee    string    `json:"assignee"`
	Description string    `json:"description"`
	Deadline    string    `json:"deadline"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewActionItem creates an action item, normalizing an empty deadline
func NewActionItem(assignee, description, deadline string, now time.Time) ActionItem {
	if deadline == "" {
		deadline = DeadlineUnspecified
	}
	return ActionItem{
		Assignee:    assignee,
		Description: description,
		Deadline:    deadline,
		Timestamp:   now,
	}
}
