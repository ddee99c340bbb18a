package entities

import "errors"

// Domain errors
var (
	// Meeting errors
	ErrInvalidNudgeCategory = errors.New("invalid nudge category")
	ErrInvalidNudgePriority = errors.New("invalid nudge priority")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Storage errors
	ErrStoreUnavailable = errors.New("meeting store unavailable")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)
