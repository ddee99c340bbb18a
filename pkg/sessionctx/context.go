package sessionctx

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

type KeyContext string

var (
	keyMeetingID KeyContext = "meeting_id"
	keySessionID KeyContext = "session_id"
	keyUserID    KeyContext = "user_id"
	keyStartTime KeyContext = "session_start_time"
)

// SessionMetadata holds identity of one coached connection
type SessionMetadata struct {
	MeetingID string
	SessionID string
	UserID    string
	StartTime time.Time
}

// Begin derives a cancellable session context carrying the connection identity
func Begin(parentCtx context.Context, meetingID, sessionID, userID string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parentCtx)

	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keySessionID, sessionID)
	ctx = context.WithValue(ctx, keyUserID, userID)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// GetMeetingID extracts meeting ID from context
func GetMeetingID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keyMeetingID).(string)
	return id, ok
}

// GetSessionID extracts session ID from context
func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keySessionID).(string)
	return id, ok
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keyUserID).(string)
	return id, ok
}

// GetStartTime extracts session start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// GetMetadata extracts all session metadata from context
func GetMetadata(ctx context.Context) *SessionMetadata {
	meetingID, _ := GetMeetingID(ctx)
	sessionID, _ := GetSessionID(ctx)
	userID, _ := GetUserID(ctx)
	startTime, _ := GetStartTime(ctx)

	return &SessionMetadata{
		MeetingID: meetingID,
		SessionID: sessionID,
		UserID:    userID,
		StartTime: startTime,
	}
}

// Fields returns zap fields for the session identity carried by ctx
func Fields(ctx context.Context) []zap.Field {
	md := GetMetadata(ctx)
	fields := make([]zap.Field, 0, 3)
	if md.MeetingID != "" {
		fields = append(fields, zap.String("meeting_id", md.MeetingID))
	}
	if md.SessionID != "" {
		fields = append(fields, zap.String("session_id", md.SessionID))
	}
	if md.UserID != "" {
		fields = append(fields, zap.String("user_id", md.UserID))
	}
	return fields
}

// IsRetryableError checks if an error should trigger a retry
// Retryable errors include: network errors, timeouts, rate limits, upstream 5xx
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Context deadline (a cancelled parent is never retried)
	if strings.Contains(errStr, "context deadline exceeded") {
		return true
	}

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "eof") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "resource_exhausted") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
