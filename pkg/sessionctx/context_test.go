package sessionctx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBegin(t *testing.T) {
	ctx, cancel := Begin(context.Background(), "m1", "session_m1", "user_abcd1234")

	md := GetMetadata(ctx)
	assert.Equal(t, "m1", md.MeetingID)
	assert.Equal(t, "session_m1", md.SessionID)
	assert.Equal(t, "user_abcd1234", md.UserID)
	assert.False(t, md.StartTime.IsZero())
	assert.Len(t, Fields(ctx), 3)

	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestFields_Empty(t *testing.T) {
	assert.Empty(t, Fields(context.Background()))
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("Error 429: Too Many Requests"), true},
		{errors.New("rpc error: code = Unavailable"), true},
		{errors.New("Error 400: API key not valid"), false},
		{errors.New("context canceled"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryableError(tt.err), "%v", tt.err)
	}
}
