package gemini

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-coach/internal/usecase/bridge"
	"github.com/johnquangdev/meeting-coach/internal/usecase/coach"
)

// mockConnector is a mock implementation for local development and tests
type mockConnector struct {
	logger *zap.Logger
}

// NewMockConnector creates a connector that never contacts a model
func NewMockConnector(logger *zap.Logger) bridge.AgentConnector {
	return &mockConnector{logger: logger}
}

// Connect (mock) returns a scripted stream bound to the meeting
func (c *mockConnector) Connect(ctx context.Context, meeting *coach.Meeting, instruction string) (bridge.AgentStream, error) {
	if c.logger != nil {
		c.logger.Info("Mock agent connected", zap.String("meeting_id", meeting.ID()))
	}
	return &mockStream{
		meeting: meeting,
		events:  make(chan *bridge.AgentEvent, 16),
		closed:  make(chan struct{}),
	}, nil
}

// mockStream answers text turns by driving the tool dispatcher directly:
// the end-of-meeting instruction compiles the summary, other text counts as a coachee turn.
type mockStream struct {
	meeting *coach.Meeting
	events  chan *bridge.AgentEvent

	closeOnce sync.Once
	closed    chan struct{}
}

func (s *mockStream) SendAudio(_ context.Context, _ []byte) error {
	if s.isClosed() {
		return io.ErrClosedPipe
	}
	return nil
}

func (s *mockStream) SendImage(_ context.Context, _ []byte) error {
	if s.isClosed() {
		return io.ErrClosedPipe
	}
	return nil
}

func (s *mockStream) SendText(ctx context.Context, text string) error {
	if s.isClosed() {
		return io.ErrClosedPipe
	}

	if text == coach.EndMeetingInstruction {
		s.meeting.Dispatch(coach.ToolGenerateMeetingSummary, nil)
	} else {
		s.meeting.Dispatch(coach.ToolLogSpeakerTurn, map[string]any{
			"speaker_name": s.meeting.Snapshot().UserName,
			"is_user":      true,
		})
	}

	select {
	case s.events <- &bridge.AgentEvent{ToolCalls: 1, TurnComplete: true}:
		return nil
	case <-s.closed:
		return io.ErrClosedPipe
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *mockStream) Receive(ctx context.Context) (*bridge.AgentEvent, error) {
	select {
	case ev := <-s.events:
		return ev, nil
	case <-s.closed:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, io.EOF
	}
}

func (s *mockStream) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *mockStream) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}
