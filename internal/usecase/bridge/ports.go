package bridge

import (
	"context"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/internal/usecase/coach"
)

// Frame is one message read from the client
type Frame struct {
	Binary bool
	Data   []byte
}

// ClientConn is the client side of a meeting connection.
// WriteJSON must be safe for concurrent use; both loops write to it.
type ClientConn interface {
	Read(ctx context.Context) (Frame, error)
	WriteJSON(v any) error
	Close() error
}

// AgentEvent is one unit of output from the agent stream
type AgentEvent struct {
	Audio        []byte
	MimeType     string
	ToolCalls    int
	TurnComplete bool
}

// AgentStream is the bidirectional stream to the coaching agent.
// Receive returns io.EOF once the stream is closed. Close is idempotent.
type AgentStream interface {
	SendAudio(ctx context.Context, pcm []byte) error
	SendImage(ctx context.Context, jpeg []byte) error
	SendText(ctx context.Context, text string) error
	Receive(ctx context.Context) (*AgentEvent, error)
	Close() error
}

// AgentConnector opens an agent stream whose tool calls mutate the given meeting
type AgentConnector interface {
	Connect(ctx context.Context, meeting *coach.Meeting, instruction string) (AgentStream, error)
}

// EventPublisher fans coaching events out to other consumers
type EventPublisher interface {
	Publish(ctx context.Context, event *entities.CoachingEvent) error
}

// Validator validates decoded payloads
type Validator interface {
	Validate(i interface{}) error
}

// Metrics receives bridge instrumentation
type Metrics interface {
	SessionStarted()
	SessionEnded(reason string)
	FrameReceived(kind string)
	FrameSent(kind string)
	NudgeDelivered(category string)
	AgentError()
	PersistFailed(operation string)
}

type nopMetrics struct{}

func (nopMetrics) SessionStarted() {}

func (nopMetrics) SessionEnded(string) {}

func (nopMetrics) FrameReceived(string) {}

func (nopMetrics) FrameSent(string) {}

func (nopMetrics) NudgeDelivered(string) {}

func (nopMetrics) AgentError() {}

func (nopMetrics) PersistFailed(string) {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *entities.CoachingEvent) error { return nil }
