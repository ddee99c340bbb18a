package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/meeting-coach/errors"
	"github.com/johnquangdev/meeting-coach/internal/adapter/dto/stream"
	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/internal/domain/repositories"
	"github.com/johnquangdev/meeting-coach/internal/usecase/coach"
	"github.com/johnquangdev/meeting-coach/internal/usecase/session"
	"github.com/johnquangdev/meeting-coach/pkg/sessionctx"
)

// Service defines the interface for the streaming bridge use case
type Service interface {
	// Serve runs one meeting connection until the client or the agent goes away
	Serve(ctx context.Context, meetingID string, conn ClientConn) error

	// ActiveSessions returns the number of meetings currently streaming
	ActiveSessions() int

	// Shutdown cancels every running connection and waits for their teardown
	Shutdown(ctx context.Context) (int, error)
}

// Ensure BridgeService implements Service interface
var _ Service = (*BridgeService)(nil)

// Options tune the bridge
type Options struct {
	StateUpdateInterval time.Duration
	PersistTimeout      time.Duration
}

// BridgeService connects client websockets to coaching agent streams
type BridgeService struct {
	registry  *session.Registry
	connector AgentConnector
	repo      repositories.MeetingRepository
	publisher EventPublisher
	metrics   Metrics
	validator Validator
	logger    *zap.Logger
	opts      Options
	now       coach.Clock

	mu      sync.Mutex
	closing bool
	running sync.WaitGroup
}

// NewBridgeService creates a new bridge service. Nil publisher and metrics are replaced by no-ops.
func NewBridgeService(
	registry *session.Registry,
	connector AgentConnector,
	repo repositories.MeetingRepository,
	publisher EventPublisher,
	metrics Metrics,
	validator Validator,
	logger *zap.Logger,
	opts Options,
) *BridgeService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = 10 * time.Second
	}
	return &BridgeService{
		registry:  registry,
		connector: connector,
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		validator: validator,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for meeting state
func (s *BridgeService) WithClock(clock coach.Clock) *BridgeService {
	s.now = clock
	return s
}

// ActiveSessions returns the number of active sessions in the registry
func (s *BridgeService) ActiveSessions() int {
	return s.registry.ActiveCount()
}

// Shutdown stops accepting connections, cancels the running ones and waits until
// their final state is persisted or ctx expires. It returns how many were signalled.
func (s *BridgeService) Shutdown(ctx context.Context) (int, error) {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	n := s.registry.CancelAll()

	drained := make(chan struct{})
	go func() {
		s.running.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return n, nil
	case <-ctx.Done():
		return n, fmt.Errorf("failed to drain meeting sessions: %w", ctx.Err())
	}
}

// track registers a running connection unless the service is shutting down
func (s *BridgeService) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.running.Add(1)
	return true
}

func (s *BridgeService) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// Serve runs the connection lifecycle: CONNECTING, READY, STREAMING, ENDING, CLOSED
func (s *BridgeService) Serve(ctx context.Context, meetingID string, conn ClientConn) error {
	if !s.track() {
		_ = conn.Close()
		return appErrors.ErrServiceUnavailable("meeting_bridge")
	}
	defer s.running.Done()

	sess, err := s.registry.Create(meetingID, "", 0, nil)
	if err != nil {
		_ = conn.Close()
		return appErrors.ErrInternal(fmt.Errorf("failed to create session: %w", err))
	}

	state := entities.NewMeetingState(sess.MeetingID, sess.Config.UserName, sess.Config.DurationMinutes, sess.Config.AgendaItems, s.now())
	meeting := coach.NewMeeting(state, s.now)

	sctx, cancel := sessionctx.Begin(ctx, sess.MeetingID, sess.SessionID, sess.UserID)
	defer cancel()
	_ = s.registry.AttachCancel(sess.SessionID, cancel)
	if s.isClosing() {
		cancel()
	}

	c := &connection{
		svc:     s,
		conn:    conn,
		meeting: meeting,
		session: sess,
		logger:  s.logger,
	}
	if s.logger != nil {
		c.logger = s.logger.With(sessionctx.Fields(sctx)...)
	}
	c.setPhase(PhaseConnecting)
	s.metrics.SessionStarted()

	agent, err := s.connector.Connect(sctx, meeting, coach.SystemInstruction(meeting.Snapshot()))
	if err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to connect agent", zap.Error(err))
		}
		s.metrics.AgentError()
		c.writeError(stream.ErrorCategoryAgent, fmt.Sprintf("Agent error: %v", err))
		c.teardown(sctx, "agent_connect_failed")
		return appErrors.ErrAgentConnectFailed(err)
	}
	c.agent = agent

	c.setPhase(PhaseReady)
	c.write(stream.TypeConnectionReady, stream.ConnectionReady{
		Type:      stream.TypeConnectionReady,
		MeetingID: sess.MeetingID,
		SessionID: sess.SessionID,
	})
	c.publish(sctx, entities.EventSessionStarted, map[string]any{
		"user_name":        sess.Config.UserName,
		"duration_minutes": sess.Config.DurationMinutes,
	})
	if c.logger != nil {
		c.logger.Info("Meeting session started")
	}

	c.setPhase(PhaseStreaming)
	inboundDone := make(chan loopResult, 1)
	outboundDone := make(chan loopResult, 1)
	go func() { inboundDone <- c.inbound(sctx) }()
	go func() { outboundDone <- c.outbound(sctx) }()

	var (
		result       loopResult
		inboundOver  bool
		outboundOver bool
	)
	select {
	case result = <-inboundDone:
		inboundOver = true
	case result = <-outboundDone:
		outboundOver = true
	case <-sctx.Done():
		result = loopResult{reason: "cancelled"}
	}
	if result.err != nil && c.logger != nil {
		c.logger.Debug("Streaming loop ended", zap.String("reason", result.reason), zap.Error(result.err))
	}

	c.setPhase(PhaseEnding)
	cancel()
	_ = agent.Close()
	if !outboundOver {
		<-outboundDone
	}

	c.teardown(sctx, result.reason)

	if !inboundOver {
		<-inboundDone
	}

	var streamErr error
	if result.reason == "agent_error" {
		streamErr = appErrors.ErrAgentStreamFailed(result.err)
	}
	return streamErr
}
