package bridge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/meeting-coach/errors"
	"github.com/johnquangdev/meeting-coach/internal/adapter/dto/stream"
	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/internal/usecase/coach"
	"github.com/johnquangdev/meeting-coach/pkg/validator"
)

// loopResult is how a streaming loop ended
type loopResult struct {
	reason string
	err    error
}

// connection is the per-websocket state of one meeting
type connection struct {
	svc     *BridgeService
	conn    ClientConn
	agent   AgentStream
	meeting *coach.Meeting
	session *entities.MeetingSession
	logger  *zap.Logger
	phase   atomic.Int32

	// owned by the outbound loop until it has returned
	seenNudges      int
	stateSent       bool
	lastStateUpdate time.Time
	summarySent     bool
}

func (c *connection) setPhase(p Phase) {
	c.phase.Store(int32(p))
	if c.logger != nil {
		c.logger.Debug("Bridge phase", zap.String("phase", p.String()))
	}
}

// Phase returns the current lifecycle phase
func (c *connection) Phase() Phase {
	return Phase(c.phase.Load())
}

// inbound forwards client frames to the agent until the client goes away
func (c *connection) inbound(ctx context.Context) loopResult {
	for {
		frame, err := c.conn.Read(ctx)
		if err != nil {
			return loopResult{reason: "client_disconnected", err: err}
		}

		if frame.Binary {
			c.svc.metrics.FrameReceived("audio")
			if len(frame.Data) == 0 {
				continue
			}
			if err := c.agent.SendAudio(ctx, frame.Data); err != nil {
				return c.sendFailed(ctx, "audio", err)
			}
			continue
		}

		var msg stream.ClientFrame
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			if c.logger != nil {
				c.logger.Debug("Ignoring malformed client frame", zap.Error(err))
			}
			continue
		}
		c.svc.metrics.FrameReceived(msg.Type)

		if err := c.handleClientFrame(ctx, msg); err != nil {
			return c.sendFailed(ctx, msg.Type, err)
		}
	}
}

func (c *connection) sendFailed(ctx context.Context, kind string, err error) loopResult {
	if ctx.Err() != nil {
		return loopResult{reason: "cancelled"}
	}
	if c.logger != nil {
		c.logger.Error("Failed to forward to agent", zap.String("kind", kind), zap.Error(err))
	}
	c.svc.metrics.AgentError()
	c.writeError(stream.ErrorCategoryAgent, fmt.Sprintf("Agent error: %v", err))
	return loopResult{reason: "agent_error", err: err}
}

func (c *connection) handleClientFrame(ctx context.Context, msg stream.ClientFrame) error {
	switch msg.Type {
	case stream.TypeScreenFrame:
		img, err := base64.StdEncoding.DecodeString(msg.Data)
		if err != nil || len(img) == 0 {
			if c.logger != nil {
				c.logger.Debug("Ignoring screen frame with bad payload", zap.Error(err))
			}
			return nil
		}
		return c.agent.SendImage(ctx, img)

	case stream.TypeConfig:
		if err := c.applyConfig(msg.Config); err != nil {
			if c.logger != nil {
				c.logger.Warn("Rejected meeting config", zap.Error(err))
			}
			c.writeError(stream.ErrorCategoryInvalidConfig, configErrorMessage(err))
		}
		return nil

	case stream.TypeEndMeeting:
		if c.logger != nil {
			c.logger.Info("Client requested end of meeting")
		}
		return c.agent.SendText(ctx, coach.EndMeetingInstruction)

	case stream.TypeTextCommand:
		if msg.Text == "" {
			return nil
		}
		return c.agent.SendText(ctx, msg.Text)

	default:
		if c.logger != nil {
			c.logger.Debug("Ignoring unknown client frame", zap.String("type", msg.Type))
		}
		return nil
	}
}

// applyConfig validates a partial configuration and merges it into the session and the live state.
// A rejected configuration leaves both untouched.
func (c *connection) applyConfig(raw json.RawMessage) error {
	var payload stream.ConfigPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return appErrors.ErrInvalidMeetingConfig(err).WithDetail("reason", fmt.Sprintf("invalid config: %v", err))
		}
	}
	if c.svc.validator != nil {
		if err := c.svc.validator.Validate(&payload); err != nil {
			return appErrors.ErrInvalidMeetingConfig(err).WithDetail("reason", validator.Message(err))
		}
	}

	merged := payload.Merge(c.session.Config)

	if err := c.svc.registry.UpdateConfig(c.session.SessionID, merged); err != nil && c.logger != nil {
		c.logger.Warn("Failed to update session config", zap.Error(err))
	}
	c.session.Config = merged
	c.meeting.ApplyConfig(merged)

	if c.logger != nil {
		c.logger.Info("Meeting config updated",
			zap.String("user_name", merged.UserName),
			zap.Int("duration_minutes", merged.DurationMinutes),
			zap.Int("agenda_items", len(merged.AgendaItems)),
		)
	}
	return nil
}

// outbound relays agent output and state notifications to the client
func (c *connection) outbound(ctx context.Context) loopResult {
	for {
		event, err := c.agent.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return loopResult{reason: "agent_closed"}
			}
			if c.logger != nil {
				c.logger.Error("Agent stream failed", zap.Error(err))
			}
			c.svc.metrics.AgentError()
			c.writeError(stream.ErrorCategoryAgent, fmt.Sprintf("Agent error: %v", err))
			return loopResult{reason: "agent_error", err: err}
		}

		if len(event.Audio) > 0 {
			mimeType := event.MimeType
			if mimeType == "" {
				mimeType = stream.AudioOutputMimeType
			}
			c.write(stream.TypeAudioWhisper, stream.AudioWhisper{
				Type:     stream.TypeAudioWhisper,
				Data:     base64.StdEncoding.EncodeToString(event.Audio),
				MimeType: mimeType,
			})
		}

		c.afterEvent(ctx)
	}
}

// afterEvent pushes new nudges, a throttled state update and the summary once it exists
func (c *connection) afterEvent(ctx context.Context) {
	nudges, seen := c.meeting.NudgesSince(c.seenNudges)
	c.seenNudges = seen
	for _, n := range nudges {
		c.write(stream.TypeNudge, stream.NudgeFrame{Type: stream.TypeNudge, Nudge: n})
		c.svc.metrics.NudgeDelivered(string(n.Category))
		c.publish(ctx, entities.EventNudgeEmitted, n)
	}

	now := c.svc.now()
	if !c.stateSent || now.Sub(c.lastStateUpdate) >= c.svc.opts.StateUpdateInterval {
		view := c.meeting.View()
		c.write(stream.TypeStateUpdate, stream.StateUpdate{
			Type:             stream.TypeStateUpdate,
			CurrentTopic:     view.CurrentTopic,
			ActionItemsCount: view.ActionItemsCount,
			ElapsedMinutes:   view.ElapsedMinutes,
		})
		c.stateSent = true
		c.lastStateUpdate = now
	}

	c.deliverSummary(ctx)
}

// deliverSummary sends and persists the compiled summary exactly once
func (c *connection) deliverSummary(ctx context.Context) {
	if c.summarySent {
		return
	}
	summary := c.meeting.Summary()
	if summary == nil {
		return
	}
	c.summarySent = true

	c.write(stream.TypeSummary, stream.SummaryFrame{Type: stream.TypeSummary, Summary: summary})

	pctx, cancel := c.persistContext(ctx)
	defer cancel()
	if err := c.svc.repo.SaveSummary(pctx, c.session.MeetingID, summary, c.session.UserID); err != nil {
		c.svc.metrics.PersistFailed("save_summary")
		if c.logger != nil {
			c.logger.Warn("Failed to save meeting summary", zap.Error(err))
		}
	}
	c.publish(ctx, entities.EventSummaryCompiled, summary)

	if c.logger != nil {
		c.logger.Info("Meeting summary delivered",
			zap.Int("action_items", len(summary.ActionItems)),
			zap.Int("total_nudges", summary.CoachingStats.TotalNudges),
		)
	}
}

// teardown runs ENDING -> CLOSED. Every step is best effort.
func (c *connection) teardown(ctx context.Context, reason string) {
	meetingID := c.session.MeetingID

	pctx, cancel := c.persistContext(ctx)
	if err := c.svc.repo.Save(pctx, meetingID, c.meeting.Snapshot()); err != nil {
		c.svc.metrics.PersistFailed("save")
		if c.logger != nil {
			c.logger.Warn("Failed to save meeting state", zap.Error(err))
		}
	}
	cancel()

	c.deliverSummary(ctx)

	ended, err := c.svc.registry.End(c.session.SessionID)
	if err != nil && c.logger != nil {
		c.logger.Debug("Session already gone", zap.Error(err))
	}
	payload := map[string]any{"reason": reason}
	if ended != nil {
		payload["duration_seconds"] = int(c.svc.now().Sub(ended.StartTime).Seconds())
	}
	c.publish(ctx, entities.EventSessionEnded, payload)
	c.svc.registry.Remove(c.session.SessionID)

	if err := c.conn.Close(); err != nil && c.logger != nil {
		c.logger.Debug("Failed to close client connection", zap.Error(err))
	}

	c.setPhase(PhaseClosed)
	c.svc.metrics.SessionEnded(reason)
	if c.logger != nil {
		c.logger.Info("Meeting session closed", zap.String("reason", reason))
	}
}

// persistContext outlives the session context so teardown writes are not cut short
func (c *connection) persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.svc.opts.PersistTimeout)
}

func (c *connection) publish(ctx context.Context, eventType entities.CoachingEventType, payload any) {
	event := &entities.CoachingEvent{
		Type:      eventType,
		MeetingID: c.session.MeetingID,
		SessionID: c.session.SessionID,
		UserID:    c.session.UserID,
		Timestamp: c.svc.now(),
		Payload:   payload,
	}
	pctx, cancel := c.persistContext(ctx)
	defer cancel()
	if err := c.svc.publisher.Publish(pctx, event); err != nil && c.logger != nil {
		c.logger.Warn("Failed to publish coaching event", zap.String("event", string(eventType)), zap.Error(err))
	}
}

func (c *connection) write(kind string, v any) {
	if err := c.conn.WriteJSON(v); err != nil {
		if c.logger != nil {
			c.logger.Debug("Failed to write frame", zap.String("type", kind), zap.Error(err))
		}
		return
	}
	c.svc.metrics.FrameSent(kind)
}

func (c *connection) writeError(category, message string) {
	c.write(stream.TypeError, stream.NewErrorFrame(category, message))
}

// configErrorMessage is the client-facing text of a rejected configuration
func configErrorMessage(err error) string {
	var appErr appErrors.AppError
	if errors.As(err, &appErr) {
		if reason, ok := appErr.Details["reason"]; ok {
			return reason
		}
	}
	return err.Error()
}
