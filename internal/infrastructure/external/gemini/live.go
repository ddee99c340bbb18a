package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/johnquangdev/meeting-coach/internal/usecase/bridge"
	"github.com/johnquangdev/meeting-coach/internal/usecase/coach"
	"github.com/johnquangdev/meeting-coach/pkg/sessionctx"
)

const (
	audioInputMimeType = "audio/pcm;rate=16000"
	imageInputMimeType = "image/jpeg"
	audioOutputDefault = "audio/pcm;rate=24000"
)

// Config holds live agent settings
type Config struct {
	APIKey            string
	Model             string
	Voice             string
	Temperature       float32
	ConnectMaxElapsed time.Duration
}

// NewConnector creates the agent connector. With useMock no model is contacted.
func NewConnector(ctx context.Context, cfg Config, useMock bool, logger *zap.Logger) (bridge.AgentConnector, error) {
	if useMock {
		return NewMockConnector(logger), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &liveConnector{client: client, cfg: cfg, logger: logger}, nil
}

// liveConnector opens Gemini Live sessions
type liveConnector struct {
	client *genai.Client
	cfg    Config
	logger *zap.Logger
}

func (c *liveConnector) connectConfig(instruction string) *genai.LiveConnectConfig {
	cfg := &genai.LiveConnectConfig{
		ResponseModalities: []genai.Modality{genai.ModalityAudio},
		SystemInstruction:  genai.NewContentFromText(instruction, genai.RoleUser),
		Tools:              []*genai.Tool{{FunctionDeclarations: ToolDeclarations()}},
		Temperature:        genai.Ptr(c.cfg.Temperature),
	}
	if c.cfg.Voice != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.cfg.Voice},
			},
		}
	}
	return cfg
}

// Connect opens a live session, retrying transient failures with exponential backoff
func (c *liveConnector) Connect(ctx context.Context, meeting *coach.Meeting, instruction string) (bridge.AgentStream, error) {
	var session *genai.Session
	attempt := 0

	connectFn := func() error {
		attempt++
		s, err := c.client.Live.Connect(ctx, c.cfg.Model, c.connectConfig(instruction))
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("⚠️ Live connect attempt failed",
					append(sessionctx.Fields(ctx), zap.Int("attempt", attempt), zap.Error(err))...,
				)
			}
			if !sessionctx.IsRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		session = s
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = c.cfg.ConnectMaxElapsed

	if err := backoff.Retry(connectFn, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("failed to connect live session: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("✅ Live session connected",
			append(sessionctx.Fields(ctx), zap.String("model", c.cfg.Model), zap.Int("attempts", attempt))...,
		)
	}
	return newLiveStream(session, meeting, c.logger), nil
}

// liveStream adapts a genai live session to the bridge's agent stream.
// Tool calls are answered inside Receive so the model sees results before its next turn.
type liveStream struct {
	session *genai.Session
	meeting *coach.Meeting
	logger  *zap.Logger

	sendMu    sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

func newLiveStream(session *genai.Session, meeting *coach.Meeting, logger *zap.Logger) *liveStream {
	return &liveStream{
		session: session,
		meeting: meeting,
		logger:  logger,
		closed:  make(chan struct{}),
	}
}

func (s *liveStream) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *liveStream) send(fn func() error) error {
	if s.isClosed() {
		return io.ErrClosedPipe
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return fn()
}

func (s *liveStream) SendAudio(_ context.Context, pcm []byte) error {
	return s.send(func() error {
		return s.session.SendRealtimeInput(genai.LiveRealtimeInput{
			Audio: &genai.Blob{Data: pcm, MIMEType: audioInputMimeType},
		})
	})
}

func (s *liveStream) SendImage(_ context.Context, jpeg []byte) error {
	return s.send(func() error {
		return s.session.SendRealtimeInput(genai.LiveRealtimeInput{
			Video: &genai.Blob{Data: jpeg, MIMEType: imageInputMimeType},
		})
	})
}

func (s *liveStream) SendText(_ context.Context, text string) error {
	return s.send(func() error {
		return s.session.SendClientContent(genai.LiveClientContentInput{
			Turns: []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		})
	})
}

func (s *liveStream) Receive(ctx context.Context) (*bridge.AgentEvent, error) {
	for {
		msg, err := s.session.Receive()
		if err != nil {
			if s.isClosed() || ctx.Err() != nil || isNormalClose(err) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to receive from live session: %w", err)
		}

		event := &bridge.AgentEvent{}
		if sc := msg.ServerContent; sc != nil {
			event.TurnComplete = sc.TurnComplete
			if sc.ModelTurn != nil {
				for _, part := range sc.ModelTurn.Parts {
					if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
						continue
					}
					if !strings.HasPrefix(part.InlineData.MIMEType, "audio/") {
						continue
					}
					event.Audio = append(event.Audio, part.InlineData.Data...)
					if event.MimeType == "" {
						event.MimeType = part.InlineData.MIMEType
					}
				}
			}
		}
		if event.MimeType == "" && len(event.Audio) > 0 {
			event.MimeType = audioOutputDefault
		}

		if tc := msg.ToolCall; tc != nil && len(tc.FunctionCalls) > 0 {
			if err := s.answerToolCalls(ctx, tc.FunctionCalls); err != nil {
				return nil, err
			}
			event.ToolCalls = len(tc.FunctionCalls)
		}

		if len(event.Audio) == 0 && event.ToolCalls == 0 && !event.TurnComplete {
			continue
		}
		return event, nil
	}
}

func (s *liveStream) answerToolCalls(ctx context.Context, calls []*genai.FunctionCall) error {
	responses := make([]*genai.FunctionResponse, 0, len(calls))
	for _, call := range calls {
		if call == nil {
			continue
		}
		result := s.meeting.Dispatch(call.Name, call.Args)
		if s.logger != nil {
			s.logger.Debug("Tool call handled",
				append(sessionctx.Fields(ctx), zap.String("tool", call.Name), zap.Any("status", result["status"]))...,
			)
		}
		responses = append(responses, &genai.FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: result,
		})
	}
	if len(responses) == 0 {
		return nil
	}

	err := s.send(func() error {
		return s.session.SendToolResponse(genai.LiveToolResponseInput{FunctionResponses: responses})
	})
	if err != nil && !s.isClosed() {
		return fmt.Errorf("failed to send tool response: %w", err)
	}
	return nil
}

// Close ends the live session. Safe to call more than once.
func (s *liveStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.session.Close()
	})
	return err
}

func isNormalClose(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "close 1000") || strings.Contains(msg, "use of closed network connection")
}
