package handler

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-coach/internal/infrastructure/http/wsconn"
	"github.com/johnquangdev/meeting-coach/internal/usecase/bridge"
)

// Meeting handles the live coaching websocket
type Meeting struct {
	bridgeService bridge.Service
	upgrader      websocket.Upgrader
	connOpts      wsconn.Options
	logger        *zap.Logger
}

// NewMeetingHandler creates a new meeting handler.
// An empty allowedOrigins list accepts every origin.
func NewMeetingHandler(bridgeService bridge.Service, allowedOrigins []string, connOpts wsconn.Options, logger *zap.Logger) *Meeting {
	return &Meeting{
		bridgeService: bridgeService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		connOpts: connOpts,
		logger:   logger,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Non-browser clients send no Origin
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// Stream handles GET /ws/meeting/:meeting_id
// @Summary      Live meeting coaching stream
// @Description  Upgrades to a websocket. Binary frames carry 16 kHz PCM audio, text frames carry JSON commands (screen_frame, config, end_meeting, text_command). The server answers with connection_ready, audio_whisper, nudge, state_update, summary and error frames.
// @Tags         Meetings
// @Param        meeting_id  path  string  true  "Meeting ID, 1-64 characters of letters, digits, underscore or hyphen"
// @Success      101  "Switching Protocols"
// @Failure      400  {object}  map[string]string     "Invalid meeting ID"
// @Failure      403  {object}  common.ErrorResponse  "Origin not allowed"
// @Router       /ws/meeting/{meeting_id} [get]
func (h *Meeting) Stream(c echo.Context) error {
	return h.stream(c, c.Param("meeting_id"))
}

// StreamNew handles GET /ws/meeting
// @Summary      Live meeting coaching stream with a generated meeting ID
// @Description  Same protocol as /ws/meeting/{meeting_id}. The generated meeting ID is returned in the connection_ready frame.
// @Tags         Meetings
// @Success      101  "Switching Protocols"
// @Failure      403  {object}  common.ErrorResponse  "Origin not allowed"
// @Router       /ws/meeting [get]
func (h *Meeting) StreamNew(c echo.Context) error {
	return h.stream(c, "")
}

func (h *Meeting) stream(c echo.Context, meetingID string) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error
		if h.logger != nil {
			h.logger.Warn("⚠️ Websocket upgrade failed",
				zap.String("meeting_id", meetingID),
				zap.String("origin", c.Request().Header.Get("Origin")),
				zap.Error(err),
			)
		}
		return nil
	}

	conn := wsconn.New(ws, h.connOpts)
	defer conn.Close()

	if err := h.bridgeService.Serve(c.Request().Context(), meetingID, conn); err != nil && h.logger != nil {
		h.logger.Warn("⚠️ Meeting stream ended with error",
			zap.String("meeting_id", meetingID),
			zap.Error(err),
		)
	}
	return nil
}
