package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/meeting-coach/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-coach/internal/usecase/bridge"
	"github.com/johnquangdev/meeting-coach/pkg/middleware"
)

// Router holds all handlers
type Router struct {
	bridgeService  bridge.Service
	meetingHandler *Meeting
	historyHandler *History
	gatherer       prometheus.Gatherer
}

// NewRouter creates a new router with all handlers.
// A nil gatherer leaves /metrics unregistered.
func NewRouter(bridgeService bridge.Service, meetingHandler *Meeting, historyHandler *History, gatherer prometheus.Gatherer) *Router {
	return &Router{
		bridgeService:  bridgeService,
		meetingHandler: meetingHandler,
		historyHandler: historyHandler,
		gatherer:       gatherer,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if rt.gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{})))
	}

	if rt.meetingHandler != nil {
		e.GET("/ws/meeting/:meeting_id", rt.meetingHandler.Stream, middleware.RequireValidMeetingID("meeting_id"))
		e.GET("/ws/meeting", rt.meetingHandler.StreamNew)
		e.GET("/ws/meeting/", rt.meetingHandler.StreamNew)
	} else {
		e.GET("/ws/meeting/:meeting_id", rt.notImplemented)
		e.GET("/ws/meeting", rt.notImplemented)
	}

	v1 := e.Group("/v1")
	rt.setupHistoryRoutes(v1)
}

// setupHistoryRoutes configures meeting history routes
func (rt *Router) setupHistoryRoutes(g *echo.Group) {
	if rt.historyHandler != nil {
		g.GET("/users/:user_id/meetings", rt.historyHandler.ListMeetings)
	} else {
		g.GET("/users/:user_id/meetings", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, common.ErrorResponse{
		Code:    http.StatusNotImplemented,
		Message: "This endpoint is not yet implemented",
		Info:    c.Request().Method + " " + c.Request().URL.Path,
	})
}

// healthCheck returns health status
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	active := 0
	if rt.bridgeService != nil {
		active = rt.bridgeService.ActiveSessions()
	}
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:         "healthy",
		ActiveSessions: active,
	})
}
