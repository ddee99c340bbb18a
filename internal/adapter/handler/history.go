package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-coach/errors"
	"github.com/johnquangdev/meeting-coach/internal/adapter/dto/history"
	"github.com/johnquangdev/meeting-coach/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	historyUsecase "github.com/johnquangdev/meeting-coach/internal/usecase/history"
)

// History handles meeting history requests
type History struct {
	historyService historyUsecase.Service
	logger         *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService historyUsecase.Service, logger *zap.Logger) *History {
	return &History{
		historyService: historyService,
		logger:         logger,
	}
}

// ListMeetings handles GET /users/:user_id/meetings
// @Summary      List meeting history
// @Description  Returns a user's completed meetings with their summaries, most recent first
// @Tags         Meetings
// @Produce      json
// @Param        user_id  path      string  true   "User ID"
// @Param        limit    query     int     false  "Maximum entries (default 10, max 100)"
// @Success      200      {object}  common.SuccessResponse{data=history.MeetingHistoryListResponse}
// @Failure      400      {object}  common.ErrorResponse  "Invalid request"
// @Failure      500      {object}  common.ErrorResponse  "Failed to list history"
// @Router       /users/{user_id}/meetings [get]
func (h *History) ListMeetings(c echo.Context) error {
	var req history.ListHistoryRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	entries, err := h.historyService.ListHistory(c.Request().Context(), req.UserID, req.Limit)
	if err != nil {
		if stdErrors.Is(err, entities.ErrInvalidRequest) {
			return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
		}
		return HandleError(h.logger, c, errors.ErrStorageFailed("list_history", err))
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingHistoryListResponse(req.UserID, entries))
}
