package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

// meetingIDPattern matches meeting ids accepted from clients
var meetingIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidMeetingID reports whether id can be used as a meeting id. Empty ids are generated server side.
func ValidMeetingID(id string) bool {
	return id == "" || meetingIDPattern.MatchString(id)
}

// RequireValidMeetingID middleware: reject meeting ids that cannot be stored
func RequireValidMeetingID(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ValidMeetingID(c.Param(param)) {
				return c.JSON(http.StatusBadRequest, map[string]interface{}{
					"error":   "invalid_meeting_id",
					"message": "meeting id must be 1-64 letters, digits, '-' or '_'",
				})
			}
			return next(c)
		}
	}
}
