package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbchat-dev/dbchat/session"
)

// SessionStats returns statistics about current sessions.
// GET /session-stats
func (h *Handler) SessionStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Sessions().Stats())
}

// SessionHistory returns the history for a specific session. Unknown ids
// yield an empty history, not an error.
// GET /session/:session_id/history
func (h *Handler) SessionHistory(c echo.Context) error {
	sessionID := c.Param("session_id")
	history := h.svc.Sessions().History(sessionID)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id":    sessionID,
		"message_count": len(history),
		"history":       history,
	})
}

// ClearSession removes a specific session.
// DELETE /session/:session_id
func (h *Handler) ClearSession(c echo.Context) error {
	sessionID := c.Param("session_id")
	if err := h.svc.Sessions().Delete(sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to clear session"})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s cleared successfully", sessionID),
	})
}
