// Package api provides HTTP handlers for the chat gateway.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbchat-dev/dbchat/service"
)

// Handler handles HTTP requests.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)

	e.GET("/session-stats", h.SessionStats)
	e.GET("/session/:session_id/history", h.SessionHistory)
	e.DELETE("/session/:session_id", h.ClearSession)

	e.GET("/", h.Root)
	e.GET("/health", h.Health)
}

// Root returns the service banner and endpoint index.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Chat gateway is running",
		"endpoints": map[string]string{
			"chat":            "POST /chat - Send chat messages",
			"session_stats":   "GET /session-stats - Get session statistics",
			"session_history": "GET /session/{session_id}/history - Get session history",
			"clear_session":   "DELETE /session/{session_id} - Clear specific session",
		},
	})
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
