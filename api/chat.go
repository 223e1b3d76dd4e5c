package api

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbchat-dev/dbchat/domain"
)

// Chat handles one inbound envelope.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	var msg domain.UserMessage
	if err := c.Bind(&msg); err != nil {
		log.Printf("WARN: validation failed on %s: %v", c.Path(), err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "invalid envelope",
			"detail": err.Error(),
		})
	}
	if problems := validateEnvelope(msg); len(problems) > 0 {
		log.Printf("WARN: validation failed on %s: %v (body: %+v)", c.Path(), problems, msg)
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "invalid envelope",
			"detail": problems,
		})
	}

	reply := h.svc.HandleChat(c.Request().Context(), msg)
	return c.JSON(http.StatusOK, reply)
}

// validateEnvelope checks the inbound schema: type and id are required
// strings, payload is a required object. session_id may be null or absent.
func validateEnvelope(msg domain.UserMessage) []string {
	var problems []string
	if msg.Type == "" {
		problems = append(problems, "type: field required")
	}
	if msg.ID == "" {
		problems = append(problems, "id: field required")
	}
	if msg.Payload == nil {
		problems = append(problems, "payload: field required")
	}
	return problems
}
