// Package domain defines the core domain models for the chat gateway.
package domain

import (
	"time"
)

// Role identifies the author of a history message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message represents a single message in a session's history.
// Messages are immutable once appended.
type Message struct {
	Role      Role                   `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// UserMessage is the inbound envelope submitted by the client.
type UserMessage struct {
	Type      string                 `json:"type"`
	ID        string                 `json:"id"`
	SessionID string                 `json:"session_id"`
	Payload   map[string]interface{} `json:"payload"`
}

// Text returns the conventional "text" payload field, or "" when absent.
func (m UserMessage) Text() string {
	if s, ok := m.Payload["text"].(string); ok {
		return s
	}
	return ""
}

// ReplyPayload carries the reply text.
type ReplyPayload struct {
	Text string `json:"text"`
}

// ChatReply is the outbound envelope returned to the client.
// Type is always "chat_reply" at this boundary.
type ChatReply struct {
	Type      string       `json:"type"`
	ID        string       `json:"id"`
	SessionID string       `json:"session_id"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   ReplyPayload `json:"payload"`
}
