package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dbchat-dev/dbchat/domain"
	"github.com/dbchat-dev/dbchat/format"
	"github.com/dbchat-dev/dbchat/protocol"
)

const (
	fallbackText              = "Nice to meet you! I received your message but had some trouble processing it. Feel free to ask me anything or request database queries."
	technicalDifficultiesText = "I'm experiencing some technical difficulties. Please try again."
)

// HandleChat runs the full pipeline for one inbound envelope. It never fails:
// every degraded path produces a normal reply envelope, and even a panic in
// the pipeline degrades to the technical-difficulties reply.
func (s *Service) HandleChat(ctx context.Context, msg domain.UserMessage) (reply domain.ChatReply) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: unexpected failure handling chat %s: %v", msg.ID, r)
			sessionID := s.sessions.GetOrCreate(msg.SessionID)
			s.sessions.AddMessage(sessionID, domain.RoleBot, technicalDifficultiesText, nil)
			reply = s.reply(msg.ID, sessionID, technicalDifficultiesText)
		}
	}()

	if n := s.sessions.AutoEvict(s.config.SessionMaxAge); n > 0 {
		log.Printf("evicted %d stale sessions", n)
	}

	sessionID := s.sessions.GetOrCreate(msg.SessionID)
	s.sessions.AddMessage(sessionID, domain.RoleUser, msg.Text(), nil)

	history := s.sessions.History(sessionID)
	prompt := s.codec.BuildPrompt(ctx, msg, sessionID, history)

	genCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()
	raw, err := s.generator.Complete(genCtx, prompt)
	if err != nil {
		log.Printf("ERROR: generator call failed: %v", err)
		return s.fallback(msg.ID, sessionID)
	}

	intent := protocol.Parse(raw)
	switch intent.Kind {
	case domain.IntentRunQuery:
		return s.runQuery(ctx, msg, sessionID, intent)
	case domain.IntentDirectReply:
		s.sessions.AddMessage(sessionID, domain.RoleBot, intent.Text, nil)
		return s.reply(replyID(intent.ID, msg.ID), sessionID, intent.Text)
	default:
		log.Printf("ERROR: malformed generator completion: %q", raw)
		return s.fallback(msg.ID, sessionID)
	}
}

// runQuery executes the declared query and narrates the outcome. A query
// error is captured as data and rendered into the reply, never surfaced as a
// failed response.
func (s *Service) runQuery(ctx context.Context, msg domain.UserMessage, sessionID string, intent domain.Intent) domain.ChatReply {
	queryCtx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	result, err := s.queries.Run(queryCtx, intent.Query)

	narration := format.Narrate(intent.Query, result, err)
	rows := []map[string]interface{}{}
	if err == nil && result != nil {
		rows = result.Rows
	}

	botText := fmt.Sprintf("Executed SQL Query:\n%s\n\nResult:\n%s\n\nFull rows:\n%s",
		intent.Query, narration, format.PrettyRows(rows))

	s.sessions.AddMessage(sessionID, domain.RoleBot, botText, map[string]interface{}{
		"sql_query":    intent.Query,
		"result_count": len(rows),
	})
	return s.reply(replyID(intent.ID, msg.ID), sessionID, botText)
}

// fallback appends and returns the fixed apology reply.
func (s *Service) fallback(id, sessionID string) domain.ChatReply {
	s.sessions.AddMessage(sessionID, domain.RoleBot, fallbackText, nil)
	return s.reply(id, sessionID, fallbackText)
}

func (s *Service) reply(id, sessionID, text string) domain.ChatReply {
	return domain.ChatReply{
		Type:      "chat_reply",
		ID:        id,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   domain.ReplyPayload{Text: text},
	}
}

// replyID prefers the id echoed by the generator, falling back to the inbound
// correlation id.
func replyID(echoed, inbound string) string {
	if echoed != "" {
		return echoed
	}
	return inbound
}
