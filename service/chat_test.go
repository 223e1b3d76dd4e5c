package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dbchat-dev/dbchat/config"
	"github.com/dbchat-dev/dbchat/domain"
	"github.com/dbchat-dev/dbchat/llm"
	"github.com/dbchat-dev/dbchat/policy"
	"github.com/dbchat-dev/dbchat/protocol"
	"github.com/dbchat-dev/dbchat/service"
	"github.com/dbchat-dev/dbchat/session"
	"github.com/dbchat-dev/dbchat/tests/helpers"
)

func newTestService(t *testing.T, gen llm.Generator, seed ...string) *service.Service {
	t.Helper()

	cfg := &config.Config{
		LLMTimeout:      time.Second,
		QueryTimeout:    time.Second,
		SessionMaxAge:   time.Hour,
		CleanupInterval: 30 * time.Minute,
		MaxHistory:      100,
		ContextWindow:   10,
		TruncateLength:  200,
	}

	classifier, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create classifier: %v", err)
	}

	sessions := session.NewStore(cfg.MaxHistory, cfg.CleanupInterval)
	codec := protocol.NewCodec(classifier, cfg.ContextWindow, cfg.TruncateLength)
	queries := helpers.NewTestQueryEngine(t, seed...)

	return service.New(sessions, codec, gen, queries, cfg)
}

func inbound(id, sessionID, text string) domain.UserMessage {
	return domain.UserMessage{
		Type:      "user_message",
		ID:        id,
		SessionID: sessionID,
		Payload:   map[string]interface{}{"text": text},
	}
}

func TestHandleChatDirectReply(t *testing.T) {
	gen := &llm.Fake{Response: `{"type":"chat_reply","id":"1","session_id":"s","timestamp":"2024-01-01T00:00:00Z","payload":{"text":"Hello!"}}`}
	svc := newTestService(t, gen)

	reply := svc.HandleChat(context.Background(), inbound("1", "", "hi"))

	assert.Equal(t, "chat_reply", reply.Type)
	assert.Equal(t, "1", reply.ID)
	assert.Equal(t, "Hello!", reply.Payload.Text)
	assert.NotEmpty(t, reply.SessionID)

	history := svc.Sessions().History(reply.SessionID)
	assert.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, domain.RoleBot, history[1].Role)
	assert.Equal(t, "Hello!", history[1].Content)
}

func TestHandleChatRunQuery(t *testing.T) {
	gen := &llm.Fake{Response: `{"type":"command","id":"7","payload":{"action":"run_sql","sql_query":"SELECT COUNT(*) AS count FROM users"}}`}
	svc := newTestService(t, gen,
		`CREATE TABLE users (id INTEGER PRIMARY KEY)`,
		`INSERT INTO users (id) VALUES (1), (2), (3)`,
	)

	reply := svc.HandleChat(context.Background(), inbound("7", "", "how many users?"))

	assert.Contains(t, reply.Payload.Text, "a count of 3")
	assert.Contains(t, reply.Payload.Text, "Executed SQL Query:")

	history := svc.Sessions().History(reply.SessionID)
	assert.Len(t, history, 2)
	assert.Equal(t, "SELECT COUNT(*) AS count FROM users", history[1].Metadata["sql_query"])
	assert.EqualValues(t, 1, history[1].Metadata["result_count"])
}

func TestHandleChatQueryErrorNarrated(t *testing.T) {
	gen := &llm.Fake{Response: `{"type":"command","id":"1","payload":{"action":"run_sql","sql_query":"SELECT * FROM missing"}}`}
	svc := newTestService(t, gen)

	reply := svc.HandleChat(context.Background(), inbound("1", "", "query the missing table"))

	assert.Contains(t, reply.Payload.Text, "Error executing query:")
	history := svc.Sessions().History(reply.SessionID)
	assert.Len(t, history, 2)
	assert.EqualValues(t, 0, history[1].Metadata["result_count"])
}

func TestHandleChatGeneratorFailure(t *testing.T) {
	gen := &llm.Fake{Err: errors.New("upstream down")}
	svc := newTestService(t, gen)

	reply := svc.HandleChat(context.Background(), inbound("1", "", "hi"))

	assert.Equal(t, "chat_reply", reply.Type)
	assert.Contains(t, reply.Payload.Text, "had some trouble processing it")

	history := svc.Sessions().History(reply.SessionID)
	assert.Len(t, history, 2)
	assert.Equal(t, domain.RoleBot, history[1].Role)
}

func TestHandleChatMalformedCompletion(t *testing.T) {
	gen := &llm.Fake{Response: "I refuse to answer in JSON today."}
	svc := newTestService(t, gen)

	reply := svc.HandleChat(context.Background(), inbound("1", "", "hi"))

	assert.Contains(t, reply.Payload.Text, "had some trouble processing it")
}

func TestHandleChatExistingSession(t *testing.T) {
	gen := &llm.Fake{Response: `{"type":"chat_reply","id":"1","payload":{"text":"again"}}`}
	svc := newTestService(t, gen)

	first := svc.HandleChat(context.Background(), inbound("1", "", "first"))
	second := svc.HandleChat(context.Background(), inbound("2", first.SessionID, "second"))

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, svc.Sessions().History(first.SessionID), 4)
}

func TestHandleChatPromptCarriesHistory(t *testing.T) {
	gen := &llm.Fake{Response: `{"type":"chat_reply","id":"1","payload":{"text":"ok"}}`}
	svc := newTestService(t, gen)

	first := svc.HandleChat(context.Background(), inbound("1", "", "remember the spice"))
	svc.HandleChat(context.Background(), inbound("2", first.SessionID, "what did I say?"))

	assert.Contains(t, gen.LastPrompt, "USER: remember the spice")
	assert.Contains(t, gen.LastPrompt, "BOT: ok")
}
