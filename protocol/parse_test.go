package protocol

import (
	"testing"

	"github.com/dbchat-dev/dbchat/domain"
)

func TestParseStrictChatReply(t *testing.T) {
	raw := `{"type":"chat_reply","id":"1","session_id":"s1","timestamp":"2024-01-01T00:00:00Z","payload":{"text":"Hello!"}}`
	intent := Parse(raw)
	if intent.Kind != domain.IntentDirectReply {
		t.Fatalf("expected direct reply, got %v", intent.Kind)
	}
	if intent.Text != "Hello!" || intent.ID != "1" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
}

func TestParseCommandRunQuery(t *testing.T) {
	raw := `{"type":"command","id":"2","payload":{"action":"run_sql","sql_query":"SELECT 1"}}`
	intent := Parse(raw)
	if intent.Kind != domain.IntentRunQuery {
		t.Fatalf("expected run query, got %v", intent.Kind)
	}
	if intent.Query != "SELECT 1" || intent.ID != "2" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
}

func TestParseEmbeddedInProse(t *testing.T) {
	raw := "Sure! Here is the response you asked for:\n" +
		`{"type":"chat_reply","id":"1","payload":{"text":"hi"}}` +
		"\nHope that helps!"
	intent := Parse(raw)
	if intent.Kind != domain.IntentDirectReply || intent.Text != "hi" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
}

func TestParseNotJSON(t *testing.T) {
	if intent := Parse("not json at all"); intent.Kind != domain.IntentMalformed {
		t.Fatalf("expected malformed, got %+v", intent)
	}
}

func TestParseMissingDiscriminator(t *testing.T) {
	if intent := Parse(`{"payload":{"text":"hi"}}`); intent.Kind != domain.IntentMalformed {
		t.Fatalf("expected malformed, got %+v", intent)
	}
}

func TestParseUnknownType(t *testing.T) {
	if intent := Parse(`{"type":"shrug","payload":{}}`); intent.Kind != domain.IntentMalformed {
		t.Fatalf("expected malformed, got %+v", intent)
	}
}

func TestParseCommandWithoutQuery(t *testing.T) {
	if intent := Parse(`{"type":"command","payload":{"action":"run_sql"}}`); intent.Kind != domain.IntentMalformed {
		t.Fatalf("expected malformed, got %+v", intent)
	}
}

func TestParsePicksFirstBalancedObject(t *testing.T) {
	raw := `First: {"type":"chat_reply","id":"a","payload":{"text":"first"}} ` +
		`second: {"type":"chat_reply","id":"b","payload":{"text":"second"}}`
	intent := Parse(raw)
	if intent.Kind != domain.IntentDirectReply || intent.Text != "first" {
		t.Fatalf("expected first object to win, got %+v", intent)
	}
}

func TestParseBracesInsideStrings(t *testing.T) {
	raw := "Reply: " + `{"type":"chat_reply","payload":{"text":"use {braces} and \"quotes\" freely"}}`
	intent := Parse(raw)
	if intent.Kind != domain.IntentDirectReply {
		t.Fatalf("expected direct reply, got %+v", intent)
	}
	if intent.Text != `use {braces} and "quotes" freely` {
		t.Fatalf("unexpected text: %q", intent.Text)
	}
}

func TestParseUnbalancedBraces(t *testing.T) {
	if intent := Parse(`{"type":"chat_reply","payload":{"text":"oops"`); intent.Kind != domain.IntentMalformed {
		t.Fatalf("expected malformed, got %+v", intent)
	}
}
