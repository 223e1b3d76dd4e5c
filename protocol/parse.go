package protocol

import (
	"encoding/json"

	"github.com/dbchat-dev/dbchat/domain"
)

// completion mirrors the JSON contract the generator is instructed to follow.
type completion struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Payload struct {
		Action   string `json:"action"`
		SQLQuery string `json:"sql_query"`
		Text     string `json:"text"`
	} `json:"payload"`
}

// Parse turns a raw generator completion into a typed intent. It first
// attempts a strict parse of the whole text; on failure it retries on the
// first balanced brace group, which recovers completions that wrap the JSON
// object in prose. When a completion contains more than one JSON object only
// the first is considered.
func Parse(raw string) domain.Intent {
	var comp completion
	if err := json.Unmarshal([]byte(raw), &comp); err != nil {
		candidate, ok := firstBalancedObject(raw)
		if !ok {
			return domain.Intent{Kind: domain.IntentMalformed}
		}
		comp = completion{}
		if err := json.Unmarshal([]byte(candidate), &comp); err != nil {
			return domain.Intent{Kind: domain.IntentMalformed}
		}
	}

	switch {
	case comp.Type == "command" && comp.Payload.Action == "run_sql" && comp.Payload.SQLQuery != "":
		return domain.Intent{Kind: domain.IntentRunQuery, ID: comp.ID, Query: comp.Payload.SQLQuery}
	case comp.Type == "chat_reply":
		return domain.Intent{Kind: domain.IntentDirectReply, ID: comp.ID, Text: comp.Payload.Text}
	default:
		return domain.Intent{Kind: domain.IntentMalformed}
	}
}

// firstBalancedObject returns the first brace-balanced substring of s. The
// scan is aware of JSON strings and escapes, so braces inside string values
// do not affect the depth count.
func firstBalancedObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if start == -1 {
			if ch == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
