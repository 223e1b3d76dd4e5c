// Package protocol builds the structured prompt sent to the text generator
// and parses its completion into a typed intent.
package protocol

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dbchat-dev/dbchat/domain"
	"github.com/dbchat-dev/dbchat/policy"
)

// Classifier selects the prompt template variant for a piece of user text.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Codec is stateless: it receives data and returns data.
type Codec struct {
	classifier  Classifier
	window      int
	truncateLen int

	now func() time.Time
}

// NewCodec creates a codec. window is the number of trailing history entries
// included in the prompt; truncateLen caps each entry's rendered content.
func NewCodec(classifier Classifier, window, truncateLen int) *Codec {
	return &Codec{
		classifier:  classifier,
		window:      window,
		truncateLen: truncateLen,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

const noHistorySentinel = "No previous conversation."

const sqlPromptTemplate = `You are an SQL assistant. The user wants to run a database query.

Previous conversation context:
%s

User message: %q

Respond ONLY with this exact JSON format:
{
  "type": "command",
  "id": %q,
  "session_id": %q,
  "timestamp": %q,
  "payload": {
    "action": "run_sql",
    "sql_query": "YOUR_SQL_QUERY_HERE"
  }
}

Replace YOUR_SQL_QUERY_HERE with the appropriate SQL query based on the user's request.
`

const chatPromptTemplate = `You are a helpful chat assistant.

Previous conversation context:
%s

User message: %q

Respond ONLY with this exact JSON format:
{
  "type": "chat_reply",
  "id": %q,
  "session_id": %q,
  "timestamp": %q,
  "payload": {
    "text": "YOUR_RESPONSE_HERE"
  }
}

Replace YOUR_RESPONSE_HERE with your helpful response to the user. Be friendly and conversational.
`

// BuildPrompt renders the outbound prompt from the inbound message and the
// session history. The template variant is chosen by the classifier; on a
// classification error the conversational template is used.
func (c *Codec) BuildPrompt(ctx context.Context, msg domain.UserMessage, sessionID string, history []domain.Message) string {
	userText := msg.Text()

	template := chatPromptTemplate
	variant, err := c.classifier.Classify(ctx, userText)
	if err != nil {
		log.Printf("WARN: template classification failed, using chat template: %v", err)
	} else if variant == policy.TemplateSQL {
		template = sqlPromptTemplate
	}

	contextStr := c.renderHistory(history)
	timestamp := c.now().Format(time.RFC3339)
	return fmt.Sprintf(template, contextStr, userText, msg.ID, sessionID, timestamp)
}

// renderHistory renders the last window entries as "ROLE: content" lines,
// truncating each entry and marking the truncation with an ellipsis.
func (c *Codec) renderHistory(history []domain.Message) string {
	if len(history) > c.window {
		history = history[len(history)-c.window:]
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		content := msg.Content
		// Truncation counts characters, not bytes, so multibyte content is
		// never cut mid-rune.
		if runes := []rune(content); len(runes) > c.truncateLen {
			content = string(runes[:c.truncateLen]) + "..."
		}
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(string(msg.Role)), content))
	}

	if len(lines) == 0 {
		return noHistorySentinel
	}
	return strings.Join(lines, "\n")
}
