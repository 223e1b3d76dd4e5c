// Package policy holds the prompt-template classification rules as an OPA
// policy, so the keyword vocabulary can be audited and extended independently
// of prompt construction.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Template variants selected by the classifier.
const (
	TemplateSQL  = "sql"
	TemplateChat = "chat"
)

// Engine evaluates the prompt-template policy.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a classifier engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.prompt_templates.template"),
		rego.Module("prompt_templates.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Classify returns the template variant for the given user text, either
// TemplateSQL or TemplateChat.
func (e *Engine) Classify(ctx context.Context, text string) (string, error) {
	input := map[string]interface{}{"text": text}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return TemplateChat, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return TemplateChat, nil
}

// DefaultPolicy selects the SQL template when the user text mentions any of
// the database vocabulary, case-insensitively, as a substring.
const DefaultPolicy = `
package prompt_templates

import rego.v1

default template := "chat"

sql_keywords := {"select", "insert", "update", "delete", "create", "drop", "table", "database", "query", "sql"}

template := "sql" if {
	some keyword in sql_keywords
	contains(lower(input.text), keyword)
}
`
