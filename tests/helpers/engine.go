// Package helpers provides shared test fixtures.
package helpers

import (
	"context"
	"testing"

	"github.com/dbchat-dev/dbchat/dbquery"
)

// NewTestQueryEngine creates an in-memory sqlite query engine, optionally
// seeded with the given statements.
func NewTestQueryEngine(t *testing.T, seed ...string) *dbquery.Engine {
	t.Helper()

	e, err := dbquery.New("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to create query engine: %v", err)
	}

	t.Cleanup(func() {
		_ = e.Close()
	})

	for _, stmt := range seed {
		if _, err := e.Run(context.Background(), stmt); err != nil {
			t.Fatalf("failed to seed query engine: %v", err)
		}
	}

	return e
}
