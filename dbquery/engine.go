// Package dbquery executes generator-supplied SQL against the configured
// database. Query text is executed verbatim: it originates from the generator,
// not the end user, but it is still untrusted input to the database. This is a
// documented trust boundary, not a security feature.
package dbquery

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Result is a materialized row set. Columns preserves the column order the
// database reported; Rows maps column name to value.
type Result struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// Runner defines the interface for query execution.
type Runner interface {
	Run(ctx context.Context, query string) (*Result, error)
}

// Engine runs queries over database/sql.
type Engine struct {
	db *sql.DB
}

// Ensure Engine implements Runner interface.
var _ Runner = (*Engine)(nil)

// New opens a query engine for the given driver name and DSN. The connection
// is established lazily on first query.
func New(driver, dsn string) (*Engine, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Engine{db: db}, nil
}

// Run executes query and materializes the result set. Statements that produce
// no rows yield an empty Result.
func (e *Engine) Run(ctx context.Context, query string) (*Result, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: cols, Rows: []map[string]interface{}{}}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			v := values[i]
			// Drivers hand back raw bytes for text columns.
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}

// Close closes the underlying database handle.
func (e *Engine) Close() error {
	return e.db.Close()
}
