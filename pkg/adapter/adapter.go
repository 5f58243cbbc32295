// Package adapter provides the database adapters used to check that
// generated SQL is accepted by a real engine.
//
// An adapter connects to one engine and prepares statements without
// executing them. Concrete adapters live in pkg/adapters/ subdirectories
// and register themselves in init().
package adapter

import (
	"context"
)

// Config holds connection settings for an adapter.
type Config struct {
	Type    string            // registered adapter name
	DSN     string            // driver specific connection string
	Options map[string]string // adapter specific settings
}

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows, such as
	// schema setup.
	Exec(ctx context.Context, sql string) error

	// Check asks the engine to prepare sql without running it.
	Check(ctx context.Context, sql string) error

	// DialectName returns the registered sqlt dialect whose output this
	// engine accepts.
	DialectName() string
}

// Result is the outcome of checking one statement.
type Result struct {
	Index int // position in the checked list
	SQL   string
	Err   error
}

// OK reports whether the engine accepted the statement.
func (r Result) OK() bool { return r.Err == nil }

// CheckAll checks each statement in order and returns one result per
// statement. It stops early only when ctx is done.
func CheckAll(ctx context.Context, a Adapter, stmts []string) ([]Result, error) {
	results := make([]Result, 0, len(stmts))
	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, Result{Index: i, SQL: stmt, Err: a.Check(ctx, stmt)})
	}
	return results, nil
}
