// Package sqlite provides an embedded SQLite adapter that checks
// generated SQL without any external server.
//
//	import _ "github.com/leapstack-labs/sqlt/pkg/adapters/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/sqlt/pkg/adapter"
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
