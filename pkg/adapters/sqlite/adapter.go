package sqlite

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/sqlt/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "sqlite"
}

// Connect opens the database file named by the DSN, or an in-memory
// database when the DSN is empty.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if cfg.DSN == "" {
		cfg.DSN = MemoryDSN
	}
	a.Logger.Debug("opening sqlite database", slog.String("dsn", cfg.DSN))
	if err := a.Open(ctx, "sqlite", cfg); err != nil {
		return err
	}
	// Every pooled connection to :memory: is a separate database, so
	// schema set up through Exec must stay on one connection.
	a.DB.SetMaxOpenConns(1)
	return nil
}
