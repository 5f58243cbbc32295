package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/leapstack-labs/sqlt/pkg/adapter"
)

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
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
	return "postgres"
}

// Connect establishes a connection to PostgreSQL. The DSN is either a
// URL or a key=value string; Options are merged into it as runtime
// parameters.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if cfg.DSN == "" {
		return fmt.Errorf("postgres requires a DSN, e.g. postgres://user@localhost:5432/db")
	}

	connCfg, err := pgx.ParseConfig(buildPostgresDSN(cfg))
	if err != nil {
		return fmt.Errorf("invalid postgres DSN: %w", err)
	}

	a.Logger.Debug("connecting to postgres",
		slog.String("host", connCfg.Host),
		slog.String("database", connCfg.Database))

	db := stdlib.OpenDB(*connCfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildPostgresDSN appends options to a key=value DSN. URL DSNs get them
// as query parameters.
func buildPostgresDSN(cfg adapter.Config) string {
	if len(cfg.Options) == 0 {
		return cfg.DSN
	}
	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	isURL := strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://")
	var b strings.Builder
	b.WriteString(cfg.DSN)
	for i, k := range keys {
		switch {
		case !isURL:
			fmt.Fprintf(&b, " %s=%s", k, cfg.Options[k])
		case i == 0 && !strings.Contains(cfg.DSN, "?"):
			fmt.Fprintf(&b, "?%s=%s", k, cfg.Options[k])
		default:
			fmt.Fprintf(&b, "&%s=%s", k, cfg.Options[k])
		}
	}
	return b.String()
}
