package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve translation over HTTP",
		Long: `Start an HTTP server exposing translation, formatting and parsing as
JSON endpoints:

  POST /v1/translate  {"sql": "...", "from": "postgres", "to": "mysql"}
  POST /v1/format     {"sql": "...", "from": "postgres", "pretty": true}
  POST /v1/parse      {"sql": "...", "positions": true}
  GET  /v1/dialects
  GET  /healthz

Requests without "from" use the configured dialect. Invalid SQL is
answered with status 400 and the line and column of the error.`,
		Example: `  # Serve on the default address
  sqlt serve

  # Serve on port 9000 with postgres as the default source dialect
  sqlt serve --addr :9000 -d postgres`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "Address to listen on (default :8787)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	c := NewCommandContext(cmd)
	if _, err := c.Cfg.SourceDialect(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Addr:     c.Cfg.Serve.Addr,
		Dialect:  c.Cfg.Dialect,
		MaxDepth: c.Cfg.MaxDepth,
		Logger:   c.Logger,
		Resolve:  c.Cfg.Resolve,
	})
	return srv.Serve(ctx)
}
