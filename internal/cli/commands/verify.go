package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/internal/cli/output"
	"github.com/leapstack-labs/sqlt/pkg/adapter"
	"github.com/leapstack-labs/sqlt/pkg/format"
	"github.com/leapstack-labs/sqlt/pkg/parser"

	// Register engines usable by verify.
	_ "github.com/leapstack-labs/sqlt/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/sqlt/pkg/adapters/sqlite"
)

// VerifyRecord is the machine-readable outcome of checking one statement.
type VerifyRecord struct {
	Source string `json:"source" yaml:"source"`
	Index  int    `json:"index" yaml:"index"`
	SQL    string `json:"sql" yaml:"sql"`
	OK     bool   `json:"ok" yaml:"ok"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [files...]",
		Short: "Check translated SQL against a real database engine",
		Long: `Translate each statement into the dialect of a database engine and ask
the engine to prepare it. Statements are never executed, so verification
is safe against a live database.

The embedded sqlite engine needs no setup. For postgres pass a DSN. A
setup file, typically schema DDL, is executed first so statements can
refer to real tables.`,
		Example: `  # Check postgres queries against an in-memory sqlite database
  sqlt verify -d postgres --setup schema.sql queries/*.sql

  # Check mysql queries against a postgres server
  sqlt verify -d mysql --engine postgres --dsn postgres://localhost/app query.sql`,
		RunE: runVerify,
	}
	cmd.Flags().String("engine", "", "Engine to check against (sqlite, postgres)")
	cmd.Flags().String("dsn", "", "Engine connection string")
	cmd.Flags().String("setup", "", "SQL file executed before checking")
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := NewCommandContext(cmd)
	if err := c.Cfg.ValidateEngine(); err != nil {
		return err
	}
	src, err := c.Cfg.SourceDialect()
	if err != nil {
		return err
	}
	sources, err := readSources(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	eng, err := adapter.NewAdapter(adapter.Config{Type: c.Cfg.Engine.Type, DSN: c.Cfg.Engine.DSN}, c.Logger)
	if err != nil {
		return err
	}
	if err := eng.Connect(ctx, adapter.Config{Type: c.Cfg.Engine.Type, DSN: c.Cfg.Engine.DSN}); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.Cfg.Engine.Type, err)
	}
	defer func() { _ = eng.Close() }()

	dst, err := c.Cfg.Resolve(eng.DialectName())
	if err != nil {
		return err
	}
	if c.Cfg.Engine.Setup != "" {
		setup, err := os.ReadFile(c.Cfg.Engine.Setup)
		if err != nil {
			return fmt.Errorf("failed to read setup file: %w", err)
		}
		if err := eng.Exec(ctx, string(setup)); err != nil {
			return fmt.Errorf("setup failed: %w", err)
		}
		c.Logger.Debug("ran setup", "path", c.Cfg.Engine.Setup)
	}

	var records []VerifyRecord
	failed := 0
	for _, s := range sources {
		stmts, err := parser.ParseScriptWithOptions(s.Text, src, c.Cfg.MaxDepth)
		if err != nil {
			failed++
			c.Renderer.Diagnostic(s.Name, s.Text, err)
			continue
		}
		sqls := make([]string, len(stmts))
		for i, stmt := range stmts {
			sqls[i] = format.ToSQLWith(stmt, dst, format.Options{Transpile: true, Source: src})
		}
		results, err := adapter.CheckAll(ctx, eng, sqls)
		if err != nil {
			return err
		}
		for _, res := range results {
			rec := VerifyRecord{Source: s.displayName(), Index: res.Index + 1, SQL: res.SQL, OK: res.OK()}
			if !res.OK() {
				failed++
				rec.Error = res.Err.Error()
			}
			records = append(records, rec)
		}
	}

	if c.Renderer.EffectiveMode() != output.ModeText {
		if err := c.Renderer.Data(records); err != nil {
			return err
		}
	} else {
		c.printVerify(records)
	}
	if failed > 0 {
		return fmt.Errorf("%d statements rejected by %s: %w", failed, c.Cfg.Engine.Type, ErrReported)
	}
	return nil
}

func (c *CommandContext) printVerify(records []VerifyRecord) {
	st := c.Renderer.Styles()
	for _, r := range records {
		if r.OK {
			c.Renderer.Println(st.Success.Render("ok  "), fmt.Sprintf("%s#%d", r.Source, r.Index), r.SQL)
			continue
		}
		c.Renderer.Println(st.Error.Render("FAIL"), fmt.Sprintf("%s#%d", r.Source, r.Index), r.SQL)
		c.Renderer.Println("     " + st.Muted.Render(r.Error))
	}
}
