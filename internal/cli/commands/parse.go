package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/internal/cli/output"
	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/interchange"
	"github.com/leapstack-labs/sqlt/pkg/parser"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Positions bool // include source spans
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the syntax tree of SQL input",
		Long: `Parse SQL in the source dialect and print its syntax tree as a tree
of plain objects. A single statement prints as one object, a script as a
list. Output is JSON unless --output yaml is given.`,
		Example: `  # Show the tree for a query
  echo "SELECT a FROM t WHERE b > 1" | sqlt parse

  # Include source positions, as YAML
  sqlt parse --positions -o yaml query.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Positions, "positions", false, "Include source spans for every node")
	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	c := NewCommandContext(cmd)
	d, err := c.Cfg.SourceDialect()
	if err != nil {
		return err
	}
	sources, err := readSources(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	src := sources[0]

	stmts, err := parser.ParseScriptWithOptions(src.Text, d, c.Cfg.MaxDepth)
	if err != nil {
		c.Renderer.Diagnostic(src.Name, src.Text, err)
		return ErrReported
	}
	tree := encodeStatements(stmts, interchange.Options{Positions: opts.Positions})

	if c.Renderer.EffectiveMode() == output.ModeYAML {
		return c.Renderer.YAML(tree)
	}
	return c.Renderer.JSON(tree)
}

// encodeStatements returns one object for a single statement and a list
// otherwise.
func encodeStatements(stmts []ast.Statement, opts interchange.Options) any {
	if len(stmts) == 1 {
		return interchange.Encode(stmts[0], opts)
	}
	list := make([]interchange.Object, len(stmts))
	for i, stmt := range stmts {
		list[i] = interchange.Encode(stmt, opts)
	}
	return list
}
