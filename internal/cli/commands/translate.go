package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/pkg/sqlt"
)

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "translate [files...]",
		Aliases: []string{"tr"},
		Short:   "Translate SQL from one dialect to another",
		Long: `Parse SQL in the source dialect (--dialect) and render it for the
target dialect (--target).

Placeholders are renumbered in the target style, identifiers are requoted,
functions and casts are rewritten where the target spells them
differently and LIMIT/FETCH, NULLS FIRST/LAST and string concatenation are
emulated when the target lacks them. Each file is translated independently
and results are printed in argument order.`,
		Example: `  # Translate a postgres query for mysql
  echo "SELECT a::int FROM t WHERE b ILIKE \$1" | sqlt translate -d postgres -t mysql

  # Translate several files in parallel, pretty printed
  sqlt translate -d postgres -t sqlite --pretty --jobs 8 queries/*.sql`,
		RunE: runTranslate,
	}
}

func runTranslate(cmd *cobra.Command, args []string) error {
	c := NewCommandContext(cmd)
	if c.Cfg.Target == "" {
		return fmt.Errorf("--target is required (or set target in sqlt.yaml)")
	}
	src, dst, err := c.Dialects()
	if err != nil {
		return err
	}
	sources, err := readSources(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	c.Logger.Debug("translating", "from", src.Name(), "to", dst.Name(), "inputs", len(sources))
	opts := c.Options(true)
	results, err := runBatch(cmd.Context(), sources, c.Cfg.Jobs, func(s source) (string, error) {
		return sqlt.Process(s.Text, src, dst, opts)
	})
	if err != nil {
		return err
	}
	return c.writeResults(results)
}
