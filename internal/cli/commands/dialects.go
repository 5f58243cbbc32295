package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/internal/cli/output"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
)

// DialectInfo describes a registered dialect.
type DialectInfo struct {
	Name            string   `json:"name" yaml:"name"`
	Quote           string   `json:"quote" yaml:"quote"`
	IdentifierCase  string   `json:"identifier_case" yaml:"identifier_case"`
	KeywordCase     string   `json:"keyword_case" yaml:"keyword_case"`
	Features        []string `json:"features" yaml:"features"`
	NumericSuffixes []string `json:"numeric_suffixes,omitempty" yaml:"numeric_suffixes,omitempty"`
	Reserved        []string `json:"reserved,omitempty" yaml:"reserved,omitempty"`
	Functions       []string `json:"functions,omitempty" yaml:"functions,omitempty"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects [name]",
		Short: "List supported dialects",
		Long: `List the registered dialects with their quoting, casing and enabled
syntax extensions. With a name, show the full profile of that dialect
including its extra reserved words and known functions.`,
		Example: `  # List dialects
  sqlt dialects

  # Show the postgres profile as JSON
  sqlt dialects postgres -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDialects,
	}
}

func runDialects(cmd *cobra.Command, args []string) error {
	c := NewCommandContext(cmd)
	if len(args) == 1 {
		d, err := dialect.Lookup(args[0])
		if err != nil {
			return err
		}
		info := describeDialect(d, true)
		if c.Renderer.EffectiveMode() != output.ModeText {
			return c.Renderer.Data(info)
		}
		c.printDialect(info)
		return nil
	}

	names := dialect.List()
	infos := make([]DialectInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, describeDialect(dialect.MustGet(name), false))
	}
	if c.Renderer.EffectiveMode() != output.ModeText {
		return c.Renderer.Data(infos)
	}
	rows := make([][]any, len(infos))
	for i, info := range infos {
		rows[i] = []any{info.Name, info.Quote, info.IdentifierCase, info.KeywordCase, strings.Join(info.Features, ", ")}
	}
	c.Renderer.Table([]string{"Name", "Quote", "Ident Case", "Keywords", "Features"}, rows)
	return nil
}

// describeDialect summarizes d. Word lists are only filled in detail.
func describeDialect(d dialect.Dialect, detail bool) DialectInfo {
	info := DialectInfo{
		Name:           d.Name(),
		Quote:          d.QuoteStyle().String(),
		IdentifierCase: d.IdentifierCase().String(),
		KeywordCase:    d.KeywordCase().String(),
		Features:       []string{},
	}
	for _, f := range dialect.AllFeatures() {
		if d.Supports(f) {
			info.Features = append(info.Features, f.String())
		}
	}
	if p, ok := d.(*dialect.Profile); ok {
		info.NumericSuffixes = p.NumericSuffixes()
		if detail {
			info.Reserved = p.ReservedWords()
			info.Functions = p.Functions()
		}
	}
	return info
}

func (c *CommandContext) printDialect(info DialectInfo) {
	c.Renderer.Header(info.Name)
	rows := [][]any{
		{"quote", info.Quote},
		{"identifier case", info.IdentifierCase},
		{"keyword case", info.KeywordCase},
		{"features", strings.Join(info.Features, ", ")},
		{"numeric suffixes", strings.Join(info.NumericSuffixes, ", ")},
		{"reserved", strings.Join(info.Reserved, ", ")},
		{"functions", strings.Join(info.Functions, ", ")},
	}
	c.Renderer.Table([]string{"Property", "Value"}, rows)
}
