package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/internal/cli/output"
	"github.com/leapstack-labs/sqlt/pkg/parser"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Comments bool // include comments in source order
}

// TokenRecord is the machine-readable form of a token or comment.
type TokenRecord struct {
	Type   string `json:"type" yaml:"type"`
	Kind   string `json:"kind" yaml:"kind"`
	Text   string `json:"text" yaml:"text"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Offset int    `json:"offset" yaml:"offset"`
	Quote  string `json:"quote,omitempty" yaml:"quote,omitempty"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of SQL input",
		Long: `Tokenize SQL in the source dialect and print each token with its
type, lexical kind, text and position. The end-of-input token is not shown.`,
		Example: `  # Tokenize a query from stdin
  echo "SELECT a::int FROM t" | sqlt tokens -d postgres

  # Include comments, as JSON
  sqlt tokens --comments -o json query.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Comments, "comments", false, "Include comments in the listing")
	return cmd
}

func runTokens(cmd *cobra.Command, args []string, opts *TokensOptions) error {
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

	toks, comments, err := parser.TokenizeWithComments(src.Text, d)
	if err != nil {
		c.Renderer.Diagnostic(src.Name, src.Text, err)
		return ErrReported
	}
	if !opts.Comments {
		comments = nil
	}
	records := tokenRecords(toks, comments)
	c.Logger.Debug("tokenized input", "tokens", len(toks)-1, "comments", len(comments))

	if c.Renderer.EffectiveMode() != output.ModeText {
		return c.Renderer.Data(records)
	}
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{i + 1, r.Type, r.Kind, r.Text, r.Line, r.Column, r.Offset}
	}
	c.Renderer.Table([]string{"#", "Type", "Kind", "Text", "Line", "Col", "Offset"}, rows)
	return nil
}

// tokenRecords merges tokens and comments by offset, dropping EOF.
func tokenRecords(toks []token.Token, comments []token.Comment) []TokenRecord {
	records := make([]TokenRecord, 0, len(toks)+len(comments))
	ci := 0
	for _, tok := range toks {
		for ci < len(comments) && comments[ci].Span.Start.Offset < tok.Span.Start.Offset {
			records = append(records, commentRecord(comments[ci]))
			ci++
		}
		if tok.Type == token.EOF {
			break
		}
		r := TokenRecord{
			Type:   tok.Type.String(),
			Kind:   tok.Kind().String(),
			Text:   tok.Literal,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
			Suffix: tok.Suffix,
		}
		if tok.Quote != token.QuoteNone {
			r.Quote = tok.Quote.String()
		}
		records = append(records, r)
	}
	for ; ci < len(comments); ci++ {
		records = append(records, commentRecord(comments[ci]))
	}
	return records
}

func commentRecord(c token.Comment) TokenRecord {
	return TokenRecord{
		Type:   "COMMENT",
		Kind:   c.Kind.String() + " comment",
		Text:   c.Text,
		Line:   c.Span.Start.Line,
		Column: c.Span.Start.Column,
		Offset: c.Span.Start.Offset,
	}
}
