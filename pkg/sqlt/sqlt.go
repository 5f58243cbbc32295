// Package sqlt is the convenience entry point: it registers every
// built-in dialect and exposes text-to-text operations by dialect name.
package sqlt

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/format"
	"github.com/leapstack-labs/sqlt/pkg/parser"
	"github.com/leapstack-labs/sqlt/pkg/token"

	// Register the built-in dialects.
	_ "github.com/leapstack-labs/sqlt/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/sqlt/pkg/dialects/databricks"
	_ "github.com/leapstack-labs/sqlt/pkg/dialects/datafusion"
	_ "github.com/leapstack-labs/sqlt/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/sqlt/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/sqlt/pkg/dialects/sqlite"
)

// Dialects returns the names of the registered dialects, sorted.
func Dialects() []string {
	return dialect.List()
}

// Parse parses a single statement written in the named dialect.
func Parse(text, dialectName string) (ast.Statement, error) {
	d, err := dialect.Lookup(dialectName)
	if err != nil {
		return nil, err
	}
	return parser.Parse(text, d)
}

// Translate parses text in one dialect and renders it for another. Text
// holding several statements is translated statement by statement and
// joined with ";\n".
func Translate(text, from, to string) (string, error) {
	src, err := dialect.Lookup(from)
	if err != nil {
		return "", err
	}
	dst, err := dialect.Lookup(to)
	if err != nil {
		return "", err
	}
	return TranslateWith(text, src, dst, format.Options{})
}

// TranslateWith is Translate with resolved dialects and generator options.
// Transpile rules always apply.
func TranslateWith(text string, from, to dialect.Dialect, opts format.Options) (string, error) {
	opts.Transpile = true
	return Process(text, from, to, Options{Options: opts})
}

// Format parses text and renders it back in the same dialect.
func Format(text, dialectName string, opts format.Options) (string, error) {
	d, err := dialect.Lookup(dialectName)
	if err != nil {
		return "", err
	}
	return Process(text, d, d, Options{Options: opts})
}

// Options controls how a script is processed.
type Options struct {
	format.Options
	// MaxDepth bounds expression and subquery nesting. Zero means
	// parser.DefaultMaxDepth.
	MaxDepth int
	// Comments keeps source comments in pretty output.
	Comments bool
}

// Process parses a script in one dialect and renders every statement for
// another, which may be the same.
func Process(text string, from, to dialect.Dialect, opts Options) (string, error) {
	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = parser.DefaultMaxDepth
	}
	if opts.Source == nil {
		opts.Source = from
	}
	if !opts.Comments || !opts.Pretty {
		stmts, err := parser.ParseScriptWithOptions(text, from, maxDepth)
		if err != nil {
			return "", err
		}
		return render(stmts, to, opts.Options), nil
	}

	tokens, comments, err := parser.TokenizeWithComments(text, from)
	if err != nil {
		return "", err
	}
	stmts, err := parser.ParseScriptTokens(tokens, from, maxDepth)
	if err != nil {
		return "", err
	}
	out := make([]string, len(stmts))
	for i, stmt := range stmts {
		var own []token.Comment
		if i == len(stmts)-1 {
			own = comments
		} else {
			own, comments = splitComments(comments, ast.SpanOf(stmt).End.Offset)
		}
		out[i] = format.WithComments(stmt, own, to, opts.Options)
	}
	return joinStatements(out, true), nil
}

// splitComments divides comments, which are in source order, into those
// starting before offset and the rest.
func splitComments(comments []token.Comment, offset int) (before, after []token.Comment) {
	i := 0
	for i < len(comments) && comments[i].Span.Start.Offset < offset {
		i++
	}
	return comments[:i], comments[i:]
}

func render(stmts []ast.Statement, d dialect.Dialect, opts format.Options) string {
	out := make([]string, len(stmts))
	for i, stmt := range stmts {
		out[i] = format.ToSQLWith(stmt, d, opts)
	}
	return joinStatements(out, opts.Pretty)
}

func joinStatements(out []string, pretty bool) string {
	sep := ";\n"
	if pretty && len(out) > 1 {
		sep = ";\n\n"
	}
	return strings.Join(out, sep)
}

// MustTranslate is like Translate but panics on error. It is meant for
// fixed statements known to be valid.
func MustTranslate(text, from, to string) string {
	out, err := Translate(text, from, to)
	if err != nil {
		panic(fmt.Sprintf("sqlt: translate %q: %v", text, err))
	}
	return out
}
