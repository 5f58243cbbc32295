package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlt/internal/cli/config"
	"github.com/leapstack-labs/sqlt/internal/cli/output"
	"github.com/leapstack-labs/sqlt/internal/cli/testutil"
	ltestutil "github.com/leapstack-labs/sqlt/internal/testutil"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/interchange"
	"github.com/leapstack-labs/sqlt/pkg/parser"
)

func TestCommandMetadata(t *testing.T) {
	cmds := map[string]struct {
		use   string
		flags []string
	}{
		"tokens":    {"tokens [file]", []string{"comments"}},
		"parse":     {"parse [file]", []string{"positions"}},
		"fmt":       {"fmt [files...]", []string{"write", "check", "watch"}},
		"translate": {"translate [files...]", nil},
		"dialects":  {"dialects [name]", nil},
		"repl":      {"repl", nil},
		"verify":    {"verify [files...]", []string{"engine", "dsn", "setup"}},
		"serve":     {"serve", []string{"addr"}},
	}
	constructors := map[string]func() *cobra.Command{
		"tokens":    NewTokensCommand,
		"parse":     NewParseCommand,
		"fmt":       NewFmtCommand,
		"translate": NewTranslateCommand,
		"dialects":  NewDialectsCommand,
		"repl":      NewReplCommand,
		"verify":    NewVerifyCommand,
		"serve":     NewServeCommand,
	}
	for name, want := range cmds {
		t.Run(name, func(t *testing.T) {
			cmd := constructors[name]()
			assert.Equal(t, want.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, cmd.Long, "Long should not be empty")
			assert.NotEmpty(t, cmd.Example, "Example should not be empty")
			for _, flag := range want.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestTranslateAlias(t *testing.T) {
	assert.Equal(t, []string{"tr"}, NewTranslateCommand().Aliases)
}

func TestReadSources(t *testing.T) {
	dir := testutil.WriteSQLFiles(t, map[string]string{"a.sql": "SELECT 1"})

	sources, err := readSources(strings.NewReader("SELECT 2"), []string{filepath.Join(dir, "a.sql"), "-"})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "SELECT 1", sources[0].Text)
	assert.Equal(t, "SELECT 2", sources[1].Text)
	assert.Equal(t, "<stdin>", sources[1].displayName())

	sources, err = readSources(strings.NewReader("SELECT 3"), nil)
	require.NoError(t, err)
	assert.Equal(t, []source{{Text: "SELECT 3"}}, sources)

	_, err = readSources(nil, []string{filepath.Join(dir, "missing.sql")})
	assert.ErrorContains(t, err, "failed to read")
}

func TestRunBatch_KeepsOrder(t *testing.T) {
	sources := []source{{Name: "a", Text: "1"}, {Name: "b", Text: "2"}, {Name: "c", Text: "boom"}, {Name: "d", Text: "4"}}

	results, err := runBatch(context.Background(), sources, 2, func(s source) (string, error) {
		if s.Text == "boom" {
			return "", errors.New("boom")
		}
		return "out " + s.Text, nil
	})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, sources[i].Name, res.Source.Name)
	}
	assert.Equal(t, "out 1", results[0].Output)
	assert.EqualError(t, results[2].Err, "boom")
	assert.Equal(t, "out 4", results[3].Output)
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runBatch(ctx, []source{{Text: "x"}}, 1, func(source) (string, error) { return "", nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteResults(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeText, false)
	c := &CommandContext{Cfg: config.Default(), Logger: ltestutil.NewTestLogger(t), Renderer: tr.Renderer}

	err := c.writeResults([]batchResult{
		{Source: source{Name: "a.sql"}, Output: "SELECT 1"},
		{Source: source{Name: "b.sql", Text: "SELECT 'x"}, Err: lexError(t, "SELECT 'x")},
		{Source: source{Name: "c.sql"}, Output: "SELECT 3;"},
	})
	require.ErrorIs(t, err, ErrReported)
	assert.Contains(t, err.Error(), "1 of 3 inputs failed")
	assert.Equal(t, "-- a.sql\nSELECT 1;\n\n-- c.sql\nSELECT 3;\n", tr.Output())
	assert.Contains(t, tr.ErrorOutput(), "b.sql:1:8: error:")
	testutil.AssertNoANSI(t, tr.Output())
}

func lexError(t *testing.T, text string) error {
	t.Helper()
	_, err := parser.Tokenize(text, dialect.MustGet("ansi"))
	require.Error(t, err)
	return err
}

func TestTerminate(t *testing.T) {
	assert.Equal(t, "", terminate(""))
	assert.Equal(t, "SELECT 1;", terminate("SELECT 1"))
	assert.Equal(t, "SELECT 1;", terminate("SELECT 1;"))
	assert.Equal(t, "", formattedFile(""))
	assert.Equal(t, "SELECT 1;\n", formattedFile("SELECT 1"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := testutil.WriteSQLFiles(t, map[string]string{"q.sql": "select 1"})
	path := filepath.Join(dir, "q.sql")
	require.NoError(t, os.Chmod(path, 0600))

	require.NoError(t, writeFileAtomic(path, "SELECT 1;\n"))
	assert.Equal(t, "SELECT 1;\n", testutil.ReadFile(t, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is removed")
}

func TestTokenRecords(t *testing.T) {
	toks, comments, err := parser.TokenizeWithComments("SELECT a -- note\nFROM t", dialect.MustGet("ansi"))
	require.NoError(t, err)

	records := tokenRecords(toks, comments)
	require.Len(t, records, 5)

	assert.Equal(t, "keyword", records[0].Kind)
	assert.Equal(t, "SELECT", records[0].Text)
	assert.Equal(t, "identifier", records[1].Kind)
	assert.Equal(t, 8, records[1].Column)
	assert.Equal(t, "COMMENT", records[2].Type)
	assert.Equal(t, "line comment", records[2].Kind)
	assert.Contains(t, records[2].Text, "-- note")
	assert.Equal(t, 2, records[3].Line)
	assert.Equal(t, "t", records[4].Text)

	assert.Len(t, tokenRecords(toks, nil), 4, "EOF is dropped")
}

func TestTokenRecords_QuoteAndSuffix(t *testing.T) {
	toks, err := parser.Tokenize("SELECT `x`, 10L", dialect.MustGet("databricks"))
	require.NoError(t, err)

	records := tokenRecords(toks, nil)
	require.Len(t, records, 4)
	assert.Equal(t, "backtick", records[1].Quote)
	assert.Equal(t, "x", records[1].Text)
	assert.Equal(t, "L", records[3].Suffix)
}

func TestDescribeDialect(t *testing.T) {
	info := describeDialect(dialect.MustGet("mysql"), false)
	assert.Equal(t, "mysql", info.Name)
	assert.Equal(t, "``", info.Quote)
	assert.Contains(t, info.Features, "backtick_identifiers")
	assert.Nil(t, info.Reserved)

	info = describeDialect(dialect.MustGet("postgres"), true)
	assert.Contains(t, info.Features, "cast_operator")
	assert.NotEmpty(t, info.Functions)
}

func TestEncodeStatements(t *testing.T) {
	stmts, err := parser.ParseScript("SELECT 1", dialect.MustGet("ansi"))
	require.NoError(t, err)
	one, ok := encodeStatements(stmts, interchange.Options{}).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "select", one["type"])

	stmts, err = parser.ParseScript("SELECT 1; SELECT 2", dialect.MustGet("ansi"))
	require.NoError(t, err)
	assert.Len(t, encodeStatements(stmts, interchange.Options{}), 2)
}
