package output_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlt/internal/cli/output"
	"github.com/leapstack-labs/sqlt/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlt/pkg/parser"
)

func newRenderer(mode output.OutputMode) (*output.Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return output.NewRendererWithTTY(out, errOut, false, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want output.OutputMode
	}{
		{"", output.ModeAuto},
		{"auto", output.ModeAuto},
		{"JSON", output.ModeJSON},
		{" yaml ", output.ModeYAML},
		{"text", output.ModeText},
		{"markdown", output.ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, output.Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newRenderer(output.ModeAuto)
	assert.Equal(t, output.ModeText, r.EffectiveMode())
	assert.False(t, r.IsTTY())

	r, _, _ = newRenderer(output.ModeJSON)
	assert.Equal(t, output.ModeJSON, r.EffectiveMode())
}

func TestNewRendererDetectsNonTerminal(t *testing.T) {
	r := output.NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, output.ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestData(t *testing.T) {
	r, out, _ := newRenderer(output.ModeJSON)
	require.NoError(t, r.Data(map[string]any{"a": 1}))
	assert.JSONEq(t, `{"a": 1}`, out.String())

	r, out, _ = newRenderer(output.ModeYAML)
	require.NoError(t, r.Data(map[string]any{"a": 1}))
	assert.Equal(t, "a: 1\n", out.String())
}

func TestTable(t *testing.T) {
	r, out, _ := newRenderer(output.ModeText)
	r.Table([]string{"name", "quote"}, [][]any{{"ansi", `""`}, {"mysql", "``"}})

	text := out.String()
	assert.Contains(t, text, "NAME")
	assert.Contains(t, text, "mysql")
	assert.Contains(t, text, "``")
}

func TestPlainTextHasNoEscapes(t *testing.T) {
	r, out, errOut := newRenderer(output.ModeText)
	r.Header("Dialects")
	r.Success("done")
	assert.Equal(t, "Dialects\n", out.String())
	assert.Equal(t, "done\n", errOut.String())
}

func TestDiagnostic(t *testing.T) {
	source := "SELECT a\nFROM t WHERE"
	_, err := parser.Parse(source, ansi.ANSI)
	require.Error(t, err)

	r, _, errOut := newRenderer(output.ModeText)
	r.Diagnostic("q.sql", source, err)

	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Pos.Line)
	assert.Equal(t,
		"q.sql:2:13: error: "+perr.Message+"\n"+
			" 2 | FROM t WHERE\n"+
			"   |             ^\n",
		errOut.String())
}

func TestDiagnosticUnderlinesToken(t *testing.T) {
	source := "SELECT a FROM t LIMIT 1"
	_, err := parser.Parse(source, ansi.ANSI)
	require.Error(t, err)

	r, _, _ := newRenderer(output.ModeText)
	text := r.FormatDiagnostic("", source, err)
	assert.Contains(t, text, "<stdin>:1:17: error: ")
	assert.Contains(t, text, "\n   |                 ^^^^^\n")
}

func TestDiagnosticLexError(t *testing.T) {
	source := "SELECT 'open"
	_, err := parser.Parse(source, ansi.ANSI)
	require.Error(t, err)

	r, _, _ := newRenderer(output.ModeText)
	text := r.FormatDiagnostic("x.sql", source, err)
	assert.Contains(t, text, "x.sql:1:8: error: unterminated string literal\n")
	assert.Contains(t, text, "   |        ^\n")
}

func TestDiagnosticPlainError(t *testing.T) {
	r, _, _ := newRenderer(output.ModeText)
	assert.Equal(t, "f.sql: error: boom\n", r.FormatDiagnostic("f.sql", "", errors.New("boom")))
}
