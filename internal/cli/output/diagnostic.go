package output

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlt/pkg/parser"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Diagnostic writes err to the diagnostics writer. Lexer and parser
// errors are shown with the offending source line and a caret under the
// reported column; other errors are written as "name: error".
func (r *Renderer) Diagnostic(name, source string, err error) {
	_, _ = fmt.Fprint(r.errOut, r.FormatDiagnostic(name, source, err))
}

// FormatDiagnostic returns the text Diagnostic writes.
func (r *Renderer) FormatDiagnostic(name, source string, err error) string {
	if name == "" {
		name = "<stdin>"
	}
	span, msg, ok := locate(err)
	if !ok {
		return fmt.Sprintf("%s: %s\n", name, r.styles.Error.Render("error:")+" "+err.Error())
	}

	var b strings.Builder
	pos := span.Start
	fmt.Fprintf(&b, "%s:%d:%d: %s %s\n", name, pos.Line, pos.Column, r.styles.Error.Render("error:"), msg)

	line, found := sourceLine(source, pos.Line)
	if !found {
		return b.String()
	}
	num := strconv.Itoa(pos.Line)
	gutter := strings.Repeat(" ", len(num))
	fmt.Fprintf(&b, " %s %s %s\n", r.styles.Muted.Render(num), r.styles.Muted.Render("|"), line)
	fmt.Fprintf(&b, " %s %s %s%s\n", gutter, r.styles.Muted.Render("|"), padding(line, pos.Column), r.styles.Caret.Render(carets(line, span)))
	return b.String()
}

// locate extracts the position and bare message of lexer and parser errors.
func locate(err error) (token.Span, string, bool) {
	var lexErr *parser.LexError
	if errors.As(err, &lexErr) {
		return token.Span{Start: lexErr.Pos, End: lexErr.Pos}, lexErr.Message, true
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		span := parseErr.Span
		if !span.IsValid() {
			span = token.Span{Start: parseErr.Pos, End: parseErr.Pos}
		}
		return span, parseErr.Message, true
	}
	return token.Span{}, "", false
}

// sourceLine returns the 1-based line n of source without its newline.
func sourceLine(source string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}

// padding returns the whitespace that puts a caret under the 1-based rune
// column col. Tabs are kept so the caret lines up however they render.
func padding(line string, col int) string {
	var b strings.Builder
	i := 1
	for _, ch := range line {
		if i >= col {
			break
		}
		if ch == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		i++
	}
	for ; i < col; i++ {
		b.WriteByte(' ')
	}
	return b.String()
}

// carets underlines span when it stays on one line, else marks its start.
func carets(line string, span token.Span) string {
	width := 1
	if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
		width = span.End.Column - span.Start.Column
		// Do not run past the end of the line.
		if rest := utf8.RuneCountInString(line) - span.Start.Column + 1; rest > 0 && width > rest {
			width = rest
		}
	}
	return strings.Repeat("^", width)
}
