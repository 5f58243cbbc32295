// Package format renders AST nodes back to SQL text for a dialect.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

const indentSize = 2

// Options controls how a node is rendered.
type Options struct {
	// Pretty puts each clause on its own line and indents clause bodies.
	Pretty bool
	// Transpile applies the target dialect's function transforms,
	// function name quoting and placeholder style.
	Transpile bool
	// Source is the dialect the tree was parsed from. When transpiling,
	// unquoted names whose case it keeps are quoted where the target
	// would fold them. Nil is treated as a case-keeping source.
	Source dialect.Dialect
}

// Printer handles SQL generation with proper indentation and style.
type Printer struct {
	dialect     dialect.Dialect
	opts        Options
	output      *bytes.Buffer
	depth       int
	atLineStart bool
	comments    *Decorations
}

func newPrinter(d dialect.Dialect, opts Options) *Printer {
	return &Printer{
		dialect:     d,
		opts:        opts,
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// sub returns a printer sharing the dialect and options that renders
// into its own buffer on a single line.
func (p *Printer) sub() *Printer {
	opts := p.opts
	opts.Pretty = false
	return newPrinter(p.dialect, opts)
}

// String returns the generated output.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n ")
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

// keyword writes a keyword in the dialect's keyword case.
func (p *Printer) keyword(s string) {
	p.write(p.dialect.KeywordCase().Apply(s))
}

// kw writes a sequence of keywords separated by spaces.
func (p *Printer) kw(words ...string) {
	for i, w := range words {
		if i > 0 {
			p.space()
		}
		p.keyword(w)
	}
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	if p.atLineStart {
		return
	}
	p.output.WriteByte(' ')
}

// breakLine starts a new line in pretty mode and writes a space otherwise.
func (p *Printer) breakLine() {
	if p.opts.Pretty {
		if !p.atLineStart {
			p.writeln()
		}
		return
	}
	p.space()
}

// clauseBody writes the body of a clause: indented on the next line in
// pretty mode, after a space otherwise.
func (p *Printer) clauseBody(body func()) {
	if !p.opts.Pretty {
		p.space()
		body()
		return
	}
	p.indent()
	p.writeln()
	body()
	p.dedent()
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index,
// sep is the separator string, multiline puts each item on its own line
// in pretty mode.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline && p.opts.Pretty {
				p.writeln()
			} else {
				p.space()
			}
		}
	}
}

// ident writes an identifier, quoting it when it was quoted in the
// source or would not survive re-lexing bare under the dialect.
func (p *Printer) ident(id *ast.Ident) {
	if id == nil {
		return
	}
	if id.Quoted || p.needsQuoting(id.Name) {
		p.write(dialect.QuoteIdentifier(p.dialect, id.Name))
		return
	}
	p.write(id.Name)
}

func (p *Printer) needsQuoting(name string) bool {
	if p.opts.Transpile {
		return dialect.NeedsQuotingFrom(p.opts.Source, p.dialect, name)
	}
	return dialect.NeedsQuoting(p.dialect, name)
}

func (p *Printer) identList(ids []*ast.Ident) {
	p.write("(")
	p.formatList(len(ids), func(i int) { p.ident(ids[i]) }, ",", false)
	p.write(")")
}

func (p *Printer) qualifiedName(q *ast.QualifiedName) {
	if q == nil {
		return
	}
	for i, part := range q.Parts {
		if i > 0 {
			p.write(".")
		}
		p.ident(part)
	}
}

// alias writes " AS name" when name is set.
func (p *Printer) alias(name *ast.Ident) {
	if name == nil {
		return
	}
	p.space()
	p.keyword("AS")
	p.space()
	p.ident(name)
}

// leadingComments writes the comments anchored before n. Comments are
// only kept in pretty mode, where each one gets its own line.
func (p *Printer) leadingComments(n ast.Node) {
	if p.comments == nil || !p.opts.Pretty {
		return
	}
	for _, c := range p.comments.leading[n] {
		p.comment(c)
	}
}

func (p *Printer) trailingComments() {
	if p.comments == nil || !p.opts.Pretty {
		return
	}
	for _, c := range p.comments.trailing {
		p.comment(c)
	}
}

func (p *Printer) comment(c token.Comment) {
	if !p.atLineStart {
		p.writeln()
	}
	p.write(strings.TrimRight(c.Text, "\r\n"))
	p.writeln()
}
