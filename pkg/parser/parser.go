// Package parser provides SQL lexing and parsing with dialect-aware
// syntax validation.
//
// # Usage
//
//	d := dialect.MustGet("postgres")
//	stmt, err := parser.Parse("SELECT a, b FROM t", d)
//	if err != nil {
//	    // handle *parser.LexError or *parser.ParseError
//	}
//
// # Grammar Overview
//
// The parser is recursive descent for statements and clauses and uses
// precedence climbing (Pratt parsing) for expressions:
//
//	statement     → query | insert | update | delete | create_table
//	query         → [WITH [RECURSIVE] cte_list] set_expr
//	                [ORDER BY order_list] [limit_clause]
//	set_expr      → set_operand {(UNION|INTERSECT|EXCEPT) [ALL] set_operand}
//	set_operand   → select_core | VALUES row_list | '(' query ')'
//	select_core   → SELECT [DISTINCT] select_list [FROM from_clause]
//	                [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//
// The parser fails fast: the first error is returned and no partial tree
// is produced. See each file for the grammar of that section.
package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// DefaultMaxDepth bounds expression and subquery nesting.
const DefaultMaxDepth = 256

// Parser parses a token stream into an AST.
type Parser struct {
	tokens   []token.Token
	pos      int         // index of the current token
	token    token.Token // current token
	prevEnd  token.Position
	dialect  dialect.Dialect
	depth    int
	maxDepth int
	params   int      // ordinal of the last positional placeholder
	follow   []string // clauses that could have continued the last query
}

// NewParser creates a parser over tokens, which should end with an EOF
// token as produced by Tokenize.
func NewParser(tokens []token.Token, d dialect.Dialect) *Parser {
	p := &Parser{
		tokens:   tokens,
		dialect:  d,
		maxDepth: DefaultMaxDepth,
	}
	p.token = p.at(0)
	return p
}

// SetMaxDepth sets the nesting limit. Values below one restore the default.
func (p *Parser) SetMaxDepth(n int) {
	if n < 1 {
		n = DefaultMaxDepth
	}
	p.maxDepth = n
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() dialect.Dialect {
	return p.dialect
}

// Remaining returns the tokens not yet consumed.
func (p *Parser) Remaining() []token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return p.tokens[p.pos:]
}

// ParseStatement parses one statement from the start of tokens and
// returns it with the unconsumed tokens. An optional trailing semicolon
// belongs to the statement.
func ParseStatement(tokens []token.Token, d dialect.Dialect) (ast.Statement, []token.Token, error) {
	p := NewParser(tokens, d)
	stmt, _, err := p.ParseStatement()
	if err != nil {
		return nil, nil, err
	}
	return stmt, p.Remaining(), nil
}

// Parse tokenizes and parses text as exactly one statement.
func Parse(text string, d dialect.Dialect) (ast.Statement, error) {
	return ParseWithOptions(text, d, DefaultMaxDepth)
}

// ParseWithOptions is Parse with an explicit nesting limit.
func ParseWithOptions(text string, d dialect.Dialect, maxDepth int) (ast.Statement, error) {
	tokens, err := Tokenize(text, d)
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens, d)
	p.SetMaxDepth(maxDepth)
	stmt, _, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	if !p.check(token.EOF) {
		return nil, p.trailingError()
	}
	return stmt, nil
}

// ParseScript parses a semicolon separated list of statements. Empty
// statements between semicolons are skipped.
func ParseScript(text string, d dialect.Dialect) ([]ast.Statement, error) {
	return ParseScriptWithOptions(text, d, DefaultMaxDepth)
}

// ParseScriptWithOptions is ParseScript with an explicit nesting limit.
func ParseScriptWithOptions(text string, d dialect.Dialect, maxDepth int) ([]ast.Statement, error) {
	tokens, err := Tokenize(text, d)
	if err != nil {
		return nil, err
	}
	return ParseScriptTokens(tokens, d, maxDepth)
}

// ParseScriptTokens parses an already lexed script.
func ParseScriptTokens(tokens []token.Token, d dialect.Dialect, maxDepth int) ([]ast.Statement, error) {
	p := NewParser(tokens, d)
	p.SetMaxDepth(maxDepth)
	var stmts []ast.Statement
	for {
		for p.match(token.SEMICOLON) {
		}
		if p.check(token.EOF) {
			return stmts, nil
		}
		stmt, terminated, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if !terminated && !p.check(token.EOF) {
			return nil, p.trailingError()
		}
	}
}

// ParseExpr parses text as a single expression.
func ParseExpr(text string, d dialect.Dialect) (ast.Expr, error) {
	tokens, err := Tokenize(text, d)
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens, d)
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.check(token.EOF) {
		return nil, p.trailingError()
	}
	return expr, nil
}

// ParseStatement parses the statement at the current position. The
// second result reports whether a terminating semicolon was consumed.
func (p *Parser) ParseStatement() (ast.Statement, bool, error) {
	p.follow = nil
	var (
		stmt ast.Statement
		err  error
	)
	switch p.token.Type {
	case token.SELECT, token.WITH, token.VALUES, token.LPAREN:
		stmt, err = p.parseQuery()
	case token.INSERT:
		stmt, err = p.parseInsert()
	case token.UPDATE:
		stmt, err = p.parseUpdate()
	case token.DELETE:
		stmt, err = p.parseDelete()
	case token.CREATE:
		stmt, err = p.parseCreateTable()
	case token.EOF, token.SEMICOLON:
		return nil, false, p.errorf(ErrEmptyInput)
	default:
		return nil, false, p.expected("SELECT", "WITH", "VALUES", "INSERT", "UPDATE", "DELETE", "CREATE")
	}
	if err != nil {
		return nil, false, err
	}
	if p.match(token.SEMICOLON) {
		p.follow = nil
		return stmt, true, nil
	}
	return stmt, false, nil
}

// ---------- Token Helpers ----------

func (p *Parser) at(i int) token.Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	var end token.Position
	if n := len(p.tokens); n > 0 {
		end = p.tokens[n-1].Span.End
	}
	return token.Token{Type: token.EOF, Span: token.Span{Start: end, End: end}}
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	if p.token.Type == token.EOF {
		return
	}
	p.prevEnd = p.token.Span.End
	p.pos++
	p.token = p.at(p.pos)
}

// peek returns the token n positions after the current one.
func (p *Parser) peek(n int) token.Token {
	return p.at(p.pos + n)
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the next token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek(1).Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise returns an error.
func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	tok := p.token
	if p.check(t) {
		p.nextToken()
		return tok, nil
	}
	return tok, p.expected(t.String())
}

// isWordToken reports whether tok is the contextual word w: an unquoted
// identifier or a keyword spelled w. Contextual words such as NULLS or
// ROWS are identifiers in most dialects and reserved in some.
func isWordToken(tok token.Token, w string) bool {
	if tok.Type == token.IDENT {
		return !tok.Quoted() && strings.EqualFold(tok.Literal, w)
	}
	return token.IsKeyword(tok.Type) && strings.EqualFold(tok.Literal, w)
}

// isWord reports whether the current token is the contextual word w.
func (p *Parser) isWord(w string) bool {
	return isWordToken(p.token, w)
}

// matchWord consumes the current token if it is the contextual word w.
func (p *Parser) matchWord(w string) bool {
	if p.isWord(w) {
		p.nextToken()
		return true
	}
	return false
}

// expectWord consumes the contextual word w or returns an error.
func (p *Parser) expectWord(w string) error {
	if p.matchWord(w) {
		return nil
	}
	return p.expected(w)
}

// spanFrom returns the span from start to the end of the last consumed token.
func (p *Parser) spanFrom(start token.Position) token.Span {
	return token.Span{Start: start, End: p.prevEnd}
}

// ---------- Error Helpers ----------

// errorf returns a ParseError at the current token.
func (p *Parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     p.token.Span.Start,
		Span:    p.token.Span,
		Message: fmt.Sprintf(format, args...),
		Got:     p.token.String(),
	}
}

// expected returns a ParseError listing what would have been accepted.
func (p *Parser) expected(expected ...string) *ParseError {
	got := p.token.String()
	e := p.errorf("%s", expectedMessage(expected, got))
	e.Expected = expected
	return e
}

// unsupported returns a ParseError for a syntax extension that the
// dialect does not enable.
func (p *Parser) unsupported(construct string) *ParseError {
	e := p.errorf(ErrUnsupportedConstruct, construct, p.dialect.Name())
	e.Construct = construct
	e.Dialect = p.dialect.Name()
	return e
}

// require returns an unsupported error unless the dialect enables f.
func (p *Parser) require(f dialect.Feature, construct string) error {
	if p.dialect.Supports(f) {
		return nil
	}
	return p.unsupported(construct)
}

func (p *Parser) trailingError() *ParseError {
	if len(p.follow) > 0 {
		return p.expected(p.follow...)
	}
	return p.errorf(ErrTrailingInput, p.token.String())
}

// enter increments the nesting depth, failing once the limit is exceeded.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(ErrMaxDepth, p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}
