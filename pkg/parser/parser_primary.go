package parser

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Primary expression parsing: literals, names, function calls.
//
// Grammar:
//
//	primary       → literal | placeholder | name | func_call | paren_expr
//	              | case_expr | cast_expr | exists_expr | interval
//	literal       → NUMBER | STRING | TRUE | FALSE | NULL
//	name          → ident {"." ident} ["." "*"]
//	func_call     → ident "(" [DISTINCT] [expr_list | "*"] ")" call_suffix
//	paren_expr    → "(" expr ")" | "(" expr "," expr_list ")" | "(" query ")"
//	interval      → INTERVAL (STRING | NUMBER) [unit [TO unit]]

// parsePrimary parses primary expressions.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.token

	switch tok.Type {
	case token.NUMBER:
		p.nextToken()
		lit := &ast.Literal{Kind: ast.LiteralNumber, Value: tok.Literal, Suffix: tok.Suffix}
		lit.Span = tok.Span
		return lit, nil

	case token.STRING:
		p.nextToken()
		lit := &ast.Literal{Kind: stringKind(tok.Quote), Value: tok.Literal}
		lit.Span = tok.Span
		return lit, nil

	case token.TRUE, token.FALSE:
		p.nextToken()
		lit := &ast.Literal{Kind: ast.LiteralBoolean, Value: tok.Type.String()}
		lit.Span = tok.Span
		return lit, nil

	case token.NULL:
		p.nextToken()
		lit := &ast.Literal{Kind: ast.LiteralNull, Value: "NULL"}
		lit.Span = tok.Span
		return lit, nil

	case token.PARAM:
		return p.parsePlaceholder()

	case token.INTERVAL:
		return p.parseInterval()

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		return p.parseCastExpr()

	case token.EXISTS:
		return p.parseExistsExpr()

	case token.LPAREN:
		return p.parseParenExpr()

	case token.IDENT:
		return p.parseNameOrCall()

	case token.CURRENT_DATE, token.CURRENT_TIME, token.CURRENT_TIMESTAMP, token.CURRENT_USER:
		return p.parseKeywordCall(tok.Type.String())

	case token.LEFT, token.RIGHT:
		if p.checkPeek(token.LPAREN) {
			return p.parseKeywordCall(tok.Literal)
		}
	}

	// Dialect reserved words such as REPLACE are callable. Without an
	// argument list only the dialect's niladic functions, such as USER,
	// are expressions; any other reserved word must be quoted.
	if token.IsDynamic(tok.Type) {
		if p.checkPeek(token.LPAREN) || p.dialect.IsFunction(tok.Literal) {
			return p.parseKeywordCall(tok.Literal)
		}
		return nil, p.errorf(ErrReservedWord, tok.Type.String())
	}

	return nil, p.expected("expression")
}

func stringKind(q token.Quote) ast.LiteralKind {
	switch q {
	case token.QuoteEscape:
		return ast.LiteralEscapedString
	case token.QuoteNational:
		return ast.LiteralNationalString
	case token.QuoteHex:
		return ast.LiteralHexString
	}
	return ast.LiteralString
}

// parsePlaceholder parses ?, $n and :name, each gated by the dialect.
func (p *Parser) parsePlaceholder() (ast.Expr, error) {
	tok := p.token
	ph := &ast.Placeholder{}

	switch {
	case tok.Literal == "?":
		if err := p.require(dialect.FeatureQuestionPlaceholders, "? placeholder"); err != nil {
			return nil, err
		}
		p.params++
		ph.Kind = ast.PlaceholderQuestion
		ph.Index = p.params
	case strings.HasPrefix(tok.Literal, "$"):
		if err := p.require(dialect.FeatureDollarPlaceholders, "$n placeholder"); err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(tok.Literal[1:])
		if err != nil || n < 1 {
			return nil, p.errorf(ErrInvalidPlaceholder, tok.Literal)
		}
		ph.Kind = ast.PlaceholderDollar
		ph.Index = n
	default:
		if err := p.require(dialect.FeatureNamedPlaceholders, ":name placeholder"); err != nil {
			return nil, err
		}
		p.params++
		ph.Kind = ast.PlaceholderNamed
		ph.Index = p.params
		ph.Name = tok.Literal[1:]
	}

	p.nextToken()
	ph.Span = tok.Span
	return ph, nil
}

var intervalUnits = []string{
	"YEAR", "QUARTER", "MONTH", "WEEK", "DAY", "HOUR", "MINUTE", "SECOND",
	"MILLISECOND", "MICROSECOND",
}

// parseInterval parses INTERVAL 'text' [unit [TO unit]].
func (p *Parser) parseInterval() (ast.Expr, error) {
	if err := p.require(dialect.FeatureIntervalLiteral, "INTERVAL"); err != nil {
		return nil, err
	}
	start := p.token.Pos()
	p.nextToken()

	if !p.check(token.STRING) && !p.check(token.NUMBER) {
		return nil, p.expected("string", "number")
	}
	lit := &ast.Literal{Kind: ast.LiteralInterval, Value: p.token.Literal}
	p.nextToken()

	lit.Unit = p.matchIntervalUnit()
	if lit.Unit != "" && p.isWord("TO") {
		if err := p.require(dialect.FeatureIntervalQualifier, "INTERVAL ... TO"); err != nil {
			return nil, err
		}
		p.nextToken()
		if lit.ToUnit = p.matchIntervalUnit(); lit.ToUnit == "" {
			return nil, p.expected(intervalUnits...)
		}
	}
	lit.Span = p.spanFrom(start)
	return lit, nil
}

func (p *Parser) matchIntervalUnit() string {
	for _, unit := range intervalUnits {
		if p.matchWord(unit) {
			return unit
		}
	}
	return ""
}

// parseCaseExpr parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *Parser) parseCaseExpr() (ast.Expr, error) {
	start := p.token.Pos()
	p.nextToken() // consume CASE

	c := &ast.CaseExpr{}
	if !p.check(token.WHEN) {
		operand, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		c.Operand = operand
	}

	for p.check(token.WHEN) {
		whenStart := p.token.Pos()
		p.nextToken()
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.THEN); err != nil {
			return nil, err
		}
		result, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		w := &ast.WhenClause{Condition: cond, Result: result}
		w.Span = p.spanFrom(whenStart)
		c.Whens = append(c.Whens, w)
	}
	if len(c.Whens) == 0 {
		return nil, p.expected("WHEN")
	}

	if p.match(token.ELSE) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		c.Else = e
	}

	if _, err := p.expect(token.END); err != nil {
		if c.Else == nil {
			return nil, p.expected("WHEN", "ELSE", "END")
		}
		return nil, err
	}
	c.Span = p.spanFrom(start)
	return c, nil
}

// parseCastExpr parses CAST(expr AS type).
func (p *Parser) parseCastExpr() (ast.Expr, error) {
	start := p.token.Pos()
	p.nextToken() // consume CAST

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AS); err != nil {
		return nil, err
	}
	typ, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	c := &ast.CastExpr{Expr: expr, Type: typ}
	c.Span = p.spanFrom(start)
	return c, nil
}

// parseExistsExpr parses EXISTS (query).
func (p *Parser) parseExistsExpr() (ast.Expr, error) {
	start := p.token.Pos()
	p.nextToken() // consume EXISTS

	q, err := p.parseParenQuery()
	if err != nil {
		return nil, err
	}
	e := &ast.ExistsExpr{Query: q}
	e.Span = p.spanFrom(start)
	return e, nil
}

// parseParenExpr parses a parenthesized expression, a row constructor
// such as (a, b) or a scalar subquery. Grouping parentheses leave no
// node behind.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	start := p.token.Pos()
	if p.peekStartsQuery() {
		q, err := p.parseParenQuery()
		if err != nil {
			return nil, err
		}
		s := &ast.SubqueryExpr{Query: q}
		s.Span = p.spanFrom(start)
		return s, nil
	}

	p.nextToken() // consume (
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.match(token.COMMA) {
		rest, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		tuple := &ast.TupleExpr{Items: append([]ast.Expr{expr}, rest...)}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		tuple.Span = p.spanFrom(start)
		return tuple, nil
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseParenQuery parses "(" query ")".
func (p *Parser) parseParenQuery() (*ast.SelectStmt, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return q, nil
}

// startsQuery reports whether the current token begins a query.
func (p *Parser) startsQuery() bool {
	switch p.token.Type {
	case token.SELECT, token.WITH, token.VALUES:
		return true
	}
	return false
}

// peekStartsQuery reports whether the token after the current one begins a query.
func (p *Parser) peekStartsQuery() bool {
	switch p.peek(1).Type {
	case token.SELECT, token.WITH, token.VALUES:
		return true
	}
	return false
}

// parseIdent parses a single identifier, quoted or bare.
func (p *Parser) parseIdent() (*ast.Ident, error) {
	tok := p.token
	if tok.Type != token.IDENT {
		return nil, p.expected("identifier")
	}
	p.nextToken()
	id := &ast.Ident{Name: tok.Literal, Quoted: tok.Quoted()}
	id.Span = tok.Span
	return id, nil
}

// parseIdentList parses "(" ident {"," ident} ")".
func (p *Parser) parseIdentList() ([]*ast.Ident, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var ids []*ast.Ident
	for {
		id, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return ids, nil
}

// parseQualifiedName parses ident {"." ident}.
func (p *Parser) parseQualifiedName() (*ast.QualifiedName, error) {
	start := p.token.Pos()
	q := &ast.QualifiedName{}
	for {
		id, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		q.Parts = append(q.Parts, id)
		if !p.match(token.DOT) {
			break
		}
	}
	q.Span = p.spanFrom(start)
	return q, nil
}

// parseNameOrCall parses a column reference, a qualified star or a
// function call. A single part yields an Ident, several a QualifiedName.
func (p *Parser) parseNameOrCall() (ast.Expr, error) {
	start := p.token.Pos()
	first, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if p.check(token.LPAREN) {
		return p.parseFuncCall(first, start)
	}

	parts := []*ast.Ident{first}
	for p.match(token.DOT) {
		if p.check(token.STAR) {
			p.nextToken()
			s := &ast.StarExpr{Qualifier: parts}
			s.Span = p.spanFrom(start)
			return s, nil
		}
		id, err := p.parseIdent()
		if err != nil {
			return nil, p.expected("identifier", "*")
		}
		parts = append(parts, id)
	}

	if len(parts) == 1 {
		return first, nil
	}
	q := &ast.QualifiedName{Parts: parts}
	q.Span = p.spanFrom(start)
	return q, nil
}

// parseKeywordCall parses a call whose name lexes as a keyword, such as
// LEFT(s, 3) or CURRENT_DATE.
func (p *Parser) parseKeywordCall(name string) (ast.Expr, error) {
	tok := p.token
	p.nextToken()
	id := &ast.Ident{Name: name}
	id.Span = tok.Span
	if p.check(token.LPAREN) {
		return p.parseFuncCall(id, tok.Pos())
	}
	f := &ast.FuncCall{Name: id, NoParens: true}
	f.Span = tok.Span
	return f, nil
}

// parseFuncCall parses the argument list of a call to name.
func (p *Parser) parseFuncCall(name *ast.Ident, start token.Position) (ast.Expr, error) {
	p.nextToken() // consume (

	f := &ast.FuncCall{Name: name}
	switch {
	case p.match(token.STAR):
		f.Star = true
	case p.check(token.RPAREN):
	default:
		f.Distinct = p.match(token.DISTINCT)
		args, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		f.Args = args
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if err := p.parseCallSuffix(f); err != nil {
		return nil, err
	}
	f.Span = p.spanFrom(start)
	return f, nil
}

// parseDataType parses a type name:
//
//	type → word [continuation] ["(" NUMBER {"," NUMBER} ")"] [suffix]
//
// where continuation covers DOUBLE PRECISION and CHARACTER VARYING, and
// suffix covers WITH/WITHOUT TIME ZONE and UNSIGNED.
func (p *Parser) parseDataType() (*ast.DataType, error) {
	start := p.token.Pos()
	tok := p.token
	if (tok.Type != token.IDENT || tok.Quoted()) && !token.IsDynamic(tok.Type) {
		return nil, p.expected("type name")
	}
	p.nextToken()

	name := strings.ToUpper(tok.Literal)
	switch name {
	case "DOUBLE":
		if p.matchWord("PRECISION") {
			name += " PRECISION"
		}
	case "CHARACTER", "CHAR":
		if p.matchWord("VARYING") {
			name += " VARYING"
		}
	}
	dt := &ast.DataType{Name: name}

	if p.match(token.LPAREN) {
		for {
			if !p.check(token.NUMBER) {
				return nil, p.expected("number")
			}
			dt.Params = append(dt.Params, p.token.Literal)
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}

	switch {
	case (name == "TIMESTAMP" || name == "TIME") && (p.check(token.WITH) || p.isWord("WITHOUT")) && isWordToken(p.peek(1), "TIME"):
		prefix := "WITH"
		if p.isWord("WITHOUT") {
			prefix = "WITHOUT"
		}
		p.nextToken()
		p.nextToken() // TIME
		if err := p.expectWord("ZONE"); err != nil {
			return nil, err
		}
		dt.Suffix = prefix + " TIME ZONE"
	case p.isWord("UNSIGNED"):
		p.nextToken()
		dt.Suffix = "UNSIGNED"
	}

	dt.Span = p.spanFrom(start)
	return dt, nil
}
