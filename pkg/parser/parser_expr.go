package parser

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels (from the ast package):
//
//	PrecOr             = 1
//	PrecAnd            = 2
//	PrecNot            = 3  (prefix NOT)
//	PrecComparison     = 4  (=, <>, <, >, <=, >=, IS, IN, BETWEEN, LIKE, ILIKE)
//	PrecAdditive       = 5  (+, -, ||)
//	PrecMultiplicative = 6  (*, /, %)
//	PrecUnary          = 7  (prefix -, +)
//	PrecPostfix        = 8  (::)
//
// Binary operators are left-associative: the right operand is parsed at
// one level above the operator. The table is fixed; dialects only decide
// whether an operator is available at all.

// parseExpression parses a full expression.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseExpressionWithPrecedence(ast.PrecOr)
}

// parseExpressionWithPrecedence parses infix operators while their
// precedence is >= minPrecedence.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence ast.Precedence) (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parsePrefixExpr()
	if err != nil {
		return nil, err
	}

	for {
		prec := p.infixPrecedence()
		if prec == ast.PrecNone || prec < minPrecedence {
			return left, nil
		}
		left, err = p.parseInfixExpr(left, prec)
		if err != nil {
			return nil, err
		}
	}
}

// parsePrefixExpr parses prefix operators and primary expressions.
func (p *Parser) parsePrefixExpr() (ast.Expr, error) {
	var (
		op   ast.UnaryOp
		prec ast.Precedence
	)
	switch p.token.Type {
	case token.NOT:
		op, prec = ast.OpNot, ast.PrecNot
	case token.MINUS:
		op, prec = ast.OpNeg, ast.PrecUnary
	case token.PLUS:
		op, prec = ast.OpPos, ast.PrecUnary
	default:
		return p.parsePrimary()
	}

	start := p.token.Pos()
	p.nextToken()
	operand, err := p.parseExpressionWithPrecedence(prec)
	if err != nil {
		return nil, err
	}
	u := &ast.UnaryExpr{Op: op, Operand: operand}
	u.Span = p.spanFrom(start)
	return u, nil
}

var binaryTokens = map[token.TokenType]ast.BinaryOp{
	token.OR:      ast.OpOr,
	token.AND:     ast.OpAnd,
	token.EQ:      ast.OpEq,
	token.NE:      ast.OpNe,
	token.LT:      ast.OpLt,
	token.GT:      ast.OpGt,
	token.LE:      ast.OpLe,
	token.GE:      ast.OpGe,
	token.PLUS:    ast.OpAdd,
	token.MINUS:   ast.OpSub,
	token.DPIPE:   ast.OpConcat,
	token.STAR:    ast.OpMul,
	token.SLASH:   ast.OpDiv,
	token.PERCENT: ast.OpMod,
}

// infixPrecedence returns the precedence of the current token as an
// infix operator, or PrecNone.
func (p *Parser) infixPrecedence() ast.Precedence {
	if op, ok := binaryTokens[p.token.Type]; ok {
		return op.Precedence()
	}
	switch p.token.Type {
	case token.IS, token.IN, token.BETWEEN, token.LIKE, token.ILIKE:
		return ast.PrecComparison
	case token.NOT:
		// NOT IN, NOT BETWEEN, NOT LIKE, NOT ILIKE
		switch p.peek(1).Type {
		case token.IN, token.BETWEEN, token.LIKE, token.ILIKE:
			return ast.PrecComparison
		}
	case token.DCOLON:
		return ast.PrecPostfix
	}
	return ast.PrecNone
}

// parseInfixExpr parses an infix expression given the left operand and
// the current operator's precedence.
func (p *Parser) parseInfixExpr(left ast.Expr, prec ast.Precedence) (ast.Expr, error) {
	start := left.Pos()

	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		return p.parsePredicate(left, start, true)
	case token.IS:
		return p.parseIsExpr(left, start)
	case token.IN, token.BETWEEN, token.LIKE, token.ILIKE:
		return p.parsePredicate(left, start, false)
	case token.DCOLON:
		if err := p.require(dialect.FeatureCastOperator, ":: cast"); err != nil {
			return nil, err
		}
		p.nextToken()
		typ, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		c := &ast.CastExpr{Expr: left, Type: typ, Postfix: true}
		c.Span = p.spanFrom(start)
		return c, nil
	case token.DPIPE:
		if err := p.require(dialect.FeatureConcatOperator, "|| operator"); err != nil {
			return nil, err
		}
	}

	op := binaryTokens[p.token.Type]
	p.nextToken()

	right, err := p.parseExpressionWithPrecedence(prec + 1)
	if err != nil {
		return nil, err
	}
	b := &ast.BinaryExpr{Op: op, Left: left, Right: right}
	b.Span = p.spanFrom(start)
	return b, nil
}

// parsePredicate parses IN, BETWEEN, LIKE and ILIKE after the optional NOT.
func (p *Parser) parsePredicate(left ast.Expr, start token.Position, not bool) (ast.Expr, error) {
	switch p.token.Type {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, start, not)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, start, not)
	case token.LIKE, token.ILIKE:
		return p.parseLikeExpr(left, start, not)
	}
	return nil, p.expected("IN", "BETWEEN", "LIKE", "ILIKE")
}

// parseIsExpr parses IS [NOT] {NULL | TRUE | FALSE | UNKNOWN | DISTINCT FROM expr}.
func (p *Parser) parseIsExpr(left ast.Expr, start token.Position) (ast.Expr, error) {
	p.nextToken() // consume IS

	is := &ast.IsExpr{Expr: left, Not: p.match(token.NOT)}

	switch {
	case p.match(token.NULL):
		is.Kind = ast.IsNull
	case p.match(token.TRUE):
		is.Kind = ast.IsTrue
	case p.match(token.FALSE):
		is.Kind = ast.IsFalse
	case p.matchWord("UNKNOWN"):
		is.Kind = ast.IsUnknown
	case p.match(token.DISTINCT):
		if _, err := p.expect(token.FROM); err != nil {
			return nil, err
		}
		right, err := p.parseExpressionWithPrecedence(ast.PrecComparison + 1)
		if err != nil {
			return nil, err
		}
		is.Kind = ast.IsDistinctFrom
		is.Right = right
	default:
		return nil, p.expected("NULL", "TRUE", "FALSE", "UNKNOWN", "DISTINCT FROM")
	}

	is.Span = p.spanFrom(start)
	return is, nil
}

// parseInExpr parses the parenthesized list or subquery of an IN predicate.
func (p *Parser) parseInExpr(left ast.Expr, start token.Position, not bool) (ast.Expr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	in := &ast.InExpr{Expr: left, Not: not}

	if p.startsQuery() {
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		in.Query = q
	} else {
		list, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		in.List = list
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	in.Span = p.spanFrom(start)
	return in, nil
}

// parseBetweenExpr parses the bounds of a BETWEEN predicate. Bounds are
// parsed above comparison precedence so the AND is not captured.
func (p *Parser) parseBetweenExpr(left ast.Expr, start token.Position, not bool) (ast.Expr, error) {
	low, err := p.parseExpressionWithPrecedence(ast.PrecComparison + 1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AND); err != nil {
		return nil, err
	}
	high, err := p.parseExpressionWithPrecedence(ast.PrecComparison + 1)
	if err != nil {
		return nil, err
	}
	b := &ast.BetweenExpr{Expr: left, Not: not, Low: low, High: high}
	b.Span = p.spanFrom(start)
	return b, nil
}

// parseLikeExpr parses LIKE|ILIKE pattern [ESCAPE escape].
func (p *Parser) parseLikeExpr(left ast.Expr, start token.Position, not bool) (ast.Expr, error) {
	like := &ast.LikeExpr{Expr: left, Not: not}
	if p.check(token.ILIKE) {
		if err := p.require(dialect.FeatureILike, "ILIKE"); err != nil {
			return nil, err
		}
		like.ILike = true
	}
	p.nextToken()

	pattern, err := p.parseExpressionWithPrecedence(ast.PrecComparison + 1)
	if err != nil {
		return nil, err
	}
	like.Pattern = pattern

	if p.match(token.ESCAPE) {
		esc, err := p.parseExpressionWithPrecedence(ast.PrecComparison + 1)
		if err != nil {
			return nil, err
		}
		like.Escape = esc
	}

	like.Span = p.spanFrom(start)
	return like, nil
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() ([]ast.Expr, error) {
	var exprs []ast.Expr
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if !p.match(token.COMMA) {
			return exprs, nil
		}
	}
}
