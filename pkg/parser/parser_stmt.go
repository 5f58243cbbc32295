package parser

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Query parsing.
//
// Grammar:
//
//	query         → [with_clause] set_expr [ORDER BY order_list] [limit_clause] {lock_clause}
//	with_clause   → WITH [RECURSIVE] cte {"," cte}
//	cte           → ident ["(" ident_list ")"] AS "(" query ")"
//	set_expr      → set_operand {set_op [ALL | DISTINCT] set_operand}
//	order_item    → expr [ASC | DESC] [NULLS (FIRST | LAST)]
//	limit_clause  → LIMIT (expr | ALL) [OFFSET expr [ROW | ROWS]]
//	              | LIMIT expr "," expr
//	              | OFFSET expr [ROW | ROWS] [LIMIT expr | fetch]
//	              | fetch
//	fetch         → FETCH (FIRST | NEXT) [expr [PERCENT]] (ROW | ROWS) (ONLY | WITH TIES)
//	lock_clause   → FOR (UPDATE | SHARE) [OF qualified_name {"," qualified_name}]
//	                [NOWAIT | SKIP LOCKED]

// parseQuery parses a complete query.
func (p *Parser) parseQuery() (*ast.SelectStmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.token.Pos()
	stmt := &ast.SelectStmt{}

	if p.check(token.WITH) {
		with, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}
		stmt.With = with
	}

	body, err := p.parseSetExpr(0)
	if err != nil {
		return nil, err
	}
	stmt.Body = body

	follow := p.follow
	if p.check(token.ORDER) {
		items, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = items
		follow = nil
	} else {
		follow = append(follow, "UNION", "INTERSECT", "EXCEPT", "ORDER BY")
	}

	limit, err := p.parseLimitClause()
	if err != nil {
		return nil, err
	}
	stmt.Limit = limit
	if limit == nil {
		follow = append(follow, p.limitKeywords()...)
	} else {
		follow = nil
		if limit.WithTies && len(stmt.OrderBy) == 0 {
			return nil, &ParseError{Pos: limit.Span.Start, Span: limit.Span, Message: ErrWithTiesOrder}
		}
	}

	for p.startsLockClause() {
		lock, err := p.parseLockClause()
		if err != nil {
			return nil, err
		}
		stmt.Locks = append(stmt.Locks, lock)
	}
	if len(stmt.Locks) > 0 {
		follow = nil
	} else if p.dialect.Supports(dialect.FeatureRowLocking) {
		follow = append(follow, "FOR UPDATE", "FOR SHARE")
	}

	p.follow = follow
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

func (p *Parser) limitKeywords() []string {
	var kws []string
	if p.dialect.Supports(dialect.FeatureLimit) {
		kws = append(kws, "LIMIT")
	}
	kws = append(kws, "OFFSET")
	if p.dialect.Supports(dialect.FeatureFetch) {
		kws = append(kws, "FETCH")
	}
	return kws
}

// startsLockClause reports whether FOR UPDATE or FOR SHARE follows. FOR
// is not reserved everywhere, so it is told apart from an alias here.
func (p *Parser) startsLockClause() bool {
	next := p.peek(1)
	return p.isWord("FOR") && (isWordToken(next, "UPDATE") || isWordToken(next, "SHARE"))
}

// parseLockClause parses one FOR UPDATE or FOR SHARE clause.
func (p *Parser) parseLockClause() (*ast.LockClause, error) {
	if err := p.require(dialect.FeatureRowLocking, "FOR UPDATE"); err != nil {
		return nil, err
	}
	start := p.token.Pos()
	p.nextToken() // consume FOR

	lock := &ast.LockClause{Strength: ast.LockUpdate}
	if p.isWord("SHARE") {
		lock.Strength = ast.LockShare
	}
	p.nextToken()

	if p.matchWord("OF") {
		for {
			name, err := p.parseQualifiedName()
			if err != nil {
				return nil, err
			}
			lock.Of = append(lock.Of, name)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	switch {
	case p.matchWord("NOWAIT"):
		lock.Wait = ast.LockNoWait
	case p.isWord("SKIP"):
		p.nextToken()
		if err := p.expectWord("LOCKED"); err != nil {
			return nil, err
		}
		lock.Wait = ast.LockSkipLocked
	}

	lock.Span = p.spanFrom(start)
	return lock, nil
}

// parseWithClause parses WITH [RECURSIVE] cte {, cte}.
func (p *Parser) parseWithClause() (*ast.WithClause, error) {
	start := p.token.Pos()
	p.nextToken() // consume WITH

	with := &ast.WithClause{Recursive: p.matchWord("RECURSIVE")}
	for {
		cteStart := p.token.Pos()
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		cte := &ast.CTE{Name: name}
		if p.check(token.LPAREN) {
			cols, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			cte.Columns = cols
		}
		if _, err := p.expect(token.AS); err != nil {
			return nil, err
		}
		q, err := p.parseParenQuery()
		if err != nil {
			return nil, err
		}
		cte.Query = q
		cte.Span = p.spanFrom(cteStart)
		with.CTEs = append(with.CTEs, cte)

		if !p.match(token.COMMA) {
			break
		}
	}
	with.Span = p.spanFrom(start)
	return with, nil
}

func setOpFor(t token.TokenType) (ast.SetOp, bool) {
	switch t {
	case token.UNION:
		return ast.Union, true
	case token.INTERSECT:
		return ast.Intersect, true
	case token.EXCEPT:
		return ast.Except, true
	}
	return 0, false
}

// parseSetExpr parses set operations by precedence climbing. INTERSECT
// binds tighter than UNION and EXCEPT; all are left-associative.
func (p *Parser) parseSetExpr(minPrecedence ast.Precedence) (ast.SetExpr, error) {
	start := p.token.Pos()
	left, err := p.parseSetOperand()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := setOpFor(p.token.Type)
		if !ok || op.Precedence() < minPrecedence {
			return left, nil
		}
		p.nextToken()

		all := p.match(token.ALL)
		if !all {
			p.match(token.DISTINCT)
		}

		right, err := p.parseSetExpr(op.Precedence() + 1)
		if err != nil {
			return nil, err
		}
		so := &ast.SetOperation{Op: op, All: all, Left: left, Right: right}
		so.Span = p.spanFrom(start)
		left = so
	}
}

// parseSetOperand parses a SELECT core, a VALUES list or a parenthesized query.
func (p *Parser) parseSetOperand() (ast.SetExpr, error) {
	switch p.token.Type {
	case token.SELECT:
		return p.parseSelectCore()
	case token.VALUES:
		return p.parseValues()
	case token.LPAREN:
		start := p.token.Pos()
		q, err := p.parseParenQuery()
		if err != nil {
			return nil, err
		}
		pq := &ast.ParenQuery{Query: q}
		pq.Span = p.spanFrom(start)
		p.follow = nil
		return pq, nil
	}
	return nil, p.expected("SELECT", "VALUES", "(")
}

// parseSelectCore parses SELECT ... [FROM] [WHERE] [GROUP BY] [HAVING] [WINDOW].
// Each clause has a fixed slot, so clauses can only appear in order.
func (p *Parser) parseSelectCore() (*ast.SelectCore, error) {
	start := p.token.Pos()
	p.nextToken() // consume SELECT

	core := &ast.SelectCore{}
	if p.match(token.DISTINCT) {
		core.Distinct = true
	} else {
		p.match(token.ALL)
	}

	items, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	core.Columns = items
	follow := []string{",", "FROM", "WHERE", "GROUP BY", "HAVING"}

	if p.match(token.FROM) {
		from, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		core.From = from
		follow = []string{"WHERE", "GROUP BY", "HAVING"}
	}

	if p.match(token.WHERE) {
		where, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		core.Where = where
		follow = []string{"GROUP BY", "HAVING"}
	}

	if p.check(token.GROUP) {
		p.nextToken()
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		groupBy, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		core.GroupBy = groupBy
		follow = []string{"HAVING"}
	}

	if p.match(token.HAVING) {
		having, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		core.Having = having
		follow = nil
	}

	if p.isWord("WINDOW") && p.peek(1).Type == token.IDENT {
		windows, err := p.parseWindowClause()
		if err != nil {
			return nil, err
		}
		core.Windows = windows
		follow = nil
	} else if p.dialect.Supports(dialect.FeatureWindowFunctions) {
		follow = append(follow, "WINDOW")
	}

	p.follow = follow
	core.Span = p.spanFrom(start)
	return core, nil
}

// parseSelectList parses the select items.
func (p *Parser) parseSelectList() ([]*ast.SelectItem, error) {
	var items []*ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.match(token.COMMA) {
			return items, nil
		}
	}
}

// parseSelectItem parses * or expr [[AS] alias].
func (p *Parser) parseSelectItem() (*ast.SelectItem, error) {
	start := p.token.Pos()
	item := &ast.SelectItem{}

	if p.check(token.STAR) {
		tok := p.token
		p.nextToken()
		star := &ast.StarExpr{}
		star.Span = tok.Span
		item.Expr = star
		item.Span = tok.Span
		return item, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	item.Expr = expr

	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	item.Alias = alias
	item.Span = p.spanFrom(start)
	return item, nil
}

// parseOptionalAlias parses [AS] ident. Without AS only an identifier
// token is taken, so keywords that start the next clause are left alone.
func (p *Parser) parseOptionalAlias() (*ast.Ident, error) {
	if p.match(token.AS) {
		return p.parseIdent()
	}
	if p.check(token.IDENT) && !p.startsWindowClause() && !p.startsLockClause() {
		return p.parseIdent()
	}
	return nil, nil
}

// parseValues parses VALUES (expr, ...) {, (expr, ...)}.
func (p *Parser) parseValues() (*ast.ValuesExpr, error) {
	start := p.token.Pos()
	p.nextToken() // consume VALUES

	v := &ast.ValuesExpr{}
	for {
		rowStart := p.token
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		row, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		if len(v.Rows) > 0 && len(row) != len(v.Rows[0]) {
			e := &ParseError{
				Pos:     rowStart.Span.Start,
				Span:    p.spanFrom(rowStart.Span.Start),
				Message: "VALUES lists must all be the same length",
				Got:     rowStart.String(),
			}
			return nil, e
		}
		v.Rows = append(v.Rows, row)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.follow = nil
	v.Span = p.spanFrom(start)
	return v, nil
}

// parseOrderBy parses ORDER BY item {, item}.
func (p *Parser) parseOrderBy() ([]*ast.OrderByItem, error) {
	p.nextToken() // consume ORDER
	if _, err := p.expect(token.BY); err != nil {
		return nil, err
	}
	return p.parseOrderByList()
}

// parseOrderByList parses item {, item}.
func (p *Parser) parseOrderByList() ([]*ast.OrderByItem, error) {
	var items []*ast.OrderByItem
	for {
		start := p.token.Pos()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		item := &ast.OrderByItem{Expr: expr}

		switch {
		case p.match(token.ASC):
			item.Direction = ast.SortAsc
		case p.match(token.DESC):
			item.Direction = ast.SortDesc
		}

		if p.isWord("NULLS") {
			if err := p.require(dialect.FeatureNullsOrdering, "NULLS FIRST/LAST"); err != nil {
				return nil, err
			}
			p.nextToken()
			switch {
			case p.matchWord("FIRST"):
				item.Nulls = ast.NullsFirst
			case p.matchWord("LAST"):
				item.Nulls = ast.NullsLast
			default:
				return nil, p.expected("FIRST", "LAST")
			}
		}

		item.Span = p.spanFrom(start)
		items = append(items, item)
		if !p.match(token.COMMA) {
			return items, nil
		}
	}
}

// parseLimitClause parses the row-limiting clause in any of its dialect
// forms. It returns nil when no clause is present or it limits nothing.
func (p *Parser) parseLimitClause() (*ast.LimitClause, error) {
	start := p.token.Pos()
	lim := &ast.LimitClause{}

	switch p.token.Type {
	case token.LIMIT:
		if err := p.require(dialect.FeatureLimit, "LIMIT"); err != nil {
			return nil, err
		}
		p.nextToken()
		if p.check(token.ALL) {
			// LIMIT ALL only survives generation where the row count can
			// be dropped entirely.
			if err := p.require(dialect.FeatureOffsetWithoutLimit, "LIMIT ALL"); err != nil {
				return nil, err
			}
			p.nextToken()
		} else {
			count, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			lim.Count = count
		}
		switch {
		case lim.Count != nil && p.check(token.COMMA):
			if err := p.require(dialect.FeatureLimitComma, "LIMIT offset, count"); err != nil {
				return nil, err
			}
			p.nextToken()
			count, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			lim.Offset, lim.Count = lim.Count, count
		case p.check(token.OFFSET):
			offset, err := p.parseOffset()
			if err != nil {
				return nil, err
			}
			lim.Offset = offset
		}

	case token.OFFSET:
		offset, err := p.parseOffset()
		if err != nil {
			return nil, err
		}
		lim.Offset = offset
		switch {
		case p.check(token.FETCH):
			if err := p.parseFetch(lim); err != nil {
				return nil, err
			}
		case p.check(token.LIMIT) && p.dialect.Supports(dialect.FeatureLimit):
			p.nextToken()
			count, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			lim.Count = count
		}
		if lim.Count == nil && !p.dialect.Supports(dialect.FeatureOffsetWithoutLimit) {
			return nil, p.unsupported("OFFSET without LIMIT")
		}

	case token.FETCH:
		if err := p.parseFetch(lim); err != nil {
			return nil, err
		}

	default:
		return nil, nil
	}

	if lim.Count == nil && lim.Offset == nil {
		return nil, nil
	}
	lim.Span = p.spanFrom(start)
	return lim, nil
}

// parseOffset parses OFFSET expr [ROW | ROWS].
func (p *Parser) parseOffset() (ast.Expr, error) {
	p.nextToken() // consume OFFSET
	offset, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.matchWord("ROWS") {
		p.matchWord("ROW")
	}
	return offset, nil
}

// parseFetch parses FETCH {FIRST | NEXT} [count [PERCENT]] {ROW | ROWS}
// {ONLY | WITH TIES} into lim. The count defaults to one.
func (p *Parser) parseFetch(lim *ast.LimitClause) error {
	if err := p.require(dialect.FeatureFetch, "FETCH"); err != nil {
		return err
	}
	tok := p.token
	p.nextToken()
	if !p.matchWord("FIRST") && !p.matchWord("NEXT") {
		return p.expected("FIRST", "NEXT")
	}

	if !p.isWord("ROW") && !p.isWord("ROWS") {
		c, err := p.parseExpression()
		if err != nil {
			return err
		}
		lim.Count = c
		if p.isWord("PERCENT") {
			if err := p.require(dialect.FeatureFetchPercent, "FETCH ... PERCENT"); err != nil {
				return err
			}
			p.nextToken()
			lim.Percent = true
		}
	} else {
		one := ast.NewNumber("1")
		one.Span = tok.Span
		lim.Count = one
	}

	if !p.matchWord("ROWS") && !p.matchWord("ROW") {
		return p.expected("ROW", "ROWS")
	}
	switch {
	case p.matchWord("ONLY"):
	case p.check(token.WITH):
		if err := p.require(dialect.FeatureFetchWithTies, "WITH TIES"); err != nil {
			return err
		}
		p.nextToken()
		if err := p.expectWord("TIES"); err != nil {
			return err
		}
		lim.WithTies = true
	default:
		return p.expected("ONLY", "WITH TIES")
	}
	return nil
}
