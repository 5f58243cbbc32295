package parser

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// FROM clause parsing: table references, derived tables, JOINs.
//
// Grammar:
//
//	from_clause   → table_ref {join}
//	table_ref     → table_name | derived_table | paren_join | table_func
//	              | LATERAL (derived_table | table_func)
//	table_name    → identifier {"." identifier} [[AS] identifier]
//	derived_table → "(" query ")" [[AS] identifier]
//	table_func    → func_call [[AS] identifier ["(" ident_list ")"]]
//	paren_join    → "(" from_clause ")" [[AS] identifier]
//	join          → "," table_ref
//	              | [NATURAL] join_type JOIN table_ref [ON expr | USING "(" ident_list ")"]
//	join_type     → [INNER] | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | CROSS

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() (*ast.FromClause, error) {
	start := p.token.Pos()
	source, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	from := &ast.FromClause{Source: source}

	for {
		join, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		if join == nil {
			break
		}
		from.Joins = append(from.Joins, join)
	}

	from.Span = p.spanFrom(start)
	return from, nil
}

// parseTableRef parses a table reference.
func (p *Parser) parseTableRef() (ast.TableRef, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.token.Pos()
	if p.startsLateral() {
		if err := p.require(dialect.FeatureLateral, "LATERAL"); err != nil {
			return nil, err
		}
		p.nextToken()
		switch {
		case p.check(token.LPAREN) && p.peekStartsQuery():
			return p.parseDerivedTable(start, true)
		case p.check(token.IDENT) && p.checkPeek(token.LPAREN):
			return p.parseTableFunction(start, true)
		}
		return nil, p.expected("(", "function call")
	}

	switch p.token.Type {
	case token.LPAREN:
		if p.peekStartsQuery() {
			return p.parseDerivedTable(start, false)
		}

		p.nextToken() // consume (
		inner, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		pj := &ast.ParenJoin{From: inner}
		if pj.Alias, err = p.parseOptionalAlias(); err != nil {
			return nil, err
		}
		pj.Span = p.spanFrom(start)
		return pj, nil

	case token.IDENT:
		if p.checkPeek(token.LPAREN) {
			return p.parseTableFunction(start, false)
		}
		return p.parseTableName()
	}
	return nil, p.expected("table name", "(")
}

// startsLateral reports whether the current token is a LATERAL keyword.
// LATERAL is not reserved everywhere, so a table of that name still
// parses.
func (p *Parser) startsLateral() bool {
	if !p.isWord("LATERAL") {
		return false
	}
	next := p.peek(1)
	return next.Type == token.LPAREN || next.Type == token.IDENT && p.peek(2).Type == token.LPAREN
}

// parseDerivedTable parses "(" query ")" [[AS] alias].
func (p *Parser) parseDerivedTable(start token.Position, lateral bool) (*ast.DerivedTable, error) {
	q, err := p.parseParenQuery()
	if err != nil {
		return nil, err
	}
	dt := &ast.DerivedTable{Lateral: lateral, Query: q}
	if dt.Alias, err = p.parseOptionalAlias(); err != nil {
		return nil, err
	}
	dt.Span = p.spanFrom(start)
	return dt, nil
}

// parseTableFunction parses a set-returning call with an optional alias
// and column list.
func (p *Parser) parseTableFunction(start token.Position, lateral bool) (*ast.TableFunction, error) {
	if err := p.require(dialect.FeatureTableFunctions, "table function"); err != nil {
		return nil, err
	}
	callStart := p.token.Pos()
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	call, err := p.parseFuncCall(name, callStart)
	if err != nil {
		return nil, err
	}
	tf := &ast.TableFunction{Lateral: lateral, Func: call.(*ast.FuncCall)}
	if tf.Alias, err = p.parseOptionalAlias(); err != nil {
		return nil, err
	}
	if tf.Alias != nil && p.check(token.LPAREN) {
		if tf.Columns, err = p.parseIdentList(); err != nil {
			return nil, err
		}
	}
	tf.Span = p.spanFrom(start)
	return tf, nil
}

// parseTableName parses a possibly qualified table name with an optional alias.
func (p *Parser) parseTableName() (*ast.TableName, error) {
	start := p.token.Pos()
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	tn := &ast.TableName{Name: name}
	if tn.Alias, err = p.parseOptionalAlias(); err != nil {
		return nil, err
	}
	tn.Span = p.spanFrom(start)
	return tn, nil
}

// parseJoin parses one join, or returns nil when no join follows.
func (p *Parser) parseJoin() (*ast.Join, error) {
	start := p.token.Pos()
	join := &ast.Join{}

	if p.match(token.COMMA) {
		join.Type = ast.JoinComma
		table, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		join.Table = table
		join.Span = p.spanFrom(start)
		return join, nil
	}

	if p.check(token.NATURAL) {
		if err := p.require(dialect.FeatureNaturalJoin, "NATURAL JOIN"); err != nil {
			return nil, err
		}
		p.nextToken()
		join.Natural = true
	}

	switch p.token.Type {
	case token.JOIN:
		join.Type = ast.JoinInner
	case token.INNER:
		join.Type = ast.JoinInner
		p.nextToken()
	case token.LEFT:
		join.Type = ast.JoinLeft
		p.nextToken()
		p.match(token.OUTER)
	case token.RIGHT:
		join.Type = ast.JoinRight
		p.nextToken()
		p.match(token.OUTER)
	case token.FULL:
		if err := p.require(dialect.FeatureFullJoin, "FULL JOIN"); err != nil {
			return nil, err
		}
		join.Type = ast.JoinFull
		p.nextToken()
		p.match(token.OUTER)
	case token.CROSS:
		if join.Natural {
			return nil, p.expected("JOIN", "INNER", "LEFT", "RIGHT", "FULL")
		}
		join.Type = ast.JoinCross
		p.nextToken()
	default:
		if join.Natural {
			return nil, p.expected("JOIN", "INNER", "LEFT", "RIGHT", "FULL")
		}
		return nil, nil
	}

	if _, err := p.expect(token.JOIN); err != nil {
		return nil, err
	}

	table, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	join.Table = table

	if join.Natural || join.Type == ast.JoinCross {
		join.Span = p.spanFrom(start)
		return join, nil
	}

	switch {
	case p.match(token.ON):
		on, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		join.On = on
	case p.match(token.USING):
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		join.Using = cols
	case join.Type != ast.JoinInner:
		return nil, p.expected("ON", "USING")
	}

	join.Span = p.spanFrom(start)
	return join, nil
}
