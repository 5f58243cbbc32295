package parser

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Data modification statements.
//
// Grammar:
//
//	insert        → INSERT INTO qualified_name ["(" ident_list ")"] query [returning]
//	update        → UPDATE table_name SET assignment {"," assignment} [WHERE expr] [returning]
//	assignment    → qualified_name "=" expr
//	delete        → DELETE FROM table_name [WHERE expr] [returning]
//	returning     → RETURNING select_list

// parseInsert parses an INSERT statement.
func (p *Parser) parseInsert() (*ast.InsertStmt, error) {
	start := p.token.Pos()
	p.nextToken() // consume INSERT

	if _, err := p.expect(token.INTO); err != nil {
		return nil, err
	}
	table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	stmt := &ast.InsertStmt{Table: table}

	// A parenthesized column list, unless the parenthesis opens a query.
	if p.check(token.LPAREN) && !p.peekStartsQuery() {
		cols, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = cols
	}

	if !p.startsQuery() && !p.check(token.LPAREN) {
		return nil, p.expected("VALUES", "SELECT", "WITH", "(")
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	stmt.Query = q

	if stmt.Returning, err = p.parseReturning(); err != nil {
		return nil, err
	}
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

// parseUpdate parses an UPDATE statement.
func (p *Parser) parseUpdate() (*ast.UpdateStmt, error) {
	start := p.token.Pos()
	p.nextToken() // consume UPDATE

	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt := &ast.UpdateStmt{Table: table}

	if _, err := p.expect(token.SET); err != nil {
		return nil, err
	}
	for {
		aStart := p.token.Pos()
		col, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EQ); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		a := &ast.Assignment{Column: col, Value: value}
		a.Span = p.spanFrom(aStart)
		stmt.Set = append(stmt.Set, a)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.follow = []string{",", "WHERE"}

	if p.match(token.WHERE) {
		where, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
		p.follow = nil
	}

	if stmt.Returning, err = p.parseReturning(); err != nil {
		return nil, err
	}
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

// parseDelete parses a DELETE statement.
func (p *Parser) parseDelete() (*ast.DeleteStmt, error) {
	start := p.token.Pos()
	p.nextToken() // consume DELETE

	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	table, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt := &ast.DeleteStmt{Table: table}
	p.follow = []string{"WHERE"}

	if p.match(token.WHERE) {
		where, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
		p.follow = nil
	}

	if stmt.Returning, err = p.parseReturning(); err != nil {
		return nil, err
	}
	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

// parseReturning parses an optional RETURNING list.
func (p *Parser) parseReturning() ([]*ast.SelectItem, error) {
	if !p.check(token.RETURNING) {
		if p.dialect.Supports(dialect.FeatureReturning) {
			p.follow = append(p.follow, "RETURNING")
		}
		return nil, nil
	}
	if err := p.require(dialect.FeatureReturning, "RETURNING"); err != nil {
		return nil, err
	}
	p.nextToken()
	items, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	p.follow = nil
	return items, nil
}
