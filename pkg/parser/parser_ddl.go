package parser

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// CREATE TABLE parsing.
//
// Grammar:
//
//	create_table  → CREATE [TEMPORARY | TEMP] TABLE [IF NOT EXISTS] qualified_name
//	                ("(" element {"," element} ")" | AS query)
//	element       → column_def | table_constraint
//	column_def    → ident type {column_constraint}
//	column_constraint → [CONSTRAINT ident] (NOT NULL | NULL | PRIMARY KEY | UNIQUE
//	                  | DEFAULT expr | CHECK "(" expr ")" | references)
//	table_constraint  → [CONSTRAINT ident] (PRIMARY KEY ident_list | UNIQUE ident_list
//	                  | CHECK "(" expr ")" | FOREIGN KEY ident_list references)
//	references    → REFERENCES qualified_name ["(" ident_list ")"]

// parseCreateTable parses a CREATE TABLE statement.
func (p *Parser) parseCreateTable() (*ast.CreateTableStmt, error) {
	start := p.token.Pos()
	p.nextToken() // consume CREATE

	stmt := &ast.CreateTableStmt{}
	if p.matchWord("TEMPORARY") || p.matchWord("TEMP") {
		stmt.Temporary = true
	}
	if _, err := p.expect(token.TABLE); err != nil {
		return nil, err
	}

	if p.isWord("IF") {
		if err := p.require(dialect.FeatureCreateTableIfNotExists, "IF NOT EXISTS"); err != nil {
			return nil, err
		}
		p.nextToken()
		if _, err := p.expect(token.NOT); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EXISTS); err != nil {
			return nil, err
		}
		stmt.IfNotExists = true
	}

	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	stmt.Name = name

	switch {
	case p.match(token.AS):
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		stmt.AsQuery = q
	case p.match(token.LPAREN):
		if err := p.parseTableElements(stmt); err != nil {
			return nil, err
		}
	default:
		return nil, p.expected("(", "AS")
	}

	stmt.Span = p.spanFrom(start)
	return stmt, nil
}

// parseTableElements parses column definitions and table constraints up
// to the closing parenthesis.
func (p *Parser) parseTableElements(stmt *ast.CreateTableStmt) error {
	for {
		if p.startsTableConstraint() {
			c, err := p.parseTableConstraint()
			if err != nil {
				return err
			}
			stmt.Constraints = append(stmt.Constraints, c)
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	_, err := p.expect(token.RPAREN)
	return err
}

func (p *Parser) startsTableConstraint() bool {
	switch p.token.Type {
	case token.CONSTRAINT, token.PRIMARY, token.UNIQUE, token.CHECK:
		return true
	}
	return p.isWord("FOREIGN") && isWordToken(p.peek(1), "KEY")
}

// parseColumnDef parses a column definition.
func (p *Parser) parseColumnDef() (*ast.ColumnDef, error) {
	start := p.token.Pos()
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	typ, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	col := &ast.ColumnDef{Name: name, Type: typ}

	for {
		c, err := p.parseColumnConstraint()
		if err != nil {
			return nil, err
		}
		if c == nil {
			break
		}
		col.Constraints = append(col.Constraints, c)
	}

	col.Span = p.spanFrom(start)
	return col, nil
}

// parseConstraintName parses an optional CONSTRAINT name prefix.
func (p *Parser) parseConstraintName() (*ast.Ident, error) {
	if !p.match(token.CONSTRAINT) {
		return nil, nil
	}
	return p.parseIdent()
}

// parseColumnConstraint parses one column constraint, or returns nil
// when none follows.
func (p *Parser) parseColumnConstraint() (*ast.ColumnConstraint, error) {
	start := p.token.Pos()
	name, err := p.parseConstraintName()
	if err != nil {
		return nil, err
	}
	c := &ast.ColumnConstraint{Name: name}

	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		if _, err := p.expect(token.NULL); err != nil {
			return nil, err
		}
		c.Kind = ast.ConstraintNotNull
	case token.NULL:
		p.nextToken()
		c.Kind = ast.ConstraintNull
	case token.PRIMARY:
		p.nextToken()
		if err := p.expectWord("KEY"); err != nil {
			return nil, err
		}
		c.Kind = ast.ConstraintPrimaryKey
	case token.UNIQUE:
		p.nextToken()
		c.Kind = ast.ConstraintUnique
	case token.DEFAULT:
		p.nextToken()
		e, err := p.parseExpressionWithPrecedence(ast.PrecComparison + 1)
		if err != nil {
			return nil, err
		}
		c.Kind = ast.ConstraintDefault
		c.Expr = e
	case token.CHECK:
		e, err := p.parseCheck()
		if err != nil {
			return nil, err
		}
		c.Kind = ast.ConstraintCheck
		c.Expr = e
	case token.REFERENCES:
		ref, err := p.parseReferences()
		if err != nil {
			return nil, err
		}
		c.Kind = ast.ConstraintReferences
		c.References = ref
	default:
		if name != nil {
			return nil, p.expected("NOT NULL", "NULL", "PRIMARY KEY", "UNIQUE", "DEFAULT", "CHECK", "REFERENCES")
		}
		return nil, nil
	}

	c.Span = p.spanFrom(start)
	return c, nil
}

// parseTableConstraint parses a table-level constraint.
func (p *Parser) parseTableConstraint() (*ast.TableConstraint, error) {
	start := p.token.Pos()
	name, err := p.parseConstraintName()
	if err != nil {
		return nil, err
	}
	c := &ast.TableConstraint{Name: name}

	switch {
	case p.match(token.PRIMARY):
		if err := p.expectWord("KEY"); err != nil {
			return nil, err
		}
		c.Kind = ast.ConstraintPrimaryKey
		if c.Columns, err = p.parseIdentList(); err != nil {
			return nil, err
		}
	case p.match(token.UNIQUE):
		c.Kind = ast.ConstraintUnique
		if c.Columns, err = p.parseIdentList(); err != nil {
			return nil, err
		}
	case p.check(token.CHECK):
		c.Kind = ast.ConstraintCheck
		if c.Expr, err = p.parseCheck(); err != nil {
			return nil, err
		}
	case p.matchWord("FOREIGN"):
		if err := p.expectWord("KEY"); err != nil {
			return nil, err
		}
		c.Kind = ast.ConstraintForeignKey
		if c.Columns, err = p.parseIdentList(); err != nil {
			return nil, err
		}
		if !p.check(token.REFERENCES) {
			return nil, p.expected("REFERENCES")
		}
		if c.References, err = p.parseReferences(); err != nil {
			return nil, err
		}
	default:
		return nil, p.expected("PRIMARY KEY", "UNIQUE", "CHECK", "FOREIGN KEY")
	}

	c.Span = p.spanFrom(start)
	return c, nil
}

// parseCheck parses CHECK "(" expr ")".
func (p *Parser) parseCheck() (ast.Expr, error) {
	p.nextToken() // consume CHECK
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return e, nil
}

// parseReferences parses REFERENCES table [(columns)].
func (p *Parser) parseReferences() (*ast.ForeignKeyRef, error) {
	start := p.token.Pos()
	p.nextToken() // consume REFERENCES

	table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	ref := &ast.ForeignKeyRef{Table: table}
	if p.check(token.LPAREN) {
		if ref.Columns, err = p.parseIdentList(); err != nil {
			return nil, err
		}
	}
	ref.Span = p.spanFrom(start)
	return ref, nil
}
