package format

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
)

// ---------- CREATE TABLE ----------

func (p *Printer) formatCreateTableStmt(stmt *ast.CreateTableStmt) {
	p.leadingComments(stmt)
	p.keyword("CREATE")
	if stmt.Temporary {
		p.space()
		p.keyword("TEMPORARY")
	}
	p.space()
	p.keyword("TABLE")
	if stmt.IfNotExists {
		p.space()
		p.kw("IF", "NOT", "EXISTS")
	}
	p.space()
	p.qualifiedName(stmt.Name)

	if stmt.AsQuery != nil {
		p.space()
		p.keyword("AS")
		p.breakLine()
		p.formatSelectStmt(stmt.AsQuery)
		return
	}

	p.space()
	p.write("(")
	count := len(stmt.Columns) + len(stmt.Constraints)
	p.indent()
	if p.opts.Pretty {
		p.writeln()
	}
	p.formatList(count, func(i int) {
		if i < len(stmt.Columns) {
			p.formatColumnDef(stmt.Columns[i])
			return
		}
		p.formatTableConstraint(stmt.Constraints[i-len(stmt.Columns)])
	}, ",", true)
	p.dedent()
	if p.opts.Pretty {
		p.writeln()
	}
	p.write(")")
}

func (p *Printer) formatColumnDef(col *ast.ColumnDef) {
	p.leadingComments(col)
	p.ident(col.Name)
	p.space()
	p.formatDataType(col.Type)
	for _, c := range col.Constraints {
		p.space()
		p.formatColumnConstraint(c)
	}
}

func (p *Printer) constraintName(name *ast.Ident) {
	if name == nil {
		return
	}
	p.keyword("CONSTRAINT")
	p.space()
	p.ident(name)
	p.space()
}

func (p *Printer) formatColumnConstraint(c *ast.ColumnConstraint) {
	p.constraintName(c.Name)
	switch c.Kind {
	case ast.ConstraintNotNull:
		p.kw("NOT", "NULL")
	case ast.ConstraintNull:
		p.keyword("NULL")
	case ast.ConstraintPrimaryKey:
		p.kw("PRIMARY", "KEY")
	case ast.ConstraintUnique:
		p.keyword("UNIQUE")
	case ast.ConstraintDefault:
		p.keyword("DEFAULT")
		p.space()
		p.operand(c.Expr, ast.PrecAdditive)
	case ast.ConstraintCheck:
		p.formatCheck(c.Expr)
	case ast.ConstraintReferences:
		p.formatReferences(c.References)
	}
}

func (p *Printer) formatTableConstraint(c *ast.TableConstraint) {
	p.leadingComments(c)
	p.constraintName(c.Name)
	switch c.Kind {
	case ast.ConstraintPrimaryKey:
		p.kw("PRIMARY", "KEY")
		p.space()
		p.identList(c.Columns)
	case ast.ConstraintUnique:
		p.keyword("UNIQUE")
		p.space()
		p.identList(c.Columns)
	case ast.ConstraintCheck:
		p.formatCheck(c.Expr)
	case ast.ConstraintForeignKey:
		p.kw("FOREIGN", "KEY")
		p.space()
		p.identList(c.Columns)
		p.space()
		p.formatReferences(c.References)
	}
}

func (p *Printer) formatCheck(e ast.Expr) {
	p.keyword("CHECK")
	p.write(" (")
	p.formatExpr(e)
	p.write(")")
}

func (p *Printer) formatReferences(ref *ast.ForeignKeyRef) {
	if ref == nil {
		return
	}
	p.keyword("REFERENCES")
	p.space()
	p.qualifiedName(ref.Table)
	if len(ref.Columns) > 0 {
		p.space()
		p.identList(ref.Columns)
	}
}
