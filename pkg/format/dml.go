package format

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
)

// ---------- INSERT / UPDATE / DELETE ----------

func (p *Printer) formatInsertStmt(stmt *ast.InsertStmt) {
	p.leadingComments(stmt)
	p.kw("INSERT", "INTO")
	p.space()
	p.qualifiedName(stmt.Table)
	if len(stmt.Columns) > 0 {
		p.space()
		p.identList(stmt.Columns)
	}
	p.breakLine()
	p.formatSelectStmt(stmt.Query)
	p.formatReturning(stmt.Returning)
}

func (p *Printer) formatUpdateStmt(stmt *ast.UpdateStmt) {
	p.leadingComments(stmt)
	p.keyword("UPDATE")
	p.space()
	p.formatTableRef(stmt.Table)

	p.breakLine()
	p.keyword("SET")
	p.clauseBody(func() {
		p.formatList(len(stmt.Set), func(i int) {
			a := stmt.Set[i]
			p.leadingComments(a)
			p.qualifiedName(a.Column)
			p.write(" = ")
			p.formatExpr(a.Value)
		}, ",", true)
	})

	p.formatWhere(stmt.Where)
	p.formatReturning(stmt.Returning)
}

func (p *Printer) formatDeleteStmt(stmt *ast.DeleteStmt) {
	p.leadingComments(stmt)
	p.kw("DELETE", "FROM")
	p.space()
	p.formatTableRef(stmt.Table)
	p.formatWhere(stmt.Where)
	p.formatReturning(stmt.Returning)
}

func (p *Printer) formatWhere(where ast.Expr) {
	if where == nil {
		return
	}
	p.breakLine()
	p.keyword("WHERE")
	p.clauseBody(func() { p.formatExpr(where) })
}

// formatReturning writes RETURNING whether or not the dialect has it;
// there is no equivalent rewrite.
func (p *Printer) formatReturning(items []*ast.SelectItem) {
	if len(items) == 0 {
		return
	}
	p.breakLine()
	p.keyword("RETURNING")
	p.clauseBody(func() {
		p.formatList(len(items), func(i int) { p.formatSelectItem(items[i]) }, ",", true)
	})
}
