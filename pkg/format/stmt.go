package format

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
)

// maxRowCount stands in for "no limit" in dialects that cannot write
// OFFSET without a row count.
const maxRowCount = "9223372036854775807"

func (p *Printer) formatStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		p.formatSelectStmt(s)
	case *ast.InsertStmt:
		p.formatInsertStmt(s)
	case *ast.UpdateStmt:
		p.formatUpdateStmt(s)
	case *ast.DeleteStmt:
		p.formatDeleteStmt(s)
	case *ast.CreateTableStmt:
		p.formatCreateTableStmt(s)
	}
}

func (p *Printer) formatSelectStmt(stmt *ast.SelectStmt) {
	if stmt == nil {
		return
	}

	p.leadingComments(stmt)

	if stmt.With != nil {
		p.formatWithClause(stmt.With)
		p.breakLine()
	}

	p.formatSetExpr(stmt.Body)

	if len(stmt.OrderBy) > 0 {
		p.breakLine()
		p.kw("ORDER", "BY")
		p.clauseBody(func() {
			p.formatList(len(stmt.OrderBy), func(i int) { p.formatOrderByItem(stmt.OrderBy[i]) }, ",", true)
		})
	}

	if stmt.Limit != nil {
		p.breakLine()
		p.formatLimitClause(stmt.Limit)
	}

	// Row locks are dropped where the dialect has none to take.
	if p.dialect.Supports(dialect.FeatureRowLocking) {
		for _, lock := range stmt.Locks {
			p.breakLine()
			p.formatLockClause(lock)
		}
	}
}

func (p *Printer) formatLockClause(lock *ast.LockClause) {
	p.kw("FOR", lock.Strength.String())
	if len(lock.Of) > 0 {
		p.space()
		p.keyword("OF")
		p.space()
		p.formatList(len(lock.Of), func(i int) { p.qualifiedName(lock.Of[i]) }, ",", false)
	}
	if lock.Wait != ast.LockWaitDefault {
		p.space()
		p.keyword(lock.Wait.String())
	}
}

func (p *Printer) formatWithClause(with *ast.WithClause) {
	p.keyword("WITH")
	if with.Recursive {
		p.space()
		p.keyword("RECURSIVE")
	}
	p.space()

	p.formatList(len(with.CTEs), func(i int) {
		cte := with.CTEs[i]
		p.leadingComments(cte)
		p.ident(cte.Name)
		if len(cte.Columns) > 0 {
			p.space()
			p.identList(cte.Columns)
		}
		p.space()
		p.keyword("AS")
		p.space()
		p.formatSubquery(cte.Query)
	}, ",", true)
}

// ---------- Query bodies ----------

func (p *Printer) formatSetExpr(body ast.SetExpr) {
	switch b := body.(type) {
	case *ast.SelectCore:
		p.formatSelectCore(b)
	case *ast.SetOperation:
		p.formatSetOperation(b)
	case *ast.ValuesExpr:
		p.formatValues(b)
	case *ast.ParenQuery:
		p.formatSubquery(b.Query)
	}
}

func (p *Printer) formatSetOperation(op *ast.SetOperation) {
	prec := op.Op.Precedence()

	p.formatSetOperand(op.Left, prec)

	p.breakLine()
	p.keyword(op.Op.String())
	if op.All {
		p.space()
		p.keyword("ALL")
	}
	p.breakLine()

	p.formatSetOperand(op.Right, prec+1)
}

// formatSetOperand writes a set operand, parenthesizing a nested set
// operation that binds looser than min.
func (p *Printer) formatSetOperand(e ast.SetExpr, min ast.Precedence) {
	if nested, ok := e.(*ast.SetOperation); ok && nested.Op.Precedence() < min {
		p.formatSubquery(&ast.SelectStmt{Body: nested})
		return
	}
	p.formatSetExpr(e)
}

func (p *Printer) formatSelectCore(sc *ast.SelectCore) {
	if sc == nil {
		return
	}

	p.leadingComments(sc)

	// SELECT [DISTINCT]
	p.keyword("SELECT")
	if sc.Distinct {
		p.space()
		p.keyword("DISTINCT")
	}

	// Columns
	p.clauseBody(func() {
		p.formatList(len(sc.Columns), func(i int) { p.formatSelectItem(sc.Columns[i]) }, ",", true)
	})

	// FROM
	if sc.From != nil {
		p.breakLine()
		p.keyword("FROM")
		p.space()
		p.formatFromClause(sc.From)
	}

	if sc.Where != nil {
		p.breakLine()
		p.keyword("WHERE")
		p.clauseBody(func() { p.formatExpr(sc.Where) })
	}

	if len(sc.GroupBy) > 0 {
		p.breakLine()
		p.kw("GROUP", "BY")
		p.clauseBody(func() {
			p.formatList(len(sc.GroupBy), func(i int) { p.formatExpr(sc.GroupBy[i]) }, ",", true)
		})
	}

	if sc.Having != nil {
		p.breakLine()
		p.keyword("HAVING")
		p.clauseBody(func() { p.formatExpr(sc.Having) })
	}

	if len(sc.Windows) > 0 {
		p.breakLine()
		p.keyword("WINDOW")
		p.clauseBody(func() {
			p.formatList(len(sc.Windows), func(i int) {
				w := sc.Windows[i]
				p.ident(w.Name)
				p.space()
				p.keyword("AS")
				p.space()
				p.formatWindowSpec(w.Spec)
			}, ",", true)
		})
	}
}

func (p *Printer) formatSelectItem(item *ast.SelectItem) {
	p.leadingComments(item)
	p.formatExpr(item.Expr)
	p.alias(item.Alias)
}

func (p *Printer) formatValues(v *ast.ValuesExpr) {
	p.keyword("VALUES")
	p.clauseBody(func() {
		p.formatList(len(v.Rows), func(i int) {
			row := v.Rows[i]
			p.write("(")
			p.formatList(len(row), func(j int) { p.formatExpr(row[j]) }, ",", false)
			p.write(")")
		}, ",", true)
	})
}

// ---------- ORDER BY and row limiting ----------

func (p *Printer) formatOrderByItem(item *ast.OrderByItem) {
	p.leadingComments(item)

	// Without NULLS FIRST/LAST, sort on the null test first.
	if item.Nulls != ast.NullsDefault && !p.dialect.Supports(dialect.FeatureNullsOrdering) {
		p.operand(item.Expr, ast.PrecComparison)
		p.space()
		p.kw("IS", "NULL")
		p.space()
		if item.Nulls == ast.NullsFirst {
			p.keyword("DESC")
		} else {
			p.keyword("ASC")
		}
		p.write(",")
		p.space()
	}

	p.formatExpr(item.Expr)
	if item.Direction != ast.SortDefault {
		p.space()
		p.keyword(item.Direction.String())
	}
	if item.Nulls != ast.NullsDefault && p.dialect.Supports(dialect.FeatureNullsOrdering) {
		p.space()
		p.kw("NULLS", item.Nulls.String())
	}
}

// formatLimitClause picks the dialect's row-limiting form: LIMIT when
// available, otherwise OFFSET ... FETCH. PERCENT and WITH TIES have no
// LIMIT spelling and always use FETCH.
func (p *Printer) formatLimitClause(lim *ast.LimitClause) {
	if lim.Count != nil && (lim.Percent || lim.WithTies) {
		p.formatFetch(lim)
		return
	}

	hasLimit := p.dialect.Supports(dialect.FeatureLimit)

	if lim.Count == nil {
		switch {
		case p.dialect.Supports(dialect.FeatureOffsetWithoutLimit) || !hasLimit:
			p.formatOffset(lim.Offset, !hasLimit)
		default:
			p.keyword("LIMIT")
			p.write(" " + maxRowCount)
			p.space()
			p.formatOffset(lim.Offset, false)
		}
		return
	}

	if !hasLimit {
		p.formatFetch(lim)
		return
	}

	p.keyword("LIMIT")
	p.space()
	if lim.Offset != nil && p.keepsOffsetFirst(lim) {
		p.formatExpr(lim.Offset)
		p.write(",")
		p.space()
		p.formatExpr(lim.Count)
		return
	}
	p.formatExpr(lim.Count)
	if lim.Offset != nil {
		p.space()
		p.formatOffset(lim.Offset, false)
	}
}

// formatFetch writes [OFFSET m ROWS] FETCH FIRST n [PERCENT] ROWS
// {ONLY | WITH TIES}.
func (p *Printer) formatFetch(lim *ast.LimitClause) {
	if lim.Offset != nil {
		p.formatOffset(lim.Offset, true)
		p.breakLine()
	}
	p.kw("FETCH", "FIRST")
	p.space()
	p.formatExpr(lim.Count)
	if lim.Percent {
		p.space()
		p.keyword("PERCENT")
	}
	p.space()
	if lim.WithTies {
		p.kw("ROWS", "WITH", "TIES")
		return
	}
	p.kw("ROWS", "ONLY")
}

func (p *Printer) formatOffset(offset ast.Expr, rows bool) {
	p.keyword("OFFSET")
	p.space()
	p.formatExpr(offset)
	if rows {
		p.space()
		p.keyword("ROWS")
	}
}

// keepsOffsetFirst reports whether LIMIT offset, count must be used so
// that positional placeholders keep their order.
func (p *Printer) keepsOffsetFirst(lim *ast.LimitClause) bool {
	if !p.dialect.Supports(dialect.FeatureLimitComma) {
		return false
	}
	offset, ok := lim.Offset.(*ast.Placeholder)
	if !ok || offset.Kind == ast.PlaceholderDollar {
		return false
	}
	count, ok := lim.Count.(*ast.Placeholder)
	return ok && count.Kind != ast.PlaceholderDollar && offset.Index < count.Index
}

// ---------- FROM ----------

func (p *Printer) formatFromClause(from *ast.FromClause) {
	if from == nil {
		return
	}

	p.formatTableRef(from.Source)

	for _, join := range from.Joins {
		p.formatJoin(join)
	}
}

func (p *Printer) formatTableRef(ref ast.TableRef) {
	switch t := ref.(type) {
	case *ast.TableName:
		p.qualifiedName(t.Name)
		p.alias(t.Alias)
	case *ast.DerivedTable:
		p.lateral(t.Lateral)
		p.formatSubquery(t.Query)
		p.alias(t.Alias)
	case *ast.TableFunction:
		p.lateral(t.Lateral)
		p.formatFuncCall(t.Func)
		p.alias(t.Alias)
		if t.Alias != nil && len(t.Columns) > 0 {
			p.identList(t.Columns)
		}
	case *ast.ParenJoin:
		p.write("(")
		p.formatFromClause(t.From)
		p.write(")")
		p.alias(t.Alias)
	}
}

func (p *Printer) lateral(lateral bool) {
	if lateral {
		p.keyword("LATERAL")
		p.space()
	}
}

func (p *Printer) formatJoin(join *ast.Join) {
	if join.Type == ast.JoinComma {
		p.write(",")
		p.leadingComments(join)
		p.space()
		p.formatTableRef(join.Table)
		return
	}

	p.breakLine()
	p.leadingComments(join)

	if join.Natural {
		p.keyword("NATURAL")
		p.space()
	}
	if join.Type != ast.JoinInner {
		p.keyword(join.Type.String())
		p.space()
	}
	p.keyword("JOIN")
	p.space()
	p.formatTableRef(join.Table)

	switch {
	case len(join.Using) > 0:
		p.indent()
		p.breakLine()
		p.keyword("USING")
		p.space()
		p.identList(join.Using)
		p.dedent()
	case join.On != nil:
		p.indent()
		p.breakLine()
		p.keyword("ON")
		p.space()
		p.formatExpr(join.On)
		p.dedent()
	}
}
