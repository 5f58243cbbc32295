package format

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// ToSQL renders node as single-line SQL for the dialect. The output is a
// deterministic function of the node and the dialect, and parsing it
// under the same dialect yields an equal tree.
func ToSQL(node ast.Node, d dialect.Dialect) string {
	return ToSQLWith(node, d, Options{})
}

// ToSQLWith renders node with the given options.
func ToSQLWith(node ast.Node, d dialect.Dialect, opts Options) string {
	p := newPrinter(d, opts)
	p.formatNode(node)
	return p.String()
}

// Translate renders node for a target dialect, applying its function
// transforms and placeholder style.
func Translate(node ast.Node, d dialect.Dialect) string {
	return ToSQLWith(node, d, Options{Transpile: true})
}

// WithComments renders a statement in pretty mode, keeping the comments
// collected by the lexer in front of the clause, item or join that
// followed them in the source.
func WithComments(stmt ast.Statement, comments []token.Comment, d dialect.Dialect, opts Options) string {
	opts.Pretty = true
	p := newPrinter(d, opts)
	p.comments = Decorate(stmt, comments)
	p.formatStatement(stmt)
	p.trailingComments()
	return p.String()
}

func (p *Printer) formatNode(node ast.Node) {
	switch n := node.(type) {
	case ast.Statement:
		p.formatStatement(n)
	case ast.SetExpr:
		p.formatSetExpr(n)
	case ast.Expr:
		p.formatExpr(n)
	case ast.TableRef:
		p.formatTableRef(n)
	case *ast.SelectItem:
		p.formatSelectItem(n)
	case *ast.OrderByItem:
		p.formatOrderByItem(n)
	case *ast.LimitClause:
		p.formatLimitClause(n)
	case *ast.FromClause:
		p.formatFromClause(n)
	case *ast.Join:
		p.formatJoin(n)
	case *ast.WithClause:
		p.formatWithClause(n)
	case *ast.DataType:
		p.formatDataType(n)
	case *ast.ColumnDef:
		p.formatColumnDef(n)
	case *ast.TableConstraint:
		p.formatTableConstraint(n)
	case *ast.ColumnConstraint:
		p.formatColumnConstraint(n)
	}
}
