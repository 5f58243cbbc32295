package ast

import (
	"reflect"

	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order, in source order of the
// children. Nil children are skipped.
func Walk(v Visitor, node Node) {
	if isNil(node) {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	walkChildren(v, node)
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if node != nil && f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST depth-first and calls fn for each node.
// If fn returns false, the children of that node are not visited.
func Inspect(node Node, fn func(Node) bool) {
	Walk(inspector(fn), node)
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func walkList[N Node](v Visitor, list []N) {
	for _, n := range list {
		Walk(v, n)
	}
}

func walkChildren(v Visitor, node Node) {
	switch n := node.(type) {
	// Statements
	case *SelectStmt:
		Walk(v, n.With)
		Walk(v, n.Body)
		walkList(v, n.OrderBy)
		Walk(v, n.Limit)
		walkList(v, n.Locks)

	case *InsertStmt:
		Walk(v, n.Table)
		walkList(v, n.Columns)
		Walk(v, n.Query)
		walkList(v, n.Returning)

	case *UpdateStmt:
		Walk(v, n.Table)
		walkList(v, n.Set)
		Walk(v, n.Where)
		walkList(v, n.Returning)

	case *DeleteStmt:
		Walk(v, n.Table)
		Walk(v, n.Where)
		walkList(v, n.Returning)

	case *CreateTableStmt:
		Walk(v, n.Name)
		walkList(v, n.Columns)
		walkList(v, n.Constraints)
		Walk(v, n.AsQuery)

	// Clauses
	case *WithClause:
		walkList(v, n.CTEs)

	case *CTE:
		Walk(v, n.Name)
		walkList(v, n.Columns)
		Walk(v, n.Query)

	case *SelectCore:
		walkList(v, n.Columns)
		Walk(v, n.From)
		Walk(v, n.Where)
		walkList(v, n.GroupBy)
		Walk(v, n.Having)
		walkList(v, n.Windows)

	case *NamedWindow:
		Walk(v, n.Name)
		Walk(v, n.Spec)

	case *SelectItem:
		Walk(v, n.Expr)
		Walk(v, n.Alias)

	case *SetOperation:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *ValuesExpr:
		for _, row := range n.Rows {
			walkList(v, row)
		}

	case *ParenQuery:
		Walk(v, n.Query)

	case *OrderByItem:
		Walk(v, n.Expr)

	case *LimitClause:
		Walk(v, n.Count)
		Walk(v, n.Offset)

	case *LockClause:
		walkList(v, n.Of)

	case *Assignment:
		Walk(v, n.Column)
		Walk(v, n.Value)

	case *FromClause:
		Walk(v, n.Source)
		walkList(v, n.Joins)

	case *Join:
		Walk(v, n.Table)
		Walk(v, n.On)
		walkList(v, n.Using)

	case *TableName:
		Walk(v, n.Name)
		Walk(v, n.Alias)

	case *DerivedTable:
		Walk(v, n.Query)
		Walk(v, n.Alias)

	case *ParenJoin:
		Walk(v, n.From)
		Walk(v, n.Alias)

	case *TableFunction:
		Walk(v, n.Func)
		Walk(v, n.Alias)
		walkList(v, n.Columns)

	case *ColumnDef:
		Walk(v, n.Name)
		Walk(v, n.Type)
		walkList(v, n.Constraints)

	case *ColumnConstraint:
		Walk(v, n.Name)
		Walk(v, n.Expr)
		Walk(v, n.References)

	case *TableConstraint:
		Walk(v, n.Name)
		walkList(v, n.Columns)
		Walk(v, n.Expr)
		Walk(v, n.References)

	case *ForeignKeyRef:
		Walk(v, n.Table)
		walkList(v, n.Columns)

	// Expressions
	case *QualifiedName:
		walkList(v, n.Parts)

	case *UnaryExpr:
		Walk(v, n.Operand)

	case *BinaryExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *FuncCall:
		Walk(v, n.Name)
		walkList(v, n.Args)
		Walk(v, n.Filter)
		Walk(v, n.Over)

	case *WindowSpec:
		Walk(v, n.Name)
		walkList(v, n.PartitionBy)
		walkList(v, n.OrderBy)
		Walk(v, n.Frame)

	case *WindowFrame:
		Walk(v, n.Start)
		Walk(v, n.Upper)

	case *FrameBound:
		Walk(v, n.Offset)

	case *TupleExpr:
		walkList(v, n.Items)

	case *CaseExpr:
		Walk(v, n.Operand)
		walkList(v, n.Whens)
		Walk(v, n.Else)

	case *WhenClause:
		Walk(v, n.Condition)
		Walk(v, n.Result)

	case *CastExpr:
		Walk(v, n.Expr)
		Walk(v, n.Type)

	case *BetweenExpr:
		Walk(v, n.Expr)
		Walk(v, n.Low)
		Walk(v, n.High)

	case *InExpr:
		Walk(v, n.Expr)
		walkList(v, n.List)
		Walk(v, n.Query)

	case *LikeExpr:
		Walk(v, n.Expr)
		Walk(v, n.Pattern)
		Walk(v, n.Escape)

	case *IsExpr:
		Walk(v, n.Expr)
		Walk(v, n.Right)

	case *ExistsExpr:
		Walk(v, n.Query)

	case *SubqueryExpr:
		Walk(v, n.Query)

	case *StarExpr:
		walkList(v, n.Qualifier)

	case *Ident, *Literal, *Placeholder, *DataType:
		// Leaf nodes
	}
}

// ClearSpans zeroes the source span of every node in the tree. Trees
// parsed from differently formatted text compare equal after clearing.
func ClearSpans(node Node) {
	Inspect(node, func(n Node) bool {
		SetSpan(n, token.Span{})
		return true
	})
}
