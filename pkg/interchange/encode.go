package interchange

import (
	"reflect"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Encode converts node into an object tree. A nil node encodes as nil.
func Encode(node ast.Node, opts Options) Object {
	e := &encoder{opts: opts}
	return e.node(node)
}

type encoder struct {
	opts Options
}

// object starts the object for n with its type and, when requested, span.
func (e *encoder) object(kind string, n ast.Node) Object {
	obj := Object{"type": kind}
	if e.opts.Positions {
		span := ast.SpanOf(n)
		obj["span"] = Object{"start": position(span.Start), "end": position(span.End)}
	}
	return obj
}

func position(p token.Position) Object {
	return Object{"line": p.Line, "column": p.Column, "offset": p.Offset}
}

// set stores v under key unless it is a zero value.
func set(obj Object, key string, v any) {
	switch x := v.(type) {
	case nil:
		return
	case string:
		if x == "" {
			return
		}
	case bool:
		if !x {
			return
		}
	case Object:
		if x == nil {
			return
		}
	case []any:
		if len(x) == 0 {
			return
		}
	}
	obj[key] = v
}

// isNil reports whether n is a typed nil pointer, as found in optional
// node fields.
func isNil(n ast.Node) bool {
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func encodeList[N ast.Node](e *encoder, list []N) []any {
	if len(list) == 0 {
		return nil
	}
	out := make([]any, len(list))
	for i, n := range list {
		out[i] = e.node(n)
	}
	return out
}

func (e *encoder) node(node ast.Node) Object {
	if node == nil || isNil(node) {
		return nil
	}

	switch n := node.(type) {
	// Statements
	case *ast.SelectStmt:
		obj := e.object("select", n)
		set(obj, "with", e.node(n.With))
		set(obj, "body", e.node(n.Body))
		set(obj, "order_by", encodeList(e, n.OrderBy))
		set(obj, "limit", e.node(n.Limit))
		set(obj, "locks", encodeList(e, n.Locks))
		return obj
	case *ast.InsertStmt:
		obj := e.object("insert", n)
		set(obj, "table", e.node(n.Table))
		set(obj, "columns", encodeList(e, n.Columns))
		set(obj, "query", e.node(n.Query))
		set(obj, "returning", encodeList(e, n.Returning))
		return obj
	case *ast.UpdateStmt:
		obj := e.object("update", n)
		set(obj, "table", e.node(n.Table))
		set(obj, "set", encodeList(e, n.Set))
		set(obj, "where", e.node(n.Where))
		set(obj, "returning", encodeList(e, n.Returning))
		return obj
	case *ast.DeleteStmt:
		obj := e.object("delete", n)
		set(obj, "table", e.node(n.Table))
		set(obj, "where", e.node(n.Where))
		set(obj, "returning", encodeList(e, n.Returning))
		return obj
	case *ast.CreateTableStmt:
		obj := e.object("create_table", n)
		set(obj, "temporary", n.Temporary)
		set(obj, "if_not_exists", n.IfNotExists)
		set(obj, "name", e.node(n.Name))
		set(obj, "columns", encodeList(e, n.Columns))
		set(obj, "constraints", encodeList(e, n.Constraints))
		set(obj, "as", e.node(n.AsQuery))
		return obj

	// Query parts
	case *ast.WithClause:
		obj := e.object("with", n)
		set(obj, "recursive", n.Recursive)
		set(obj, "ctes", encodeList(e, n.CTEs))
		return obj
	case *ast.CTE:
		obj := e.object("cte", n)
		set(obj, "name", e.node(n.Name))
		set(obj, "columns", encodeList(e, n.Columns))
		set(obj, "query", e.node(n.Query))
		return obj
	case *ast.SelectCore:
		obj := e.object("select_core", n)
		set(obj, "distinct", n.Distinct)
		set(obj, "columns", encodeList(e, n.Columns))
		set(obj, "from", e.node(n.From))
		set(obj, "where", e.node(n.Where))
		set(obj, "group_by", encodeList(e, n.GroupBy))
		set(obj, "having", e.node(n.Having))
		set(obj, "windows", encodeList(e, n.Windows))
		return obj
	case *ast.NamedWindow:
		obj := e.object("named_window", n)
		set(obj, "name", e.node(n.Name))
		set(obj, "spec", e.node(n.Spec))
		return obj
	case *ast.SelectItem:
		obj := e.object("select_item", n)
		set(obj, "expr", e.node(n.Expr))
		set(obj, "alias", e.node(n.Alias))
		return obj
	case *ast.SetOperation:
		obj := e.object("set_operation", n)
		obj["op"] = n.Op.String()
		set(obj, "all", n.All)
		set(obj, "left", e.node(n.Left))
		set(obj, "right", e.node(n.Right))
		return obj
	case *ast.ValuesExpr:
		obj := e.object("values", n)
		rows := make([]any, len(n.Rows))
		for i, row := range n.Rows {
			rows[i] = encodeList(e, row)
		}
		set(obj, "rows", rows)
		return obj
	case *ast.ParenQuery:
		obj := e.object("paren_query", n)
		set(obj, "query", e.node(n.Query))
		return obj
	case *ast.OrderByItem:
		obj := e.object("order_by_item", n)
		set(obj, "expr", e.node(n.Expr))
		set(obj, "direction", n.Direction.String())
		set(obj, "nulls", n.Nulls.String())
		return obj
	case *ast.LimitClause:
		obj := e.object("limit", n)
		set(obj, "count", e.node(n.Count))
		set(obj, "offset", e.node(n.Offset))
		set(obj, "percent", n.Percent)
		set(obj, "with_ties", n.WithTies)
		return obj
	case *ast.LockClause:
		obj := e.object("lock", n)
		obj["strength"] = n.Strength.String()
		set(obj, "of", encodeList(e, n.Of))
		set(obj, "wait", n.Wait.String())
		return obj
	case *ast.Assignment:
		obj := e.object("assignment", n)
		set(obj, "column", e.node(n.Column))
		set(obj, "value", e.node(n.Value))
		return obj

	// FROM
	case *ast.FromClause:
		obj := e.object("from", n)
		set(obj, "source", e.node(n.Source))
		set(obj, "joins", encodeList(e, n.Joins))
		return obj
	case *ast.Join:
		obj := e.object("join", n)
		obj["join_type"] = n.Type.String()
		set(obj, "natural", n.Natural)
		set(obj, "table", e.node(n.Table))
		set(obj, "on", e.node(n.On))
		set(obj, "using", encodeList(e, n.Using))
		return obj
	case *ast.TableName:
		obj := e.object("table", n)
		set(obj, "name", e.node(n.Name))
		set(obj, "alias", e.node(n.Alias))
		return obj
	case *ast.DerivedTable:
		obj := e.object("derived_table", n)
		set(obj, "lateral", n.Lateral)
		set(obj, "query", e.node(n.Query))
		set(obj, "alias", e.node(n.Alias))
		return obj
	case *ast.ParenJoin:
		obj := e.object("paren_join", n)
		set(obj, "from", e.node(n.From))
		set(obj, "alias", e.node(n.Alias))
		return obj
	case *ast.TableFunction:
		obj := e.object("table_function", n)
		set(obj, "lateral", n.Lateral)
		set(obj, "function", e.node(n.Func))
		set(obj, "alias", e.node(n.Alias))
		set(obj, "columns", encodeList(e, n.Columns))
		return obj

	// Expressions
	case *ast.Ident:
		obj := e.object("ident", n)
		obj["name"] = n.Name
		set(obj, "quoted", n.Quoted)
		return obj
	case *ast.QualifiedName:
		obj := e.object("qualified_name", n)
		set(obj, "parts", encodeList(e, n.Parts))
		return obj
	case *ast.Literal:
		obj := e.object("literal", n)
		obj["kind"] = n.Kind.String()
		obj["value"] = n.Value
		set(obj, "suffix", n.Suffix)
		set(obj, "unit", n.Unit)
		set(obj, "to_unit", n.ToUnit)
		return obj
	case *ast.Placeholder:
		obj := e.object("placeholder", n)
		obj["kind"] = n.Kind.String()
		obj["index"] = n.Index
		set(obj, "name", n.Name)
		return obj
	case *ast.UnaryExpr:
		obj := e.object("unary", n)
		obj["op"] = n.Op.String()
		set(obj, "operand", e.node(n.Operand))
		return obj
	case *ast.BinaryExpr:
		obj := e.object("binary", n)
		obj["op"] = n.Op.String()
		set(obj, "left", e.node(n.Left))
		set(obj, "right", e.node(n.Right))
		return obj
	case *ast.FuncCall:
		obj := e.object("function", n)
		set(obj, "name", e.node(n.Name))
		set(obj, "distinct", n.Distinct)
		set(obj, "star", n.Star)
		set(obj, "args", encodeList(e, n.Args))
		set(obj, "no_parens", n.NoParens)
		set(obj, "filter", e.node(n.Filter))
		set(obj, "over", e.node(n.Over))
		return obj
	case *ast.WindowSpec:
		obj := e.object("window", n)
		set(obj, "name", e.node(n.Name))
		set(obj, "parens", n.Parens)
		set(obj, "partition_by", encodeList(e, n.PartitionBy))
		set(obj, "order_by", encodeList(e, n.OrderBy))
		set(obj, "frame", e.node(n.Frame))
		return obj
	case *ast.WindowFrame:
		obj := e.object("frame", n)
		obj["units"] = n.Units.String()
		set(obj, "start", e.node(n.Start))
		set(obj, "end", e.node(n.Upper))
		return obj
	case *ast.FrameBound:
		obj := e.object("frame_bound", n)
		obj["kind"] = n.Kind.String()
		set(obj, "offset", e.node(n.Offset))
		return obj
	case *ast.TupleExpr:
		obj := e.object("tuple", n)
		set(obj, "items", encodeList(e, n.Items))
		return obj
	case *ast.CaseExpr:
		obj := e.object("case", n)
		set(obj, "operand", e.node(n.Operand))
		set(obj, "whens", encodeList(e, n.Whens))
		set(obj, "else", e.node(n.Else))
		return obj
	case *ast.WhenClause:
		obj := e.object("when", n)
		set(obj, "condition", e.node(n.Condition))
		set(obj, "result", e.node(n.Result))
		return obj
	case *ast.CastExpr:
		obj := e.object("cast", n)
		set(obj, "expr", e.node(n.Expr))
		set(obj, "data_type", e.node(n.Type))
		set(obj, "postfix", n.Postfix)
		return obj
	case *ast.DataType:
		obj := e.object("data_type", n)
		obj["name"] = n.Name
		if len(n.Params) > 0 {
			params := make([]any, len(n.Params))
			for i, p := range n.Params {
				params[i] = p
			}
			obj["params"] = params
		}
		set(obj, "suffix", n.Suffix)
		return obj
	case *ast.BetweenExpr:
		obj := e.object("between", n)
		set(obj, "expr", e.node(n.Expr))
		set(obj, "not", n.Not)
		set(obj, "low", e.node(n.Low))
		set(obj, "high", e.node(n.High))
		return obj
	case *ast.InExpr:
		obj := e.object("in", n)
		set(obj, "expr", e.node(n.Expr))
		set(obj, "not", n.Not)
		set(obj, "list", encodeList(e, n.List))
		set(obj, "query", e.node(n.Query))
		return obj
	case *ast.LikeExpr:
		obj := e.object("like", n)
		set(obj, "expr", e.node(n.Expr))
		set(obj, "not", n.Not)
		set(obj, "ilike", n.ILike)
		set(obj, "pattern", e.node(n.Pattern))
		set(obj, "escape", e.node(n.Escape))
		return obj
	case *ast.IsExpr:
		obj := e.object("is", n)
		set(obj, "expr", e.node(n.Expr))
		set(obj, "not", n.Not)
		obj["kind"] = n.Kind.String()
		set(obj, "right", e.node(n.Right))
		return obj
	case *ast.ExistsExpr:
		obj := e.object("exists", n)
		set(obj, "query", e.node(n.Query))
		return obj
	case *ast.SubqueryExpr:
		obj := e.object("subquery", n)
		set(obj, "query", e.node(n.Query))
		return obj
	case *ast.StarExpr:
		obj := e.object("star", n)
		set(obj, "qualifier", encodeList(e, n.Qualifier))
		return obj

	// DDL
	case *ast.ColumnDef:
		obj := e.object("column_def", n)
		set(obj, "name", e.node(n.Name))
		set(obj, "data_type", e.node(n.Type))
		set(obj, "constraints", encodeList(e, n.Constraints))
		return obj
	case *ast.ColumnConstraint:
		obj := e.object("column_constraint", n)
		set(obj, "name", e.node(n.Name))
		obj["kind"] = n.Kind.String()
		set(obj, "expr", e.node(n.Expr))
		set(obj, "references", e.node(n.References))
		return obj
	case *ast.TableConstraint:
		obj := e.object("table_constraint", n)
		set(obj, "name", e.node(n.Name))
		obj["kind"] = n.Kind.String()
		set(obj, "columns", encodeList(e, n.Columns))
		set(obj, "expr", e.node(n.Expr))
		set(obj, "references", e.node(n.References))
		return obj
	case *ast.ForeignKeyRef:
		obj := e.object("references", n)
		set(obj, "table", e.node(n.Table))
		set(obj, "columns", encodeList(e, n.Columns))
		return obj
	}
	return nil
}
