package interchange

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// DecodeError reports a malformed object tree. Path locates the offending
// value, e.g. "body.columns.0.expr".
type DecodeError struct {
	Path string
	Msg  string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "interchange: " + e.Msg
	}
	return fmt.Sprintf("interchange: %s: %s", e.Path, e.Msg)
}

// Decode rebuilds a node from an object tree produced by Encode. Values
// are converted leniently, so trees that went through JSON (float
// numbers) or YAML (any-keyed maps) decode the same.
func Decode(obj Object) (ast.Node, error) {
	d := &decoder{}
	n := d.node(obj)
	if d.err != nil {
		return nil, d.err
	}
	if n == nil {
		return nil, &DecodeError{Msg: "empty tree"}
	}
	return n, nil
}

// DecodeStatement decodes a tree whose root must be a statement.
func DecodeStatement(obj Object) (ast.Statement, error) {
	n, err := Decode(obj)
	if err != nil {
		return nil, err
	}
	stmt, ok := n.(ast.Statement)
	if !ok {
		return nil, &DecodeError{Msg: fmt.Sprintf("%s is not a statement", obj["type"])}
	}
	return stmt, nil
}

// decoder keeps the first error it meets; later calls become no-ops that
// return zero values.
type decoder struct {
	err  error
	path []string
}

func (d *decoder) failf(format string, args ...any) {
	if d.err == nil {
		d.err = &DecodeError{Path: strings.Join(d.path, "."), Msg: fmt.Sprintf(format, args...)}
	}
}

func (d *decoder) push(key string) { d.path = append(d.path, key) }
func (d *decoder) pop()            { d.path = d.path[:len(d.path)-1] }

func (d *decoder) str(obj Object, key string) string {
	v, ok := obj[key]
	if !ok || d.err != nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		d.push(key)
		d.failf("expected string: %v", err)
		d.pop()
	}
	return s
}

func (d *decoder) boolean(obj Object, key string) bool {
	v, ok := obj[key]
	if !ok || d.err != nil {
		return false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		d.push(key)
		d.failf("expected boolean: %v", err)
		d.pop()
	}
	return b
}

func (d *decoder) integer(obj Object, key string) int {
	v, ok := obj[key]
	if !ok || d.err != nil {
		return 0
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		d.push(key)
		d.failf("expected integer: %v", err)
		d.pop()
	}
	return n
}

func (d *decoder) object(v any) Object {
	if v == nil || d.err != nil {
		return nil
	}
	obj, err := cast.ToStringMapE(v)
	if err != nil {
		d.failf("expected object: %v", err)
		return nil
	}
	return obj
}

func (d *decoder) list(obj Object, key string) []any {
	v, ok := obj[key]
	if !ok || v == nil || d.err != nil {
		return nil
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		d.push(key)
		d.failf("expected list: %v", err)
		d.pop()
	}
	return items
}

func (d *decoder) span(obj Object) token.Span {
	s := d.object(obj["span"])
	if s == nil {
		return token.Span{}
	}
	d.push("span")
	defer d.pop()
	return token.Span{Start: d.position(s, "start"), End: d.position(s, "end")}
}

func (d *decoder) position(obj Object, key string) token.Position {
	d.push(key)
	defer d.pop()
	p := d.object(obj[key])
	if p == nil {
		return token.Position{}
	}
	return token.Position{Line: d.integer(p, "line"), Column: d.integer(p, "column"), Offset: d.integer(p, "offset")}
}

// field decodes the node under key, which must be a T. A missing key
// yields the zero T.
func field[T ast.Node](d *decoder, obj Object, key string) T {
	var zero T
	v, ok := obj[key]
	if !ok || v == nil || d.err != nil {
		return zero
	}
	d.push(key)
	defer d.pop()
	return as[T](d, d.node(v))
}

// items decodes the list of nodes under key, each of which must be a T.
func items[T ast.Node](d *decoder, obj Object, key string) []T {
	return decodeItems[T](d, key, d.list(obj, key))
}

func decodeItems[T ast.Node](d *decoder, key string, list []any) []T {
	if len(list) == 0 {
		return nil
	}
	d.push(key)
	defer d.pop()
	out := make([]T, 0, len(list))
	for i, v := range list {
		d.push(strconv.Itoa(i))
		out = append(out, as[T](d, d.node(v)))
		d.pop()
	}
	return out
}

func as[T ast.Node](d *decoder, n ast.Node) T {
	var zero T
	if n == nil {
		return zero
	}
	t, ok := n.(T)
	if !ok {
		d.failf("unexpected %T", n)
		return zero
	}
	return t
}

func (d *decoder) node(v any) ast.Node {
	obj := d.object(v)
	if obj == nil {
		return nil
	}

	kind := d.str(obj, "type")
	n := d.build(kind, obj)
	if n == nil {
		if d.err == nil {
			d.failf("unknown node type %q", kind)
		}
		return nil
	}
	ast.SetSpan(n, d.span(obj))
	return n
}

// build constructs the node of the given kind from obj's fields.
func (d *decoder) build(kind string, obj Object) ast.Node {
	switch kind {
	// Statements
	case "select":
		return &ast.SelectStmt{
			With:    field[*ast.WithClause](d, obj, "with"),
			Body:    field[ast.SetExpr](d, obj, "body"),
			OrderBy: items[*ast.OrderByItem](d, obj, "order_by"),
			Limit:   field[*ast.LimitClause](d, obj, "limit"),
			Locks:   items[*ast.LockClause](d, obj, "locks"),
		}
	case "insert":
		return &ast.InsertStmt{
			Table:     field[*ast.QualifiedName](d, obj, "table"),
			Columns:   items[*ast.Ident](d, obj, "columns"),
			Query:     field[*ast.SelectStmt](d, obj, "query"),
			Returning: items[*ast.SelectItem](d, obj, "returning"),
		}
	case "update":
		return &ast.UpdateStmt{
			Table:     field[*ast.TableName](d, obj, "table"),
			Set:       items[*ast.Assignment](d, obj, "set"),
			Where:     field[ast.Expr](d, obj, "where"),
			Returning: items[*ast.SelectItem](d, obj, "returning"),
		}
	case "delete":
		return &ast.DeleteStmt{
			Table:     field[*ast.TableName](d, obj, "table"),
			Where:     field[ast.Expr](d, obj, "where"),
			Returning: items[*ast.SelectItem](d, obj, "returning"),
		}
	case "create_table":
		return &ast.CreateTableStmt{
			Temporary:   d.boolean(obj, "temporary"),
			IfNotExists: d.boolean(obj, "if_not_exists"),
			Name:        field[*ast.QualifiedName](d, obj, "name"),
			Columns:     items[*ast.ColumnDef](d, obj, "columns"),
			Constraints: items[*ast.TableConstraint](d, obj, "constraints"),
			AsQuery:     field[*ast.SelectStmt](d, obj, "as"),
		}

	// Query parts
	case "with":
		return &ast.WithClause{
			Recursive: d.boolean(obj, "recursive"),
			CTEs:      items[*ast.CTE](d, obj, "ctes"),
		}
	case "cte":
		return &ast.CTE{
			Name:    field[*ast.Ident](d, obj, "name"),
			Columns: items[*ast.Ident](d, obj, "columns"),
			Query:   field[*ast.SelectStmt](d, obj, "query"),
		}
	case "select_core":
		return &ast.SelectCore{
			Distinct: d.boolean(obj, "distinct"),
			Columns:  items[*ast.SelectItem](d, obj, "columns"),
			From:     field[*ast.FromClause](d, obj, "from"),
			Where:    field[ast.Expr](d, obj, "where"),
			GroupBy:  items[ast.Expr](d, obj, "group_by"),
			Having:   field[ast.Expr](d, obj, "having"),
			Windows:  items[*ast.NamedWindow](d, obj, "windows"),
		}
	case "named_window":
		return &ast.NamedWindow{
			Name: field[*ast.Ident](d, obj, "name"),
			Spec: field[*ast.WindowSpec](d, obj, "spec"),
		}
	case "select_item":
		return &ast.SelectItem{
			Expr:  field[ast.Expr](d, obj, "expr"),
			Alias: field[*ast.Ident](d, obj, "alias"),
		}
	case "set_operation":
		return &ast.SetOperation{
			Op:    d.setOp(obj),
			All:   d.boolean(obj, "all"),
			Left:  field[ast.SetExpr](d, obj, "left"),
			Right: field[ast.SetExpr](d, obj, "right"),
		}
	case "values":
		rows := d.list(obj, "rows")
		v := &ast.ValuesExpr{Rows: make([][]ast.Expr, len(rows))}
		d.push("rows")
		for i, row := range rows {
			cells, err := cast.ToSliceE(row)
			if err != nil {
				d.failf("expected list: %v", err)
			}
			v.Rows[i] = decodeItems[ast.Expr](d, strconv.Itoa(i), cells)
		}
		d.pop()
		return v
	case "paren_query":
		return &ast.ParenQuery{Query: field[*ast.SelectStmt](d, obj, "query")}
	case "order_by_item":
		return &ast.OrderByItem{
			Expr:      field[ast.Expr](d, obj, "expr"),
			Direction: d.direction(obj),
			Nulls:     d.nulls(obj),
		}
	case "limit":
		return &ast.LimitClause{
			Count:    field[ast.Expr](d, obj, "count"),
			Offset:   field[ast.Expr](d, obj, "offset"),
			Percent:  d.boolean(obj, "percent"),
			WithTies: d.boolean(obj, "with_ties"),
		}
	case "lock":
		return &ast.LockClause{
			Strength: d.lockStrength(obj),
			Of:       items[*ast.QualifiedName](d, obj, "of"),
			Wait:     d.lockWait(obj),
		}
	case "assignment":
		return &ast.Assignment{
			Column: field[*ast.QualifiedName](d, obj, "column"),
			Value:  field[ast.Expr](d, obj, "value"),
		}

	// FROM
	case "from":
		return &ast.FromClause{
			Source: field[ast.TableRef](d, obj, "source"),
			Joins:  items[*ast.Join](d, obj, "joins"),
		}
	case "join":
		return &ast.Join{
			Type:    d.joinType(obj),
			Natural: d.boolean(obj, "natural"),
			Table:   field[ast.TableRef](d, obj, "table"),
			On:      field[ast.Expr](d, obj, "on"),
			Using:   items[*ast.Ident](d, obj, "using"),
		}
	case "table":
		return &ast.TableName{
			Name:  field[*ast.QualifiedName](d, obj, "name"),
			Alias: field[*ast.Ident](d, obj, "alias"),
		}
	case "derived_table":
		return &ast.DerivedTable{
			Lateral: d.boolean(obj, "lateral"),
			Query:   field[*ast.SelectStmt](d, obj, "query"),
			Alias:   field[*ast.Ident](d, obj, "alias"),
		}
	case "table_function":
		return &ast.TableFunction{
			Lateral: d.boolean(obj, "lateral"),
			Func:    field[*ast.FuncCall](d, obj, "function"),
			Alias:   field[*ast.Ident](d, obj, "alias"),
			Columns: items[*ast.Ident](d, obj, "columns"),
		}
	case "paren_join":
		return &ast.ParenJoin{
			From:  field[*ast.FromClause](d, obj, "from"),
			Alias: field[*ast.Ident](d, obj, "alias"),
		}

	// Expressions
	case "ident":
		return &ast.Ident{Name: d.str(obj, "name"), Quoted: d.boolean(obj, "quoted")}
	case "qualified_name":
		return &ast.QualifiedName{Parts: items[*ast.Ident](d, obj, "parts")}
	case "literal":
		return &ast.Literal{
			Kind:   d.literalKind(obj),
			Value:  d.str(obj, "value"),
			Suffix: d.str(obj, "suffix"),
			Unit:   d.str(obj, "unit"),
			ToUnit: d.str(obj, "to_unit"),
		}
	case "placeholder":
		return &ast.Placeholder{
			Kind:  d.placeholderKind(obj),
			Index: d.integer(obj, "index"),
			Name:  d.str(obj, "name"),
		}
	case "unary":
		op, ok := ast.ParseUnaryOp(d.str(obj, "op"))
		if !ok {
			d.failf("unknown unary operator %q", obj["op"])
		}
		return &ast.UnaryExpr{Op: op, Operand: field[ast.Expr](d, obj, "operand")}
	case "binary":
		op, ok := ast.ParseBinaryOp(d.str(obj, "op"))
		if !ok {
			d.failf("unknown binary operator %q", obj["op"])
		}
		return &ast.BinaryExpr{
			Op:    op,
			Left:  field[ast.Expr](d, obj, "left"),
			Right: field[ast.Expr](d, obj, "right"),
		}
	case "function":
		return &ast.FuncCall{
			Name:     field[*ast.Ident](d, obj, "name"),
			Distinct: d.boolean(obj, "distinct"),
			Star:     d.boolean(obj, "star"),
			Args:     items[ast.Expr](d, obj, "args"),
			NoParens: d.boolean(obj, "no_parens"),
			Filter:   field[ast.Expr](d, obj, "filter"),
			Over:     field[*ast.WindowSpec](d, obj, "over"),
		}
	case "window":
		return &ast.WindowSpec{
			Name:        field[*ast.Ident](d, obj, "name"),
			Parens:      d.boolean(obj, "parens"),
			PartitionBy: items[ast.Expr](d, obj, "partition_by"),
			OrderBy:     items[*ast.OrderByItem](d, obj, "order_by"),
			Frame:       field[*ast.WindowFrame](d, obj, "frame"),
		}
	case "frame":
		units, ok := ast.ParseFrameUnits(d.str(obj, "units"))
		if !ok {
			d.failf("unknown frame units %q", obj["units"])
		}
		return &ast.WindowFrame{
			Units: units,
			Start: field[*ast.FrameBound](d, obj, "start"),
			Upper: field[*ast.FrameBound](d, obj, "end"),
		}
	case "frame_bound":
		kind, ok := ast.ParseBoundKind(d.str(obj, "kind"))
		if !ok {
			d.failf("unknown frame bound %q", obj["kind"])
		}
		return &ast.FrameBound{Kind: kind, Offset: field[ast.Expr](d, obj, "offset")}
	case "tuple":
		return &ast.TupleExpr{Items: items[ast.Expr](d, obj, "items")}
	case "case":
		return &ast.CaseExpr{
			Operand: field[ast.Expr](d, obj, "operand"),
			Whens:   items[*ast.WhenClause](d, obj, "whens"),
			Else:    field[ast.Expr](d, obj, "else"),
		}
	case "when":
		return &ast.WhenClause{
			Condition: field[ast.Expr](d, obj, "condition"),
			Result:    field[ast.Expr](d, obj, "result"),
		}
	case "cast":
		return &ast.CastExpr{
			Expr:    field[ast.Expr](d, obj, "expr"),
			Type:    field[*ast.DataType](d, obj, "data_type"),
			Postfix: d.boolean(obj, "postfix"),
		}
	case "data_type":
		dt := &ast.DataType{Name: d.str(obj, "name"), Suffix: d.str(obj, "suffix")}
		for _, p := range d.list(obj, "params") {
			dt.Params = append(dt.Params, cast.ToString(p))
		}
		return dt
	case "between":
		return &ast.BetweenExpr{
			Expr: field[ast.Expr](d, obj, "expr"),
			Not:  d.boolean(obj, "not"),
			Low:  field[ast.Expr](d, obj, "low"),
			High: field[ast.Expr](d, obj, "high"),
		}
	case "in":
		return &ast.InExpr{
			Expr:  field[ast.Expr](d, obj, "expr"),
			Not:   d.boolean(obj, "not"),
			List:  items[ast.Expr](d, obj, "list"),
			Query: field[*ast.SelectStmt](d, obj, "query"),
		}
	case "like":
		return &ast.LikeExpr{
			Expr:    field[ast.Expr](d, obj, "expr"),
			Not:     d.boolean(obj, "not"),
			ILike:   d.boolean(obj, "ilike"),
			Pattern: field[ast.Expr](d, obj, "pattern"),
			Escape:  field[ast.Expr](d, obj, "escape"),
		}
	case "is":
		kind, ok := ast.ParseIsKind(d.str(obj, "kind"))
		if !ok {
			d.failf("unknown IS kind %q", obj["kind"])
		}
		return &ast.IsExpr{
			Expr:  field[ast.Expr](d, obj, "expr"),
			Not:   d.boolean(obj, "not"),
			Kind:  kind,
			Right: field[ast.Expr](d, obj, "right"),
		}
	case "exists":
		return &ast.ExistsExpr{Query: field[*ast.SelectStmt](d, obj, "query")}
	case "subquery":
		return &ast.SubqueryExpr{Query: field[*ast.SelectStmt](d, obj, "query")}
	case "star":
		return &ast.StarExpr{Qualifier: items[*ast.Ident](d, obj, "qualifier")}

	// DDL
	case "column_def":
		return &ast.ColumnDef{
			Name:        field[*ast.Ident](d, obj, "name"),
			Type:        field[*ast.DataType](d, obj, "data_type"),
			Constraints: items[*ast.ColumnConstraint](d, obj, "constraints"),
		}
	case "column_constraint":
		return &ast.ColumnConstraint{
			Name:       field[*ast.Ident](d, obj, "name"),
			Kind:       d.constraintKind(obj),
			Expr:       field[ast.Expr](d, obj, "expr"),
			References: field[*ast.ForeignKeyRef](d, obj, "references"),
		}
	case "table_constraint":
		return &ast.TableConstraint{
			Name:       field[*ast.Ident](d, obj, "name"),
			Kind:       d.constraintKind(obj),
			Columns:    items[*ast.Ident](d, obj, "columns"),
			Expr:       field[ast.Expr](d, obj, "expr"),
			References: field[*ast.ForeignKeyRef](d, obj, "references"),
		}
	case "references":
		return &ast.ForeignKeyRef{
			Table:   field[*ast.QualifiedName](d, obj, "table"),
			Columns: items[*ast.Ident](d, obj, "columns"),
		}
	}
	return nil
}

// ---------- Enumerations ----------

func (d *decoder) setOp(obj Object) ast.SetOp {
	s := d.str(obj, "op")
	for _, op := range []ast.SetOp{ast.Union, ast.Intersect, ast.Except} {
		if op.String() == s {
			return op
		}
	}
	d.failf("unknown set operator %q", s)
	return ast.Union
}

func (d *decoder) direction(obj Object) ast.SortDirection {
	switch s := d.str(obj, "direction"); s {
	case "":
		return ast.SortDefault
	case "ASC":
		return ast.SortAsc
	case "DESC":
		return ast.SortDesc
	default:
		d.failf("unknown sort direction %q", s)
		return ast.SortDefault
	}
}

func (d *decoder) nulls(obj Object) ast.NullsOrder {
	switch s := d.str(obj, "nulls"); s {
	case "":
		return ast.NullsDefault
	case "FIRST":
		return ast.NullsFirst
	case "LAST":
		return ast.NullsLast
	default:
		d.failf("unknown nulls ordering %q", s)
		return ast.NullsDefault
	}
}

func (d *decoder) joinType(obj Object) ast.JoinType {
	s := d.str(obj, "join_type")
	t, ok := ast.ParseJoinType(s)
	if !ok {
		d.failf("unknown join type %q", s)
	}
	return t
}

func (d *decoder) literalKind(obj Object) ast.LiteralKind {
	s := d.str(obj, "kind")
	k, ok := ast.ParseLiteralKind(s)
	if !ok {
		d.failf("unknown literal kind %q", s)
	}
	return k
}

func (d *decoder) placeholderKind(obj Object) ast.PlaceholderKind {
	s := d.str(obj, "kind")
	for _, k := range []ast.PlaceholderKind{ast.PlaceholderQuestion, ast.PlaceholderDollar, ast.PlaceholderNamed} {
		if k.String() == s {
			return k
		}
	}
	d.failf("unknown placeholder kind %q", s)
	return ast.PlaceholderQuestion
}

func (d *decoder) lockStrength(obj Object) ast.LockStrength {
	switch s := d.str(obj, "strength"); s {
	case "UPDATE":
		return ast.LockUpdate
	case "SHARE":
		return ast.LockShare
	default:
		d.failf("unknown lock strength %q", s)
		return ast.LockUpdate
	}
}

func (d *decoder) lockWait(obj Object) ast.LockWait {
	switch s := d.str(obj, "wait"); s {
	case "":
		return ast.LockWaitDefault
	case "NOWAIT":
		return ast.LockNoWait
	case "SKIP LOCKED":
		return ast.LockSkipLocked
	default:
		d.failf("unknown lock wait policy %q", s)
		return ast.LockWaitDefault
	}
}

func (d *decoder) constraintKind(obj Object) ast.ConstraintKind {
	s := d.str(obj, "kind")
	k, ok := ast.ParseConstraintKind(s)
	if !ok {
		d.failf("unknown constraint kind %q", s)
	}
	return k
}
