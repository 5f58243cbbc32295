package parser_test

import (
	"testing"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlt/pkg/dialects/mysql"
	"github.com/leapstack-labs/sqlt/pkg/dialects/postgres"
	"github.com/leapstack-labs/sqlt/pkg/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- Window functions ----------

func TestWindowSpecs(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want *ast.WindowSpec
	}{
		{
			name: "empty",
			sql:  "count(*) OVER ()",
			want: &ast.WindowSpec{Parens: true},
		},
		{
			name: "partition and order",
			sql:  "rank() OVER (PARTITION BY a, b ORDER BY c DESC)",
			want: &ast.WindowSpec{
				Parens:      true,
				PartitionBy: []ast.Expr{id("a"), id("b")},
				OrderBy:     []*ast.OrderByItem{{Expr: id("c"), Direction: ast.SortDesc}},
			},
		},
		{
			name: "named",
			sql:  "sum(a) OVER w",
			want: &ast.WindowSpec{Name: id("w")},
		},
		{
			name: "refined",
			sql:  "sum(a) OVER (w ORDER BY b)",
			want: &ast.WindowSpec{
				Name:    id("w"),
				Parens:  true,
				OrderBy: []*ast.OrderByItem{{Expr: id("b")}},
			},
		},
		{
			name: "rows between",
			sql:  "sum(a) OVER (ORDER BY b ROWS BETWEEN 2 PRECEDING AND UNBOUNDED FOLLOWING)",
			want: &ast.WindowSpec{
				Parens:  true,
				OrderBy: []*ast.OrderByItem{{Expr: id("b")}},
				Frame: &ast.WindowFrame{
					Units: ast.FrameRows,
					Start: &ast.FrameBound{Kind: ast.BoundPreceding, Offset: num("2")},
					Upper: &ast.FrameBound{Kind: ast.BoundUnboundedFollowing},
				},
			},
		},
		{
			name: "single bound",
			sql:  "sum(a) OVER (GROUPS CURRENT ROW)",
			want: &ast.WindowSpec{
				Parens: true,
				Frame: &ast.WindowFrame{
					Units: ast.FrameGroups,
					Start: &ast.FrameBound{Kind: ast.BoundCurrentRow},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := parseExpr(t, tt.sql, postgres.Postgres).(*ast.FuncCall)
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Over)
		})
	}
}

func TestFilterClause(t *testing.T) {
	f, ok := parseExpr(t, "count(DISTINCT a) FILTER (WHERE b > 1) OVER (PARTITION BY c)", postgres.Postgres).(*ast.FuncCall)
	require.True(t, ok)
	assert.True(t, f.Distinct)
	assert.Equal(t, bin(ast.OpGt, id("b"), num("1")), f.Filter)
	require.NotNil(t, f.Over)
	assert.Equal(t, []ast.Expr{id("c")}, f.Over.PartitionBy)
}

// OVER and FILTER stay usable as aliases where they are not reserved.
func TestWindowWordsAsAliases(t *testing.T) {
	core := parseCore(t, "SELECT count(*) over, sum(a) filter FROM t", sqlite.SQLite)
	assert.Equal(t, id("over"), core.Columns[0].Alias)
	assert.Equal(t, id("filter"), core.Columns[1].Alias)

	core = parseCore(t, "SELECT a FROM t window", sqlite.SQLite)
	assert.Equal(t, id("window"), core.From.Source.(*ast.TableName).Alias)
}

func TestWindowClause(t *testing.T) {
	core := parseCore(t, "SELECT sum(a) OVER w FROM t WINDOW w AS (PARTITION BY b), v AS (w ORDER BY c)", mysql.MySQL)
	require.Len(t, core.Windows, 2)
	assert.Equal(t, &ast.NamedWindow{
		Name: id("w"),
		Spec: &ast.WindowSpec{Parens: true, PartitionBy: []ast.Expr{id("b")}},
	}, core.Windows[0])
	assert.Equal(t, id("w"), core.Windows[1].Spec.Name)

	// WINDOW is not reserved in SQLite, so a table alias cannot swallow it.
	core = parseCore(t, "SELECT a FROM t WINDOW w AS (ORDER BY a)", sqlite.SQLite)
	assert.Nil(t, core.From.Source.(*ast.TableName).Alias)
	require.Len(t, core.Windows, 1)
}

func TestFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		msg  string
	}{
		{"unbounded following start", "SELECT sum(a) OVER (ROWS UNBOUNDED FOLLOWING) FROM t", "frame start cannot be UNBOUNDED FOLLOWING"},
		{"following start", "SELECT sum(a) OVER (ROWS 1 FOLLOWING) FROM t", "frame start cannot be FOLLOWING"},
		{"unbounded preceding end", "SELECT sum(a) OVER (ROWS BETWEEN CURRENT ROW AND UNBOUNDED PRECEDING) FROM t", "frame end cannot be UNBOUNDED PRECEDING"},
		{"missing direction", "SELECT sum(a) OVER (ROWS 1) FROM t", "expected one of: PRECEDING, FOLLOWING, got \")\""},
		{"unclosed window", "SELECT sum(a) OVER (ORDER BY a FROM t", "expected ), got keyword FROM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := parseError(t, tt.sql, postgres.Postgres)
			assert.Equal(t, tt.msg, pe.Message)
		})
	}
}

// ---------- Row values ----------

func TestTuples(t *testing.T) {
	ab := &ast.TupleExpr{Items: []ast.Expr{id("a"), id("b")}}
	assert.Equal(t,
		bin(ast.OpEq, ab, &ast.TupleExpr{Items: []ast.Expr{num("1"), num("2")}}),
		parseExpr(t, "(a, b) = (1, 2)", ansi.ANSI))

	in, ok := parseExpr(t, "(a, b) IN ((1, 2), (3, 4))", postgres.Postgres).(*ast.InExpr)
	require.True(t, ok)
	assert.Equal(t, ab, in.Expr)
	require.Len(t, in.List, 2)
	assert.IsType(t, &ast.TupleExpr{}, in.List[1])

	// A single parenthesized expression is only grouping.
	assert.Equal(t, id("a"), parseExpr(t, "(a)", ansi.ANSI))
}

// ---------- Interval qualifiers ----------

func TestIntervalQualifier(t *testing.T) {
	lit, ok := parseExpr(t, "INTERVAL '1 2' DAY TO HOUR", postgres.Postgres).(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralInterval, Value: "1 2", Unit: "DAY", ToUnit: "HOUR"}, lit)

	pe := parseError(t, "SELECT INTERVAL '1 2' DAY TO t", postgres.Postgres)
	assert.Contains(t, pe.Message, "expected one of: YEAR,")
}

// ---------- Locking and table functions ----------

func TestLockClauses(t *testing.T) {
	stmt := parseSelect(t, "SELECT a FROM t, u LIMIT 1 FOR UPDATE OF t, s.u NOWAIT FOR SHARE SKIP LOCKED", postgres.Postgres)
	assert.Equal(t, []*ast.LockClause{
		{Strength: ast.LockUpdate, Of: []*ast.QualifiedName{col("t"), col("s", "u")}, Wait: ast.LockNoWait},
		{Strength: ast.LockShare, Wait: ast.LockSkipLocked},
	}, stmt.Locks)

	stmt = parseSelect(t, "SELECT a FROM t FOR UPDATE", mysql.MySQL)
	assert.Equal(t, []*ast.LockClause{{Strength: ast.LockUpdate}}, stmt.Locks)
}

func TestTableFunctions(t *testing.T) {
	core := parseCore(t, "SELECT * FROM generate_series(1, 3) AS g (n), LATERAL unnest(t.xs) u", postgres.Postgres)
	assert.Equal(t, &ast.TableFunction{
		Func:    &ast.FuncCall{Name: id("generate_series"), Args: []ast.Expr{num("1"), num("3")}},
		Alias:   id("g"),
		Columns: []*ast.Ident{id("n")},
	}, core.From.Source)
	require.Len(t, core.From.Joins, 1)
	assert.Equal(t, &ast.TableFunction{
		Lateral: true,
		Func:    &ast.FuncCall{Name: id("unnest"), Args: []ast.Expr{col("t", "xs")}},
		Alias:   id("u"),
	}, core.From.Joins[0].Table)

	core = parseCore(t, "SELECT * FROM t JOIN LATERAL (SELECT * FROM u WHERE u.id = t.id) AS x ON TRUE", postgres.Postgres)
	dt, ok := core.From.Joins[0].Table.(*ast.DerivedTable)
	require.True(t, ok)
	assert.True(t, dt.Lateral)
	assert.Equal(t, id("x"), dt.Alias)

	// A table that happens to be named lateral still parses.
	core = parseCore(t, "SELECT * FROM lateral", sqlite.SQLite)
	assert.Equal(t, &ast.TableName{Name: col("lateral")}, core.From.Source)
}
