package parser_test

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlt/pkg/dialects/mysql"
	"github.com/leapstack-labs/sqlt/pkg/dialects/postgres"
	"github.com/leapstack-labs/sqlt/pkg/dialects/sqlite"
	"github.com/leapstack-labs/sqlt/pkg/parser"
	"github.com/leapstack-labs/sqlt/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- Helpers ----------

func parse(t *testing.T, sql string, d dialect.Dialect) ast.Statement {
	t.Helper()
	stmt, err := parser.Parse(sql, d)
	require.NoError(t, err, "sql: %s", sql)
	ast.ClearSpans(stmt)
	return stmt
}

func parseSelect(t *testing.T, sql string, d dialect.Dialect) *ast.SelectStmt {
	t.Helper()
	stmt, ok := parse(t, sql, d).(*ast.SelectStmt)
	require.True(t, ok, "expected *ast.SelectStmt")
	return stmt
}

func parseCore(t *testing.T, sql string, d dialect.Dialect) *ast.SelectCore {
	t.Helper()
	core, ok := parseSelect(t, sql, d).Body.(*ast.SelectCore)
	require.True(t, ok, "expected *ast.SelectCore body")
	return core
}

func parseExpr(t *testing.T, sql string, d dialect.Dialect) ast.Expr {
	t.Helper()
	e, err := parser.ParseExpr(sql, d)
	require.NoError(t, err, "sql: %s", sql)
	ast.ClearSpans(e)
	return e
}

func parseError(t *testing.T, sql string, d dialect.Dialect) *parser.ParseError {
	t.Helper()
	_, err := parser.Parse(sql, d)
	require.Error(t, err, "sql: %s", sql)
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	return pe
}

func id(name string) *ast.Ident { return ast.NewIdent(name) }

func num(text string) *ast.Literal { return ast.NewNumber(text) }

func bin(op ast.BinaryOp, l, r ast.Expr) *ast.BinaryExpr { return ast.NewBinary(op, l, r) }

func col(parts ...string) *ast.QualifiedName { return ast.NewQualifiedName(parts...) }

// ---------- Expressions ----------

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		sql  string
		want ast.Expr
	}{
		{"a OR b AND c", bin(ast.OpOr, id("a"), bin(ast.OpAnd, id("b"), id("c")))},
		{"a AND b OR c", bin(ast.OpOr, bin(ast.OpAnd, id("a"), id("b")), id("c"))},
		{"a + b * c", bin(ast.OpAdd, id("a"), bin(ast.OpMul, id("b"), id("c")))},
		{"a - b - c", bin(ast.OpSub, bin(ast.OpSub, id("a"), id("b")), id("c"))},
		{"a / b % c", bin(ast.OpMod, bin(ast.OpDiv, id("a"), id("b")), id("c"))},
		{"(a - b) - c", bin(ast.OpSub, bin(ast.OpSub, id("a"), id("b")), id("c"))},
		{"a - (b - c)", bin(ast.OpSub, id("a"), bin(ast.OpSub, id("b"), id("c")))},
		{"a = 1 AND b <> 2", bin(ast.OpAnd, bin(ast.OpEq, id("a"), num("1")), bin(ast.OpNe, id("b"), num("2")))},
		{"a != b", bin(ast.OpNe, id("a"), id("b"))},
		{"a || b = c", bin(ast.OpEq, bin(ast.OpConcat, id("a"), id("b")), id("c"))},
		{"NOT a = b", &ast.UnaryExpr{Op: ast.OpNot, Operand: bin(ast.OpEq, id("a"), id("b"))}},
		{"NOT a AND b", bin(ast.OpAnd, &ast.UnaryExpr{Op: ast.OpNot, Operand: id("a")}, id("b"))},
		{"-a * b", bin(ast.OpMul, &ast.UnaryExpr{Op: ast.OpNeg, Operand: id("a")}, id("b"))},
		{"- -1", &ast.UnaryExpr{Op: ast.OpNeg, Operand: &ast.UnaryExpr{Op: ast.OpNeg, Operand: num("1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.sql, ansi.ANSI))
		})
	}
}

func TestPostfixCastBindsTighterThanArithmetic(t *testing.T) {
	got := parseExpr(t, "x::int + -y::text", postgres.Postgres)
	want := bin(ast.OpAdd,
		&ast.CastExpr{Expr: id("x"), Type: &ast.DataType{Name: "INT"}, Postfix: true},
		&ast.UnaryExpr{Op: ast.OpNeg, Operand: &ast.CastExpr{Expr: id("y"), Type: &ast.DataType{Name: "TEXT"}, Postfix: true}},
	)
	assert.Equal(t, want, got)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		sql  string
		want ast.Expr
	}{
		{
			"a BETWEEN 1 AND 2 AND c",
			bin(ast.OpAnd, &ast.BetweenExpr{Expr: id("a"), Low: num("1"), High: num("2")}, id("c")),
		},
		{
			"a NOT BETWEEN b + 1 AND 10",
			&ast.BetweenExpr{Expr: id("a"), Not: true, Low: bin(ast.OpAdd, id("b"), num("1")), High: num("10")},
		},
		{
			"a IN (1, 2)",
			&ast.InExpr{Expr: id("a"), List: []ast.Expr{num("1"), num("2")}},
		},
		{
			"a NOT LIKE 'x!%' ESCAPE '!'",
			&ast.LikeExpr{Expr: id("a"), Not: true, Pattern: ast.NewString("x!%"), Escape: ast.NewString("!")},
		},
		{
			"a IS NULL",
			&ast.IsExpr{Expr: id("a"), Kind: ast.IsNull},
		},
		{
			"a IS NOT TRUE",
			&ast.IsExpr{Expr: id("a"), Not: true, Kind: ast.IsTrue},
		},
		{
			"a IS UNKNOWN",
			&ast.IsExpr{Expr: id("a"), Kind: ast.IsUnknown},
		},
		{
			"a IS NOT DISTINCT FROM b + 1",
			&ast.IsExpr{Expr: id("a"), Not: true, Kind: ast.IsDistinctFrom, Right: bin(ast.OpAdd, id("b"), num("1"))},
		},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.sql, ansi.ANSI))
		})
	}
}

func TestInSubquery(t *testing.T) {
	got := parseExpr(t, "a IN (SELECT b FROM t)", ansi.ANSI)
	in, ok := got.(*ast.InExpr)
	require.True(t, ok)
	require.NotNil(t, in.Query)
	assert.Nil(t, in.List)
}

func TestLiterals(t *testing.T) {
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralBoolean, Value: "TRUE"}, parseExpr(t, "true", ansi.ANSI))
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralNull, Value: "NULL"}, parseExpr(t, "NULL", ansi.ANSI))
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralEscapedString, Value: "a\tb"}, parseExpr(t, `E'a\tb'`, postgres.Postgres))
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralNationalString, Value: "x"}, parseExpr(t, "N'x'", ansi.ANSI))
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralHexString, Value: "ff"}, parseExpr(t, "X'ff'", ansi.ANSI))
	assert.Equal(t, &ast.Literal{Kind: ast.LiteralInterval, Value: "3", Unit: "DAY"}, parseExpr(t, "INTERVAL '3' day", postgres.Postgres))
}

func TestFunctionCalls(t *testing.T) {
	tests := []struct {
		sql  string
		want ast.Expr
	}{
		{"count(*)", &ast.FuncCall{Name: id("count"), Star: true}},
		{"COUNT(DISTINCT a)", &ast.FuncCall{Name: id("COUNT"), Distinct: true, Args: []ast.Expr{id("a")}}},
		{"now()", &ast.FuncCall{Name: id("now")}},
		{"coalesce(a, 0)", &ast.FuncCall{Name: id("coalesce"), Args: []ast.Expr{id("a"), num("0")}}},
		{"left(s, 3)", &ast.FuncCall{Name: id("left"), Args: []ast.Expr{id("s"), num("3")}}},
		{"current_date", &ast.FuncCall{Name: id("CURRENT_DATE"), NoParens: true}},
		{"CURRENT_TIMESTAMP", &ast.FuncCall{Name: id("CURRENT_TIMESTAMP"), NoParens: true}},
		{"user", &ast.FuncCall{Name: id("user"), NoParens: true}},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExpr(t, tt.sql, postgres.Postgres))
		})
	}
}

func TestCaseAndCast(t *testing.T) {
	got := parseExpr(t, "CASE WHEN a > 0 THEN 'pos' ELSE 'neg' END", ansi.ANSI)
	assert.Equal(t, &ast.CaseExpr{
		Whens: []*ast.WhenClause{{Condition: bin(ast.OpGt, id("a"), num("0")), Result: ast.NewString("pos")}},
		Else:  ast.NewString("neg"),
	}, got)

	got = parseExpr(t, "CASE x WHEN 1 THEN 'a' WHEN 2 THEN 'b' END", ansi.ANSI)
	c, ok := got.(*ast.CaseExpr)
	require.True(t, ok)
	assert.Equal(t, id("x"), c.Operand)
	assert.Len(t, c.Whens, 2)
	assert.Nil(t, c.Else)

	got = parseExpr(t, "CAST(a AS decimal(10, 2))", ansi.ANSI)
	assert.Equal(t, &ast.CastExpr{Expr: id("a"), Type: &ast.DataType{Name: "DECIMAL", Params: []string{"10", "2"}}}, got)

	got = parseExpr(t, "CAST(t AS timestamp with time zone)", postgres.Postgres)
	assert.Equal(t, &ast.DataType{Name: "TIMESTAMP", Suffix: "WITH TIME ZONE"}, got.(*ast.CastExpr).Type)

	got = parseExpr(t, "CAST(x AS double precision)", ansi.ANSI)
	assert.Equal(t, "DOUBLE PRECISION", got.(*ast.CastExpr).Type.Name)
}

func TestNamesAndStars(t *testing.T) {
	assert.Equal(t, col("s", "t", "c"), parseExpr(t, "s.t.c", ansi.ANSI))
	assert.Equal(t, &ast.StarExpr{Qualifier: []*ast.Ident{id("t")}}, parseExpr(t, "t.*", ansi.ANSI))

	quoted := parseExpr(t, `"select"`, ansi.ANSI)
	assert.Equal(t, &ast.Ident{Name: "select", Quoted: true}, quoted)

	_, err := parser.ParseExpr("t.select", ansi.ANSI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one of: identifier, *, got keyword SELECT")
}

func TestPlaceholders(t *testing.T) {
	core := parseCore(t, "SELECT ?, :name, ?", sqlite.SQLite)
	require.Len(t, core.Columns, 3)
	assert.Equal(t, &ast.Placeholder{Kind: ast.PlaceholderQuestion, Index: 1}, core.Columns[0].Expr)
	assert.Equal(t, &ast.Placeholder{Kind: ast.PlaceholderNamed, Index: 2, Name: "name"}, core.Columns[1].Expr)
	assert.Equal(t, &ast.Placeholder{Kind: ast.PlaceholderQuestion, Index: 3}, core.Columns[2].Expr)

	core = parseCore(t, "SELECT $2, $1", postgres.Postgres)
	assert.Equal(t, &ast.Placeholder{Kind: ast.PlaceholderDollar, Index: 2}, core.Columns[0].Expr)
	assert.Equal(t, &ast.Placeholder{Kind: ast.PlaceholderDollar, Index: 1}, core.Columns[1].Expr)

	pe := parseError(t, "SELECT $0", postgres.Postgres)
	assert.Contains(t, pe.Message, `invalid placeholder "$0"`)
}

// ---------- Queries ----------

func TestSelectClauses(t *testing.T) {
	core := parseCore(t, "SELECT DISTINCT a AS x, b y FROM t WHERE a > 1 GROUP BY a, b HAVING count(*) > 2", ansi.ANSI)
	assert.True(t, core.Distinct)
	require.Len(t, core.Columns, 2)
	assert.Equal(t, id("x"), core.Columns[0].Alias)
	assert.Equal(t, id("y"), core.Columns[1].Alias)
	assert.Equal(t, &ast.TableName{Name: col("t")}, core.From.Source)
	assert.Equal(t, bin(ast.OpGt, id("a"), num("1")), core.Where)
	assert.Equal(t, []ast.Expr{id("a"), id("b")}, core.GroupBy)
	assert.NotNil(t, core.Having)
}

func TestSelectWithoutFrom(t *testing.T) {
	stmt := parseSelect(t, "SELECT 1", ansi.ANSI)
	assert.Equal(t, &ast.SelectStmt{
		Body: &ast.SelectCore{Columns: []*ast.SelectItem{{Expr: num("1")}}},
	}, stmt)
}

func TestClauseOrderErrors(t *testing.T) {
	pe := parseError(t, "SELECT a FROM t GROUP BY a WHERE b = 1", postgres.Postgres)
	assert.Equal(t,
		"expected one of: HAVING, WINDOW, UNION, INTERSECT, EXCEPT, ORDER BY, LIMIT, OFFSET, FETCH, FOR UPDATE, FOR SHARE, got keyword WHERE",
		pe.Message)
	assert.Equal(t, "keyword WHERE", pe.Got)
	assert.Equal(t, 27, pe.Pos.Offset)
	assert.Equal(t, 27, pe.Span.Start.Offset)
	assert.Equal(t, 32, pe.Span.End.Offset)

	pe = parseError(t, "SELECT a FROM t ORDER BY a WHERE b = 1", ansi.ANSI)
	assert.Equal(t, []string{"OFFSET", "FETCH", "FOR UPDATE", "FOR SHARE"}, pe.Expected)

	pe = parseError(t, "SELECT a FROM t LIMIT 1 WHERE b = 1", postgres.Postgres)
	assert.Equal(t, []string{"FOR UPDATE", "FOR SHARE"}, pe.Expected)

	pe = parseError(t, "SELECT a FROM t LIMIT 1 WHERE b = 1", sqlite.SQLite)
	assert.Contains(t, pe.Message, "unexpected keyword WHERE after end of statement")
}

func TestMissingPieces(t *testing.T) {
	tests := []struct {
		sql     string
		message string
	}{
		{"SELECT", "expected expression, got end of input"},
		{"SELECT a FROM", "expected one of: table name, (, got end of input"},
		{"SELECT a FROM t WHERE", "expected expression, got end of input"},
		{"SELECT (a", "expected ), got end of input"},
		{"SELECT CASE END", "expected expression, got keyword END"},
		{"SELECT CASE a END", "expected WHEN, got keyword END"},
		{"DROP TABLE t", "expected one of: SELECT, WITH, VALUES, INSERT, UPDATE, DELETE, CREATE, got identifier \"DROP\""},
		{"", "empty statement"},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			pe := parseError(t, tt.sql, ansi.ANSI)
			assert.Equal(t, tt.message, pe.Message)
		})
	}
}

func TestSetOperations(t *testing.T) {
	stmt := parseSelect(t, "SELECT 1 UNION SELECT 2 INTERSECT SELECT 3", ansi.ANSI)
	union, ok := stmt.Body.(*ast.SetOperation)
	require.True(t, ok)
	assert.Equal(t, ast.Union, union.Op)
	assert.IsType(t, &ast.SelectCore{}, union.Left)
	intersect, ok := union.Right.(*ast.SetOperation)
	require.True(t, ok, "INTERSECT binds tighter than UNION")
	assert.Equal(t, ast.Intersect, intersect.Op)

	stmt = parseSelect(t, "SELECT 1 EXCEPT ALL SELECT 2 UNION DISTINCT SELECT 3", ansi.ANSI)
	outer, ok := stmt.Body.(*ast.SetOperation)
	require.True(t, ok)
	assert.Equal(t, ast.Union, outer.Op)
	assert.False(t, outer.All)
	inner, ok := outer.Left.(*ast.SetOperation)
	require.True(t, ok, "set operations are left-associative")
	assert.Equal(t, ast.Except, inner.Op)
	assert.True(t, inner.All)
}

func TestParenthesizedQueryOperand(t *testing.T) {
	stmt := parseSelect(t, "(SELECT a FROM t ORDER BY a LIMIT 1) UNION SELECT b FROM u", postgres.Postgres)
	so, ok := stmt.Body.(*ast.SetOperation)
	require.True(t, ok)
	pq, ok := so.Left.(*ast.ParenQuery)
	require.True(t, ok)
	assert.NotNil(t, pq.Query.Limit)
	assert.Len(t, pq.Query.OrderBy, 1)
}

func TestWithClause(t *testing.T) {
	stmt := parseSelect(t, "WITH RECURSIVE r (n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM r WHERE n < 5), s AS (SELECT 2) SELECT n FROM r", postgres.Postgres)
	require.NotNil(t, stmt.With)
	assert.True(t, stmt.With.Recursive)
	require.Len(t, stmt.With.CTEs, 2)
	assert.Equal(t, id("r"), stmt.With.CTEs[0].Name)
	assert.Equal(t, []*ast.Ident{id("n")}, stmt.With.CTEs[0].Columns)
	assert.IsType(t, &ast.SetOperation{}, stmt.With.CTEs[0].Query.Body)
	assert.Nil(t, stmt.With.CTEs[1].Columns)
}

func TestValues(t *testing.T) {
	stmt := parseSelect(t, "VALUES (1, 'a'), (2, 'b')", ansi.ANSI)
	v, ok := stmt.Body.(*ast.ValuesExpr)
	require.True(t, ok)
	assert.Equal(t, [][]ast.Expr{
		{num("1"), ast.NewString("a")},
		{num("2"), ast.NewString("b")},
	}, v.Rows)

	pe := parseError(t, "VALUES (1, 2), (3)", ansi.ANSI)
	assert.Equal(t, "VALUES lists must all be the same length", pe.Message)
	assert.Equal(t, 15, pe.Pos.Offset)
}

func TestOrderBy(t *testing.T) {
	stmt := parseSelect(t, "SELECT a FROM t ORDER BY a DESC NULLS FIRST, b, c ASC NULLS LAST", postgres.Postgres)
	assert.Equal(t, []*ast.OrderByItem{
		{Expr: id("a"), Direction: ast.SortDesc, Nulls: ast.NullsFirst},
		{Expr: id("b")},
		{Expr: id("c"), Direction: ast.SortAsc, Nulls: ast.NullsLast},
	}, stmt.OrderBy)
}

func TestLimitForms(t *testing.T) {
	want := &ast.LimitClause{Count: num("10"), Offset: num("5")}
	tests := []struct {
		name string
		sql  string
		d    dialect.Dialect
	}{
		{"limit offset", "SELECT a FROM t LIMIT 10 OFFSET 5", postgres.Postgres},
		{"offset limit", "SELECT a FROM t OFFSET 5 LIMIT 10", postgres.Postgres},
		{"offset fetch", "SELECT a FROM t OFFSET 5 ROWS FETCH NEXT 10 ROWS ONLY", ansi.ANSI},
		{"limit comma", "SELECT a FROM t LIMIT 5, 10", mysql.MySQL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseSelect(t, tt.sql, tt.d)
			assert.Equal(t, want, stmt.Limit)
		})
	}

	stmt := parseSelect(t, "SELECT a FROM t FETCH FIRST ROW ONLY", ansi.ANSI)
	assert.Equal(t, &ast.LimitClause{Count: num("1")}, stmt.Limit)

	stmt = parseSelect(t, "SELECT a FROM t OFFSET 3", postgres.Postgres)
	assert.Equal(t, &ast.LimitClause{Offset: num("3")}, stmt.Limit)

	stmt = parseSelect(t, "SELECT a FROM t LIMIT ALL", postgres.Postgres)
	assert.Nil(t, stmt.Limit)

	stmt = parseSelect(t, "SELECT a FROM t ORDER BY a OFFSET 2 ROWS FETCH FIRST 10 PERCENT ROWS WITH TIES", ansi.ANSI)
	assert.Equal(t, &ast.LimitClause{Count: num("10"), Offset: num("2"), Percent: true, WithTies: true}, stmt.Limit)

	stmt = parseSelect(t, "SELECT a FROM t ORDER BY a FETCH NEXT ROW WITH TIES", postgres.Postgres)
	assert.Equal(t, &ast.LimitClause{Count: num("1"), WithTies: true}, stmt.Limit)

	pe := parseError(t, "SELECT a FROM t FETCH FIRST 3 ROWS WITH TIES", postgres.Postgres)
	assert.Equal(t, "WITH TIES requires ORDER BY", pe.Message)
	assert.Equal(t, 16, pe.Pos.Offset)

	pe = parseError(t, "SELECT a FROM t FETCH FIRST 3 ROWS", ansi.ANSI)
	assert.Equal(t, []string{"ONLY", "WITH TIES"}, pe.Expected)
}

func TestSubqueries(t *testing.T) {
	core := parseCore(t, "SELECT (SELECT max(b) FROM u) AS m FROM t WHERE EXISTS (SELECT 1 FROM v)", ansi.ANSI)
	assert.IsType(t, &ast.SubqueryExpr{}, core.Columns[0].Expr)
	assert.IsType(t, &ast.ExistsExpr{}, core.Where)
}

// ---------- Statements ----------

func TestInsert(t *testing.T) {
	stmt := parse(t, "INSERT INTO s.t (a, b) VALUES (1, 2) RETURNING a", postgres.Postgres)
	ins, ok := stmt.(*ast.InsertStmt)
	require.True(t, ok)
	assert.Equal(t, col("s", "t"), ins.Table)
	assert.Equal(t, []*ast.Ident{id("a"), id("b")}, ins.Columns)
	assert.IsType(t, &ast.ValuesExpr{}, ins.Query.Body)
	assert.Equal(t, []*ast.SelectItem{{Expr: id("a")}}, ins.Returning)

	stmt = parse(t, "INSERT INTO t (SELECT * FROM u)", ansi.ANSI)
	ins = stmt.(*ast.InsertStmt)
	assert.Nil(t, ins.Columns)
	assert.IsType(t, &ast.ParenQuery{}, ins.Query.Body)

	pe := parseError(t, "INSERT INTO t (a)", ansi.ANSI)
	assert.Equal(t, "expected one of: VALUES, SELECT, WITH, (, got end of input", pe.Message)
}

func TestUpdate(t *testing.T) {
	stmt := parse(t, "UPDATE t AS x SET a = a + 1, b = 'z' WHERE id = 3", ansi.ANSI)
	up, ok := stmt.(*ast.UpdateStmt)
	require.True(t, ok)
	assert.Equal(t, &ast.TableName{Name: col("t"), Alias: id("x")}, up.Table)
	require.Len(t, up.Set, 2)
	assert.Equal(t, col("a"), up.Set[0].Column)
	assert.Equal(t, bin(ast.OpAdd, id("a"), num("1")), up.Set[0].Value)
	assert.Equal(t, bin(ast.OpEq, id("id"), num("3")), up.Where)
}

func TestDelete(t *testing.T) {
	stmt := parse(t, "DELETE FROM t WHERE a IS NULL RETURNING *", sqlite.SQLite)
	del, ok := stmt.(*ast.DeleteStmt)
	require.True(t, ok)
	assert.Equal(t, &ast.TableName{Name: col("t")}, del.Table)
	assert.Equal(t, &ast.IsExpr{Expr: id("a"), Kind: ast.IsNull}, del.Where)
	require.Len(t, del.Returning, 1)
	assert.IsType(t, &ast.StarExpr{}, del.Returning[0].Expr)

	pe := parseError(t, "DELETE FROM t x y", sqlite.SQLite)
	assert.Equal(t, []string{"WHERE", "RETURNING"}, pe.Expected)
}

// ---------- Entry points ----------

func TestParseStatementReturnsRemainingTokens(t *testing.T) {
	tokens, err := parser.Tokenize("SELECT 1; SELECT 2", ansi.ANSI)
	require.NoError(t, err)

	stmt, rest, err := parser.ParseStatement(tokens, ansi.ANSI)
	require.NoError(t, err)
	assert.IsType(t, &ast.SelectStmt{}, stmt)
	require.Len(t, rest, 3)
	assert.Equal(t, token.SELECT, rest[0].Type)
	assert.Equal(t, token.EOF, rest[2].Type)

	stmt, rest, err = parser.ParseStatement(rest, ansi.ANSI)
	require.NoError(t, err)
	assert.NotNil(t, stmt)
	require.Len(t, rest, 1)
	assert.Equal(t, token.EOF, rest[0].Type)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	pe := parseError(t, "SELECT 1; SELECT 2", ansi.ANSI)
	assert.Equal(t, "unexpected keyword SELECT after end of statement", pe.Message)
}

func TestParseScript(t *testing.T) {
	stmts, err := parser.ParseScript("SELECT 1; ; INSERT INTO t VALUES (1);\nDELETE FROM t", ansi.ANSI)
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.IsType(t, &ast.SelectStmt{}, stmts[0])
	assert.IsType(t, &ast.InsertStmt{}, stmts[1])
	assert.IsType(t, &ast.DeleteStmt{}, stmts[2])

	stmts, err = parser.ParseScript("  -- only a comment\n", ansi.ANSI)
	require.NoError(t, err)
	assert.Empty(t, stmts)

	_, err = parser.ParseScript("SELECT 1 SELECT 2", ansi.ANSI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got keyword SELECT")
}

func TestLexErrorsSurfaceThroughParse(t *testing.T) {
	_, err := parser.Parse("SELECT 'abc", ansi.ANSI)
	require.Error(t, err)
	var lexErr *parser.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 7, lexErr.Pos.Offset)
	assert.Equal(t, parser.ErrUnterminatedString, lexErr.Message)
}

func TestMaxDepth(t *testing.T) {
	nested := "SELECT " + strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)
	_, err := parser.Parse(nested, ansi.ANSI)
	require.Error(t, err)
	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "maximum nesting depth of 256 exceeded", pe.Message)

	shallow := "SELECT " + strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)
	_, err = parser.Parse(shallow, ansi.ANSI)
	require.NoError(t, err)

	_, err = parser.ParseWithOptions(shallow, ansi.ANSI, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum nesting depth of 50 exceeded")

	subqueries := "SELECT * FROM " + strings.Repeat("(SELECT * FROM ", 300) + "t" + strings.Repeat(")", 300)
	_, err = parser.Parse(subqueries, ansi.ANSI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum nesting depth")
}

func TestSpans(t *testing.T) {
	stmt, err := parser.Parse("SELECT a + b\nFROM t", ansi.ANSI)
	require.NoError(t, err)
	sel := stmt.(*ast.SelectStmt)
	core := sel.Body.(*ast.SelectCore)

	sum := core.Columns[0].Expr
	assert.Equal(t, token.Position{Line: 1, Column: 8, Offset: 7}, sum.Pos())
	assert.Equal(t, token.Position{Line: 1, Column: 13, Offset: 12}, sum.End())

	from := core.From
	assert.Equal(t, 2, from.Pos().Line)
	assert.Equal(t, 19, sel.End().Offset)
}
