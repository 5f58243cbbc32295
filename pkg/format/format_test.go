package format_test

import (
	"testing"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlt/pkg/dialects/databricks"
	"github.com/leapstack-labs/sqlt/pkg/dialects/datafusion"
	"github.com/leapstack-labs/sqlt/pkg/dialects/mysql"
	"github.com/leapstack-labs/sqlt/pkg/dialects/postgres"
	"github.com/leapstack-labs/sqlt/pkg/dialects/sqlite"
	"github.com/leapstack-labs/sqlt/pkg/format"
	"github.com/leapstack-labs/sqlt/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, sql string, d dialect.Dialect) ast.Statement {
	t.Helper()
	stmt, err := parser.Parse(sql, d)
	require.NoError(t, err, "parse %q", sql)
	ast.ClearSpans(stmt)
	return stmt
}

var corpus = []struct {
	dialect dialect.Dialect
	sqls    []string
}{
	{ansi.ANSI, []string{
		"SELECT a, b AS c FROM t WHERE a = 1 AND (b OR c)",
		"SELECT DISTINCT t.a, count(*) FROM s.t t GROUP BY t.a HAVING count(*) > 1 ORDER BY 2 DESC NULLS LAST",
		"SELECT * FROM a NATURAL JOIN b FULL OUTER JOIN c ON b.id = c.id CROSS JOIN d",
		"WITH RECURSIVE r (n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM r WHERE n < 10) SELECT n FROM r",
		"SELECT a FROM t ORDER BY a OFFSET 5 ROWS FETCH FIRST 10 ROWS ONLY",
		"SELECT a FROM t OFFSET 3 ROWS",
		"SELECT CASE WHEN a IS NULL THEN 'none' WHEN a BETWEEN 1 AND 5 THEN 'low' ELSE 'high' END FROM t",
		"SELECT CASE a WHEN 1 THEN 'one' END FROM t",
		"SELECT N'naïve', X'0aFF', 'it''s', INTERVAL '3' DAY, - -1, NOT NOT a FROM t",
		"SELECT a || b || c, a - (b - c), (a + b) * c, -a * b, -(a + b) FROM t",
		"SELECT * FROM t WHERE a NOT IN (SELECT b FROM u) AND EXISTS (SELECT 1 FROM v WHERE v.id = t.id)",
		"SELECT a FROM t WHERE a LIKE 'x%' ESCAPE '!' AND b IS NOT DISTINCT FROM c",
		"(SELECT a FROM t ORDER BY a FETCH FIRST 1 ROWS ONLY) UNION (SELECT b FROM u) EXCEPT SELECT c FROM v",
		"SELECT 1 UNION SELECT 2 INTERSECT SELECT 3",
		"SELECT CAST(a AS DECIMAL(10, 2)), CURRENT_DATE, ? FROM t",
		`SELECT "select", "Mixed Case" FROM "from"`,
		"SELECT a FROM (SELECT a FROM t) AS x, (u JOIN v USING (id))",
		"VALUES (1, 'a'), (2, 'b')",
		"INSERT INTO t (a, b) VALUES (1, 'x'), (2, NULL)",
		"UPDATE t AS x SET a = a + 1 WHERE x.b IS TRUE",
		"DELETE FROM t WHERE a IN (1, 2, 3)",
		"CREATE TABLE t (id INT PRIMARY KEY, name VARCHAR(20) NOT NULL DEFAULT 'x', CONSTRAINT ck CHECK (id > 0))",
		"CREATE TABLE t2 AS SELECT * FROM t",
		"SELECT rank() OVER (PARTITION BY a ORDER BY b DESC ROWS BETWEEN 1 PRECEDING AND CURRENT ROW), count(*) FILTER (WHERE b > 0) OVER w FROM t WINDOW w AS (PARTITION BY c)",
		"SELECT sum(a) OVER (w RANGE UNBOUNDED PRECEDING), sum(a) OVER () FROM t WINDOW w AS (ORDER BY b), v AS (w)",
		"SELECT a FROM t ORDER BY a FETCH FIRST 10 PERCENT ROWS WITH TIES",
		"SELECT a FROM t WHERE (a, b) IN ((1, 2), (3, 4)) AND (a, b) = (c, d)",
		"SELECT INTERVAL '1 2' DAY TO HOUR FROM t",
	}},
	{postgres.Postgres, []string{
		"SELECT a::int, b::varchar(10)::text, (-a)::numeric FROM t WHERE a ILIKE 'x%' AND b NOT ILIKE $1",
		`SELECT E'a\nb''c', $2, $1 FROM t LIMIT 10 OFFSET 5`,
		"SELECT a FROM t ORDER BY a NULLS FIRST LIMIT ALL",
		"SELECT a FROM t OFFSET 5",
		"SELECT a FROM t LIMIT ALL OFFSET 5",
		"SELECT left(name, 3), user, CURRENT_TIMESTAMP FROM t",
		"SELECT * FROM a LEFT JOIN b ON a.id = b.id RIGHT JOIN c ON c.id = b.id",
		`SELECT "select" FROM "from" WHERE "select" <> 'x'`,
		"INSERT INTO t (a) SELECT b FROM u RETURNING a, b AS c",
		"UPDATE t SET a = 1, b = b * 2 RETURNING *",
		"DELETE FROM t WHERE a = 1 RETURNING id",
		"CREATE TEMPORARY TABLE IF NOT EXISTS s.t (id BIGINT, ts TIMESTAMP WITH TIME ZONE, ref INT REFERENCES u (id), FOREIGN KEY (id) REFERENCES v)",
		"SELECT a FROM t WHERE a IS DISTINCT FROM b = c",
		"SELECT * FROM t, LATERAL (SELECT * FROM u WHERE u.id = t.id) AS x, generate_series(1, 3) AS g(n) FOR UPDATE OF t SKIP LOCKED",
		"SELECT a FROM t ORDER BY a LIMIT 5 FOR SHARE NOWAIT FOR UPDATE OF u",
		"SELECT a FROM t ORDER BY a FETCH FIRST 5 ROWS WITH TIES",
		"SELECT count(*) FILTER (WHERE a > 0) OVER (PARTITION BY b GROUPS 2 PRECEDING) FROM t",
	}},
	{mysql.MySQL, []string{
		"SELECT `key`, \"str\", 'a\\'b' FROM t LIMIT 5, 10",
		"SELECT a FROM t WHERE b = ? LIMIT ?, ?",
		"SELECT a FROM t WHERE b = ? LIMIT ? OFFSET ?",
		"SELECT replace(a, 'x', 'y') FROM t # note",
		"SELECT CAST(a AS INT UNSIGNED) FROM t",
		"SELECT a FROM t LIMIT 9223372036854775807 OFFSET 5",
		"INSERT INTO t VALUES (1, 'a\\\\b')",
		"CREATE TABLE IF NOT EXISTS t (id INT NOT NULL, UNIQUE (id))",
		"SELECT a, row_number() OVER (ORDER BY a) FROM t, LATERAL (SELECT b FROM u WHERE u.a = t.a) AS x LIMIT 5 FOR UPDATE",
		"SELECT sum(a) OVER w FROM t WINDOW w AS (PARTITION BY b)",
	}},
	{sqlite.SQLite, []string{
		"SELECT [order].a, `b`, :name, ?, $3 FROM [order] LIMIT 1",
		"SELECT a FROM t ORDER BY a DESC NULLS LAST LIMIT 10 OFFSET 20",
		"SELECT x'ff', a || b FROM t",
		"SELECT a FROM t LIMIT 9223372036854775807 OFFSET 5",
		"SELECT a FROM t LIMIT -1 OFFSET 5",
		"CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT UNIQUE)",
		"UPDATE t SET a = 1 WHERE b = 2 RETURNING *",
		"SELECT sum(a) FILTER (WHERE a > 0) OVER (ORDER BY b GROUPS BETWEEN 1 PRECEDING AND 1 FOLLOWING) FROM t",
		"SELECT value FROM json_each('[1, 2]') WHERE (a, b) = (1, 2)",
	}},
	{databricks.Databricks, []string{
		"SELECT 10L, 2.5BD, 1Y, `a b` FROM t WHERE c ILIKE 'x' LIMIT 5",
		`SELECT a::string, "double quoted" FROM t OFFSET 5`,
		"SELECT INTERVAL '2' HOUR, :p FROM t",
		"SELECT sum(a) OVER (PARTITION BY b), INTERVAL '1 2' DAY TO HOUR FROM t",
		"SELECT * FROM t, LATERAL explode(t.xs) AS e(x)",
	}},
	{datafusion.DataFusion, []string{
		"SELECT a::INT, count(*) FILTER (WHERE b ILIKE 'x%') OVER (PARTITION BY c) FROM t OFFSET 5",
		"SELECT * FROM unnest($1) AS u(x) ORDER BY x NULLS FIRST LIMIT 10",
		`SELECT "Mixed", E'a\nb' FROM t FULL JOIN u ON t.id = u.id`,
	}},
}

// Rendering a parsed statement and parsing the result gives back the
// same tree, and rendering is stable from then on.
func TestRoundTrip(t *testing.T) {
	for _, c := range corpus {
		for _, sql := range c.sqls {
			t.Run(c.dialect.Name()+"/"+sql, func(t *testing.T) {
				stmt := parse(t, sql, c.dialect)

				out := format.ToSQL(stmt, c.dialect)
				again := parse(t, out, c.dialect)
				assert.Equal(t, stmt, again, "generated: %s", out)
				assert.Equal(t, out, format.ToSQL(again, c.dialect), "generation is not idempotent")

				pretty := format.ToSQLWith(stmt, c.dialect, format.Options{Pretty: true})
				assert.Equal(t, stmt, parse(t, pretty, c.dialect), "pretty: %s", pretty)
			})
		}
	}
}

func TestToSQL(t *testing.T) {
	tests := []struct {
		name     string
		dialect  dialect.Dialect
		input    string
		expected string
	}{
		{"keywords upper", ansi.ANSI, "select a, b as c from t where a = 1 and (b or c)", "SELECT a, b AS c FROM t WHERE a = 1 AND (b OR c)"},
		{"postfix cast", postgres.Postgres, "SELECT a::int FROM t LIMIT 10 OFFSET 5", "SELECT a::INT FROM t LIMIT 10 OFFSET 5"},
		{"fetch", ansi.ANSI, "SELECT a FROM t ORDER BY a DESC NULLS LAST OFFSET 5 ROW FETCH NEXT 10 ROWS ONLY", "SELECT a FROM t ORDER BY a DESC NULLS LAST OFFSET 5 ROWS FETCH FIRST 10 ROWS ONLY"},
		{"fetch default count", ansi.ANSI, "SELECT a FROM t FETCH FIRST ROW ONLY", "SELECT a FROM t FETCH FIRST 1 ROWS ONLY"},
		{"mysql limit comma", mysql.MySQL, "select `key`, \"s\" from t limit 5, 10", "SELECT `key`, 's' FROM t LIMIT 10 OFFSET 5"},
		{"joins", ansi.ANSI, "SELECT * FROM a INNER JOIN b ON a.id = b.id LEFT OUTER JOIN c USING (id), d", "SELECT * FROM a JOIN b ON a.id = b.id LEFT JOIN c USING (id), d"},
		{"set operations", ansi.ANSI, "SELECT 1 UNION ALL SELECT 2 INTERSECT SELECT 3", "SELECT 1 UNION ALL SELECT 2 INTERSECT SELECT 3"},
		{"distinct set operation", ansi.ANSI, "SELECT 1 UNION DISTINCT SELECT 2", "SELECT 1 UNION SELECT 2"},
		{"cte", ansi.ANSI, "WITH x (n) AS (SELECT 1) SELECT n FROM x", "WITH x (n) AS (SELECT 1) SELECT n FROM x"},
		{"insert", postgres.Postgres, "INSERT INTO t (a, b) VALUES (1, 'x''y') RETURNING a", "INSERT INTO t (a, b) VALUES (1, 'x''y') RETURNING a"},
		{"create table", postgres.Postgres,
			"create table if not exists t (id int primary key, name text not null default 'x', check (id > 0))",
			"CREATE TABLE IF NOT EXISTS t (id INT PRIMARY KEY, name TEXT NOT NULL DEFAULT 'x', CHECK (id > 0))"},
		{"nested signs", ansi.ANSI, "SELECT - -1, NOT NOT a FROM t", "SELECT -(-1), NOT NOT a FROM t"},
		{"niladic keywords", postgres.Postgres, "select current_date, user from t", "SELECT CURRENT_DATE, user FROM t"},
		{"e string", postgres.Postgres, `SELECT E'a\tb\\c'`, `SELECT E'a\tb\\c'`},
		{"select all dropped", ansi.ANSI, "SELECT ALL a FROM t", "SELECT a FROM t"},
		{"limit all dropped", postgres.Postgres, "SELECT a FROM t LIMIT ALL", "SELECT a FROM t"},
		{"is distinct from", ansi.ANSI, "select a from t where a is distinct from b", "SELECT a FROM t WHERE a IS DISTINCT FROM b"},
		{"is not distinct from", postgres.Postgres, "SELECT a FROM t WHERE a IS NOT DISTINCT FROM b + 1", "SELECT a FROM t WHERE a IS NOT DISTINCT FROM b + 1"},
		{"is not null", ansi.ANSI, "SELECT a FROM t WHERE a IS NOT NULL", "SELECT a FROM t WHERE a IS NOT NULL"},
		{"clause order", postgres.Postgres,
			"SELECT a FROM t WHERE b GROUP BY a HAVING count(*) > 1 ORDER BY a LIMIT 1",
			"SELECT a FROM t WHERE b GROUP BY a HAVING count(*) > 1 ORDER BY a LIMIT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parse(t, tt.input, tt.dialect)
			assert.Equal(t, tt.expected, format.ToSQL(stmt, tt.dialect))
		})
	}
}

func id(name string) *ast.Ident { return ast.NewIdent(name) }

func TestPrecedence(t *testing.T) {
	a, b, c := id("a"), id("b"), id("c")
	bin := ast.NewBinary
	neg := func(e ast.Expr) ast.Expr { return &ast.UnaryExpr{Op: ast.OpNeg, Operand: e} }
	not := func(e ast.Expr) ast.Expr { return &ast.UnaryExpr{Op: ast.OpNot, Operand: e} }
	cast := func(e ast.Expr) ast.Expr {
		return &ast.CastExpr{Expr: e, Type: &ast.DataType{Name: "INT"}, Postfix: true}
	}

	tests := []struct {
		name     string
		expr     ast.Expr
		expected string
	}{
		{"and binds tighter", bin(ast.OpOr, a, bin(ast.OpAnd, b, c)), "a OR b AND c"},
		{"or under and", bin(ast.OpAnd, bin(ast.OpOr, a, b), c), "(a OR b) AND c"},
		{"left associative", bin(ast.OpSub, bin(ast.OpSub, a, b), c), "a - b - c"},
		{"right grouping", bin(ast.OpSub, a, bin(ast.OpSub, b, c)), "a - (b - c)"},
		{"additive under multiplicative", bin(ast.OpMul, bin(ast.OpAdd, a, b), c), "(a + b) * c"},
		{"multiplicative under additive", bin(ast.OpAdd, a, bin(ast.OpMul, b, c)), "a + b * c"},
		{"comparison chain", bin(ast.OpEq, bin(ast.OpEq, a, b), c), "a = b = c"},
		{"not as operand", bin(ast.OpEq, not(a), b), "(NOT a) = b"},
		{"not over comparison", not(bin(ast.OpEq, a, b)), "NOT a = b"},
		{"negated sum", neg(bin(ast.OpAdd, a, b)), "-(a + b)"},
		{"double negation", neg(neg(ast.NewNumber("1"))), "-(-1)"},
		{"negated product operand", bin(ast.OpMul, neg(a), b), "-a * b"},
		{"cast of negation", cast(neg(a)), "(-a)::INT"},
		{"cast of sum", cast(bin(ast.OpAdd, a, b)), "(a + b)::INT"},
		{"between bounds", &ast.BetweenExpr{Expr: a, Low: bin(ast.OpAnd, b, c), High: id("d")}, "a BETWEEN (b AND c) AND d"},
		{"like pattern", &ast.LikeExpr{Expr: bin(ast.OpOr, a, b), Pattern: c}, "(a OR b) LIKE c"},
		{"is over comparison", &ast.IsExpr{Expr: bin(ast.OpEq, a, b), Kind: ast.IsNull}, "a = b IS NULL"},
		{"in over and", &ast.InExpr{Expr: bin(ast.OpAnd, a, b), List: []ast.Expr{c}}, "(a AND b) IN (c)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := format.ToSQL(tt.expr, postgres.Postgres)
			assert.Equal(t, tt.expected, out)

			back, err := parser.ParseExpr(out, postgres.Postgres)
			require.NoError(t, err)
			ast.ClearSpans(back)
			assert.Equal(t, tt.expr, back)
		})
	}
}

func TestPrecedenceFromParse(t *testing.T) {
	expr, err := parser.ParseExpr("a OR b AND c", ansi.ANSI)
	require.NoError(t, err)
	assert.Equal(t, "a OR b AND c", format.ToSQL(expr, ansi.ANSI))

	expr, err = parser.ParseExpr("(a OR b) AND c", ansi.ANSI)
	require.NoError(t, err)
	assert.Equal(t, "(a OR b) AND c", format.ToSQL(expr, ansi.ANSI))

	// Redundant grouping leaves no trace.
	expr, err = parser.ParseExpr("((a)) + (b * c)", ansi.ANSI)
	require.NoError(t, err)
	assert.Equal(t, "a + b * c", format.ToSQL(expr, ansi.ANSI))
}

func TestIdentifierQuoting(t *testing.T) {
	tests := []struct {
		name     string
		ident    *ast.Ident
		dialect  dialect.Dialect
		expected string
	}{
		{"plain", id("order_id"), postgres.Postgres, "order_id"},
		{"reserved", id("select"), postgres.Postgres, `"select"`},
		{"reserved in mysql", id("select"), mysql.MySQL, "`select`"},
		{"dialect reserved", id("key"), mysql.MySQL, "`key`"},
		{"not reserved elsewhere", id("key"), postgres.Postgres, "key"},
		{"space", id("my col"), ansi.ANSI, `"my col"`},
		{"leading digit", id("1a"), ansi.ANSI, `"1a"`},
		{"embedded quote", &ast.Ident{Name: `a"b`, Quoted: true}, postgres.Postgres, `"a""b"`},
		{"embedded backtick", &ast.Ident{Name: "a`b", Quoted: true}, mysql.MySQL, "`a``b`"},
		{"quoted in source", &ast.Ident{Name: "Name", Quoted: true}, postgres.Postgres, `"Name"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, format.ToSQL(tt.ident, tt.dialect))
		})
	}
}

// A column literally named "select" stays quoted through a round trip
// and stays distinct from an ordinary column.
func TestReservedIdentifierRoundTrip(t *testing.T) {
	quoted := parse(t, `SELECT "select" FROM t`, postgres.Postgres)
	out := format.ToSQL(quoted, postgres.Postgres)
	assert.Equal(t, `SELECT "select" FROM t`, out)
	assert.Equal(t, quoted, parse(t, out, postgres.Postgres))

	plain := parse(t, `SELECT sel FROM t`, postgres.Postgres)
	assert.NotEqual(t, quoted, plain)
}

func TestKeywordCase(t *testing.T) {
	lower := dialect.Derive(postgres.Postgres, "postgres_lower").KeywordCase(dialect.KeywordLower).Build()

	stmt := parse(t, "SELECT CAST(a AS INT), CURRENT_DATE FROM t WHERE a IS NOT NULL ORDER BY a DESC LIMIT 1", lower)
	out := format.ToSQL(stmt, lower)
	assert.Equal(t, "select cast(a as int), current_date from t where a is not null order by a desc limit 1", out)
	assert.Equal(t, stmt, parse(t, out, lower))
}

func TestLimitForms(t *testing.T) {
	query := func(count, offset ast.Expr) *ast.SelectStmt {
		return &ast.SelectStmt{
			Body: &ast.SelectCore{
				Columns: []*ast.SelectItem{{Expr: id("a")}},
				From:    &ast.FromClause{Source: &ast.TableName{Name: ast.NewQualifiedName("t")}},
			},
			Limit: &ast.LimitClause{Count: count, Offset: offset},
		}
	}
	ten, five := ast.NewNumber("10"), ast.NewNumber("5")

	tests := []struct {
		name     string
		stmt     *ast.SelectStmt
		dialect  dialect.Dialect
		expected string
	}{
		{"ansi both", query(ten, five), ansi.ANSI, "SELECT a FROM t OFFSET 5 ROWS FETCH FIRST 10 ROWS ONLY"},
		{"postgres both", query(ten, five), postgres.Postgres, "SELECT a FROM t LIMIT 10 OFFSET 5"},
		{"mysql both", query(ten, five), mysql.MySQL, "SELECT a FROM t LIMIT 10 OFFSET 5"},
		{"ansi count", query(ten, nil), ansi.ANSI, "SELECT a FROM t FETCH FIRST 10 ROWS ONLY"},
		{"sqlite count", query(ten, nil), sqlite.SQLite, "SELECT a FROM t LIMIT 10"},
		{"ansi offset", query(nil, five), ansi.ANSI, "SELECT a FROM t OFFSET 5 ROWS"},
		{"postgres offset", query(nil, five), postgres.Postgres, "SELECT a FROM t OFFSET 5"},
		{"databricks offset", query(nil, five), databricks.Databricks, "SELECT a FROM t OFFSET 5"},
		{"mysql offset", query(nil, five), mysql.MySQL, "SELECT a FROM t LIMIT 9223372036854775807 OFFSET 5"},
		{"sqlite offset", query(nil, five), sqlite.SQLite, "SELECT a FROM t LIMIT 9223372036854775807 OFFSET 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := format.ToSQL(tt.stmt, tt.dialect)
			assert.Equal(t, tt.expected, out)
			_, err := parser.Parse(out, tt.dialect)
			assert.NoError(t, err)
		})
	}
}

// LIMIT ALL parses only where generation can drop the row count, so no
// dialect turns it into a number on the way back out.
func TestLimitAllRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		dialect  dialect.Dialect
		input    string
		expected string
	}{
		{"postgres", postgres.Postgres, "SELECT a FROM t LIMIT ALL OFFSET 5", "SELECT a FROM t OFFSET 5"},
		{"databricks", databricks.Databricks, "SELECT a FROM t LIMIT ALL", "SELECT a FROM t"},
		{"mysql offset", mysql.MySQL, "SELECT a FROM t LIMIT 9223372036854775807 OFFSET 5", "SELECT a FROM t LIMIT 9223372036854775807 OFFSET 5"},
		{"sqlite offset", sqlite.SQLite, "SELECT a FROM t LIMIT 9223372036854775807 OFFSET 5", "SELECT a FROM t LIMIT 9223372036854775807 OFFSET 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parse(t, tt.input, tt.dialect)
			out := format.ToSQL(stmt, tt.dialect)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, stmt, parse(t, out, tt.dialect))
		})
	}

	for _, d := range []dialect.Dialect{mysql.MySQL, sqlite.SQLite} {
		for _, sql := range []string{"SELECT a FROM t LIMIT ALL", "SELECT a FROM t LIMIT ALL OFFSET 5", "SELECT a FROM t OFFSET 5"} {
			t.Run(d.Name()+"/"+sql, func(t *testing.T) {
				_, err := parser.Parse(sql, d)
				var pe *parser.ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, d.Name(), pe.Dialect)
				assert.NotEmpty(t, pe.Construct)
			})
		}
	}
}

// Formatting in the same dialect keeps unquoted names as written, since
// both sides fold them alike. Translating out of a case-keeping dialect
// quotes the names the target would fold.
func TestFoldedIdentifierQuoting(t *testing.T) {
	stmt := parse(t, "SELECT MyCol, b FROM T", postgres.Postgres)
	assert.Equal(t, "SELECT MyCol, b FROM T", format.ToSQL(stmt, postgres.Postgres))

	stmt = parse(t, "SELECT MyCol, b FROM T", mysql.MySQL)
	opts := format.Options{Transpile: true, Source: mysql.MySQL}
	assert.Equal(t, `SELECT "MyCol", b FROM "T"`, format.ToSQLWith(stmt, postgres.Postgres, opts))
	assert.Equal(t, `SELECT "MyCol", b FROM T`, format.ToSQLWith(stmt, ansi.ANSI, opts))
	assert.Equal(t, `SELECT MyCol, b FROM T`, format.ToSQLWith(stmt, sqlite.SQLite, opts))
}

// Targets without a FILTER clause get the condition folded into the
// aggregate's first argument, and targets without row locking drop the
// lock clause.
func TestTranslateUnsupportedClauses(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		target   dialect.Dialect
		expected string
	}{
		{"filter on count star", "SELECT count(*) FILTER (WHERE a > 0) FROM t", mysql.MySQL,
			"SELECT count(CASE WHEN a > 0 THEN 1 END) FROM t"},
		{"filter with window", "SELECT sum(b) FILTER (WHERE a > 0) OVER (PARTITION BY c) FROM t", mysql.MySQL,
			"SELECT sum(CASE WHEN a > 0 THEN b END) OVER (PARTITION BY c) FROM t"},
		{"filter kept", "SELECT count(DISTINCT b) FILTER (WHERE a > 0) FROM t", sqlite.SQLite,
			"SELECT count(DISTINCT b) FILTER (WHERE a > 0) FROM t"},
		{"lock dropped", "SELECT a FROM t ORDER BY a LIMIT 1 FOR UPDATE SKIP LOCKED", sqlite.SQLite,
			"SELECT a FROM t ORDER BY a LIMIT 1"},
		{"lock kept", "SELECT a FROM t FOR SHARE OF t NOWAIT", mysql.MySQL,
			"SELECT a FROM t FOR SHARE OF t NOWAIT"},
		{"with ties keeps fetch", "SELECT a FROM t ORDER BY a FETCH FIRST 3 ROWS WITH TIES", ansi.ANSI,
			"SELECT a FROM t ORDER BY a FETCH FIRST 3 ROWS WITH TIES"},
		{"table function to datafusion", "SELECT n FROM generate_series(1, 3) AS g(n) WHERE n ILIKE $1", datafusion.DataFusion,
			"SELECT n FROM generate_series(1, 3) AS g(n) WHERE n ILIKE $1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parse(t, tt.input, postgres.Postgres)
			out := format.Translate(stmt, tt.target)
			assert.Equal(t, tt.expected, out)
			_, err := parser.Parse(out, tt.target)
			assert.NoError(t, err)
		})
	}
}

func TestPlaceholderOrderInLimit(t *testing.T) {
	// LIMIT ?, ? binds the offset first; rewriting it as LIMIT ? OFFSET ?
	// would swap the parameters.
	stmt := parse(t, "SELECT a FROM t LIMIT ?, ?", mysql.MySQL)
	assert.Equal(t, "SELECT a FROM t LIMIT ?, ?", format.ToSQL(stmt, mysql.MySQL))

	stmt = parse(t, "SELECT a FROM t LIMIT ? OFFSET ?", mysql.MySQL)
	assert.Equal(t, "SELECT a FROM t LIMIT ? OFFSET ?", format.ToSQL(stmt, mysql.MySQL))
}

func TestPretty(t *testing.T) {
	stmt := parse(t, "SELECT a, b AS c FROM t JOIN u ON t.id = u.id WHERE a = 1 GROUP BY a, b HAVING count(*) > 1 ORDER BY a DESC LIMIT 10", postgres.Postgres)
	expected := `SELECT
  a,
  b AS c
FROM t
JOIN u
  ON t.id = u.id
WHERE
  a = 1
GROUP BY
  a,
  b
HAVING
  count(*) > 1
ORDER BY
  a DESC
LIMIT 10`
	assert.Equal(t, expected, format.ToSQLWith(stmt, postgres.Postgres, format.Options{Pretty: true}))
}

func TestPrettyCTE(t *testing.T) {
	stmt := parse(t, "WITH x AS (SELECT 1) SELECT * FROM x", ansi.ANSI)
	expected := `WITH x AS (
  SELECT
    1
)
SELECT
  *
FROM x`
	assert.Equal(t, expected, format.ToSQLWith(stmt, ansi.ANSI, format.Options{Pretty: true}))
}

func TestPrettyBreaksLongConditions(t *testing.T) {
	stmt := parse(t, "SELECT a FROM t WHERE a = 1 AND b = 2 AND c = 3", ansi.ANSI)
	expected := `SELECT
  a
FROM t
WHERE
  a = 1
  AND b = 2
  AND c = 3`
	assert.Equal(t, expected, format.ToSQLWith(stmt, ansi.ANSI, format.Options{Pretty: true}))
}

func TestPrettyCreateTable(t *testing.T) {
	stmt := parse(t, "CREATE TABLE t (id INT PRIMARY KEY, name TEXT NOT NULL)", postgres.Postgres)
	expected := `CREATE TABLE t (
  id INT PRIMARY KEY,
  name TEXT NOT NULL
)`
	assert.Equal(t, expected, format.ToSQLWith(stmt, postgres.Postgres, format.Options{Pretty: true}))
}

func TestWithComments(t *testing.T) {
	sql := "-- top\nSELECT a, /* second */ b FROM t -- tail"
	tokens, comments, err := parser.TokenizeWithComments(sql, postgres.Postgres)
	require.NoError(t, err)
	stmt, _, err := parser.ParseStatement(tokens, postgres.Postgres)
	require.NoError(t, err)

	expected := `-- top
SELECT
  a,
  /* second */
  b
FROM t
-- tail`
	assert.Equal(t, expected, format.WithComments(stmt, comments, postgres.Postgres, format.Options{}))
}

func TestDeterministic(t *testing.T) {
	stmt := parse(t, "SELECT a, b FROM t WHERE a IN (1, 2) ORDER BY b", ansi.ANSI)
	first := format.ToSQL(stmt, ansi.ANSI)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, format.ToSQL(stmt, ansi.ANSI))
	}
}
