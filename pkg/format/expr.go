package format

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

const complexityThreshold = 5

func (p *Printer) formatExpr(e ast.Expr) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *ast.Ident:
		p.ident(expr)
	case *ast.QualifiedName:
		p.qualifiedName(expr)
	case *ast.Literal:
		p.formatLiteral(expr)
	case *ast.Placeholder:
		p.formatPlaceholder(expr)
	case *ast.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *ast.BinaryExpr:
		p.formatBinaryExpr(expr)
	case *ast.FuncCall:
		p.formatFuncCall(expr)
	case *ast.CaseExpr:
		p.formatCaseExpr(expr)
	case *ast.CastExpr:
		p.formatCastExpr(expr)
	case *ast.BetweenExpr:
		p.formatBetweenExpr(expr)
	case *ast.InExpr:
		p.formatInExpr(expr)
	case *ast.LikeExpr:
		p.formatLikeExpr(expr)
	case *ast.IsExpr:
		p.formatIsExpr(expr)
	case *ast.ExistsExpr:
		p.keyword("EXISTS")
		p.space()
		p.formatSubquery(expr.Query)
	case *ast.SubqueryExpr:
		p.formatSubquery(expr.Query)
	case *ast.StarExpr:
		p.formatStarExpr(expr)
	case *ast.TupleExpr:
		p.write("(")
		p.formatList(len(expr.Items), func(i int) { p.formatExpr(expr.Items[i]) }, ",", false)
		p.write(")")
	}
}

// precedence returns the binding power of e as this printer spells it.
// Casts rendered as CAST(...) and concatenation rendered as CONCAT(...)
// are primaries.
func (p *Printer) precedence(e ast.Expr) ast.Precedence {
	switch n := e.(type) {
	case *ast.CastExpr:
		if !p.postfixCast(n) {
			return ast.PrecPrimary
		}
	case *ast.BinaryExpr:
		if n.Op == ast.OpConcat && !p.dialect.Supports(dialect.FeatureConcatOperator) {
			return ast.PrecPrimary
		}
	}
	return ast.ExprPrecedence(e)
}

// operand writes e, parenthesized when it binds looser than min.
func (p *Printer) operand(e ast.Expr, min ast.Precedence) {
	if p.precedence(e) < min {
		p.write("(")
		p.formatExpr(e)
		p.write(")")
		return
	}
	p.formatExpr(e)
}

// rightOperand writes the right side of a left-associative operator of
// precedence prec: an equal precedence needs parentheses there.
func (p *Printer) rightOperand(e ast.Expr, prec ast.Precedence) {
	p.operand(e, prec+1)
}

func (p *Printer) exprComplexity(e ast.Expr) int {
	if e == nil {
		return 0
	}

	switch expr := e.(type) {
	case *ast.Ident, *ast.QualifiedName, *ast.Literal, *ast.Placeholder, *ast.StarExpr:
		return 1
	case *ast.BinaryExpr:
		return 1 + p.exprComplexity(expr.Left) + p.exprComplexity(expr.Right)
	case *ast.UnaryExpr:
		return 1 + p.exprComplexity(expr.Operand)
	case *ast.FuncCall:
		score := 2
		for _, arg := range expr.Args {
			score += p.exprComplexity(arg)
		}
		if expr.Filter != nil {
			score += p.exprComplexity(expr.Filter)
		}
		if expr.Over != nil {
			score += 2
		}
		return score
	case *ast.CaseExpr:
		score := 2
		for _, w := range expr.Whens {
			score += p.exprComplexity(w.Condition) + p.exprComplexity(w.Result)
		}
		return score
	case *ast.BetweenExpr:
		return 1 + p.exprComplexity(expr.Expr) + p.exprComplexity(expr.Low) + p.exprComplexity(expr.High)
	case *ast.LikeExpr:
		return 1 + p.exprComplexity(expr.Expr) + p.exprComplexity(expr.Pattern)
	case *ast.IsExpr:
		return 1 + p.exprComplexity(expr.Expr)
	case *ast.CastExpr:
		return 1 + p.exprComplexity(expr.Expr)
	default:
		return 3
	}
}

// ---------- Literals ----------

func (p *Printer) formatLiteral(lit *ast.Literal) {
	switch lit.Kind {
	case ast.LiteralNumber:
		p.formatNumber(lit)
	case ast.LiteralString:
		p.write(p.quoteString(lit.Value))
	case ast.LiteralEscapedString:
		if p.dialect.Supports(dialect.FeatureEscapeStrings) {
			p.write("E" + quoteEscaped(lit.Value))
			return
		}
		p.write(p.quoteString(lit.Value))
	case ast.LiteralNationalString:
		if p.dialect.Supports(dialect.FeatureNationalStrings) {
			p.write("N")
		}
		p.write(p.quoteString(lit.Value))
	case ast.LiteralHexString:
		if p.dialect.Supports(dialect.FeatureHexStrings) {
			p.write("X'" + lit.Value + "'")
			return
		}
		p.write(p.quoteString(lit.Value))
	case ast.LiteralBoolean:
		if strings.EqualFold(lit.Value, "TRUE") {
			p.keyword("TRUE")
		} else {
			p.keyword("FALSE")
		}
	case ast.LiteralNull:
		p.keyword("NULL")
	case ast.LiteralInterval:
		p.keyword("INTERVAL")
		p.space()
		p.write(p.quoteString(lit.Value))
		if lit.Unit != "" {
			p.space()
			p.keyword(lit.Unit)
		}
		if lit.ToUnit != "" {
			p.space()
			p.kw("TO", lit.ToUnit)
		}
	}
}

// suffixTypes maps numeric literal suffixes to the type a dialect without
// the suffix casts to.
var suffixTypes = map[string]string{
	"L":  "BIGINT",
	"S":  "SMALLINT",
	"Y":  "TINYINT",
	"D":  "DOUBLE",
	"F":  "FLOAT",
	"BD": "DECIMAL",
}

func (p *Printer) formatNumber(lit *ast.Literal) {
	if lit.Suffix == "" || p.dialect.IsNumericSuffix(lit.Suffix) {
		p.write(lit.Value + lit.Suffix)
		return
	}
	typ, ok := suffixTypes[strings.ToUpper(lit.Suffix)]
	if !ok {
		p.write(lit.Value)
		return
	}
	p.keyword("CAST")
	p.write("(" + lit.Value)
	p.space()
	p.keyword("AS")
	p.space()
	p.keyword(typ)
	p.write(")")
}

// quoteString quotes s as a plain string literal for the dialect.
func (p *Printer) quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	backslash := p.dialect.Supports(dialect.FeatureBackslashEscapes)
	for _, r := range s {
		switch {
		case r == '\'':
			b.WriteString("''")
		case r == '\\' && backslash:
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// quoteEscaped quotes s as the body of an E'...' literal.
func quoteEscaped(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func (p *Printer) formatPlaceholder(ph *ast.Placeholder) {
	kind := ph.Kind
	if p.opts.Transpile {
		kind = p.placeholderStyle(kind)
	}

	switch kind {
	case ast.PlaceholderDollar:
		p.write("$" + strconv.Itoa(ph.Index))
	case ast.PlaceholderNamed:
		name := ph.Name
		if name == "" {
			name = "p" + strconv.Itoa(ph.Index)
		}
		p.write(":" + name)
	default:
		p.write("?")
	}
}

var placeholderFeatures = map[ast.PlaceholderKind]dialect.Feature{
	ast.PlaceholderQuestion: dialect.FeatureQuestionPlaceholders,
	ast.PlaceholderDollar:   dialect.FeatureDollarPlaceholders,
	ast.PlaceholderNamed:    dialect.FeatureNamedPlaceholders,
}

// placeholderStyle picks the style a translated placeholder is written
// in: its own when the dialect has it, else ? and then $n.
func (p *Printer) placeholderStyle(kind ast.PlaceholderKind) ast.PlaceholderKind {
	if p.dialect.Supports(placeholderFeatures[kind]) {
		return kind
	}
	for _, k := range []ast.PlaceholderKind{ast.PlaceholderQuestion, ast.PlaceholderDollar, ast.PlaceholderNamed} {
		if p.dialect.Supports(placeholderFeatures[k]) {
			return k
		}
	}
	return kind
}

// ---------- Operators ----------

func (p *Printer) formatUnaryExpr(expr *ast.UnaryExpr) {
	prec := expr.Op.Precedence()
	if expr.Op == ast.OpNot {
		p.keyword("NOT")
		p.space()
		p.operand(expr.Operand, prec)
		return
	}

	p.write(expr.Op.String())
	// A nested sign would otherwise read as -- and start a comment.
	if inner, ok := expr.Operand.(*ast.UnaryExpr); ok && inner.Op != ast.OpNot {
		p.write("(")
		p.formatExpr(inner)
		p.write(")")
		return
	}
	p.operand(expr.Operand, prec)
}

func (p *Printer) formatBinaryExpr(expr *ast.BinaryExpr) {
	if expr.Op == ast.OpConcat && !p.dialect.Supports(dialect.FeatureConcatOperator) {
		p.formatConcatCall(expr)
		return
	}

	prec := expr.Op.Precedence()
	shouldBreak := p.opts.Pretty && expr.Op.IsKeyword() && p.exprComplexity(expr) > complexityThreshold

	p.operand(expr.Left, prec)

	if shouldBreak {
		p.writeln()
	} else {
		p.space()
	}
	if expr.Op.IsKeyword() {
		p.keyword(expr.Op.String())
	} else {
		p.write(expr.Op.String())
	}
	p.space()

	p.rightOperand(expr.Right, prec)
}

// formatConcatCall writes a || b || c as CONCAT(a, b, c).
func (p *Printer) formatConcatCall(expr *ast.BinaryExpr) {
	var args []ast.Expr
	var collect func(e ast.Expr)
	collect = func(e ast.Expr) {
		if b, ok := e.(*ast.BinaryExpr); ok && b.Op == ast.OpConcat {
			collect(b.Left)
			collect(b.Right)
			return
		}
		args = append(args, e)
	}
	collect(expr)

	p.keyword("CONCAT")
	p.write("(")
	p.formatList(len(args), func(i int) { p.formatExpr(args[i]) }, ",", false)
	p.write(")")
}

// ---------- Function calls ----------

func (p *Printer) formatFuncCall(fn *ast.FuncCall) {
	// Niladic calls are keywords such as CURRENT_DATE or USER and are
	// never quoted.
	if fn.NoParens {
		if token.IsCoreKeyword(fn.Name.Name) {
			p.keyword(fn.Name.Name)
		} else {
			p.write(fn.Name.Name)
		}
		return
	}

	if fn.Filter != nil && !p.dialect.Supports(dialect.FeatureFilterClause) {
		p.formatFuncCall(filterAsCase(fn))
		return
	}

	if p.opts.Transpile && !fn.Star && !fn.Distinct && fn.Filter == nil && fn.Over == nil {
		if t, ok := p.dialect.FunctionTransform(fn.Name.Name); ok {
			args := make([]string, len(fn.Args))
			for i, arg := range fn.Args {
				sp := p.sub()
				sp.operand(arg, ast.PrecMultiplicative)
				args[i] = sp.String()
			}
			if out, ok := t.Transform(fn.Name.Name, args); ok {
				p.write(out)
				return
			}
		}
	}

	p.funcName(fn.Name)
	p.write("(")

	if fn.Distinct {
		p.keyword("DISTINCT")
		p.space()
	}

	if fn.Star {
		p.write("*")
	} else {
		p.formatList(len(fn.Args), func(i int) { p.formatExpr(fn.Args[i]) }, ",", false)
	}

	p.write(")")

	if fn.Filter != nil {
		p.space()
		p.keyword("FILTER")
		p.write(" (")
		p.keyword("WHERE")
		p.space()
		p.formatExpr(fn.Filter)
		p.write(")")
	}
	if fn.Over != nil {
		p.space()
		p.keyword("OVER")
		p.space()
		p.formatWindowSpec(fn.Over)
	}
}

// filterAsCase rewrites agg(x) FILTER (WHERE c) as agg(CASE WHEN c THEN
// x END). Aggregates skip the NULLs the CASE yields for filtered rows;
// count(*) counts a constant instead.
func filterAsCase(fn *ast.FuncCall) *ast.FuncCall {
	out := *fn
	out.Filter = nil
	var value ast.Expr = ast.NewNumber("1")
	if !fn.Star && len(fn.Args) > 0 {
		value = fn.Args[0]
	}
	when := &ast.CaseExpr{Whens: []*ast.WhenClause{{Condition: fn.Filter, Result: value}}}
	out.Star = false
	out.Args = append([]ast.Expr{when}, fn.Args[min(1, len(fn.Args)):]...)
	return &out
}

// ---------- Windows ----------

func (p *Printer) formatWindowSpec(w *ast.WindowSpec) {
	if w.Name != nil && !w.Parens {
		p.ident(w.Name)
		return
	}

	var parts []func()
	if w.Name != nil {
		parts = append(parts, func() { p.ident(w.Name) })
	}
	if len(w.PartitionBy) > 0 {
		parts = append(parts, func() {
			p.kw("PARTITION", "BY")
			p.space()
			p.formatList(len(w.PartitionBy), func(i int) { p.formatExpr(w.PartitionBy[i]) }, ",", false)
		})
	}
	if len(w.OrderBy) > 0 {
		parts = append(parts, func() {
			p.kw("ORDER", "BY")
			p.space()
			p.formatList(len(w.OrderBy), func(i int) { p.formatOrderByItem(w.OrderBy[i]) }, ",", false)
		})
	}
	if w.Frame != nil {
		parts = append(parts, func() { p.formatWindowFrame(w.Frame) })
	}

	p.write("(")
	for i, part := range parts {
		if i > 0 {
			p.space()
		}
		part()
	}
	p.write(")")
}

func (p *Printer) formatWindowFrame(f *ast.WindowFrame) {
	p.keyword(f.Units.String())
	p.space()
	if f.Upper == nil {
		p.formatFrameBound(f.Start)
		return
	}
	p.keyword("BETWEEN")
	p.space()
	p.formatFrameBound(f.Start)
	p.space()
	p.keyword("AND")
	p.space()
	p.formatFrameBound(f.Upper)
}

func (p *Printer) formatFrameBound(b *ast.FrameBound) {
	if b.Offset != nil {
		p.operand(b.Offset, ast.PrecAdditive)
		p.space()
	}
	p.keyword(b.Kind.String())
}

// funcName writes a function name. Names that lex as keywords, such as
// LEFT or REPLACE, are written bare so they still parse as calls; when
// translating into a dialect that quotes function names, names outside
// its catalogue are quoted.
func (p *Printer) funcName(name *ast.Ident) {
	switch {
	case name.Quoted:
		p.write(dialect.QuoteIdentifier(p.dialect, name.Name))
	case p.opts.Transpile && p.dialect.Supports(dialect.FeatureQuoteFunctionNames) &&
		!p.dialect.IsFunction(name.Name) && dialect.IsBareIdentifier(name.Name) && !p.dialect.IsReserved(name.Name):
		p.write(dialect.QuoteIdentifier(p.dialect, name.Name))
	case dialect.IsBareIdentifier(name.Name):
		p.write(name.Name)
	default:
		p.write(dialect.QuoteIdentifier(p.dialect, name.Name))
	}
}

func (p *Printer) formatCaseExpr(c *ast.CaseExpr) {
	p.keyword("CASE")

	if c.Operand != nil {
		p.space()
		p.formatExpr(c.Operand)
	}

	p.indent()
	for _, w := range c.Whens {
		p.breakLine()
		p.keyword("WHEN")
		p.space()
		p.formatExpr(w.Condition)
		p.space()
		p.keyword("THEN")
		p.space()
		p.formatExpr(w.Result)
	}

	if c.Else != nil {
		p.breakLine()
		p.keyword("ELSE")
		p.space()
		p.formatExpr(c.Else)
	}
	p.dedent()

	p.breakLine()
	p.keyword("END")
}

// postfixCast reports whether c is written as x::T.
func (p *Printer) postfixCast(c *ast.CastExpr) bool {
	return c.Postfix && p.dialect.Supports(dialect.FeatureCastOperator)
}

func (p *Printer) formatCastExpr(c *ast.CastExpr) {
	if p.postfixCast(c) {
		p.operand(c.Expr, ast.PrecPostfix)
		p.write("::")
		p.formatDataType(c.Type)
		return
	}

	p.keyword("CAST")
	p.write("(")
	p.formatExpr(c.Expr)
	p.space()
	p.keyword("AS")
	p.space()
	p.formatDataType(c.Type)
	p.write(")")
}

func (p *Printer) formatDataType(t *ast.DataType) {
	if t == nil {
		return
	}
	p.keyword(t.Name)
	if len(t.Params) > 0 {
		p.write("(" + strings.Join(t.Params, ", ") + ")")
	}
	if t.Suffix != "" {
		p.space()
		p.keyword(t.Suffix)
	}
}

// ---------- Predicates ----------

func (p *Printer) not(not bool) {
	if not {
		p.space()
		p.keyword("NOT")
	}
}

func (p *Printer) formatBetweenExpr(b *ast.BetweenExpr) {
	p.operand(b.Expr, ast.PrecComparison)
	p.not(b.Not)
	p.space()
	p.keyword("BETWEEN")
	p.space()
	p.rightOperand(b.Low, ast.PrecComparison)
	p.space()
	p.keyword("AND")
	p.space()
	p.rightOperand(b.High, ast.PrecComparison)
}

func (p *Printer) formatInExpr(in *ast.InExpr) {
	p.operand(in.Expr, ast.PrecComparison)
	p.not(in.Not)
	p.space()
	p.keyword("IN")
	p.space()

	if in.Query != nil {
		p.formatSubquery(in.Query)
		return
	}
	p.write("(")
	p.formatList(len(in.List), func(i int) { p.formatExpr(in.List[i]) }, ",", false)
	p.write(")")
}

func (p *Printer) formatLikeExpr(like *ast.LikeExpr) {
	if like.ILike && !p.dialect.Supports(dialect.FeatureILike) {
		p.lowerCall(like.Expr)
		p.not(like.Not)
		p.space()
		p.keyword("LIKE")
		p.space()
		p.lowerCall(like.Pattern)
	} else {
		p.operand(like.Expr, ast.PrecComparison)
		p.not(like.Not)
		p.space()
		if like.ILike {
			p.keyword("ILIKE")
		} else {
			p.keyword("LIKE")
		}
		p.space()
		p.rightOperand(like.Pattern, ast.PrecComparison)
	}

	if like.Escape != nil {
		p.space()
		p.keyword("ESCAPE")
		p.space()
		p.rightOperand(like.Escape, ast.PrecComparison)
	}
}

func (p *Printer) lowerCall(e ast.Expr) {
	p.write(p.dialect.KeywordCase().Apply("LOWER") + "(")
	p.formatExpr(e)
	p.write(")")
}

func (p *Printer) formatIsExpr(is *ast.IsExpr) {
	p.operand(is.Expr, ast.PrecComparison)
	p.space()
	p.keyword("IS")
	p.not(is.Not)
	p.space()
	p.keyword(is.Kind.String())
	if is.Kind == ast.IsDistinctFrom {
		p.space()
		p.rightOperand(is.Right, ast.PrecComparison)
	}
}

func (p *Printer) formatStarExpr(star *ast.StarExpr) {
	for _, q := range star.Qualifier {
		p.ident(q)
		p.write(".")
	}
	p.write("*")
}

// formatSubquery writes a parenthesized query, on its own indented lines
// in pretty mode.
func (p *Printer) formatSubquery(q *ast.SelectStmt) {
	p.write("(")
	if !p.opts.Pretty {
		p.formatSelectStmt(q)
		p.write(")")
		return
	}
	p.indent()
	p.writeln()
	p.formatSelectStmt(q)
	p.dedent()
	p.writeln()
	p.write(")")
}
