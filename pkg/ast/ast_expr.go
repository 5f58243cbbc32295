package ast

// ---------- Expression Types ----------

// Ident is a single identifier. Name holds the unescaped text; Quoted
// records whether the source wrote it with quotes, which makes it exempt
// from case folding and keyword interpretation.
type Ident struct {
	NodeInfo
	Name   string
	Quoted bool
}

// NewIdent returns an unquoted identifier.
func NewIdent(name string) *Ident { return &Ident{Name: name} }

// QualifiedName is a dotted name such as schema.table or t.col.
type QualifiedName struct {
	NodeInfo
	Parts []*Ident
}

// NewQualifiedName builds an unquoted dotted name from its parts.
func NewQualifiedName(parts ...string) *QualifiedName {
	q := &QualifiedName{Parts: make([]*Ident, len(parts))}
	for i, p := range parts {
		q.Parts[i] = NewIdent(p)
	}
	return q
}

// Last returns the final part of the name.
func (q *QualifiedName) Last() *Ident {
	if len(q.Parts) == 0 {
		return nil
	}
	return q.Parts[len(q.Parts)-1]
}

// LiteralKind is the category of a literal value.
type LiteralKind int

// Literal kinds.
const (
	LiteralNumber         LiteralKind = iota // 42, 1.5e3, 10L
	LiteralString                            // 'text'
	LiteralEscapedString                     // E'a\nb'
	LiteralNationalString                    // N'text'
	LiteralHexString                         // X'ff'
	LiteralBoolean                           // TRUE, FALSE
	LiteralNull                              // NULL
	LiteralInterval                          // INTERVAL '1' DAY
)

var literalKindNames = [...]string{
	LiteralNumber:         "number",
	LiteralString:         "string",
	LiteralEscapedString:  "escaped_string",
	LiteralNationalString: "national_string",
	LiteralHexString:      "hex_string",
	LiteralBoolean:        "boolean",
	LiteralNull:           "null",
	LiteralInterval:       "interval",
}

func (k LiteralKind) String() string {
	if k >= 0 && int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return "unknown"
}

// ParseLiteralKind looks up a literal kind by name.
func ParseLiteralKind(s string) (LiteralKind, bool) {
	for i, name := range literalKindNames {
		if name == s {
			return LiteralKind(i), true
		}
	}
	return 0, false
}

// Literal is a constant value. Value holds the number text, the
// unescaped string contents, "TRUE"/"FALSE" for booleans, and the quoted
// interval text for intervals.
type Literal struct {
	NodeInfo
	Kind   LiteralKind
	Value  string
	Suffix string // numeric suffix, e.g. "L" in 10L
	Unit   string // interval unit, e.g. "DAY"
	ToUnit string // last field of an interval qualifier, e.g. "HOUR" in DAY TO HOUR
}

// NewNumber returns a numeric literal.
func NewNumber(text string) *Literal { return &Literal{Kind: LiteralNumber, Value: text} }

// NewString returns a plain string literal.
func NewString(value string) *Literal { return &Literal{Kind: LiteralString, Value: value} }

// IsString reports whether the literal is one of the quoted string kinds.
func (l *Literal) IsString() bool {
	switch l.Kind {
	case LiteralString, LiteralEscapedString, LiteralNationalString, LiteralHexString:
		return true
	}
	return false
}

// PlaceholderKind is the written style of a bind parameter.
type PlaceholderKind int

// Placeholder styles.
const (
	PlaceholderQuestion PlaceholderKind = iota // ?
	PlaceholderDollar                          // $1
	PlaceholderNamed                           // :name
)

func (k PlaceholderKind) String() string {
	switch k {
	case PlaceholderDollar:
		return "dollar"
	case PlaceholderNamed:
		return "named"
	}
	return "question"
}

// Placeholder is a bind parameter. Index is the 1-based parameter
// number: the written number for $n, the ordinal position otherwise.
type Placeholder struct {
	NodeInfo
	Kind  PlaceholderKind
	Index int
	Name  string // for :name
}

// UnaryExpr is a prefix operator applied to one operand.
type UnaryExpr struct {
	NodeInfo
	Op      UnaryOp
	Operand Expr
}

// BinaryExpr is an infix operator applied to two operands.
type BinaryExpr struct {
	NodeInfo
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// NewBinary returns a binary expression.
func NewBinary(op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

// FuncCall is a function invocation. NoParens marks niladic forms
// written without an argument list, such as CURRENT_DATE.
type FuncCall struct {
	NodeInfo
	Name     *Ident
	Distinct bool
	Star     bool // COUNT(*)
	Args     []Expr
	NoParens bool
	Filter   Expr        // FILTER (WHERE ...)
	Over     *WindowSpec // OVER clause
}

// WindowSpec is the window of an OVER clause or a WINDOW definition.
// Name refers to a window defined in the WINDOW clause: OVER w is a spec
// with Name and no Parens, while OVER (w ORDER BY a) refines w.
type WindowSpec struct {
	NodeInfo
	Name        *Ident
	Parens      bool
	PartitionBy []Expr
	OrderBy     []*OrderByItem
	Frame       *WindowFrame
}

// FrameUnits is the unit a window frame is measured in.
type FrameUnits int

// Frame units.
const (
	FrameRows FrameUnits = iota
	FrameRange
	FrameGroups
)

var frameUnitNames = [...]string{
	FrameRows:   "ROWS",
	FrameRange:  "RANGE",
	FrameGroups: "GROUPS",
}

func (u FrameUnits) String() string {
	if u >= 0 && int(u) < len(frameUnitNames) {
		return frameUnitNames[u]
	}
	return "unknown"
}

// ParseFrameUnits is the inverse of FrameUnits.String.
func ParseFrameUnits(s string) (FrameUnits, bool) {
	for i, name := range frameUnitNames {
		if name == s {
			return FrameUnits(i), true
		}
	}
	return 0, false
}

// WindowFrame is ROWS|RANGE|GROUPS with one bound, or BETWEEN two.
// Upper is nil for the single-bound form.
type WindowFrame struct {
	NodeInfo
	Units FrameUnits
	Start *FrameBound
	Upper *FrameBound
}

// BoundKind says where a frame bound lies.
type BoundKind int

// Frame bound kinds.
const (
	BoundUnboundedPreceding BoundKind = iota
	BoundPreceding
	BoundCurrentRow
	BoundFollowing
	BoundUnboundedFollowing
)

var boundKindNames = [...]string{
	BoundUnboundedPreceding: "UNBOUNDED PRECEDING",
	BoundPreceding:          "PRECEDING",
	BoundCurrentRow:         "CURRENT ROW",
	BoundFollowing:          "FOLLOWING",
	BoundUnboundedFollowing: "UNBOUNDED FOLLOWING",
}

func (k BoundKind) String() string {
	if k >= 0 && int(k) < len(boundKindNames) {
		return boundKindNames[k]
	}
	return "unknown"
}

// ParseBoundKind is the inverse of BoundKind.String.
func ParseBoundKind(s string) (BoundKind, bool) {
	for i, name := range boundKindNames {
		if name == s {
			return BoundKind(i), true
		}
	}
	return 0, false
}

// FrameBound is one end of a window frame. Offset is set for the
// PRECEDING and FOLLOWING kinds only.
type FrameBound struct {
	NodeInfo
	Kind   BoundKind
	Offset Expr
}

// TupleExpr is a row value constructor such as (a, b). It always has at
// least two items; a single parenthesized expression is not a tuple.
type TupleExpr struct {
	NodeInfo
	Items []Expr
}

// CaseExpr is a searched or simple CASE expression.
type CaseExpr struct {
	NodeInfo
	Operand Expr // CASE operand WHEN ... (optional)
	Whens   []*WhenClause
	Else    Expr
}

// WhenClause is one WHEN ... THEN ... arm.
type WhenClause struct {
	NodeInfo
	Condition Expr
	Result    Expr
}

// CastExpr converts an expression to a type. Postfix records that the
// source used the x::T form.
type CastExpr struct {
	NodeInfo
	Expr    Expr
	Type    *DataType
	Postfix bool
}

// DataType is a type name with optional parameters, e.g. VARCHAR(20),
// DECIMAL(10, 2) or DOUBLE PRECISION. Name and Suffix are stored in upper
// case; Suffix holds trailing modifiers such as WITH TIME ZONE or UNSIGNED.
type DataType struct {
	NodeInfo
	Name   string
	Params []string
	Suffix string
}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	NodeInfo
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

// InExpr is expr [NOT] IN (list) or expr [NOT] IN (subquery).
// Exactly one of List and Query is set.
type InExpr struct {
	NodeInfo
	Expr  Expr
	Not   bool
	List  []Expr
	Query *SelectStmt
}

// LikeExpr is expr [NOT] LIKE|ILIKE pattern [ESCAPE esc].
type LikeExpr struct {
	NodeInfo
	Expr    Expr
	Not     bool
	ILike   bool
	Pattern Expr
	Escape  Expr
}

// IsKind is the right-hand side of an IS test.
type IsKind int

// IS test kinds.
const (
	IsNull IsKind = iota
	IsTrue
	IsFalse
	IsUnknown
	IsDistinctFrom
)

func (k IsKind) String() string {
	switch k {
	case IsTrue:
		return "TRUE"
	case IsFalse:
		return "FALSE"
	case IsUnknown:
		return "UNKNOWN"
	case IsDistinctFrom:
		return "DISTINCT FROM"
	}
	return "NULL"
}

// ParseIsKind looks up an IS test kind by its SQL spelling.
func ParseIsKind(s string) (IsKind, bool) {
	for k := IsNull; k <= IsDistinctFrom; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// IsExpr is expr IS [NOT] {NULL | TRUE | FALSE | UNKNOWN | DISTINCT FROM right}.
type IsExpr struct {
	NodeInfo
	Expr  Expr
	Not   bool
	Kind  IsKind
	Right Expr // for IsDistinctFrom
}

// ExistsExpr is EXISTS (subquery).
type ExistsExpr struct {
	NodeInfo
	Query *SelectStmt
}

// SubqueryExpr is a scalar subquery.
type SubqueryExpr struct {
	NodeInfo
	Query *SelectStmt
}

// StarExpr is * or qualifier.* in a select list.
type StarExpr struct {
	NodeInfo
	Qualifier []*Ident
}

func (*Ident) exprNode()         {}
func (*QualifiedName) exprNode() {}
func (*Literal) exprNode()       {}
func (*Placeholder) exprNode()   {}
func (*UnaryExpr) exprNode()     {}
func (*BinaryExpr) exprNode()    {}
func (*FuncCall) exprNode()      {}
func (*CaseExpr) exprNode()      {}
func (*CastExpr) exprNode()      {}
func (*BetweenExpr) exprNode()   {}
func (*InExpr) exprNode()        {}
func (*LikeExpr) exprNode()      {}
func (*IsExpr) exprNode()        {}
func (*ExistsExpr) exprNode()    {}
func (*SubqueryExpr) exprNode()  {}
func (*StarExpr) exprNode()      {}
func (*TupleExpr) exprNode()     {}
