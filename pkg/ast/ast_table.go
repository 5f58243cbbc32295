package ast

// ---------- FROM clause ----------

// FromClause is the FROM list: a first source followed by joins. Comma
// separated sources are represented as JoinComma entries.
type FromClause struct {
	NodeInfo
	Source TableRef
	Joins  []*Join
}

// JoinType is the kind of join.
type JoinType int

// Join types.
const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
	JoinComma
)

func (j JoinType) String() string {
	switch j {
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	case JoinFull:
		return "FULL"
	case JoinCross:
		return "CROSS"
	case JoinComma:
		return ","
	}
	return "INNER"
}

// ParseJoinType looks up a join type by its keyword.
func ParseJoinType(s string) (JoinType, bool) {
	for j := JoinInner; j <= JoinComma; j++ {
		if j.String() == s {
			return j, true
		}
	}
	return 0, false
}

// Join is one joined source with its condition. On and Using are
// mutually exclusive; both are empty for CROSS, comma and NATURAL joins.
type Join struct {
	NodeInfo
	Type    JoinType
	Natural bool
	Table   TableRef
	On      Expr
	Using   []*Ident
}

// TableName is a named table or view with an optional alias.
type TableName struct {
	NodeInfo
	Name  *QualifiedName
	Alias *Ident
}

// DerivedTable is a subquery in FROM. Lateral subqueries may refer to
// sources to their left.
type DerivedTable struct {
	NodeInfo
	Lateral bool
	Query   *SelectStmt
	Alias   *Ident
}

// TableFunction is a set-returning function call in FROM, such as
// generate_series(1, 10) AS g(n).
type TableFunction struct {
	NodeInfo
	Lateral bool
	Func    *FuncCall
	Alias   *Ident
	Columns []*Ident
}

// ParenJoin is a parenthesized join tree used as a single FROM item.
type ParenJoin struct {
	NodeInfo
	From  *FromClause
	Alias *Ident
}

func (*TableName) tableRefNode()     {}
func (*DerivedTable) tableRefNode()  {}
func (*ParenJoin) tableRefNode()     {}
func (*TableFunction) tableRefNode() {}
