package ast

// ---------- Query Statements ----------

// SelectStmt is a complete query: optional CTEs, a body, and the
// ORDER BY and row-limiting clauses that apply to the whole body.
type SelectStmt struct {
	NodeInfo
	With    *WithClause
	Body    SetExpr
	OrderBy []*OrderByItem
	Limit   *LimitClause
	Locks   []*LockClause
}

// WithClause is WITH [RECURSIVE] cte, ...
type WithClause struct {
	NodeInfo
	Recursive bool
	CTEs      []*CTE
}

// CTE is a named common table expression.
type CTE struct {
	NodeInfo
	Name    *Ident
	Columns []*Ident
	Query   *SelectStmt
}

// SelectCore is a single SELECT ... FROM ... WHERE ... GROUP BY ... HAVING
// block. The clause slots are fixed fields, so canonical clause order is
// a property of the type.
type SelectCore struct {
	NodeInfo
	Distinct bool
	Columns  []*SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	Windows  []*NamedWindow
}

// NamedWindow is one entry of a WINDOW clause: name AS (spec).
type NamedWindow struct {
	NodeInfo
	Name *Ident
	Spec *WindowSpec
}

// SelectItem is one entry of a select list.
type SelectItem struct {
	NodeInfo
	Expr  Expr
	Alias *Ident
}

// SetOperation combines two query bodies with UNION, INTERSECT or EXCEPT.
type SetOperation struct {
	NodeInfo
	Op    SetOp
	All   bool
	Left  SetExpr
	Right SetExpr
}

// ValuesExpr is a VALUES row list used as a query body.
type ValuesExpr struct {
	NodeInfo
	Rows [][]Expr
}

// ParenQuery is a parenthesized query used as a set operand, which may
// carry its own ORDER BY and LIMIT.
type ParenQuery struct {
	NodeInfo
	Query *SelectStmt
}

// SortDirection is the direction of an ORDER BY item.
type SortDirection int

// Sort directions. SortDefault means none was written.
const (
	SortDefault SortDirection = iota
	SortAsc
	SortDesc
)

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "ASC"
	case SortDesc:
		return "DESC"
	}
	return ""
}

// NullsOrder is the NULLS FIRST/LAST modifier of an ORDER BY item.
type NullsOrder int

// Null orderings. NullsDefault means none was written.
const (
	NullsDefault NullsOrder = iota
	NullsFirst
	NullsLast
)

func (n NullsOrder) String() string {
	switch n {
	case NullsFirst:
		return "FIRST"
	case NullsLast:
		return "LAST"
	}
	return ""
}

// OrderByItem is one ORDER BY key.
type OrderByItem struct {
	NodeInfo
	Expr      Expr
	Direction SortDirection
	Nulls     NullsOrder
}

// LimitClause bounds the rows returned. Count is nil for OFFSET alone or
// LIMIT ALL. Percent and WithTies come from FETCH FIRST n PERCENT ROWS
// WITH TIES and need a Count.
type LimitClause struct {
	NodeInfo
	Count    Expr
	Offset   Expr
	Percent  bool
	WithTies bool
}

// LockStrength is the row lock taken by a locking clause.
type LockStrength int

// Lock strengths.
const (
	LockUpdate LockStrength = iota
	LockShare
)

func (s LockStrength) String() string {
	if s == LockShare {
		return "SHARE"
	}
	return "UPDATE"
}

// LockWait is what a locking clause does when a row is already locked.
type LockWait int

// Lock wait policies. LockWaitDefault blocks.
const (
	LockWaitDefault LockWait = iota
	LockNoWait
	LockSkipLocked
)

func (w LockWait) String() string {
	switch w {
	case LockNoWait:
		return "NOWAIT"
	case LockSkipLocked:
		return "SKIP LOCKED"
	}
	return ""
}

// LockClause is FOR UPDATE|SHARE [OF table, ...] [NOWAIT | SKIP LOCKED].
type LockClause struct {
	NodeInfo
	Strength LockStrength
	Of       []*QualifiedName
	Wait     LockWait
}

// ---------- Data Modification Statements ----------

// InsertStmt is INSERT INTO table [(columns)] query [RETURNING ...].
// Query is a VALUES body or a SELECT.
type InsertStmt struct {
	NodeInfo
	Table     *QualifiedName
	Columns   []*Ident
	Query     *SelectStmt
	Returning []*SelectItem
}

// UpdateStmt is UPDATE table SET ... [WHERE ...] [RETURNING ...].
type UpdateStmt struct {
	NodeInfo
	Table     *TableName
	Set       []*Assignment
	Where     Expr
	Returning []*SelectItem
}

// Assignment is column = value in an UPDATE SET list.
type Assignment struct {
	NodeInfo
	Column *QualifiedName
	Value  Expr
}

// DeleteStmt is DELETE FROM table [WHERE ...] [RETURNING ...].
type DeleteStmt struct {
	NodeInfo
	Table     *TableName
	Where     Expr
	Returning []*SelectItem
}

func (*SelectStmt) stmtNode()      {}
func (*InsertStmt) stmtNode()      {}
func (*UpdateStmt) stmtNode()      {}
func (*DeleteStmt) stmtNode()      {}
func (*CreateTableStmt) stmtNode() {}

func (*SelectCore) setExprNode()   {}
func (*SetOperation) setExprNode() {}
func (*ValuesExpr) setExprNode()   {}
func (*ParenQuery) setExprNode()   {}
