package ast

// ---------- CREATE TABLE ----------

// CreateTableStmt is CREATE [TEMPORARY] TABLE [IF NOT EXISTS] name with
// either column definitions or AS query.
type CreateTableStmt struct {
	NodeInfo
	Temporary   bool
	IfNotExists bool
	Name        *QualifiedName
	Columns     []*ColumnDef
	Constraints []*TableConstraint
	AsQuery     *SelectStmt
}

// ColumnDef is a column definition.
type ColumnDef struct {
	NodeInfo
	Name        *Ident
	Type        *DataType
	Constraints []*ColumnConstraint
}

// ConstraintKind is the kind of a column or table constraint.
type ConstraintKind int

// Constraint kinds.
const (
	ConstraintNotNull ConstraintKind = iota
	ConstraintNull
	ConstraintPrimaryKey
	ConstraintUnique
	ConstraintDefault
	ConstraintCheck
	ConstraintReferences
	ConstraintForeignKey
)

var constraintNames = [...]string{
	ConstraintNotNull:    "not_null",
	ConstraintNull:       "null",
	ConstraintPrimaryKey: "primary_key",
	ConstraintUnique:     "unique",
	ConstraintDefault:    "default",
	ConstraintCheck:      "check",
	ConstraintReferences: "references",
	ConstraintForeignKey: "foreign_key",
}

func (k ConstraintKind) String() string {
	if k >= 0 && int(k) < len(constraintNames) {
		return constraintNames[k]
	}
	return "unknown"
}

// ParseConstraintKind looks up a constraint kind by name.
func ParseConstraintKind(s string) (ConstraintKind, bool) {
	for i, name := range constraintNames {
		if name == s {
			return ConstraintKind(i), true
		}
	}
	return 0, false
}

// ColumnConstraint is a constraint attached to one column. Expr is set
// for DEFAULT and CHECK, References for REFERENCES.
type ColumnConstraint struct {
	NodeInfo
	Name       *Ident
	Kind       ConstraintKind
	Expr       Expr
	References *ForeignKeyRef
}

// TableConstraint is a table-level constraint. Columns is set for
// PRIMARY KEY, UNIQUE and FOREIGN KEY; Expr for CHECK.
type TableConstraint struct {
	NodeInfo
	Name       *Ident
	Kind       ConstraintKind
	Columns    []*Ident
	Expr       Expr
	References *ForeignKeyRef
}

// ForeignKeyRef is REFERENCES table [(columns)].
type ForeignKeyRef struct {
	NodeInfo
	Table   *QualifiedName
	Columns []*Ident
}
