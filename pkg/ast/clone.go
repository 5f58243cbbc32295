package ast

// Clone returns a deep copy of n. The copy shares nothing with the
// original, so callers may rewrite it freely. Spans are copied.
func Clone[N Node](n N) N {
	if isNil(n) {
		return n
	}
	return cloneNode(n).(N)
}

func cloneList[N Node](list []N) []N {
	if list == nil {
		return nil
	}
	out := make([]N, len(list))
	for i, n := range list {
		out[i] = Clone(n)
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

//nolint:gocyclo // one case per node type
func cloneNode(node Node) Node {
	switch n := node.(type) {
	// Statements
	case *SelectStmt:
		c := *n
		c.With = Clone(n.With)
		c.Body = Clone(n.Body)
		c.OrderBy = cloneList(n.OrderBy)
		c.Limit = Clone(n.Limit)
		c.Locks = cloneList(n.Locks)
		return &c

	case *InsertStmt:
		c := *n
		c.Table = Clone(n.Table)
		c.Columns = cloneList(n.Columns)
		c.Query = Clone(n.Query)
		c.Returning = cloneList(n.Returning)
		return &c

	case *UpdateStmt:
		c := *n
		c.Table = Clone(n.Table)
		c.Set = cloneList(n.Set)
		c.Where = Clone(n.Where)
		c.Returning = cloneList(n.Returning)
		return &c

	case *DeleteStmt:
		c := *n
		c.Table = Clone(n.Table)
		c.Where = Clone(n.Where)
		c.Returning = cloneList(n.Returning)
		return &c

	case *CreateTableStmt:
		c := *n
		c.Name = Clone(n.Name)
		c.Columns = cloneList(n.Columns)
		c.Constraints = cloneList(n.Constraints)
		c.AsQuery = Clone(n.AsQuery)
		return &c

	// Clauses
	case *WithClause:
		c := *n
		c.CTEs = cloneList(n.CTEs)
		return &c

	case *CTE:
		c := *n
		c.Name = Clone(n.Name)
		c.Columns = cloneList(n.Columns)
		c.Query = Clone(n.Query)
		return &c

	case *SelectCore:
		c := *n
		c.Columns = cloneList(n.Columns)
		c.From = Clone(n.From)
		c.Where = Clone(n.Where)
		c.GroupBy = cloneList(n.GroupBy)
		c.Having = Clone(n.Having)
		c.Windows = cloneList(n.Windows)
		return &c

	case *NamedWindow:
		c := *n
		c.Name = Clone(n.Name)
		c.Spec = Clone(n.Spec)
		return &c

	case *SelectItem:
		c := *n
		c.Expr = Clone(n.Expr)
		c.Alias = Clone(n.Alias)
		return &c

	case *SetOperation:
		c := *n
		c.Left = Clone(n.Left)
		c.Right = Clone(n.Right)
		return &c

	case *ValuesExpr:
		c := *n
		if n.Rows != nil {
			c.Rows = make([][]Expr, len(n.Rows))
			for i, row := range n.Rows {
				c.Rows[i] = cloneList(row)
			}
		}
		return &c

	case *ParenQuery:
		c := *n
		c.Query = Clone(n.Query)
		return &c

	case *OrderByItem:
		c := *n
		c.Expr = Clone(n.Expr)
		return &c

	case *LimitClause:
		c := *n
		c.Count = Clone(n.Count)
		c.Offset = Clone(n.Offset)
		return &c

	case *LockClause:
		c := *n
		c.Of = cloneList(n.Of)
		return &c

	case *Assignment:
		c := *n
		c.Column = Clone(n.Column)
		c.Value = Clone(n.Value)
		return &c

	case *FromClause:
		c := *n
		c.Source = Clone(n.Source)
		c.Joins = cloneList(n.Joins)
		return &c

	case *Join:
		c := *n
		c.Table = Clone(n.Table)
		c.On = Clone(n.On)
		c.Using = cloneList(n.Using)
		return &c

	case *TableName:
		c := *n
		c.Name = Clone(n.Name)
		c.Alias = Clone(n.Alias)
		return &c

	case *DerivedTable:
		c := *n
		c.Query = Clone(n.Query)
		c.Alias = Clone(n.Alias)
		return &c

	case *ParenJoin:
		c := *n
		c.From = Clone(n.From)
		c.Alias = Clone(n.Alias)
		return &c

	case *TableFunction:
		c := *n
		c.Func = Clone(n.Func)
		c.Alias = Clone(n.Alias)
		c.Columns = cloneList(n.Columns)
		return &c

	case *ColumnDef:
		c := *n
		c.Name = Clone(n.Name)
		c.Type = Clone(n.Type)
		c.Constraints = cloneList(n.Constraints)
		return &c

	case *ColumnConstraint:
		c := *n
		c.Name = Clone(n.Name)
		c.Expr = Clone(n.Expr)
		c.References = Clone(n.References)
		return &c

	case *TableConstraint:
		c := *n
		c.Name = Clone(n.Name)
		c.Columns = cloneList(n.Columns)
		c.Expr = Clone(n.Expr)
		c.References = Clone(n.References)
		return &c

	case *ForeignKeyRef:
		c := *n
		c.Table = Clone(n.Table)
		c.Columns = cloneList(n.Columns)
		return &c

	case *DataType:
		c := *n
		c.Params = cloneStrings(n.Params)
		return &c

	// Expressions
	case *Ident:
		c := *n
		return &c

	case *QualifiedName:
		c := *n
		c.Parts = cloneList(n.Parts)
		return &c

	case *Literal:
		c := *n
		return &c

	case *Placeholder:
		c := *n
		return &c

	case *UnaryExpr:
		c := *n
		c.Operand = Clone(n.Operand)
		return &c

	case *BinaryExpr:
		c := *n
		c.Left = Clone(n.Left)
		c.Right = Clone(n.Right)
		return &c

	case *FuncCall:
		c := *n
		c.Name = Clone(n.Name)
		c.Args = cloneList(n.Args)
		c.Filter = Clone(n.Filter)
		c.Over = Clone(n.Over)
		return &c

	case *WindowSpec:
		c := *n
		c.Name = Clone(n.Name)
		c.PartitionBy = cloneList(n.PartitionBy)
		c.OrderBy = cloneList(n.OrderBy)
		c.Frame = Clone(n.Frame)
		return &c

	case *WindowFrame:
		c := *n
		c.Start = Clone(n.Start)
		c.Upper = Clone(n.Upper)
		return &c

	case *FrameBound:
		c := *n
		c.Offset = Clone(n.Offset)
		return &c

	case *TupleExpr:
		c := *n
		c.Items = cloneList(n.Items)
		return &c

	case *CaseExpr:
		c := *n
		c.Operand = Clone(n.Operand)
		c.Whens = cloneList(n.Whens)
		c.Else = Clone(n.Else)
		return &c

	case *WhenClause:
		c := *n
		c.Condition = Clone(n.Condition)
		c.Result = Clone(n.Result)
		return &c

	case *CastExpr:
		c := *n
		c.Expr = Clone(n.Expr)
		c.Type = Clone(n.Type)
		return &c

	case *BetweenExpr:
		c := *n
		c.Expr = Clone(n.Expr)
		c.Low = Clone(n.Low)
		c.High = Clone(n.High)
		return &c

	case *InExpr:
		c := *n
		c.Expr = Clone(n.Expr)
		c.List = cloneList(n.List)
		c.Query = Clone(n.Query)
		return &c

	case *LikeExpr:
		c := *n
		c.Expr = Clone(n.Expr)
		c.Pattern = Clone(n.Pattern)
		c.Escape = Clone(n.Escape)
		return &c

	case *IsExpr:
		c := *n
		c.Expr = Clone(n.Expr)
		c.Right = Clone(n.Right)
		return &c

	case *ExistsExpr:
		c := *n
		c.Query = Clone(n.Query)
		return &c

	case *SubqueryExpr:
		c := *n
		c.Query = Clone(n.Query)
		return &c

	case *StarExpr:
		c := *n
		c.Qualifier = cloneList(n.Qualifier)
		return &c
	}
	return node
}
