package format

import (
	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Decorations maps comments to the nodes they precede.
type Decorations struct {
	leading  map[ast.Node][]token.Comment
	trailing []token.Comment
}

// Decorate attaches comments to AST nodes based on position. Each comment
// goes to the first anchor node that starts after it, so it is kept in
// front of the same clause, item or join when the statement is rendered.
// Comments after the last anchor are trailing.
func Decorate(stmt ast.Statement, comments []token.Comment) *Decorations {
	d := &Decorations{leading: make(map[ast.Node][]token.Comment)}
	if len(comments) == 0 {
		return d
	}

	var anchors []ast.Node
	ast.Inspect(stmt, func(n ast.Node) bool {
		if isAnchor(n) {
			anchors = append(anchors, n)
		}
		return true
	})

	for _, c := range comments {
		var target ast.Node
		for _, a := range anchors {
			if a.Pos().Offset >= c.Span.End.Offset {
				target = a
				break
			}
		}
		if target == nil {
			d.trailing = append(d.trailing, c)
			continue
		}
		d.leading[target] = append(d.leading[target], c)
	}
	return d
}

// isAnchor reports whether the printer looks up leading comments for n.
// Anchors always start a line in pretty mode.
func isAnchor(n ast.Node) bool {
	switch n.(type) {
	case *ast.SelectStmt, *ast.InsertStmt, *ast.UpdateStmt, *ast.DeleteStmt, *ast.CreateTableStmt,
		*ast.SelectCore, *ast.SelectItem, *ast.Join, *ast.CTE, *ast.OrderByItem,
		*ast.ColumnDef, *ast.TableConstraint, *ast.Assignment:
		return true
	}
	return false
}
