// Package ast defines the dialect-neutral syntax tree produced by the
// parser and consumed by the generator.
//
// The node family is closed: every node embeds NodeInfo and implements one
// of the marker interfaces below. Grouping parentheses are not represented;
// the tree shape alone carries operator precedence, and the generator
// re-inserts parentheses where the shape requires them.
package ast

import "github.com/leapstack-labs/sqlt/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position immediately after the node.
	End() token.Position
	info() *NodeInfo
}

// Statement is a marker interface for parse roots.
type Statement interface {
	Node
	stmtNode()
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// SetExpr is a marker interface for query bodies: a SELECT core, a set
// operation, a VALUES list or a parenthesized query.
type SetExpr interface {
	Node
	setExprNode()
}

// TableRef is a marker interface for FROM items.
type TableRef interface {
	Node
	tableRefNode()
}

// NodeInfo carries the source span of a node. It is embedded in every
// node and is used for diagnostics only.
type NodeInfo struct {
	Span token.Span
}

// Pos implements Node.
func (n *NodeInfo) Pos() token.Position { return n.Span.Start }

// End implements Node.
func (n *NodeInfo) End() token.Position { return n.Span.End }

func (n *NodeInfo) info() *NodeInfo { return n }

// SpanOf returns the source span of n.
func SpanOf(n Node) token.Span {
	if n == nil {
		return token.Span{}
	}
	return n.info().Span
}

// SetSpan sets the source span of n.
func SetSpan(n Node, s token.Span) {
	n.info().Span = s
}
