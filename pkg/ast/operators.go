package ast

// Precedence is the binding power of an operator. Higher binds tighter.
type Precedence int

// Precedence levels, loosest first.
const (
	PrecNone           Precedence = iota
	PrecOr                        // OR
	PrecAnd                       // AND
	PrecNot                       // NOT
	PrecComparison                // = <> < > <= >= IS IN BETWEEN LIKE ILIKE
	PrecAdditive                  // + - ||
	PrecMultiplicative            // * / %
	PrecUnary                     // unary - +
	PrecPostfix                   // ::
	PrecPrimary                   // literals, names, calls, parenthesized forms
)

// BinaryOp is a binary infix operator.
type BinaryOp int

// Binary operators.
const (
	OpOr BinaryOp = iota
	OpAnd
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAdd
	OpSub
	OpConcat
	OpMul
	OpDiv
	OpMod
)

var binaryOps = [...]struct {
	text string
	prec Precedence
}{
	OpOr:     {"OR", PrecOr},
	OpAnd:    {"AND", PrecAnd},
	OpEq:     {"=", PrecComparison},
	OpNe:     {"<>", PrecComparison},
	OpLt:     {"<", PrecComparison},
	OpGt:     {">", PrecComparison},
	OpLe:     {"<=", PrecComparison},
	OpGe:     {">=", PrecComparison},
	OpAdd:    {"+", PrecAdditive},
	OpSub:    {"-", PrecAdditive},
	OpConcat: {"||", PrecAdditive},
	OpMul:    {"*", PrecMultiplicative},
	OpDiv:    {"/", PrecMultiplicative},
	OpMod:    {"%", PrecMultiplicative},
}

// String returns the canonical SQL spelling of the operator.
func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOps) {
		return binaryOps[op].text
	}
	return "?"
}

// Precedence returns the binding power of the operator.
func (op BinaryOp) Precedence() Precedence {
	if op >= 0 && int(op) < len(binaryOps) {
		return binaryOps[op].prec
	}
	return PrecNone
}

// IsKeyword reports whether the operator is spelled as a keyword.
func (op BinaryOp) IsKeyword() bool {
	return op == OpOr || op == OpAnd
}

// ParseBinaryOp looks up an operator by its canonical spelling.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	if s == "!=" {
		return OpNe, true
	}
	for i, b := range binaryOps {
		if b.text == s {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

// UnaryOp is a prefix operator.
type UnaryOp int

// Unary operators.
const (
	OpNeg UnaryOp = iota // -
	OpPos                // +
	OpNot                // NOT
)

// String returns the SQL spelling of the operator.
func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpPos:
		return "+"
	case OpNot:
		return "NOT"
	}
	return "?"
}

// Precedence returns the binding power of the operator.
func (op UnaryOp) Precedence() Precedence {
	if op == OpNot {
		return PrecNot
	}
	return PrecUnary
}

// ParseUnaryOp looks up an operator by its spelling.
func ParseUnaryOp(s string) (UnaryOp, bool) {
	switch s {
	case "-":
		return OpNeg, true
	case "+":
		return OpPos, true
	case "NOT", "not":
		return OpNot, true
	}
	return 0, false
}

// SetOp is a set operator combining two query bodies.
type SetOp int

// Set operators.
const (
	Union SetOp = iota
	Intersect
	Except
)

func (op SetOp) String() string {
	switch op {
	case Intersect:
		return "INTERSECT"
	case Except:
		return "EXCEPT"
	}
	return "UNION"
}

// Precedence returns the binding power of the set operator. INTERSECT
// binds tighter than UNION and EXCEPT.
func (op SetOp) Precedence() Precedence {
	if op == Intersect {
		return 2
	}
	return 1
}

// ExprPrecedence returns the binding power of the operator at the root
// of e, as written without surrounding parentheses. The generator may
// still choose a spelling that binds tighter (for example CAST(x AS T)
// instead of x::T).
func ExprPrecedence(e Expr) Precedence {
	switch n := e.(type) {
	case *BinaryExpr:
		return n.Op.Precedence()
	case *UnaryExpr:
		return n.Op.Precedence()
	case *BetweenExpr, *InExpr, *LikeExpr, *IsExpr:
		return PrecComparison
	case *CastExpr:
		if n.Postfix {
			return PrecPostfix
		}
	}
	return PrecPrimary
}
