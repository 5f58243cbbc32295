package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqlt/pkg/ast"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Window function parsing: OVER clauses, FILTER, frames and the WINDOW
// clause of a SELECT core.
//
// Grammar:
//
//	call_suffix   → [FILTER "(" WHERE expr ")"] [OVER window_ref]
//	window_ref    → identifier | "(" window_spec ")"
//	window_spec   → [identifier] [PARTITION BY expr_list] [ORDER BY order_list] [frame_spec]
//	frame_spec    → (ROWS | RANGE | GROUPS) frame_extent
//	frame_extent  → BETWEEN frame_bound AND frame_bound | frame_bound
//	frame_bound   → UNBOUNDED PRECEDING | UNBOUNDED FOLLOWING | CURRENT ROW
//	              | expr PRECEDING | expr FOLLOWING
//	window_clause → WINDOW identifier AS "(" window_spec ")" {"," identifier AS "(" window_spec ")"}

// parseCallSuffix parses the FILTER and OVER clauses that may follow the
// argument list of f.
func (p *Parser) parseCallSuffix(f *ast.FuncCall) error {
	if p.isWord("FILTER") && p.checkPeek(token.LPAREN) {
		if err := p.require(dialect.FeatureFilterClause, "FILTER"); err != nil {
			return err
		}
		p.nextToken() // consume FILTER
		p.nextToken() // consume (
		if _, err := p.expect(token.WHERE); err != nil {
			return err
		}
		cond, err := p.parseExpression()
		if err != nil {
			return err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return err
		}
		f.Filter = cond
	}

	if p.isWord("OVER") && (p.checkPeek(token.LPAREN) || p.checkPeek(token.IDENT)) {
		if err := p.require(dialect.FeatureWindowFunctions, "OVER"); err != nil {
			return err
		}
		p.nextToken() // consume OVER
		if p.check(token.IDENT) {
			name, err := p.parseIdent()
			if err != nil {
				return err
			}
			spec := &ast.WindowSpec{Name: name}
			spec.Span = name.Span
			f.Over = spec
			return nil
		}
		spec, err := p.parseWindowSpec()
		if err != nil {
			return err
		}
		f.Over = spec
	}
	return nil
}

// parseWindowSpec parses "(" window_spec ")".
func (p *Parser) parseWindowSpec() (*ast.WindowSpec, error) {
	start := p.token.Pos()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	spec := &ast.WindowSpec{Parens: true}

	// Base window name
	if p.check(token.IDENT) && !p.startsWindowPart() {
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		spec.Name = name
	}

	if p.isWord("PARTITION") {
		p.nextToken()
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		exprs, err := p.parseExpressionList()
		if err != nil {
			return nil, err
		}
		spec.PartitionBy = exprs
	}

	if p.check(token.ORDER) {
		p.nextToken()
		if _, err := p.expect(token.BY); err != nil {
			return nil, err
		}
		items, err := p.parseOrderByList()
		if err != nil {
			return nil, err
		}
		spec.OrderBy = items
	}

	if units, ok := p.frameUnits(); ok {
		frame, err := p.parseFrameSpec(units)
		if err != nil {
			return nil, err
		}
		spec.Frame = frame
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	spec.Span = p.spanFrom(start)
	return spec, nil
}

func (p *Parser) startsWindowPart() bool {
	if _, ok := p.frameUnits(); ok {
		return true
	}
	return p.isWord("PARTITION")
}

func (p *Parser) frameUnits() (ast.FrameUnits, bool) {
	for _, u := range []ast.FrameUnits{ast.FrameRows, ast.FrameRange, ast.FrameGroups} {
		if p.isWord(u.String()) {
			return u, true
		}
	}
	return 0, false
}

// parseFrameSpec parses a frame starting at its units keyword.
func (p *Parser) parseFrameSpec(units ast.FrameUnits) (*ast.WindowFrame, error) {
	start := p.token.Pos()
	p.nextToken() // consume ROWS, RANGE or GROUPS
	frame := &ast.WindowFrame{Units: units}

	between := p.match(token.BETWEEN)
	lower, err := p.parseFrameBound()
	if err != nil {
		return nil, err
	}
	if lower.Kind == ast.BoundUnboundedFollowing {
		return nil, p.frameError(ErrFrameStart, lower)
	}
	frame.Start = lower

	if between {
		if _, err := p.expect(token.AND); err != nil {
			return nil, err
		}
		upper, err := p.parseFrameBound()
		if err != nil {
			return nil, err
		}
		if upper.Kind == ast.BoundUnboundedPreceding {
			return nil, p.frameError(ErrFrameEnd, upper)
		}
		frame.Upper = upper
	} else if lower.Kind == ast.BoundFollowing {
		// A lone bound starts a frame that ends at the current row.
		return nil, p.frameError(ErrFrameStart, lower)
	}

	frame.Span = p.spanFrom(start)
	return frame, nil
}

func (p *Parser) frameError(format string, b *ast.FrameBound) *ParseError {
	return &ParseError{
		Pos:     b.Span.Start,
		Span:    b.Span,
		Message: fmt.Sprintf(format, b.Kind.String()),
		Got:     b.Kind.String(),
	}
}

// parseFrameBound parses one frame bound.
func (p *Parser) parseFrameBound() (*ast.FrameBound, error) {
	start := p.token.Pos()
	bound := &ast.FrameBound{}

	switch {
	case p.matchWord("UNBOUNDED"):
		switch {
		case p.matchWord("PRECEDING"):
			bound.Kind = ast.BoundUnboundedPreceding
		case p.matchWord("FOLLOWING"):
			bound.Kind = ast.BoundUnboundedFollowing
		default:
			return nil, p.expected("PRECEDING", "FOLLOWING")
		}

	case p.isWord("CURRENT") && isWordToken(p.peek(1), "ROW"):
		p.nextToken()
		p.nextToken()
		bound.Kind = ast.BoundCurrentRow

	default:
		offset, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		bound.Offset = offset
		switch {
		case p.matchWord("PRECEDING"):
			bound.Kind = ast.BoundPreceding
		case p.matchWord("FOLLOWING"):
			bound.Kind = ast.BoundFollowing
		default:
			return nil, p.expected("PRECEDING", "FOLLOWING")
		}
	}

	bound.Span = p.spanFrom(start)
	return bound, nil
}

// parseWindowClause parses WINDOW name AS (spec) {, name AS (spec)}.
func (p *Parser) parseWindowClause() ([]*ast.NamedWindow, error) {
	if err := p.require(dialect.FeatureWindowFunctions, "WINDOW"); err != nil {
		return nil, err
	}
	p.nextToken() // consume WINDOW

	var windows []*ast.NamedWindow
	for {
		start := p.token.Pos()
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.AS); err != nil {
			return nil, err
		}
		spec, err := p.parseWindowSpec()
		if err != nil {
			return nil, err
		}
		w := &ast.NamedWindow{Name: name, Spec: spec}
		w.Span = p.spanFrom(start)
		windows = append(windows, w)
		if !p.match(token.COMMA) {
			return windows, nil
		}
	}
}

// startsWindowClause reports whether the current token begins a WINDOW
// clause rather than naming an alias. WINDOW is not reserved everywhere.
func (p *Parser) startsWindowClause() bool {
	return p.isWord("WINDOW") &&
		p.peek(1).Type == token.IDENT &&
		p.peek(2).Type == token.AS &&
		p.dialect.Supports(dialect.FeatureWindowFunctions)
}
