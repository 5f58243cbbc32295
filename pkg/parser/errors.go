package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlt/pkg/token"
)

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Position returns where the error occurred.
func (e *LexError) Position() token.Position { return e.Pos }

// ParseError represents a parsing error with position information.
//
// Expected lists what the parser would have accepted and Got describes the
// offending token. Construct and Dialect are set when a syntax extension
// is used under a dialect that does not enable it.
type ParseError struct {
	Pos       token.Position
	Span      token.Span
	Message   string
	Expected  []string
	Got       string
	Construct string
	Dialect   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Position returns where the error occurred.
func (e *ParseError) Position() token.Position { return e.Pos }

// Common error messages
const (
	ErrUnexpectedChar       = "unexpected character %q"
	ErrUnterminatedString   = "unterminated string literal"
	ErrUnterminatedIdent    = "unterminated quoted identifier"
	ErrUnterminatedComment  = "unterminated block comment"
	ErrInvalidNumber        = "invalid number literal %q"
	ErrInvalidHexString     = "invalid hex string literal"
	ErrInvalidPlaceholder   = "invalid placeholder %q"
	ErrInvalidUTF8          = "invalid UTF-8 encoding"
	ErrExpectedOneOf        = "expected one of: %s, got %s"
	ErrExpected             = "expected %s, got %s"
	ErrUnsupportedConstruct = "%s is not supported in %s dialect"
	ErrTrailingInput        = "unexpected %s after end of statement"
	ErrReservedWord         = "reserved word %s must be quoted to be used as an identifier"
	ErrMaxDepth             = "maximum nesting depth of %d exceeded"
	ErrFrameStart           = "frame start cannot be %s"
	ErrFrameEnd             = "frame end cannot be %s"
	ErrWithTiesOrder        = "WITH TIES requires ORDER BY"
	ErrEmptyInput           = "empty statement"
)

func expectedMessage(expected []string, got string) string {
	if len(expected) == 1 {
		return fmt.Sprintf(ErrExpected, expected[0], got)
	}
	return fmt.Sprintf(ErrExpectedOneOf, strings.Join(expected, ", "), got)
}
