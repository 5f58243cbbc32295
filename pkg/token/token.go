// Package token defines the lexical vocabulary shared by the lexer,
// parser and generator.
//
// Core grammar keywords are defined as constants (IDs below 1000) so the
// parser can switch on them. Dialect-specific reserved words are
// registered dynamically via Register().
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // token.TokenType reads better than token.Type at call sites
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier, bare or quoted
	NUMBER // 123, 45.67, 1e10, 10L
	STRING // 'hello', E'a\n', N'x', X'ff'
	PARAM  // ?, $1, :name

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	DPIPE   // ||
	EQ      // =
	NE      // <> or !=
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=
	DCOLON  // ::

	// Punctuation
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	DOT       // .

	// Core keywords (alphabetical). These are reserved in every dialect.
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	CHECK
	CONSTRAINT
	CREATE
	CROSS
	CURRENT_DATE
	CURRENT_TIME
	CURRENT_TIMESTAMP
	CURRENT_USER
	DEFAULT
	DELETE
	DESC
	DISTINCT
	ELSE
	END
	ESCAPE
	EXCEPT
	EXISTS
	FALSE
	FETCH
	FROM
	FULL
	GROUP
	HAVING
	ILIKE
	IN
	INNER
	INSERT
	INTERSECT
	INTERVAL
	INTO
	IS
	JOIN
	LEFT
	LIKE
	LIMIT
	NATURAL
	NOT
	NULL
	OFFSET
	ON
	OR
	ORDER
	OUTER
	PRIMARY
	REFERENCES
	RETURNING
	RIGHT
	SELECT
	SET
	TABLE
	THEN
	TRUE
	UNION
	UNIQUE
	UPDATE
	USING
	VALUES
	WHEN
	WHERE
	WITH

	// Sentinel - dynamic tokens start after this
	maxBuiltin TokenType = 999
)

// Kind is the closed lexical category of a token.
type Kind int

// Token categories.
const (
	KindEOF Kind = iota
	KindKeyword
	KindIdentifier
	KindNumber
	KindString
	KindOperator
	KindPunctuation
	KindPlaceholder
	KindIllegal
)

var kindNames = [...]string{
	KindEOF:         "eof",
	KindKeyword:     "keyword",
	KindIdentifier:  "identifier",
	KindNumber:      "number",
	KindString:      "string",
	KindOperator:    "operator",
	KindPunctuation: "punctuation",
	KindPlaceholder: "placeholder",
	KindIllegal:     "illegal",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Quote records how a string literal or identifier was quoted in the source.
type Quote uint8

// Quote styles.
const (
	QuoteNone     Quote = iota
	QuoteSingle         // 'text'
	QuoteDouble         // "text"
	QuoteBacktick       // `text`
	QuoteBracket        // [text]
	QuoteEscape         // E'text'
	QuoteNational       // N'text'
	QuoteHex            // X'text'
)

var quoteNames = [...]string{
	QuoteNone:     "none",
	QuoteSingle:   "single",
	QuoteDouble:   "double",
	QuoteBacktick: "backtick",
	QuoteBracket:  "bracket",
	QuoteEscape:   "escape",
	QuoteNational: "national",
	QuoteHex:      "hex",
}

func (q Quote) String() string {
	if int(q) < len(quoteNames) {
		return quoteNames[q]
	}
	return fmt.Sprintf("Quote(%d)", q)
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := getDynamicName(t); ok {
		return name
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps builtin token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	PARAM:  "PARAM",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	DPIPE:   "||",
	EQ:      "=",
	NE:      "<>",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",
	DCOLON:  "::",

	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	DOT:       ".",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{}

func init() {
	for t := ALL; t <= WITH; t++ {
		name := coreKeywordNames[t-ALL]
		tokenNames[t] = name
		keywords[strings.ToLower(name)] = t
	}
}

// coreKeywordNames is indexed by (TokenType - ALL) and must stay in
// the same order as the keyword constants.
var coreKeywordNames = [...]string{
	"ALL", "AND", "AS", "ASC", "BETWEEN", "BY", "CASE", "CAST", "CHECK",
	"CONSTRAINT", "CREATE", "CROSS", "CURRENT_DATE", "CURRENT_TIME",
	"CURRENT_TIMESTAMP", "CURRENT_USER", "DEFAULT", "DELETE", "DESC",
	"DISTINCT", "ELSE", "END", "ESCAPE", "EXCEPT", "EXISTS", "FALSE",
	"FETCH", "FROM", "FULL", "GROUP", "HAVING", "ILIKE", "IN", "INNER",
	"INSERT", "INTERSECT", "INTERVAL", "INTO", "IS", "JOIN", "LEFT", "LIKE",
	"LIMIT", "NATURAL", "NOT", "NULL", "OFFSET", "ON", "OR", "ORDER",
	"OUTER", "PRIMARY", "REFERENCES", "RETURNING", "RIGHT", "SELECT", "SET",
	"TABLE", "THEN", "TRUE", "UNION", "UNIQUE", "UPDATE", "USING", "VALUES",
	"WHEN", "WHERE", "WITH",
}

// CoreKeywords returns the uppercase spelling of every core keyword.
func CoreKeywords() []string {
	out := make([]string, len(coreKeywordNames))
	copy(out, coreKeywordNames[:])
	return out
}

// LookupKeyword returns the token type for a word if it is a core or
// registered keyword. The lookup is case-insensitive.
func LookupKeyword(word string) (TokenType, bool) {
	if tok, ok := keywords[strings.ToLower(word)]; ok {
		return tok, true
	}
	return LookupDynamicKeyword(word)
}

// IsCoreKeyword reports whether word is one of the core grammar keywords.
func IsCoreKeyword(word string) bool {
	_, ok := keywords[strings.ToLower(word)]
	return ok
}

// IsKeyword returns true if the token type is a core or dynamic keyword.
func IsKeyword(t TokenType) bool {
	return (t >= ALL && t <= WITH) || IsDynamic(t)
}

// IsOperator returns true if the token type is an operator.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= DCOLON
}

// IsPunctuation returns true if the token type is punctuation.
func IsPunctuation(t TokenType) bool {
	return t >= COMMA && t <= DOT
}

// Token is a classified, position-tagged lexical unit.
// Tokens are immutable once produced by the lexer.
type Token struct {
	Type    TokenType
	Literal string // unescaped text of identifiers and strings, raw text otherwise
	Span    Span
	Quote   Quote  // quoting of identifiers and strings
	Suffix  string // dialect numeric suffix, e.g. "L" in 10L
}

// Pos returns the start position of the token.
func (t Token) Pos() Position {
	return t.Span.Start
}

// Kind returns the lexical category of the token.
func (t Token) Kind() Kind {
	switch {
	case t.Type == EOF:
		return KindEOF
	case t.Type == IDENT:
		return KindIdentifier
	case t.Type == NUMBER:
		return KindNumber
	case t.Type == STRING:
		return KindString
	case t.Type == PARAM:
		return KindPlaceholder
	case IsOperator(t.Type):
		return KindOperator
	case IsPunctuation(t.Type):
		return KindPunctuation
	case IsKeyword(t.Type):
		return KindKeyword
	}
	return KindIllegal
}

// Quoted reports whether an identifier token was written with quotes.
func (t Token) Quoted() bool {
	return t.Type == IDENT && t.Quote != QuoteNone
}

// String renders the token for diagnostics.
func (t Token) String() string {
	switch t.Kind() {
	case KindEOF:
		return "end of input"
	case KindIdentifier:
		if t.Quoted() {
			return fmt.Sprintf("quoted identifier %q", t.Literal)
		}
		return fmt.Sprintf("identifier %q", t.Literal)
	case KindNumber:
		return "number " + t.Literal + t.Suffix
	case KindString:
		return fmt.Sprintf("string %q", t.Literal)
	case KindKeyword:
		return "keyword " + t.Type.String()
	case KindPlaceholder:
		return "placeholder " + t.Literal
	}
	return fmt.Sprintf("%q", t.Type.String())
}
