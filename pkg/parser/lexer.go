package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/token"
)

const eof rune = -1

// Lexer tokenizes SQL input under a dialect's lexical rules.
type Lexer struct {
	input   string
	pos     int  // byte offset of ch
	readPos int  // byte offset after ch
	ch      rune // current char under examination, eof at end of input
	line    int  // line of ch (1-based)
	col     int  // column of ch in runes (1-based)

	dialect dialect.Dialect

	// Comments collected during lexing (for formatter)
	Comments []token.Comment
}

// NewLexer creates a new Lexer for the given input and dialect.
func NewLexer(input string, d dialect.Dialect) *Lexer {
	l := &Lexer{
		input:   input,
		line:    1,
		col:     0,
		dialect: d,
	}
	l.readChar()
	return l
}

// Tokenize returns all tokens of the input, ending with an EOF token, or
// the first lexical error.
func Tokenize(input string, d dialect.Dialect) ([]token.Token, error) {
	l := NewLexer(input, d)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// TokenizeWithComments is Tokenize that also returns the comments the
// lexer skipped, in source order.
func TokenizeWithComments(input string, d dialect.Dialect) ([]token.Token, []token.Comment, error) {
	l := NewLexer(input, d)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, l.Comments, nil
		}
	}
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		if l.ch != eof {
			l.col++
		}
		l.ch = eof
		l.pos = len(l.input)
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += w
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// invalidEncoding reports whether ch was decoded from a byte that is not
// valid UTF-8.
func (l *Lexer) invalidEncoding() bool {
	return l.ch == utf8.RuneError && l.readPos-l.pos == 1
}

// currentPos returns the position of the current character.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) supports(f dialect.Feature) bool {
	return l.dialect.Supports(f)
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) *LexError {
	return &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// NextToken returns the next token, or a LexError.
func (l *Lexer) NextToken() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	start := l.currentPos()
	tok, err := l.scan(start)
	if err != nil {
		return token.Token{}, err
	}
	tok.Span = token.Span{Start: start, End: l.currentPos()}
	return tok, nil
}

func (l *Lexer) scan(start token.Position) (token.Token, error) {
	ch := l.ch
	switch {
	case ch == eof:
		return token.Token{Type: token.EOF}, nil

	case l.invalidEncoding():
		return token.Token{}, l.errorf(start, ErrInvalidUTF8)

	case ch == '\'':
		return l.readString(start, '\'', token.QuoteSingle, l.supports(dialect.FeatureBackslashEscapes))

	case ch == '"':
		if l.supports(dialect.FeatureDoubleQuotedStrings) {
			return l.readString(start, '"', token.QuoteDouble, l.supports(dialect.FeatureBackslashEscapes))
		}
		return l.readQuotedIdentifier(start, '"', token.QuoteDouble)

	case ch == '`' && (l.supports(dialect.FeatureBacktickIdentifiers) || l.dialect.QuoteStyle().Open == '`'):
		return l.readQuotedIdentifier(start, '`', token.QuoteBacktick)

	case ch == '[' && l.supports(dialect.FeatureBracketIdentifiers):
		return l.readQuotedIdentifier(start, ']', token.QuoteBracket)

	case l.peekChar() == '\'' && l.isStringPrefix(ch):
		return l.readPrefixedString(start)

	case dialect.IsIdentStart(ch):
		return l.readWord(), nil

	case isDigit(ch) || (ch == '.' && isDigit(l.peekChar())):
		return l.readNumber(start)

	case ch == '?' || ch == '$' || (ch == ':' && l.peekChar() != ':'):
		return l.readPlaceholder(start)
	}
	return l.readOperator(start)
}

// readOperator matches operators and punctuation, longest match first.
func (l *Lexer) readOperator(start token.Position) (token.Token, error) {
	ch, next := l.ch, l.peekChar()
	two := func(t token.TokenType, lit string) (token.Token, error) {
		l.readChar()
		l.readChar()
		return token.Token{Type: t, Literal: lit}, nil
	}
	one := func(t token.TokenType) (token.Token, error) {
		l.readChar()
		return token.Token{Type: t, Literal: string(ch)}, nil
	}

	switch ch {
	case '<':
		switch next {
		case '>':
			return two(token.NE, "<>")
		case '=':
			return two(token.LE, "<=")
		}
		return one(token.LT)
	case '>':
		if next == '=' {
			return two(token.GE, ">=")
		}
		return one(token.GT)
	case '!':
		if next == '=' {
			return two(token.NE, "!=")
		}
	case '|':
		if next == '|' {
			return two(token.DPIPE, "||")
		}
	case ':':
		if next == ':' {
			return two(token.DCOLON, "::")
		}
	case '=':
		return one(token.EQ)
	case '+':
		return one(token.PLUS)
	case '-':
		return one(token.MINUS)
	case '*':
		return one(token.STAR)
	case '/':
		return one(token.SLASH)
	case '%':
		return one(token.PERCENT)
	case ',':
		return one(token.COMMA)
	case ';':
		return one(token.SEMICOLON)
	case '(':
		return one(token.LPAREN)
	case ')':
		return one(token.RPAREN)
	case '.':
		return one(token.DOT)
	}
	return token.Token{}, l.errorf(start, ErrUnexpectedChar, ch)
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for l.ch != eof && unicode.IsSpace(l.ch) {
			l.readChar()
		}

		switch {
		case l.ch == '-' && l.peekChar() == '-':
			l.collectLineComment()
		case l.ch == '#' && l.supports(dialect.FeatureHashComments):
			l.collectLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			if err := l.collectBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	for l.ch != '\n' && l.ch != eof {
		l.readChar()
	}
	l.Comments = append(l.Comments, token.Comment{
		Kind: token.LineComment,
		Text: l.input[startPos.Offset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment. Nesting is honored when
// the dialect enables it.
func (l *Lexer) collectBlockComment() error {
	startPos := l.currentPos()
	nested := l.supports(dialect.FeatureNestedComments)

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	depth := 1
	for depth > 0 {
		switch {
		case l.ch == eof:
			return l.errorf(startPos, ErrUnterminatedComment)
		case l.ch == '*' && l.peekChar() == '/':
			l.readChar()
			l.readChar()
			depth--
		case nested && l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			depth++
		default:
			l.readChar()
		}
	}

	l.Comments = append(l.Comments, token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startPos.Offset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
	return nil
}

// readString reads a quoted string literal. A doubled quote is an escaped
// quote; backslash escapes are decoded when backslash is set.
func (l *Lexer) readString(start token.Position, quote rune, style token.Quote, backslash bool) (token.Token, error) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		switch {
		case l.ch == eof:
			return token.Token{}, l.errorf(start, ErrUnterminatedString)
		case l.ch == quote:
			if l.peekChar() != quote {
				l.readChar() // skip closing quote
				return token.Token{Type: token.STRING, Literal: result.String(), Quote: style}, nil
			}
			result.WriteRune(quote)
			l.readChar()
			l.readChar()
		case backslash && l.ch == '\\':
			l.readChar()
			if l.ch == eof {
				return token.Token{}, l.errorf(start, ErrUnterminatedString)
			}
			if l.invalidEncoding() {
				return token.Token{}, l.errorf(l.currentPos(), ErrInvalidUTF8)
			}
			result.WriteRune(unescape(l.ch))
			l.readChar()
		case l.invalidEncoding():
			return token.Token{}, l.errorf(l.currentPos(), ErrInvalidUTF8)
		default:
			result.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case '0':
		return 0
	}
	return ch
}

// readQuotedIdentifier reads a quoted identifier up to closing, where a
// doubled closing character is an escaped one.
func (l *Lexer) readQuotedIdentifier(start token.Position, closing rune, style token.Quote) (token.Token, error) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		switch {
		case l.ch == eof:
			return token.Token{}, l.errorf(start, ErrUnterminatedIdent)
		case l.ch == closing:
			if l.peekChar() != closing {
				l.readChar()
				return token.Token{Type: token.IDENT, Literal: result.String(), Quote: style}, nil
			}
			result.WriteRune(closing)
			l.readChar()
			l.readChar()
		case l.invalidEncoding():
			return token.Token{}, l.errorf(l.currentPos(), ErrInvalidUTF8)
		default:
			result.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) isStringPrefix(ch rune) bool {
	switch ch {
	case 'e', 'E':
		return l.supports(dialect.FeatureEscapeStrings)
	case 'n', 'N':
		return l.supports(dialect.FeatureNationalStrings)
	case 'x', 'X':
		return l.supports(dialect.FeatureHexStrings)
	}
	return false
}

// readPrefixedString reads E'...', N'...' and X'...' literals.
func (l *Lexer) readPrefixedString(start token.Position) (token.Token, error) {
	prefix := unicode.ToUpper(l.ch)
	l.readChar() // skip prefix

	switch prefix {
	case 'E':
		return l.readString(start, '\'', token.QuoteEscape, true)
	case 'N':
		return l.readString(start, '\'', token.QuoteNational, l.supports(dialect.FeatureBackslashEscapes))
	}

	tok, err := l.readString(start, '\'', token.QuoteHex, false)
	if err != nil {
		return tok, err
	}
	for _, r := range tok.Literal {
		if !isHexDigit(r) {
			return token.Token{}, l.errorf(start, ErrInvalidHexString)
		}
	}
	return tok, nil
}

// readWord reads an unquoted identifier or keyword. Words reserved by
// the dialect become keyword tokens; everything else is an identifier.
func (l *Lexer) readWord() token.Token {
	start := l.pos
	for l.ch != eof && dialect.IsIdentPart(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.pos]
	if l.dialect.IsReserved(word) {
		if t, ok := token.LookupKeyword(word); ok {
			return token.Token{Type: t, Literal: word}
		}
	}
	return token.Token{Type: token.IDENT, Literal: word}
}

// readNumber reads a numeric literal (integer, decimal, or scientific)
// with an optional dialect suffix.
func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	// Read integer part
	for isDigit(l.ch) {
		l.readChar()
	}

	// Read decimal part
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Read exponent part (e.g., 1e10, 1E-5)
	if l.ch == 'e' || l.ch == 'E' {
		save := *l
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			*l = save
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	text := l.input[start.Offset:l.pos]
	if l.ch == eof || !dialect.IsIdentPart(l.ch) {
		return token.Token{Type: token.NUMBER, Literal: text}, nil
	}

	// Identifier characters glued to the number must form a suffix.
	suffixStart := l.pos
	for l.ch != eof && dialect.IsIdentPart(l.ch) {
		l.readChar()
	}
	suffix := l.input[suffixStart:l.pos]
	if !l.dialect.IsNumericSuffix(suffix) {
		return token.Token{}, l.errorf(start, ErrInvalidNumber, text+suffix)
	}
	return token.Token{Type: token.NUMBER, Literal: text, Suffix: strings.ToUpper(suffix)}, nil
}

// readPlaceholder reads ?, $n and :name. Whether the dialect accepts the
// style is decided by the parser.
func (l *Lexer) readPlaceholder(start token.Position) (token.Token, error) {
	sigil := l.ch
	l.readChar()
	switch sigil {
	case '?':
		return token.Token{Type: token.PARAM, Literal: "?"}, nil
	case '$':
		if !isDigit(l.ch) {
			return token.Token{}, l.errorf(start, ErrInvalidPlaceholder, "$")
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	default:
		if l.ch == eof || !dialect.IsIdentStart(l.ch) {
			return token.Token{}, l.errorf(start, ErrUnexpectedChar, sigil)
		}
		for l.ch != eof && dialect.IsIdentPart(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Type: token.PARAM, Literal: l.input[start.Offset:l.pos]}, nil
}

// isDigit returns true if ch is an ASCII digit.
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
