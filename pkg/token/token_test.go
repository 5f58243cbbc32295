package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreKeywordTable(t *testing.T) {
	require.Len(t, coreKeywordNames, int(WITH-ALL+1), "keyword names must line up with the constants")

	tests := []struct {
		word string
		want TokenType
	}{
		{"select", SELECT},
		{"SELECT", SELECT},
		{"Where", WHERE},
		{"current_timestamp", CURRENT_TIMESTAMP},
		{"with", WITH},
		{"all", ALL},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := LookupKeyword(tt.word)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := LookupKeyword("nulls")
	assert.False(t, ok, "contextual words are not keywords")
}

func TestTokenKind(t *testing.T) {
	tests := []struct {
		tok  Token
		want Kind
	}{
		{Token{Type: EOF}, KindEOF},
		{Token{Type: SELECT}, KindKeyword},
		{Token{Type: IDENT, Literal: "a"}, KindIdentifier},
		{Token{Type: NUMBER, Literal: "1"}, KindNumber},
		{Token{Type: STRING, Literal: "x", Quote: QuoteSingle}, KindString},
		{Token{Type: LE}, KindOperator},
		{Token{Type: DCOLON}, KindOperator},
		{Token{Type: COMMA}, KindPunctuation},
		{Token{Type: PARAM, Literal: "?"}, KindPlaceholder},
		{Token{Type: ILLEGAL}, KindIllegal},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tok.Kind())
		})
	}
}

func TestTokenQuoted(t *testing.T) {
	assert.True(t, Token{Type: IDENT, Literal: "select", Quote: QuoteDouble}.Quoted())
	assert.False(t, Token{Type: IDENT, Literal: "a"}.Quoted())
	assert.False(t, Token{Type: STRING, Literal: "a", Quote: QuoteSingle}.Quoted())
}

func TestSpanCover(t *testing.T) {
	a := Span{Start: Position{1, 1, 0}, End: Position{1, 4, 3}}
	b := Span{Start: Position{1, 6, 5}, End: Position{1, 9, 8}}

	got := a.Cover(b)
	assert.Equal(t, 0, got.Start.Offset)
	assert.Equal(t, 8, got.End.Offset)
	assert.Equal(t, 8, got.Len())
	assert.Equal(t, a, a.Cover(Span{}))
	assert.True(t, got.Contains(5))
	assert.False(t, got.Contains(8))
}
