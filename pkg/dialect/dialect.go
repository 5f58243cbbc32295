// Package dialect provides the capability interface consumed by the lexer,
// parser and generator, plus the Profile builder used to define dialects.
//
// A dialect is a stateless description of lexical and rendering variance:
// quote characters, reserved words, identifier folding, keyword casing and
// a set of named syntax extensions. Concrete dialects are registered from
// pkg/dialects/*/ packages.
package dialect

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/leapstack-labs/sqlt/pkg/token"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dialect is the read-only capability set queried at every
// dialect-sensitive decision point. Implementations must be safe for
// concurrent use and must not change after construction.
type Dialect interface {
	// Name returns the registry name of the dialect.
	Name() string
	// IsReserved reports whether an unquoted word lexes as a keyword.
	IsReserved(word string) bool
	// QuoteStyle returns the preferred identifier quote pair.
	QuoteStyle() QuoteStyle
	// IdentifierCase returns the folding rule for unquoted identifiers.
	IdentifierCase() CaseRule
	// KeywordCase returns the casing used when rendering keywords.
	KeywordCase() KeywordCase
	// Supports reports whether a syntax extension is enabled.
	Supports(f Feature) bool
	// IsNumericSuffix reports whether s is a legal numeric literal suffix.
	IsNumericSuffix(s string) bool
	// IsFunction reports whether name is a builtin function of the dialect.
	IsFunction(name string) bool
	// FunctionTransform returns the rendering rewrite registered for a function.
	FunctionTransform(name string) (FunctionTransform, bool)
}

// QuoteStyle is an identifier quote pair.
type QuoteStyle struct {
	Open  rune
	Close rune
}

func (q QuoteStyle) String() string {
	return string(q.Open) + string(q.Close)
}

// CaseRule is the folding rule applied to unquoted identifiers.
type CaseRule int

// Identifier case rules.
const (
	CaseUnchanged CaseRule = iota
	CaseFoldUpper
	CaseFoldLower
)

func (c CaseRule) String() string {
	switch c {
	case CaseFoldUpper:
		return "fold_upper"
	case CaseFoldLower:
		return "fold_lower"
	default:
		return "unchanged"
	}
}

// KeywordCase is the casing used when rendering keywords.
type KeywordCase int

// Keyword casing.
const (
	KeywordUpper KeywordCase = iota
	KeywordLower
)

func (k KeywordCase) String() string {
	if k == KeywordLower {
		return "lower"
	}
	return "upper"
}

// Apply renders word in this casing.
func (k KeywordCase) Apply(word string) string {
	if k == KeywordLower {
		return strings.ToLower(word)
	}
	return strings.ToUpper(word)
}

// UnmarshalText implements encoding.TextUnmarshaler so configuration
// decoders can read "upper" and "lower".
func (k *KeywordCase) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "upper":
		*k = KeywordUpper
	case "lower":
		*k = KeywordLower
	default:
		return fmt.Errorf("invalid keyword case %q (want upper or lower)", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k KeywordCase) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Profile is the concrete Dialect built by Builder.
// A Profile is immutable once built.
type Profile struct {
	name       string
	quote      QuoteStyle
	identCase  CaseRule
	kwCase     KeywordCase
	features   featureSet
	reserved   map[string]struct{} // uppercase, excluding core keywords
	suffixes   map[string]struct{} // uppercase
	functions  map[string]struct{} // lowercase
	transforms map[string]FunctionTransform
}

var _ Dialect = (*Profile)(nil)

// Name returns the dialect name.
func (p *Profile) Name() string { return p.name }

// QuoteStyle returns the identifier quote pair.
func (p *Profile) QuoteStyle() QuoteStyle { return p.quote }

// IdentifierCase returns the unquoted identifier folding rule.
func (p *Profile) IdentifierCase() CaseRule { return p.identCase }

// KeywordCase returns the keyword rendering case.
func (p *Profile) KeywordCase() KeywordCase { return p.kwCase }

// Supports reports whether the feature is enabled.
func (p *Profile) Supports(f Feature) bool { return p.features.has(f) }

// IsReserved reports whether word is a core keyword or one of the
// profile's additional reserved words. The check is case-insensitive.
func (p *Profile) IsReserved(word string) bool {
	if token.IsCoreKeyword(word) {
		return true
	}
	_, ok := p.reserved[strings.ToUpper(word)]
	return ok
}

// IsNumericSuffix reports whether s is an accepted numeric suffix.
func (p *Profile) IsNumericSuffix(s string) bool {
	_, ok := p.suffixes[strings.ToUpper(s)]
	return ok
}

// IsFunction reports whether name is in the builtin function catalogue.
func (p *Profile) IsFunction(name string) bool {
	_, ok := p.functions[strings.ToLower(name)]
	return ok
}

// FunctionTransform returns the rewrite registered for name.
func (p *Profile) FunctionTransform(name string) (FunctionTransform, bool) {
	t, ok := p.transforms[strings.ToLower(name)]
	return t, ok
}

// Features returns the enabled features in declaration order.
func (p *Profile) Features() []Feature {
	return p.features.list()
}

// ReservedWords returns the profile's reserved words beyond the core
// keywords, sorted.
func (p *Profile) ReservedWords() []string {
	return sortedKeys(p.reserved)
}

// NumericSuffixes returns the accepted numeric suffixes, sorted.
func (p *Profile) NumericSuffixes() []string {
	return sortedKeys(p.suffixes)
}

// Functions returns the builtin function catalogue, sorted.
func (p *Profile) Functions() []string {
	return sortedKeys(p.functions)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FoldIdentifier applies the dialect's folding rule to an unquoted name.
func FoldIdentifier(d Dialect, name string) string {
	switch d.IdentifierCase() {
	case CaseFoldUpper:
		return cases.Upper(language.Und).String(name)
	case CaseFoldLower:
		return cases.Lower(language.Und).String(name)
	default:
		return name
	}
}

// IsIdentStart reports whether r may start a bare identifier.
func IsIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// IsIdentPart reports whether r may continue a bare identifier.
func IsIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsBareIdentifier reports whether name lexes as a single identifier
// without quotes.
func IsBareIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !IsIdentStart(r) {
				return false
			}
			continue
		}
		if !IsIdentPart(r) {
			return false
		}
	}
	return true
}

// NeedsQuoting reports whether name must be quoted to survive re-lexing
// under d: it collides with a reserved word or is not a bare identifier.
func NeedsQuoting(d Dialect, name string) bool {
	return d.IsReserved(name) || !IsBareIdentifier(name)
}

// NeedsQuotingFrom reports whether a name written unquoted under src must
// be quoted to name the same object under d. Names from a dialect that
// folds case are case-insensitive, so only NeedsQuoting applies. Names
// from a dialect that keeps case, or from a nil src, are also quoted when
// d folds to lower case and the name has upper-case letters, or when d
// folds to upper case and the name mixes cases.
func NeedsQuotingFrom(src, d Dialect, name string) bool {
	if NeedsQuoting(d, name) {
		return true
	}
	if src != nil && src.IdentifierCase() != CaseUnchanged {
		return false
	}
	lower := cases.Lower(language.Und).String(name)
	upper := cases.Upper(language.Und).String(name)
	switch d.IdentifierCase() {
	case CaseFoldLower:
		return name != lower
	case CaseFoldUpper:
		return name != lower && name != upper
	}
	return false
}

// QuoteIdentifier quotes name with the dialect's quote pair, doubling
// any embedded closing quote.
func QuoteIdentifier(d Dialect, name string) string {
	q := d.QuoteStyle()
	closing := string(q.Close)
	escaped := strings.ReplaceAll(name, closing, closing+closing)
	return string(q.Open) + escaped + closing
}

// QuoteIdentifierIfNeeded quotes name only when NeedsQuoting says so.
func QuoteIdentifierIfNeeded(d Dialect, name string) string {
	if NeedsQuoting(d, name) {
		return QuoteIdentifier(d, name)
	}
	return name
}
