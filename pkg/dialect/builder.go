package dialect

import (
	"strings"

	"github.com/leapstack-labs/sqlt/pkg/token"
)

// Builder provides a fluent API for constructing dialect profiles.
type Builder struct {
	profile *Profile
}

// New creates a builder for a dialect with the given name. The defaults
// are ANSI-like: double-quoted identifiers folded to upper case and
// upper-case keywords, with no extensions enabled.
func New(name string) *Builder {
	return &Builder{
		profile: &Profile{
			name:       strings.ToLower(name),
			quote:      QuoteStyle{Open: '"', Close: '"'},
			identCase:  CaseFoldUpper,
			kwCase:     KeywordUpper,
			reserved:   make(map[string]struct{}),
			suffixes:   make(map[string]struct{}),
			functions:  make(map[string]struct{}),
			transforms: make(map[string]FunctionTransform),
		},
	}
}

// Derive starts a builder from a copy of an existing profile.
// The copy is independent: changes never affect p.
func Derive(p *Profile, name string) *Builder {
	b := New(name)
	np := b.profile
	np.quote = p.quote
	np.identCase = p.identCase
	np.kwCase = p.kwCase
	np.features = p.features
	for k := range p.reserved {
		np.reserved[k] = struct{}{}
	}
	for k := range p.suffixes {
		np.suffixes[k] = struct{}{}
	}
	for k := range p.functions {
		np.functions[k] = struct{}{}
	}
	for k, v := range p.transforms {
		np.transforms[k] = v
	}
	return b
}

// Quote sets the preferred identifier quote pair.
func (b *Builder) Quote(openQuote, closeQuote rune) *Builder {
	b.profile.quote = QuoteStyle{Open: openQuote, Close: closeQuote}
	return b
}

// IdentifierCase sets the folding rule for unquoted identifiers.
func (b *Builder) IdentifierCase(rule CaseRule) *Builder {
	b.profile.identCase = rule
	return b
}

// KeywordCase sets keyword rendering case.
func (b *Builder) KeywordCase(kc KeywordCase) *Builder {
	b.profile.kwCase = kc
	return b
}

// Enable turns syntax extensions on.
func (b *Builder) Enable(features ...Feature) *Builder {
	for _, f := range features {
		b.profile.features.set(f)
	}
	return b
}

// Disable turns syntax extensions off.
func (b *Builder) Disable(features ...Feature) *Builder {
	for _, f := range features {
		b.profile.features.clear(f)
	}
	return b
}

// Reserved registers words that lex as keywords in this dialect in
// addition to the core keywords. Each word gets a token type through
// token.Register so the lexer can classify it.
func (b *Builder) Reserved(words ...string) *Builder {
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" || token.IsCoreKeyword(w) {
			continue
		}
		token.Register(w)
		b.profile.reserved[w] = struct{}{}
	}
	return b
}

// NumericSuffixes registers accepted numeric literal suffixes (e.g. "L").
func (b *Builder) NumericSuffixes(suffixes ...string) *Builder {
	for _, s := range suffixes {
		b.profile.suffixes[strings.ToUpper(s)] = struct{}{}
	}
	return b
}

// Functions adds names to the builtin function catalogue.
func (b *Builder) Functions(names ...string) *Builder {
	for _, n := range names {
		b.profile.functions[strings.ToLower(n)] = struct{}{}
	}
	return b
}

// Transform registers a function rewrite applied when translating into
// this dialect.
func (b *Builder) Transform(name string, t FunctionTransform) *Builder {
	b.profile.transforms[strings.ToLower(name)] = t
	return b
}

// Build returns the constructed profile. The builder must not be used
// afterwards.
func (b *Builder) Build() *Profile {
	p := b.profile
	b.profile = nil
	return p
}
