package token

import (
	"strings"
	"sync"
)

var (
	registryMu sync.RWMutex

	// nextTokenID tracks the last assigned dynamic token ID.
	// Dynamic tokens start after maxBuiltin (999).
	nextTokenID = int32(maxBuiltin)

	// dynamicTokens maps registered dynamic tokens to their names.
	dynamicTokens = make(map[TokenType]string)

	// dynamicKeywords maps uppercase keyword names to their token types.
	dynamicKeywords = make(map[string]TokenType)
)

// Register registers a dialect-specific keyword and returns its token type.
// Names are case-insensitive and stored uppercase. Registering a core
// keyword returns its builtin type. Registering the same name twice
// returns the same type, and Register is safe for concurrent use.
func Register(name string) TokenType {
	name = strings.ToUpper(name)
	if tok, ok := keywords[strings.ToLower(name)]; ok {
		return tok
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if tok, ok := dynamicKeywords[name]; ok {
		return tok
	}
	nextTokenID++
	t := TokenType(nextTokenID)
	dynamicTokens[t] = name
	dynamicKeywords[name] = t
	return t
}

// getDynamicName returns the name of a dynamic token.
func getDynamicName(t TokenType) (string, bool) {
	if !IsDynamic(t) {
		return "", false
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	name, ok := dynamicTokens[t]
	return name, ok
}

// LookupDynamicKeyword returns the token type for a dynamic keyword.
// Returns IDENT and false if the keyword is not registered.
func LookupDynamicKeyword(name string) (TokenType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if tok, ok := dynamicKeywords[strings.ToUpper(name)]; ok {
		return tok, true
	}
	return IDENT, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}

// RegisteredTokens returns a copy of all registered dynamic tokens.
func RegisteredTokens() map[TokenType]string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make(map[TokenType]string, len(dynamicTokens))
	for k, v := range dynamicTokens {
		result[k] = v
	}
	return result
}
