// Package ansi provides the base ANSI SQL dialect.
//
// ANSI is the reference profile: standard FETCH/OFFSET row limiting,
// double-quoted identifiers folded to upper case, and nestable block
// comments. Vendor dialects describe themselves relative to it.
package ansi

import (
	"github.com/leapstack-labs/sqlt/pkg/dialect"
)

func init() {
	dialect.Register(ANSI)
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.New("ansi").
	Quote('"', '"').
	IdentifierCase(dialect.CaseFoldUpper).
	KeywordCase(dialect.KeywordUpper).
	Enable(
		dialect.FeatureFetch,
		dialect.FeatureOffsetWithoutLimit,
		dialect.FeatureNationalStrings,
		dialect.FeatureHexStrings,
		dialect.FeatureNestedComments,
		dialect.FeatureQuestionPlaceholders,
		dialect.FeatureConcatOperator,
		dialect.FeatureNullsOrdering,
		dialect.FeatureFullJoin,
		dialect.FeatureNaturalJoin,
		dialect.FeatureIntervalLiteral,
		dialect.FeatureIntervalQualifier,
		dialect.FeatureWindowFunctions,
		dialect.FeatureFilterClause,
		dialect.FeatureFetchWithTies,
		dialect.FeatureFetchPercent,
		dialect.FeatureRowLocking,
		dialect.FeatureLateral,
		dialect.FeatureTableFunctions,
	).
	Reserved(ReservedWords...).
	Functions(Functions...).
	Build()

// ReservedWords are SQL:2016 reserved words beyond the core grammar
// keywords that commonly collide with identifiers.
var ReservedWords = []string{
	"ANY", "ARRAY", "AUTHORIZATION", "BOTH", "COLLATE", "COLUMN",
	"CURRENT_ROLE", "FOR", "FOREIGN", "GRANT", "LATERAL", "LEADING",
	"LOCALTIME", "LOCALTIMESTAMP", "ONLY", "OVER", "OVERLAPS", "PARTITION",
	"SESSION_USER", "SOME", "SYSTEM_USER", "TO", "TRAILING", "USER", "WINDOW",
}

// Functions is the standard function catalogue.
var Functions = []string{
	"abs", "avg", "ceil", "ceiling", "char_length", "character_length",
	"coalesce", "count", "exp", "floor", "ln", "lower", "max", "min", "mod",
	"nullif", "octet_length", "position", "power", "sqrt", "substring",
	"sum", "trim", "upper", "width_bucket",
	// niladic
	"current_role", "localtime", "localtimestamp", "session_user",
	"system_user", "user",
}
