// Package postgres provides the PostgreSQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import (
	"github.com/leapstack-labs/sqlt/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect: unquoted identifiers fold to lower
// case, both LIMIT and FETCH are accepted, and the :: cast, ILIKE,
// E'' strings, $n parameters and RETURNING are available.
var Postgres = dialect.New("postgres").
	Quote('"', '"').
	IdentifierCase(dialect.CaseFoldLower).
	Enable(
		dialect.FeatureLimit,
		dialect.FeatureFetch,
		dialect.FeatureOffsetWithoutLimit,
		dialect.FeatureEscapeStrings,
		dialect.FeatureNationalStrings,
		dialect.FeatureHexStrings,
		dialect.FeatureNestedComments,
		dialect.FeatureDollarPlaceholders,
		dialect.FeatureILike,
		dialect.FeatureCastOperator,
		dialect.FeatureConcatOperator,
		dialect.FeatureNullsOrdering,
		dialect.FeatureFullJoin,
		dialect.FeatureNaturalJoin,
		dialect.FeatureReturning,
		dialect.FeatureCreateTableIfNotExists,
		dialect.FeatureIntervalLiteral,
		dialect.FeatureIntervalQualifier,
		dialect.FeatureWindowFunctions,
		dialect.FeatureFilterClause,
		dialect.FeatureFetchWithTies,
		dialect.FeatureRowLocking,
		dialect.FeatureLateral,
		dialect.FeatureTableFunctions,
	).
	Reserved(reservedWords...).
	Functions(functions...).
	Build()
