// Package databricks provides the Databricks SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package databricks

import (
	"github.com/leapstack-labs/sqlt/pkg/dialect"
)

func init() {
	dialect.Register(Databricks)
}

// Databricks is the Databricks SQL dialect: backtick identifiers,
// double-quoted strings, typed numeric suffixes (10L, 1.5BD) and the
// :: cast operator.
var Databricks = dialect.New("databricks").
	Quote('`', '`').
	IdentifierCase(dialect.CaseUnchanged).
	Enable(
		dialect.FeatureLimit,
		dialect.FeatureOffsetWithoutLimit,
		dialect.FeatureBacktickIdentifiers,
		dialect.FeatureDoubleQuotedStrings,
		dialect.FeatureBackslashEscapes,
		dialect.FeatureHexStrings,
		dialect.FeatureNestedComments,
		dialect.FeatureQuestionPlaceholders,
		dialect.FeatureNamedPlaceholders,
		dialect.FeatureILike,
		dialect.FeatureCastOperator,
		dialect.FeatureConcatOperator,
		dialect.FeatureNullsOrdering,
		dialect.FeatureFullJoin,
		dialect.FeatureNaturalJoin,
		dialect.FeatureCreateTableIfNotExists,
		dialect.FeatureIntervalLiteral,
		dialect.FeatureIntervalQualifier,
		dialect.FeatureWindowFunctions,
		dialect.FeatureFilterClause,
		dialect.FeatureLateral,
		dialect.FeatureTableFunctions,
	).
	Reserved(reservedWords...).
	NumericSuffixes("L", "S", "Y", "D", "F", "BD").
	Functions(functions...).
	Build()

var reservedWords = []string{
	"ANY", "AUTHORIZATION", "BOTH", "COLLATE", "COLUMN", "FOR", "FOREIGN",
	"GRANT", "LATERAL", "LEADING", "ONLY", "SOME", "TO", "TRAILING", "USER",
}

var functions = []string{
	"abs", "array_agg", "avg", "ceil", "coalesce", "collect_list",
	"collect_set", "concat", "concat_ws", "count", "current_date",
	"date_add", "date_format", "date_trunc", "explode", "floor", "get_json_object",
	"if", "ifnull", "lower", "max", "min", "nvl", "regexp_extract", "round",
	"size", "split", "substr", "substring", "sum", "to_date", "trim", "upper",
}
