// Package datafusion provides the Apache DataFusion dialect definition.
package datafusion

import (
	"github.com/leapstack-labs/sqlt/pkg/dialect"
)

func init() {
	dialect.Register(DataFusion)
}

// DataFusion is the Apache DataFusion SQL dialect. It follows PostgreSQL
// for quoting, case folding and LIMIT/OFFSET, and takes $n parameters.
var DataFusion = dialect.New("datafusion").
	Quote('"', '"').
	IdentifierCase(dialect.CaseFoldLower).
	Enable(
		dialect.FeatureLimit,
		dialect.FeatureOffsetWithoutLimit,
		dialect.FeatureEscapeStrings,
		dialect.FeatureHexStrings,
		dialect.FeatureDollarPlaceholders,
		dialect.FeatureILike,
		dialect.FeatureCastOperator,
		dialect.FeatureConcatOperator,
		dialect.FeatureNullsOrdering,
		dialect.FeatureFullJoin,
		dialect.FeatureNaturalJoin,
		dialect.FeatureCreateTableIfNotExists,
		dialect.FeatureIntervalLiteral,
		dialect.FeatureWindowFunctions,
		dialect.FeatureFilterClause,
		dialect.FeatureTableFunctions,
	).
	Reserved(reservedWords...).
	Functions(functions...).
	Build()

var reservedWords = []string{
	"ANY", "ARRAY", "BOTH", "COLLATE", "FOR", "LEADING", "OVER", "PARTITION",
	"QUALIFY", "SOME", "TO", "TRAILING", "WINDOW",
}

var functions = []string{
	// math
	"abs", "acos", "asin", "atan", "atan2", "ceil", "coalesce", "cos",
	"digest", "exp", "floor", "ln", "log", "log10", "log2", "power", "round",
	"signum", "sin", "sqrt", "tan", "trunc",
	// strings
	"array", "ascii", "bit_length", "btrim", "character_length", "chr",
	"concat", "concat_ws", "initcap", "left", "lower", "lpad", "ltrim", "md5",
	"nullif", "octet_length", "random", "regexp_match", "regexp_replace",
	"repeat", "replace", "reverse", "right", "rpad", "rtrim", "sha224",
	"sha256", "sha384", "sha512", "split_part", "starts_with", "strpos",
	"substr", "to_hex", "translate", "trim", "upper",
	// dates
	"date_bin", "date_part", "date_trunc", "from_unixtime", "now",
	"to_timestamp", "to_timestamp_micros", "to_timestamp_millis",
	"to_timestamp_seconds",
	// aggregates
	"array_agg", "avg", "count", "max", "min", "sum",
	"struct",
}
