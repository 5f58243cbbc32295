// Package sqlite provides the SQLite dialect definition.
package sqlite

import (
	"github.com/leapstack-labs/sqlt/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect. SQLite accepts double-quoted, backtick
// and bracket identifiers and three placeholder styles. Translated
// queries quote user-defined function names and rewrite floor/ceil,
// which older SQLite builds lack, in terms of round.
var SQLite = dialect.New("sqlite").
	Quote('"', '"').
	IdentifierCase(dialect.CaseUnchanged).
	Enable(
		dialect.FeatureLimit,
		dialect.FeatureLimitComma,
		dialect.FeatureBacktickIdentifiers,
		dialect.FeatureBracketIdentifiers,
		dialect.FeatureHexStrings,
		dialect.FeatureQuestionPlaceholders,
		dialect.FeatureDollarPlaceholders,
		dialect.FeatureNamedPlaceholders,
		dialect.FeatureConcatOperator,
		dialect.FeatureNullsOrdering,
		dialect.FeatureFullJoin,
		dialect.FeatureNaturalJoin,
		dialect.FeatureReturning,
		dialect.FeatureCreateTableIfNotExists,
		dialect.FeatureQuoteFunctionNames,
		dialect.FeatureWindowFunctions,
		dialect.FeatureFilterClause,
		dialect.FeatureTableFunctions,
	).
	Reserved(reservedWords...).
	Functions(functions...).
	Transform("floor", dialect.Template(1, "round($1 - 0.5)")).
	Transform("ceil", dialect.Template(1, "round($1 + 0.5)")).
	Build()

var reservedWords = []string{
	"COLLATE", "COMMIT", "DEFERRABLE", "DROP", "FOREIGN", "GLOB", "INDEX",
	"ISNULL", "NOTNULL", "REGEXP", "TO", "TRANSACTION", "TRIGGER", "VIEW",
}

var functions = []string{
	"abs", "avg", "changes", "char", "coalesce", "count", "format", "glob",
	"group_concat", "hex", "ifnull", "iif", "instr", "last_insert_rowid",
	"length", "like", "likelihood", "likely", "load_extension", "lower",
	"ltrim", "max", "min", "nullif", "printf", "quote", "random",
	"randomblob", "replace", "round", "rtrim", "sign", "soundex",
	"sqlite_compileoption_get", "sqlite_compileoption_used", "sqlite_offset",
	"sqlite_source_id", "sqlite_version", "substr", "substring", "sum",
	"total", "total_changes", "trim", "typeof", "unicode", "unlikely",
	"upper", "zeroblob",
	// window functions
	"cume_dist", "dense_rank", "first_value", "lag", "last_value", "lead",
	"nth_value", "ntile", "percent_rank", "rank", "row_number",
}
