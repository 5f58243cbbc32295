// Package mysql provides the MySQL dialect definition.
package mysql

import (
	"github.com/leapstack-labs/sqlt/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

// MySQL is the MySQL dialect in its default sql_mode: backtick
// identifiers, double-quoted strings, backslash escapes, # comments and
// LIMIT in both the OFFSET and comma forms. || is logical OR in MySQL,
// so the concatenation operator is not available, and there is no FULL JOIN.
var MySQL = dialect.New("mysql").
	Quote('`', '`').
	IdentifierCase(dialect.CaseUnchanged).
	Enable(
		dialect.FeatureLimit,
		dialect.FeatureLimitComma,
		dialect.FeatureBacktickIdentifiers,
		dialect.FeatureDoubleQuotedStrings,
		dialect.FeatureBackslashEscapes,
		dialect.FeatureNationalStrings,
		dialect.FeatureHexStrings,
		dialect.FeatureHashComments,
		dialect.FeatureQuestionPlaceholders,
		dialect.FeatureNaturalJoin,
		dialect.FeatureCreateTableIfNotExists,
		dialect.FeatureIntervalLiteral,
		dialect.FeatureWindowFunctions,
		dialect.FeatureRowLocking,
		dialect.FeatureLateral,
	).
	Reserved(reservedWords...).
	Functions(functions...).
	Build()

var reservedWords = []string{
	"ACCESSIBLE", "ANALYZE", "BOTH", "COLLATE", "COLUMN", "CONDITION",
	"DATABASE", "DATABASES", "DIV", "DUAL", "FOR", "FOREIGN", "FORCE",
	"GRANT", "IGNORE", "INDEX", "KEY", "KEYS", "KILL", "LATERAL", "LEADING",
	"LOCK", "MATCH", "MOD", "OPTION", "OUTFILE", "OVER", "RANGE", "READ", "REGEXP", "RENAME",
	"REPLACE", "REQUIRE", "RLIKE", "SCHEMA", "SHOW", "SPATIAL", "SQL", "TO",
	"TRAILING", "TRIGGER", "UNLOCK", "UNSIGNED", "USAGE", "USE", "WINDOW",
	"WRITE", "XOR", "ZEROFILL",
}

var functions = []string{
	"abs", "avg", "ceil", "ceiling", "char_length", "coalesce", "concat",
	"concat_ws", "count", "curdate", "database", "date_add", "date_format",
	"datediff", "floor", "group_concat", "if", "ifnull", "instr", "left",
	"length", "lower", "lpad", "ltrim", "max", "md5", "min", "mod", "now",
	"nullif", "power", "rand", "replace", "reverse", "right", "round",
	"rpad", "rtrim", "sqrt", "str_to_date", "substr", "substring", "sum",
	"trim", "truncate", "upper", "uuid",
}
