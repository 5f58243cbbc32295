package postgres

// reservedWords contains PostgreSQL reserved words beyond the core
// grammar keywords. For the complete list use pg_get_keywords() at runtime.
var reservedWords = []string{
	"ANALYSE", "ANALYZE", "ANY", "ARRAY", "ASYMMETRIC", "AUTHORIZATION",
	"BINARY", "BOTH", "COLLATE", "COLLATION", "COLUMN", "CONCURRENTLY",
	"CURRENT_CATALOG", "CURRENT_ROLE", "CURRENT_SCHEMA", "DEFERRABLE", "DO",
	"FOR", "FOREIGN", "FREEZE", "GRANT", "INITIALLY", "ISNULL", "LATERAL",
	"LEADING", "LOCALTIME", "LOCALTIMESTAMP", "NOTNULL", "ONLY", "OVERLAPS",
	"PLACING", "SESSION_USER", "SIMILAR", "SOME", "SYMMETRIC", "TABLESAMPLE",
	"TO", "TRAILING", "USER", "VARIADIC", "VERBOSE", "WINDOW",
}

// functions is the builtin function catalogue used when deciding whether
// a function name needs quoting during translation.
var functions = []string{
	// aggregates
	"array_agg", "avg", "bool_and", "bool_or", "count", "every", "json_agg",
	"jsonb_agg", "max", "min", "string_agg", "sum",
	// math
	"abs", "acos", "asin", "atan", "atan2", "cbrt", "ceil", "ceiling", "cos",
	"degrees", "div", "exp", "floor", "ln", "log", "log10", "mod", "pi",
	"power", "radians", "random", "round", "sign", "sin", "sqrt", "tan", "trunc",
	// strings
	"ascii", "bit_length", "btrim", "char_length", "character_length", "chr",
	"concat", "concat_ws", "format", "initcap", "left", "length", "lower",
	"lpad", "ltrim", "md5", "octet_length", "position", "regexp_match",
	"regexp_replace", "repeat", "replace", "reverse", "right", "rpad",
	"rtrim", "split_part", "starts_with", "strpos", "substr", "substring",
	"to_hex", "translate", "trim", "upper",
	// dates and conditionals
	"age", "clock_timestamp", "coalesce", "date_bin", "date_part",
	"date_trunc", "extract", "greatest", "least", "now", "nullif",
	"to_char", "to_date", "to_timestamp",
	// niladic
	"current_catalog", "current_role", "current_schema", "localtime",
	"localtimestamp", "session_user", "user",
}
