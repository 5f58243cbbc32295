package dialect

import (
	"fmt"
	"strings"
)

// Feature is a named syntax extension that a dialect may enable.
type Feature uint8

// Syntax extensions.
const (
	FeatureLimit                 Feature = iota // LIMIT n [OFFSET m]
	FeatureLimitComma                           // LIMIT m, n
	FeatureFetch                                // OFFSET m ROWS FETCH FIRST n ROWS ONLY
	FeatureOffsetWithoutLimit                   // OFFSET m without a row count
	FeatureBacktickIdentifiers                  // `name`
	FeatureBracketIdentifiers                   // [name]
	FeatureDoubleQuotedStrings                  // "text" is a string literal
	FeatureBackslashEscapes                     // 'a\'b' in plain strings
	FeatureEscapeStrings                        // E'a\nb'
	FeatureNationalStrings                      // N'text'
	FeatureHexStrings                           // X'ff'
	FeatureNestedComments                       // /* /* */ */
	FeatureHashComments                         // # comment
	FeatureQuestionPlaceholders                 // ?
	FeatureDollarPlaceholders                   // $1
	FeatureNamedPlaceholders                    // :name
	FeatureILike                                // a ILIKE b
	FeatureCastOperator                         // a::int
	FeatureConcatOperator                       // a || b
	FeatureNullsOrdering                        // ORDER BY a NULLS FIRST
	FeatureFullJoin                             // FULL [OUTER] JOIN
	FeatureNaturalJoin                          // NATURAL JOIN
	FeatureReturning                            // INSERT ... RETURNING
	FeatureCreateTableIfNotExists               // CREATE TABLE IF NOT EXISTS
	FeatureQuoteFunctionNames                   // quote user function names when translating
	FeatureIntervalLiteral                      // INTERVAL '1' DAY
	FeatureIntervalQualifier                    // INTERVAL '1 2' DAY TO HOUR
	FeatureWindowFunctions                      // f() OVER (...) and the WINDOW clause
	FeatureFilterClause                         // count(*) FILTER (WHERE ...)
	FeatureFetchWithTies                        // FETCH FIRST n ROWS WITH TIES
	FeatureFetchPercent                         // FETCH FIRST n PERCENT ROWS ONLY
	FeatureRowLocking                           // FOR UPDATE | FOR SHARE
	FeatureLateral                              // LATERAL (subquery)
	FeatureTableFunctions                       // FROM generate_series(1, 3)

	numFeatures
)

var featureNames = [numFeatures]string{
	FeatureLimit:                  "limit",
	FeatureLimitComma:             "limit_comma",
	FeatureFetch:                  "fetch",
	FeatureOffsetWithoutLimit:     "offset_without_limit",
	FeatureBacktickIdentifiers:    "backtick_identifiers",
	FeatureBracketIdentifiers:     "bracket_identifiers",
	FeatureDoubleQuotedStrings:    "double_quoted_strings",
	FeatureBackslashEscapes:       "backslash_escapes",
	FeatureEscapeStrings:          "escape_strings",
	FeatureNationalStrings:        "national_strings",
	FeatureHexStrings:             "hex_strings",
	FeatureNestedComments:         "nested_comments",
	FeatureHashComments:           "hash_comments",
	FeatureQuestionPlaceholders:   "question_placeholders",
	FeatureDollarPlaceholders:     "dollar_placeholders",
	FeatureNamedPlaceholders:      "named_placeholders",
	FeatureILike:                  "ilike",
	FeatureCastOperator:           "cast_operator",
	FeatureConcatOperator:         "concat_operator",
	FeatureNullsOrdering:          "nulls_ordering",
	FeatureFullJoin:               "full_join",
	FeatureNaturalJoin:            "natural_join",
	FeatureReturning:              "returning",
	FeatureCreateTableIfNotExists: "create_table_if_not_exists",
	FeatureQuoteFunctionNames:     "quote_function_names",
	FeatureIntervalLiteral:        "interval_literal",
	FeatureIntervalQualifier:      "interval_qualifier",
	FeatureWindowFunctions:        "window_functions",
	FeatureFilterClause:           "filter_clause",
	FeatureFetchWithTies:          "fetch_with_ties",
	FeatureFetchPercent:           "fetch_percent",
	FeatureRowLocking:             "row_locking",
	FeatureLateral:                "lateral",
	FeatureTableFunctions:         "table_functions",
}

func (f Feature) String() string {
	if f < numFeatures {
		return featureNames[f]
	}
	return fmt.Sprintf("Feature(%d)", uint8(f))
}

// AllFeatures returns every known feature in declaration order.
func AllFeatures() []Feature {
	out := make([]Feature, 0, numFeatures)
	for f := Feature(0); f < numFeatures; f++ {
		out = append(out, f)
	}
	return out
}

// ParseFeature looks up a feature by its snake_case name.
func ParseFeature(name string) (Feature, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f := Feature(0); f < numFeatures; f++ {
		if featureNames[f] == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown dialect feature %q", name)
}

type featureSet uint64

func (s featureSet) has(f Feature) bool {
	return f < numFeatures && s&(1<<f) != 0
}

func (s *featureSet) set(f Feature) {
	*s |= 1 << f
}

func (s *featureSet) clear(f Feature) {
	*s &^= 1 << f
}

func (s featureSet) list() []Feature {
	var out []Feature
	for f := Feature(0); f < numFeatures; f++ {
		if s.has(f) {
			out = append(out, f)
		}
	}
	return out
}
