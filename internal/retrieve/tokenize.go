package retrieve

import (
	"strings"
	"unicode"
)

// ftsMetacharacters are the fts5 query-syntax characters stripped from
// each token before it is quoted, so user queries containing them never
// produce a malformed MATCH expression (spec.md §4.4.1 step 1).
const ftsMetacharacters = `*"():^~{}`

// tokenize splits query on whitespace and hyphen, strips fts5
// metacharacters from each piece, and drops anything left empty.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		cleaned := strings.Map(func(r rune) rune {
			if strings.ContainsRune(ftsMetacharacters, r) {
				return -1
			}
			return r
		}, f)
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}
