package index

import (
	"database/sql"
	"fmt"
	"strings"
)

// FTSHit is one row surfaced by the full-text stage: its rowid and its
// 0-based rank order within the FTS result set (lower is better), used
// by retrieve's RRF fusion (spec.md §4.4.1 step 1).
type FTSHit struct {
	RowID int64
	Rank  int
}

// FTSQueryArgs composes the tiered MATCH expression from spec.md
// §4.4.1 step 1: an exact phrase, OR'd with a NEAR proximity match, OR'd
// with an AND of every token — single-token queries reduce to just the
// quoted token.
func FTSQueryArgs(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = `"` + t + `"`
	}
	phrase := strings.Join(quoted, " ")
	if len(tokens) == 1 {
		return phrase
	}

	near := fmt.Sprintf("NEAR(%s, 10)", phrase)
	and := strings.Join(tokens, " AND ")
	return fmt.Sprintf(`(%s) OR %s OR (%s)`, phrase, near, and)
}

// SearchFTS runs the MATCH query against vault_fts joined with vault,
// applying extraWhere (a caller-built predicate string with positional
// `?` placeholders) and limit. A malformed MATCH query is treated as an
// empty result rather than propagated, per spec.md §4.4.1 step 1.
func SearchFTS(db *sql.DB, matchExpr string, extraWhere string, extraArgs []interface{}, limit int) ([]FTSHit, error) {
	if matchExpr == "" {
		return nil, nil
	}

	query := `
		SELECT vault.rowid
		FROM vault_fts
		JOIN vault ON vault.rowid = vault_fts.rowid
		WHERE vault_fts MATCH ?
	`
	args := append([]interface{}{matchExpr}, extraArgs...)
	if extraWhere != "" {
		query += " AND " + extraWhere
	}
	query += " ORDER BY rank LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		// SQLite reports malformed fts5 MATCH syntax as a regular query
		// error; the spec treats this as an empty result rather than a
		// caller-visible failure.
		return nil, nil
	}
	defer rows.Close()

	var hits []FTSHit
	for rows.Next() {
		var rowID int64
		if err := rows.Scan(&rowID); err != nil {
			return nil, fmt.Errorf("scan fts hit: %w", err)
		}
		hits = append(hits, FTSHit{RowID: rowID, Rank: len(hits)})
	}
	return hits, rows.Err()
}
