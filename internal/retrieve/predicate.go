package retrieve

import (
	"time"

	"github.com/Masterminds/squirrel"
)

// predicate builds the extra-WHERE clause shared by the FTS stage and the
// vector stage's hydration query (List builds its own) — every predicate
// spec.md §4.4.1 step 1 names (user/team/category/since/until/expiry/
// supersession/kind), expressed against the `vault` table alias so it
// composes with SearchFTS's join. Built with squirrel rather than
// hand-joined strings, then flattened to a plain WHERE fragment since
// the callers splice it into queries squirrel itself can't express
// (the FTS MATCH and vec0 KNN clauses).
func predicate(opts SearchOptions) (string, []interface{}) {
	and := squirrel.And{}

	if !opts.IncludeSuperseded {
		and = append(and, squirrel.Eq{"vault.superseded_by": nil})
		and = append(and, squirrel.Or{
			squirrel.Eq{"vault.expires_at": nil},
			squirrel.Gt{"vault.expires_at": time.Now().UTC().Format(time.RFC3339)},
		})
	}
	if opts.Kind != "" {
		and = append(and, squirrel.Eq{"vault.kind": opts.Kind})
	}
	if opts.Category != "" {
		and = append(and, squirrel.Eq{"vault.category": opts.Category})
	}
	if opts.UserID != "" {
		and = append(and, squirrel.Or{
			squirrel.Eq{"vault.user_id": nil},
			squirrel.Eq{"vault.user_id": opts.UserID},
		})
	}
	if opts.TeamID != "" {
		and = append(and, squirrel.Or{
			squirrel.Eq{"vault.team_id": nil},
			squirrel.Eq{"vault.team_id": opts.TeamID},
		})
	}
	if opts.Since != nil {
		and = append(and, squirrel.GtOrEq{"vault.created_at": opts.Since.UTC().Format(time.RFC3339)})
	}
	if opts.Until != nil {
		and = append(and, squirrel.LtOrEq{"vault.created_at": opts.Until.UTC().Format(time.RFC3339)})
	}

	return flattenPredicate(and)
}

// flattenPredicate renders a squirrel.Sqlizer to a bare WHERE fragment
// with `?` placeholders, or "" with no args when there are no clauses
// (squirrel.And{}.ToSql() returns an empty string for an empty set).
func flattenPredicate(and squirrel.And) (string, []interface{}) {
	if len(and) == 0 {
		return "", nil
	}
	sql, args, err := and.ToSql()
	if err != nil {
		return "", nil
	}
	return sql, args
}

// requiresPostHocFiltering reports whether the predicate includes
// restrictions vault_vec cannot express itself, i.e. the vector stage
// must over-fetch and hydrate rather than filter in the ANN query
// (spec.md §4.4.1 step 2, "doubled again if post-hoc user/team
// filtering is required").
func requiresPostHocFiltering(opts SearchOptions) bool {
	return opts.UserID != "" || opts.TeamID != ""
}
