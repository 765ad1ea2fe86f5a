package retrieve

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/contextvault/internal/index"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestJaccard_IdenticalSetsIsOne(t *testing.T) {
	set := map[string]struct{}{"a": {}, "b": {}}
	assert.Equal(t, 1.0, jaccard(set, set))
}

func TestJaccard_DisjointSetsIsZero(t *testing.T) {
	a := map[string]struct{}{"a": {}}
	b := map[string]struct{}{"b": {}}
	assert.Equal(t, 0.0, jaccard(a, b))
}

func TestJaccard_EmptySetIsZero(t *testing.T) {
	assert.Equal(t, 0.0, jaccard(map[string]struct{}{}, map[string]struct{}{"a": {}}))
}

func TestWordSet_LowercasesTitleAndBody(t *testing.T) {
	row := &index.Row{Title: nullString("Rate Limiter"), Body: "Design NOTES"}
	set := wordSet(row)
	_, hasRate := set["rate"]
	_, hasNotes := set["notes"]
	assert.True(t, hasRate)
	assert.True(t, hasNotes)
}

func TestSelectMMR_ReturnsRequestedCount(t *testing.T) {
	candidates := []*candidate{
		{Row: &index.Row{RowID: 1, Title: nullString("alpha"), Body: "one"}, Score: 0.9},
		{Row: &index.Row{RowID: 2, Title: nullString("beta"), Body: "two"}, Score: 0.5},
		{Row: &index.Row{RowID: 3, Title: nullString("gamma"), Body: "three"}, Score: 0.3},
	}

	ids := selectMMR(nil, candidates, 2)
	assert.Len(t, ids, 2)
	assert.Equal(t, int64(1), ids[0])
}
