package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFTSQueryArgs_SingleToken(t *testing.T) {
	assert.Equal(t, `"hello"`, FTSQueryArgs([]string{"hello"}))
}

func TestFTSQueryArgs_MultiTokenIncludesPhraseNearAndAnd(t *testing.T) {
	q := FTSQueryArgs([]string{"hello", "world"})
	assert.Contains(t, q, `"hello" "world"`)
	assert.Contains(t, q, "NEAR(")
	assert.Contains(t, q, "hello AND world")
}

func TestFTSQueryArgs_Empty(t *testing.T) {
	assert.Equal(t, "", FTSQueryArgs(nil))
}

func TestSearchFTS_FindsMatchingRow(t *testing.T) {
	db := openSchemaTestDB(t)
	require.NoError(t, CreateSchema(db))

	_, err := db.Exec(`
		INSERT INTO vault (id, kind, category, title, body, source, file_path, created_at, updated_at)
		VALUES ('id1', 'insight', 'knowledge', 'Title', 'hello world of go', 'test', 'a.md', 'now', 'now')
	`)
	require.NoError(t, err)

	hits, err := SearchFTS(db, FTSQueryArgs([]string{"hello"}), "", nil, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Rank)
}

func TestSearchFTS_NoMatchIsEmptyNotError(t *testing.T) {
	db := openSchemaTestDB(t)
	require.NoError(t, CreateSchema(db))

	hits, err := SearchFTS(db, FTSQueryArgs([]string{"nonexistent"}), "", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchFTS_MalformedMatchIsEmptyNotError(t *testing.T) {
	db := openSchemaTestDB(t)
	require.NoError(t, CreateSchema(db))

	hits, err := SearchFTS(db, `"unterminated`, "", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchFTS_EmptyMatchExprReturnsNil(t *testing.T) {
	hits, err := SearchFTS(openSchemaTestDB(t), "", "", nil, 10)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestSearchFTS_AppliesExtraWhereAndLimit(t *testing.T) {
	db := openSchemaTestDB(t)
	require.NoError(t, CreateSchema(db))

	for _, kind := range []string{"insight", "decision"} {
		_, err := db.Exec(`
			INSERT INTO vault (id, kind, category, title, body, source, file_path, created_at, updated_at)
			VALUES (?, ?, 'knowledge', 'Title', 'shared keyword text', 'test', ?, 'now', 'now')
		`, "id-"+kind, kind, kind+".md")
		require.NoError(t, err)
	}

	hits, err := SearchFTS(db, FTSQueryArgs([]string{"shared"}), "vault.kind = ?", []interface{}{"decision"}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}
