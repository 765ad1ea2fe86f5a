package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexEntry_InsertsRowAndVector(t *testing.T) {
	s := openTestDB(t)
	e := testEntry("id1", "insight", "Title", "Body text")

	mustIndex(t, s, e)

	row, err := s.GetByID(context.Background(), "id1")
	require.NoError(t, err)
	assert.Equal(t, "Title", row.Title.String)
	assert.Equal(t, "Body text", row.Body)

	n, err := VectorCount(s.DB())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndexEntry_ReindexingSameFilePathUpdatesInPlace(t *testing.T) {
	s := openTestDB(t)
	e := testEntry("id1", "insight", "Title", "Body v1")
	mustIndex(t, s, e)

	e.Body = "Body v2"
	mustIndex(t, s, e)

	row, err := s.GetByID(context.Background(), "id1")
	require.NoError(t, err)
	assert.Equal(t, "Body v2", row.Body)

	var count int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM vault`).Scan(&count))
	assert.Equal(t, 1, count, "re-indexing the same id must not create a second row")
}

func TestIndexEntry_IdentityUpsertReusesRowAcrossFilePathChange(t *testing.T) {
	s := openTestDB(t)
	e := testEntry("id1", "contact", "Old Name", "notes")
	e.FilePath = "/vault/entities/contact/old-name-aaaaaaaa.md"
	mustIndex(t, s, e)

	// Simulate SaveWithIdentity reusing id1's identity with a new slug
	// (the file's path changes but the id does not).
	e2 := *e
	e2.FilePath = "/vault/entities/contact/new-name-aaaaaaaa.md"
	e2.Title = "New Name"
	mustIndex(t, s, &e2)

	row, err := s.GetByID(context.Background(), "id1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", row.Title.String)
	assert.Equal(t, e2.FilePath, row.FilePath)

	var count int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM vault`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestDeleteRow_RemovesRowAndVectorAndReturnsPath(t *testing.T) {
	s := openTestDB(t)
	e := testEntry("id1", "insight", "Title", "Body")
	mustIndex(t, s, e)

	path, err := s.DeleteRow(context.Background(), "id1")
	require.NoError(t, err)
	assert.Equal(t, e.FilePath, path)

	_, err = s.GetByID(context.Background(), "id1")
	assert.Error(t, err)

	n, err := VectorCount(s.DB())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDeleteRow_NotFound(t *testing.T) {
	s := openTestDB(t)
	_, err := s.DeleteRow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestFindByIdentityKey_NoMatchReturnsNil(t *testing.T) {
	s := openTestDB(t)
	match, err := s.FindByIdentityKey(context.Background(), "", "contact", "jane@example.com")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestFindByIdentityKey_MatchesByUserKindAndKey(t *testing.T) {
	s := openTestDB(t)
	e := testEntry("id1", "contact", "Jane", "notes")
	e.IdentityKey = "jane@example.com"
	mustIndex(t, s, e)

	match, err := s.FindByIdentityKey(context.Background(), "", "contact", "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "id1", match.ID)
	assert.Equal(t, e.FilePath, match.FilePath)
}
