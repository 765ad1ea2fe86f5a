package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitVec(dims int, lead float32) []float32 {
	v := make([]float32, dims)
	v[0] = lead
	if dims > 1 {
		v[1] = 1 - lead
	}
	return v
}

func TestUpsertVector_ThenQueryKNN(t *testing.T) {
	db := openSchemaTestDB(t)
	require.NoError(t, CreateSchema(db))

	require.NoError(t, UpsertVector(db, 1, unitVec(EmbeddingDimensions, 1.0)))
	require.NoError(t, UpsertVector(db, 2, unitVec(EmbeddingDimensions, 0.0)))

	hits, err := QueryKNN(db, unitVec(EmbeddingDimensions, 1.0), 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, int64(1), hits[0].RowID, "the identical vector should rank first")
}

func TestUpsertVector_ReplacesExisting(t *testing.T) {
	db := openSchemaTestDB(t)
	require.NoError(t, CreateSchema(db))

	require.NoError(t, UpsertVector(db, 1, unitVec(EmbeddingDimensions, 1.0)))
	require.NoError(t, UpsertVector(db, 1, unitVec(EmbeddingDimensions, 0.0)))

	count, err := VectorCount(db)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-upserting the same row_id must not duplicate it")
}

func TestDeleteVector_RemovesRow(t *testing.T) {
	db := openSchemaTestDB(t)
	require.NoError(t, CreateSchema(db))

	require.NoError(t, UpsertVector(db, 1, unitVec(EmbeddingDimensions, 1.0)))
	require.NoError(t, DeleteVector(db, 1))

	count, err := VectorCount(db)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSimilarityFromL2_ClampsAtZero(t *testing.T) {
	assert.Equal(t, 1.0, SimilarityFromL2(0))
	assert.Equal(t, 0.0, SimilarityFromL2(2))
	assert.Equal(t, 0.0, SimilarityFromL2(3), "distances beyond 2 should clamp rather than go negative")
}

func TestDotProduct_OrthogonalVectorsAreZero(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.Equal(t, 0.0, DotProduct(a, b))
}

func TestDotProduct_IdenticalUnitVectorIsOne(t *testing.T) {
	a := []float32{1, 0}
	assert.InDelta(t, 1.0, DotProduct(a, a), 1e-9)
}

func TestPairwiseSimilarity_IdenticalRowIsOne(t *testing.T) {
	db := openSchemaTestDB(t)
	require.NoError(t, CreateSchema(db))
	require.NoError(t, UpsertVector(db, 1, unitVec(EmbeddingDimensions, 1.0)))

	sim, ok, err := PairwiseSimilarity(db, 1, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestPairwiseSimilarity_MissingRowIsNotOK(t *testing.T) {
	db := openSchemaTestDB(t)
	require.NoError(t, CreateSchema(db))
	require.NoError(t, UpsertVector(db, 1, unitVec(EmbeddingDimensions, 1.0)))

	_, ok, err := PairwiseSimilarity(db, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}
