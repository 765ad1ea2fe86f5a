package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpAccess_IncrementsHitCountForGivenIDs(t *testing.T) {
	s := openTestDB(t)
	mustIndex(t, s, testEntry("id1", "insight", "A", "body"))
	mustIndex(t, s, testEntry("id2", "insight", "B", "body"))

	require.NoError(t, s.BumpAccess(context.Background(), []string{"id1", "id1"}))

	row1, err := s.GetByID(context.Background(), "id1")
	require.NoError(t, err)
	assert.Equal(t, 2, row1.HitCount)
	assert.True(t, row1.LastAccessedAt.Valid)

	row2, err := s.GetByID(context.Background(), "id2")
	require.NoError(t, err)
	assert.Equal(t, 0, row2.HitCount)
}

func TestBumpAccess_EmptyIsNoop(t *testing.T) {
	s := openTestDB(t)
	require.NoError(t, s.BumpAccess(context.Background(), nil))
}
