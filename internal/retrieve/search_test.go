package retrieve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_FindsEntryByKeyword(t *testing.T) {
	svc, store := openTestService(t)
	mustIndex(t, store, testEntry("a1", "insight", "knowledge", "rate limiter design", "tokens leak under bursts"))
	mustIndex(t, store, testEntry("a2", "insight", "knowledge", "unrelated note", "color palette choices"))

	rows, err := svc.Search(context.Background(), SearchOptions{Query: "rate limiter"})
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "a1", rows[0].ID)
}

func TestSearch_EmptyQueryFallsBackToPureVector(t *testing.T) {
	svc, store := openTestService(t)
	mustIndex(t, store, testEntry("b1", "insight", "knowledge", "deployment rollback", "revert the canary"))

	rows, err := svc.Search(context.Background(), SearchOptions{Query: ""})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "b1", rows[0].ID)
}

func TestSearch_SinceAfterUntilReturnsEmptyWithoutError(t *testing.T) {
	svc, _ := openTestService(t)
	since := time.Now()
	until := since.Add(-time.Hour)

	rows, err := svc.Search(context.Background(), SearchOptions{Query: "anything", Since: &since, Until: &until})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearch_NoMatchesReturnsEmptySliceNotNil(t *testing.T) {
	svc, store := openTestService(t)
	mustIndex(t, store, testEntry("c1", "insight", "knowledge", "completely unrelated", "nothing like the query at all"))

	rows, err := svc.Search(context.Background(), SearchOptions{Query: "zzzznonexistentqueryterm"})
	require.NoError(t, err)
	assert.NotNil(t, rows)
}

func TestSearch_ExcludesSupersededByDefault(t *testing.T) {
	svc, store := openTestService(t)
	mustIndex(t, store, testEntry("d1", "insight", "knowledge", "old design doc", "the original plan for caching"))
	mustIndex(t, store, testEntry("d2", "insight", "knowledge", "new design doc", "the revised plan for caching"))
	require.NoError(t, store.Supersede(context.Background(), "d1", "d2"))

	rows, err := svc.Search(context.Background(), SearchOptions{Query: "caching plan"})
	require.NoError(t, err)
	for _, r := range rows {
		assert.NotEqual(t, "d1", r.ID)
	}
}

func TestSearch_IncludeSupersededBringsOldRowsBack(t *testing.T) {
	svc, store := openTestService(t)
	mustIndex(t, store, testEntry("e1", "insight", "knowledge", "caching plan draft one", "first pass at caching plan"))
	mustIndex(t, store, testEntry("e2", "insight", "knowledge", "caching plan draft two", "second pass at caching plan"))
	require.NoError(t, store.Supersede(context.Background(), "e1", "e2"))

	rows, err := svc.Search(context.Background(), SearchOptions{Query: "caching plan", IncludeSuperseded: true})
	require.NoError(t, err)

	var sawSuperseded bool
	for _, r := range rows {
		if r.ID == "e1" {
			sawSuperseded = true
		}
	}
	assert.True(t, sawSuperseded)
}

func TestSearch_BumpsAccessForReturnedRows(t *testing.T) {
	svc, store := openTestService(t)
	mustIndex(t, store, testEntry("f1", "insight", "knowledge", "onboarding checklist", "steps for a new teammate"))

	rows, err := svc.Search(context.Background(), SearchOptions{Query: "onboarding checklist"})
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	row, err := store.GetByID(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, 1, row.HitCount)
}
