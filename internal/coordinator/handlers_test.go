package coordinator

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/contextvault/internal/capture"
	"github.com/mvp-joe/contextvault/internal/coreutil"
	"github.com/mvp-joe/contextvault/internal/retrieve"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

func TestSaveContext_WritesFileAndIndexesIt(t *testing.T) {
	c := openTestCoordinator(t)

	res, err := c.SaveContext(context.Background(), capture.WriteEntryInput{
		Kind: "insight",
		Body: "SQLite is fast enough for local search at vault scale.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)

	_, statErr := os.Stat(res.FilePath)
	assert.NoError(t, statErr)
}

func TestSaveContext_ThenGetContextFindsIt(t *testing.T) {
	c := openTestCoordinator(t)

	_, err := c.SaveContext(context.Background(), capture.WriteEntryInput{
		Kind:  "insight",
		Title: "rate limiter design",
		Body:  "tokens leak under bursty traffic",
	})
	require.NoError(t, err)

	rows, err := c.GetContext(context.Background(), retrieve.SearchOptions{Query: "rate limiter"})
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "rate limiter design", rows[0].Title)
}

func TestSaveContext_IdentityKeyUpsertReplacesOldFile(t *testing.T) {
	c := openTestCoordinator(t)

	first, err := c.SaveContext(context.Background(), capture.WriteEntryInput{
		Kind:        "contact",
		IdentityKey: "alice@example.com",
		Title:       "Alice v1",
		Body:        "first contact note",
	})
	require.NoError(t, err)

	second, err := c.SaveContext(context.Background(), capture.WriteEntryInput{
		Kind:        "contact",
		IdentityKey: "alice@example.com",
		Title:       "Alice v2",
		Body:        "updated contact note",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	_, statErr := os.Stat(first.FilePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteContext_RemovesRowAndFile(t *testing.T) {
	c := openTestCoordinator(t)

	saved, err := c.SaveContext(context.Background(), capture.WriteEntryInput{
		Kind: "insight",
		Body: "entry to be deleted shortly after creation",
	})
	require.NoError(t, err)

	res, err := c.DeleteContext(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	_, statErr := os.Stat(saved.FilePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestListContext_OrdersNewestFirst(t *testing.T) {
	c := openTestCoordinator(t)

	_, err := c.SaveContext(context.Background(), capture.WriteEntryInput{Kind: "insight", Body: "first entry body text"})
	require.NoError(t, err)
	_, err = c.SaveContext(context.Background(), capture.WriteEntryInput{Kind: "insight", Body: "second entry body text"})
	require.NoError(t, err)

	rows, err := c.ListContext(context.Background(), retrieve.ListOptions{Kind: "insight"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "second entry body text", rows[0].Body)
}

type fakeFetcher struct {
	title, body string
	err         error
}

func (f fakeFetcher) Fetch(ctx context.Context, url string) (string, string, error) {
	return f.title, f.body, f.err
}

func TestIngestURL_SavesFetchedContentUnderReferenceKind(t *testing.T) {
	c := openTestCoordinator(t)

	res, err := c.IngestURL(context.Background(), fakeFetcher{title: "Example Domain", body: "illustrative examples"}, IngestURLInput{
		URL: "https://example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)

	row, err := c.retrieve.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "reference", row.Kind)
}

func TestIngestURL_FetchFailureReturnsInvalidArgument(t *testing.T) {
	c := openTestCoordinator(t)

	_, err := c.IngestURL(context.Background(), fakeFetcher{err: errors.New("connection refused")}, IngestURLInput{
		URL: "https://example.com/down",
	})
	require.Error(t, err)
	assert.Equal(t, coreutil.CodeInvalidArgument, coreutil.AsCode(err))
}

func TestContextStatus_ReportsCountsAndNoWarningsBelowThreshold(t *testing.T) {
	c := openTestCoordinator(t)

	_, err := c.SaveContext(context.Background(), capture.WriteEntryInput{Kind: "insight", Body: "a status-check entry"})
	require.NoError(t, err)

	status, err := c.ContextStatus(context.Background(), vaultstate.DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalEntries)
	for _, w := range status.Warnings {
		assert.Equal(t, vaultstate.SeverityOK, w.Severity)
	}
}
