package mcpserver

import (
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolArguments_RejectsNonMapArguments(t *testing.T) {
	request := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: "not-a-map"}}
	args, errResult := parseToolArguments(request)
	assert.Nil(t, args)
	require.NotNil(t, errResult)
	assert.True(t, errResult.IsError)
}

func TestParseToolArguments_AcceptsMap(t *testing.T) {
	request := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]interface{}{"id": "abc"}}}
	args, errResult := parseToolArguments(request)
	assert.Nil(t, errResult)
	assert.Equal(t, "abc", args["id"])
}

func TestStringArg(t *testing.T) {
	args := map[string]interface{}{"title": "hello", "wrong": 42}
	assert.Equal(t, "hello", stringArg(args, "title"))
	assert.Empty(t, stringArg(args, "wrong"))
	assert.Empty(t, stringArg(args, "missing"))
}

func TestBoolArg(t *testing.T) {
	args := map[string]interface{}{"flag": true}
	assert.True(t, boolArg(args, "flag", false))
	assert.False(t, boolArg(args, "missing", false))
	assert.True(t, boolArg(args, "missing", true))
}

func TestIntArg_DecodesJSONNumberAsFloat64(t *testing.T) {
	args := map[string]interface{}{"limit": float64(20)}
	assert.Equal(t, 20, intArg(args, "limit", 5))
	assert.Equal(t, 5, intArg(args, "missing", 5))
}

func TestStringSliceArg(t *testing.T) {
	args := map[string]interface{}{"tags": []interface{}{"a", "b", 1}}
	assert.Equal(t, []string{"a", "b"}, stringSliceArg(args, "tags"))
	assert.Nil(t, stringSliceArg(args, "missing"))
}

func TestTimeArg(t *testing.T) {
	args := map[string]interface{}{
		"since":   "2026-01-01T00:00:00Z",
		"invalid": "not-a-time",
	}
	got := timeArg(args, "since")
	require.NotNil(t, got)
	assert.Equal(t, 2026, got.Year())

	assert.Nil(t, timeArg(args, "invalid"))
	assert.Nil(t, timeArg(args, "missing"))
}

func TestTimeArg_RoundTripsRFC3339(t *testing.T) {
	want := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	args := map[string]interface{}{"expires_at": want.Format(time.RFC3339)}
	got := timeArg(args, "expires_at")
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got))
}

func TestMapArg(t *testing.T) {
	args := map[string]interface{}{"meta": map[string]interface{}{"k": "v"}}
	assert.Equal(t, "v", mapArg(args, "meta")["k"])
	assert.Nil(t, mapArg(args, "missing"))
}
