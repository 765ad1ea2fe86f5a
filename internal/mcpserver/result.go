package mcpserver

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvp-joe/contextvault/internal/coreutil"
)

// toolError renders err as the { isError: true, code, message } shape
// spec.md §6.2 describes, carried as the result's text content — mirrors
// the teacher's mcp.NewToolResultError(msg) call sites, with the
// message itself a small JSON envelope instead of plain text so callers
// can branch on code.
func toolError(err error) *mcp.CallToolResult {
	body, marshalErr := json.Marshal(struct {
		Code    coreutil.Code `json:"code"`
		Message string        `json:"message"`
	}{
		Code:    coreutil.AsCode(err),
		Message: err.Error(),
	})
	if marshalErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(body))
}
