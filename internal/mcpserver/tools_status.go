package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/contextvault/internal/coordinator"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

// AddContextStatusTool registers context_status (spec.md §6.2): a health
// snapshot of the vault, plus threshold-based growth warnings.
func AddContextStatusTool(s *server.MCPServer, c *coordinator.Coordinator, thresholds vaultstate.Thresholds) {
	tool := mcp.NewTool(
		"context_status",
		mcp.WithDescription("Report the health of persistent memory: entry counts by kind and category, embedding coverage, stale file paths, and growth warnings."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createContextStatusHandler(c, thresholds))
}

func createContextStatusHandler(c *coordinator.Coordinator, thresholds vaultstate.Thresholds) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := c.ContextStatus(ctx, thresholds)
		if err != nil {
			return toolError(err), nil
		}
		return marshalToolResponse(res)
	}
}
