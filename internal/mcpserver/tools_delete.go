package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/contextvault/internal/coordinator"
)

// AddDeleteContextTool registers delete_context (spec.md §6.2): remove
// an entry's row, FTS shadow, vector, and file.
func AddDeleteContextTool(s *server.MCPServer, c *coordinator.Coordinator) {
	tool := mcp.NewTool(
		"delete_context",
		mcp.WithDescription("Permanently delete a saved context entry by id, removing its index entry and its file on disk."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The entry's id")),
		mcp.WithDestructiveHintAnnotation(true),
	)
	s.AddTool(tool, createDeleteContextHandler(c))
}

func createDeleteContextHandler(c *coordinator.Coordinator) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		id := stringArg(args, "id")
		if id == "" {
			return mcp.NewToolResultError("id parameter is required"), nil
		}

		res, err := c.DeleteContext(ctx, id)
		if err != nil {
			return toolError(err), nil
		}
		return marshalToolResponse(res)
	}
}
