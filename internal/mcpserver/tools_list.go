package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/contextvault/internal/coordinator"
	"github.com/mvp-joe/contextvault/internal/retrieve"
)

// AddListContextTool registers list_context (spec.md §6.2): a plain
// filtered, paged, reverse-chronological scan with no ranking.
func AddListContextTool(s *server.MCPServer, c *coordinator.Coordinator) {
	tool := mcp.NewTool(
		"list_context",
		mcp.WithDescription("List saved context entries, newest first, filtered by kind, category, tags, or a time range. Use get_context instead when you have a search query."),
		mcp.WithString("kind", mcp.Description("Restrict to one entry kind")),
		mcp.WithString("category", mcp.Description("Restrict to one category: knowledge, entity, or event")),
		mcp.WithObject("tags", mcp.Description("Only entries containing every listed tag")),
		mcp.WithString("since", mcp.Description("Only entries created at or after this ISO-8601 timestamp")),
		mcp.WithString("until", mcp.Description("Only entries created at or before this ISO-8601 timestamp")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 20)")),
		mcp.WithNumber("offset", mcp.Description("Results to skip, for paging")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createListContextHandler(c))
}

func createListContextHandler(c *coordinator.Coordinator) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		opts := retrieve.ListOptions{
			Kind:     stringArg(args, "kind"),
			Category: stringArg(args, "category"),
			Tags:     stringSliceArg(args, "tags"),
			Since:    timeArg(args, "since"),
			Until:    timeArg(args, "until"),
			Limit:    intArg(args, "limit", 0),
			Offset:   intArg(args, "offset", 0),
		}

		rows, err := c.ListContext(ctx, opts)
		if err != nil {
			return toolError(err), nil
		}
		return marshalToolResponse(rows)
	}
}
