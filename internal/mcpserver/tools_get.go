package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/contextvault/internal/coordinator"
	"github.com/mvp-joe/contextvault/internal/retrieve"
)

// AddGetContextTool registers get_context (spec.md §6.2): the hybrid
// search pipeline, ranked and scored.
func AddGetContextTool(s *server.MCPServer, c *coordinator.Coordinator) {
	tool := mcp.NewTool(
		"get_context",
		mcp.WithDescription("Search persistent memory with a natural-language query. Combines full-text and semantic search, applies recency and frequency boosts, and diversifies results. Returns entries ranked by relevance."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural-language search query")),
		mcp.WithString("kind", mcp.Description("Restrict results to one entry kind")),
		mcp.WithString("category", mcp.Description("Restrict results to one category: knowledge, entity, or event")),
		mcp.WithString("since", mcp.Description("Only entries created at or after this ISO-8601 timestamp")),
		mcp.WithString("until", mcp.Description("Only entries created at or before this ISO-8601 timestamp")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 20)")),
		mcp.WithNumber("offset", mcp.Description("Results to skip, for paging")),
		mcp.WithBoolean("include_superseded", mcp.Description("Include entries that have been superseded by a newer one")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createGetContextHandler(c))
}

func createGetContextHandler(c *coordinator.Coordinator) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		opts := retrieve.SearchOptions{
			Query:             stringArg(args, "query"),
			Kind:              stringArg(args, "kind"),
			Category:          stringArg(args, "category"),
			Since:             timeArg(args, "since"),
			Until:             timeArg(args, "until"),
			Limit:             intArg(args, "limit", 0),
			Offset:            intArg(args, "offset", 0),
			IncludeSuperseded: boolArg(args, "include_superseded", false),
		}

		rows, err := c.GetContext(ctx, opts)
		if err != nil {
			return toolError(err), nil
		}
		return marshalToolResponse(rows)
	}
}
