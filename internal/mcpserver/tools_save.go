package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/contextvault/internal/capture"
	"github.com/mvp-joe/contextvault/internal/coordinator"
)

// AddSaveContextTool registers save_context (spec.md §6.2): write a
// markdown entry and index it, with identity-key upsert when supplied.
func AddSaveContextTool(s *server.MCPServer, c *coordinator.Coordinator) {
	tool := mcp.NewTool(
		"save_context",
		mcp.WithDescription("Save a piece of context (an insight, decision, contact, note, or similar) to persistent memory. Entries are written as markdown files and indexed for later retrieval via get_context."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Entry kind, e.g. insight, decision, pattern, contact, session")),
		mcp.WithString("body", mcp.Required(), mcp.Description("The entry's main text, 1 to 100 KiB")),
		mcp.WithString("title", mcp.Description("Optional short title, up to 500 characters")),
		mcp.WithObject("tags", mcp.Description("Optional list of tag strings")),
		mcp.WithObject("meta", mcp.Description("Optional free-form metadata object")),
		mcp.WithString("source", mcp.Description("Optional origin label, defaults to claude-code")),
		mcp.WithString("folder", mcp.Description("Optional subfolder beneath the kind's directory")),
		mcp.WithString("identity_key", mcp.Description("Optional key; saving again with the same key updates the existing entry in place")),
		mcp.WithString("expires_at", mcp.Description("Optional ISO-8601 expiry timestamp")),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createSaveContextHandler(c))
}

func createSaveContextHandler(c *coordinator.Coordinator) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		in := capture.WriteEntryInput{
			Kind:        stringArg(args, "kind"),
			Title:       stringArg(args, "title"),
			Body:        stringArg(args, "body"),
			Tags:        stringSliceArg(args, "tags"),
			Meta:        mapArg(args, "meta"),
			Source:      stringArg(args, "source"),
			Folder:      stringArg(args, "folder"),
			IdentityKey: stringArg(args, "identity_key"),
			ExpiresAt:   timeArg(args, "expires_at"),
			UserID:      stringArg(args, "user_id"),
			TeamID:      stringArg(args, "team_id"),
		}

		res, err := c.SaveContext(ctx, in)
		if err != nil {
			return toolError(err), nil
		}
		return marshalToolResponse(res)
	}
}
