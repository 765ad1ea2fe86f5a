package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/contextvault/internal/coordinator"
)

// AddIngestURLTool registers ingest_url (spec.md §6.2): fetch a page and
// save its text the same way save_context would.
func AddIngestURLTool(s *server.MCPServer, c *coordinator.Coordinator, fetcher coordinator.URLFetcher) {
	tool := mcp.NewTool(
		"ingest_url",
		mcp.WithDescription("Fetch a web page and save its text content to persistent memory, as save_context would. The page's <title> is used unless an explicit title is given."),
		mcp.WithString("url", mcp.Required(), mcp.Description("The URL to fetch")),
		mcp.WithString("kind", mcp.Description("Entry kind; defaults to reference")),
		mcp.WithString("title", mcp.Description("Optional title, overrides the fetched page title")),
		mcp.WithObject("tags", mcp.Description("Optional list of tag strings")),
		mcp.WithObject("meta", mcp.Description("Optional free-form metadata object")),
		mcp.WithString("source", mcp.Description("Optional origin label, defaults to the URL")),
		mcp.WithString("folder", mcp.Description("Optional subfolder beneath the kind's directory")),
		mcp.WithString("identity_key", mcp.Description("Optional key; ingesting again with the same key updates the existing entry in place")),
		mcp.WithString("expires_at", mcp.Description("Optional ISO-8601 expiry timestamp")),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createIngestURLHandler(c, fetcher))
}

func createIngestURLHandler(c *coordinator.Coordinator, fetcher coordinator.URLFetcher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		url := stringArg(args, "url")
		if url == "" {
			return mcp.NewToolResultError("url parameter is required"), nil
		}

		in := coordinator.IngestURLInput{
			URL:         url,
			Kind:        stringArg(args, "kind"),
			Title:       stringArg(args, "title"),
			Tags:        stringSliceArg(args, "tags"),
			Meta:        mapArg(args, "meta"),
			Source:      stringArg(args, "source"),
			Folder:      stringArg(args, "folder"),
			IdentityKey: stringArg(args, "identity_key"),
			ExpiresAt:   timeArg(args, "expires_at"),
			UserID:      stringArg(args, "user_id"),
			TeamID:      stringArg(args, "team_id"),
		}

		res, err := c.IngestURL(ctx, fetcher, in)
		if err != nil {
			return toolError(err), nil
		}
		return marshalToolResponse(res)
	}
}
