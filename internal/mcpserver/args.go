// Package mcpserver exposes the coordinator's tool handlers over the
// Model Context Protocol, grounded on the teacher's internal/mcp
// package: one file per tool, a shared argument-parsing helper, and a
// server wrapper with signal-based graceful shutdown.
package mcpserver

import (
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// parseToolArguments validates and extracts the arguments map from an
// MCP tool request, mirroring the teacher's mcp/helpers.go helper of
// the same name.
func parseToolArguments(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, mcp.NewToolResultError("invalid arguments format")
	}
	return argsMap, nil
}

// marshalToolResponse marshals a response object to JSON as an MCP
// tool result, mirroring the teacher's helper of the same name.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func boolArg(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

func intArg(args map[string]interface{}, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func timeArg(args map[string]interface{}, key string) *time.Time {
	s := stringArg(args, key)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func mapArg(args map[string]interface{}, key string) map[string]interface{} {
	m, _ := args[key].(map[string]interface{})
	return m
}
