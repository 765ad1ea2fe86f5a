// Command contextvault serves persistent memory to MCP clients and
// provides the supporting reindex/status/prune/init operations.
package main

import "github.com/mvp-joe/contextvault/internal/cli"

func main() {
	cli.Execute()
}
