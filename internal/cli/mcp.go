package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/mcpserver"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the six context tools over MCP on stdio",
	Long: `Start the Model Context Protocol server that exposes save_context,
get_context, list_context, delete_context, ingest_url, and
context_status to an MCP-speaking client.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := vaultstate.Init(cfg.VaultDir); err != nil {
		return fmt.Errorf("initialize vault: %w", err)
	}

	fmt.Fprintf(os.Stderr, "contextvault mcp: vault=%s mode=%s\n", cfg.VaultDir, cfg.Mode)

	srv, err := mcpserver.New(cfg.VaultDir, cfg.Mode, cfg.DBPath, embed.Config{
		Kind:       cfg.Embedding.Kind,
		Endpoint:   cfg.Embedding.Endpoint,
		Dimensions: cfg.Embedding.Dimensions,
	}, cfg.Thresholds)
	if err != nil {
		return fmt.Errorf("start mcp server: %w", err)
	}
	defer srv.Close()

	return srv.Serve(ctx)
}
