// Package cli implements the contextvault command-line entry points:
// mcp (serve tools on stdio), reindex, status, prune, and init.
// Grounded on the teacher's internal/cli root/viper wiring, narrowed
// from a project-local config file search to contextvault's single
// data-directory config.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/contextvault/internal/config"
)

var overrides config.Overrides

var rootCmd = &cobra.Command{
	Use:   "contextvault",
	Short: "A persistent-memory MCP server backed by a markdown vault",
	Long: `contextvault indexes a directory of markdown notes for hybrid
full-text and semantic search, and exposes it to LLM coding assistants
over the Model Context Protocol.`,
}

// Execute runs the root command. Called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&overrides.VaultDir, "vault-dir", "", "vault root directory (default ~/contextvault-vault)")
	rootCmd.PersistentFlags().StringVar(&overrides.DBPath, "db-path", "", "index database path (default <data-dir>/index.db)")
	rootCmd.PersistentFlags().StringVar(&overrides.DataDir, "data-dir", "", "data directory for config and markers (default ~/.contextvault)")
	rootCmd.PersistentFlags().StringVar(&overrides.Mode, "mode", "", "local or hosted (default local)")
}

// loadConfig resolves configuration the same way every subcommand needs
// it: defaults, config file, environment, then this invocation's flags.
func loadConfig() (*config.Config, error) {
	return config.Load(overrides.DataDir, overrides)
}
