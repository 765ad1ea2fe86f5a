package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/contextvault/internal/capture"
	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/index"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired entries from the index and vault",
	Long: `Delete every entry whose expires_at has passed: its database row,
FTS shadow, vector, and markdown file (spec.md §4.3.6).`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := index.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open index database: %w", err)
	}
	defer db.Close()

	provider, err := embed.NewProvider(embed.Config{
		Kind:       cfg.Embedding.Kind,
		Endpoint:   cfg.Embedding.Endpoint,
		Dimensions: cfg.Embedding.Dimensions,
	})
	if err != nil {
		return fmt.Errorf("construct embedding provider: %w", err)
	}
	defer provider.Close()

	store := index.NewStore(db, provider)
	result, err := store.Prune(context.Background())
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}

	for _, path := range result.FilePaths {
		if err := capture.RemoveEntryFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove %s: %v\n", path, err)
		}
	}

	fmt.Printf("prune complete: %d expired entries removed\n", result.Removed)
	return nil
}
