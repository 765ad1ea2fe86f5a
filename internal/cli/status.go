package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/index"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the vault's health snapshot",
	Long: `Report entry counts by kind and category, embedding coverage, stale
file paths, and growth warnings against the configured thresholds.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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
	stats, err := store.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("gather stats: %w", err)
	}

	warnings := vaultstate.Evaluate(vaultstate.Metrics{
		TotalEntries:     int64(stats.TotalEntries),
		EventEntries:     int64(stats.ByCategory["event"]),
		VaultSizeBytes:   stats.VaultSizeBytes,
		EventsWithoutTTL: int64(stats.EventsWithoutTTL),
	}, cfg.Thresholds)

	out := struct {
		VaultRoot string               `json:"vault_root"`
		Stats     *index.Stats         `json:"stats"`
		Warnings  []vaultstate.Reading `json:"warnings,omitempty"`
	}{
		VaultRoot: cfg.VaultDir,
		Stats:     stats,
		Warnings:  warnings,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
