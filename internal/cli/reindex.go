package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/index"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

var (
	reindexDryRun bool
	reindexQuiet  bool
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Reconcile the index database against the vault directory",
	Long: `Walk every kind directory under the vault root and add, update, or
remove database rows to match what's on disk, re-embedding anything
whose title or body changed.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
	reindexCmd.Flags().BoolVar(&reindexDryRun, "dry-run", false, "print the vault and database paths and exit without opening or writing to the database")
	reindexCmd.Flags().BoolVarP(&reindexQuiet, "quiet", "q", false, "disable the progress bar")
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\ninterrupted, cancelling reindex...")
		cancel()
	}()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := vaultstate.Init(cfg.VaultDir); err != nil {
		return fmt.Errorf("initialize vault: %w", err)
	}

	if reindexDryRun {
		fmt.Println("dry-run: reindex would reconcile", cfg.VaultDir, "against", cfg.DBPath)
		return nil
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

	progressCh := make(chan embed.Progress)
	done := make(chan struct{})
	go func() {
		defer close(done)
		reportReindexProgress(progressCh, reindexQuiet)
	}()

	result, err := store.Reindex(ctx, cfg.VaultDir, index.ReindexOptions{
		FullSync: true,
		Progress: progressCh,
	})
	close(progressCh)
	<-done
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}

	fmt.Printf("reindex complete: %d added, %d updated, %d removed, %d unchanged\n",
		result.Added, result.Updated, result.Removed, result.Unchanged)
	return nil
}

// reportReindexProgress drives a progress bar off embedding-batch
// progress events until progressCh closes.
func reportReindexProgress(progressCh <-chan embed.Progress, quiet bool) {
	var bar *progressbar.ProgressBar
	for p := range progressCh {
		if quiet {
			continue
		}
		if bar == nil {
			bar = progressbar.NewOptions(p.Total,
				progressbar.OptionSetDescription("Embedding entries"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("entries/s"),
				progressbar.OptionThrottle(65*time.Millisecond),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionOnCompletion(func() { fmt.Println() }),
			)
		}
		bar.Set(p.Done)
	}
	if bar != nil {
		bar.Finish()
	}
}
