package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a vault directory",
	Long: `Create the vault's category directories and marker file. Safe to run
against an existing vault; leaves its entries untouched.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := vaultstate.Init(cfg.VaultDir); err != nil {
		return fmt.Errorf("initialize vault: %w", err)
	}

	fmt.Printf("vault ready at %s\n", cfg.VaultDir)
	return nil
}
