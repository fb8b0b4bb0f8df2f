// Package cmd implements the balancebuddy CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/config"
	"github.com/theirongolddev/balancebuddy/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", cfg.DataDir())
	fmt.Printf("    Storage:        %s (%s)\n", cfg.General.Storage, store.PathFor(cfg.General.Storage, cfg.DataDir()))
	fmt.Printf("    Currency:       %s\n", cfg.General.Currency)
	fmt.Printf("    Log level:      %s\n", cfg.General.LogLevel)
	fmt.Println()

	fmt.Println("  [Alerts]")
	fmt.Printf("    Low balance under: %s\n", cur(cfg.PipelineOptions().LowBalanceThreshold))
	fmt.Printf("    Due soon within:   %d days\n", cfg.Alerts.DueSoonDays)
	fmt.Println()

	fmt.Println("  [Categories]")
	fmt.Printf("    %s\n", strings.Join(cfg.CategoryChoices(), ", "))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Schedule: %s\n", cfg.Daemon.Schedule)
	fmt.Println()

	var overrides []string
	for _, env := range []string{config.EnvDataDir, config.EnvStorage, config.EnvLogLevel} {
		if v := os.Getenv(env); v != "" {
			overrides = append(overrides, env+"="+v)
		}
	}
	if len(overrides) > 0 {
		fmt.Printf("  Environment overrides: %s\n\n", strings.Join(overrides, ", "))
	}

	fmt.Println("  Edit the file above to change these settings.")
	return nil
}
