package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/budget"
	"github.com/theirongolddev/balancebuddy/internal/cli"
	"github.com/theirongolddev/balancebuddy/internal/config"
	"github.com/theirongolddev/balancebuddy/internal/logger"
	"github.com/theirongolddev/balancebuddy/internal/store"
)

var (
	flagDataDir string
	flagStorage string
	flagQuiet   bool
	flagVerbose bool
)

// Loaded once per invocation by PersistentPreRunE.
var (
	cfg config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "balancebuddy",
	Short: "Household budget tracker",
	Long: "Track your balance, fixed bills and income, day-to-day spending and savings.\n" +
		"Run `balancebuddy setup` first, then `balancebuddy` for today's numbers.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Budget data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagStorage, "storage", "", "Storage backend: sqlite or json (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log every budget change")
}

// loadSettings reads the config file and builds the logger. Flags win over
// the file and the environment.
func loadSettings(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagStorage != "" {
		cfg.General.Storage = strings.ToLower(flagStorage)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	level := logger.ParseLevel(cfg.General.LogLevel)
	switch {
	case flagVerbose:
		level = zerolog.DebugLevel
	case flagQuiet:
		level = zerolog.ErrorLevel
	}
	log = logger.New(level)
	return nil
}

// openEngine opens the configured store and loads the budget. The returned
// func closes the store.
func openEngine() (*budget.Engine, func(), error) {
	backend, err := store.Open(cfg.General.Storage, cfg.DataDir())
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}

	eng, err := budget.New(budget.Config{Store: backend, Logger: &log})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return eng, closeFn, nil
}

// checkSaved turns a failed save into a command error. The change itself
// was applied, but it will be gone on the next run.
func checkSaved(eng *budget.Engine) error {
	if err := eng.LastSaveError(); err != nil {
		return fmt.Errorf("change not saved: %w", err)
	}
	return nil
}

// cur formats an amount with the configured currency symbol.
func cur(d decimal.Decimal) string {
	return cli.FormatMoney(d, cfg.General.Currency)
}
