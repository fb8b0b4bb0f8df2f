package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/cli"
	"github.com/theirongolddev/balancebuddy/internal/config"
	"github.com/theirongolddev/balancebuddy/internal/tui"
	"github.com/theirongolddev/balancebuddy/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	if eng.State().OnboardingComplete {
		fmt.Println("\n  Your budget is already set up.")
		fmt.Println("  Use `balancebuddy schedule`, `balance set` or `goal set` to change it.")
		return nil
	}

	w := tui.NewWizard(cfg.General.Currency, cfg.Appearance.Theme, theme.Names())
	for !w.Done() {
		if err := w.Form().Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("\n  Setup cancelled. Nothing was saved.")
				return nil
			}
			return err
		}
		if err := w.Advance(); err != nil {
			// Re-ask the same step.
			fmt.Println("  " + cli.RenderWarn(err.Error()))
		}
	}

	o := w.Onboarding()
	if err := eng.Onboard(o); err != nil {
		return err
	}
	if err := checkSaved(eng); err != nil {
		return err
	}

	cfg.General.Currency = w.Values.Currency
	cfg.Appearance.Theme = w.Values.Theme
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	sum := eng.Summary(cfg.PipelineOptions())
	fmt.Println()
	fmt.Printf("  All set! %d incomes, %d bills, balance %s\n",
		len(o.Incomes), len(o.Expenses), cur(sum.Balance))
	fmt.Printf("  You can spend about %s per day this month.\n", cur(sum.PerDay))
	fmt.Printf("  Settings saved to %s\n", config.ConfigPath())
	fmt.Println()
	return nil
}
