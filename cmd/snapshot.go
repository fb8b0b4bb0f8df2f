package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/store"
)

var flagImportForce bool

var errBudgetExists = errors.New("a budget already exists: pass --force to replace it")

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the budget as a JSON snapshot (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the budget with a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&flagImportForce, "force", "f", false, "Overwrite a budget that is already set up")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	st := eng.State()
	if len(args) == 0 {
		return model.EncodeSnapshot(os.Stdout, st)
	}

	//nolint:gosec // export path is chosen by the local user
	f, err := os.OpenFile(args[0], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := model.EncodeSnapshot(f, st); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Fprintf(os.Stderr, "  Exported %d transactions to %s\n", len(st.Transactions), args[0])
	return nil
}

func runImport(_ *cobra.Command, args []string) error {
	//nolint:gosec // import path is chosen by the local user
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	st, err := model.DecodeSnapshot(f)
	if err != nil {
		return err
	}

	backend, err := store.Open(cfg.General.Storage, cfg.DataDir())
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	if err := importSnapshot(backend, st, flagImportForce); err != nil {
		return err
	}
	log.Info().Str("file", args[0]).Int("transactions", len(st.Transactions)).Msg("imported snapshot")
	fmt.Printf("  Imported %s: balance %s, %d bills, %d incomes, %d transactions\n",
		args[0], cur(st.Balance), len(st.FixedExpenses), len(st.FixedIncomes), len(st.Transactions))
	return nil
}

// importSnapshot stores st unless a finished budget, or an unreadable one,
// is already there. force replaces whatever is stored.
func importSnapshot(backend store.Backend, st model.State, force bool) error {
	if force {
		if err := backend.Save(st); err != nil {
			return fmt.Errorf("saving imported budget: %w", err)
		}
		return nil
	}

	var refused error
	err := backend.Update(func(current *model.State, found bool) bool {
		if found && current.OnboardingComplete {
			refused = errBudgetExists
			return false
		}
		*current = st
		return true
	})
	switch {
	case errors.Is(err, model.ErrMalformedSnapshot):
		return fmt.Errorf("existing budget is unreadable (%w): pass --force to replace it", err)
	case err != nil:
		return fmt.Errorf("saving imported budget: %w", err)
	}
	return refused
}
