package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/cli"
	"github.com/theirongolddev/balancebuddy/internal/pipeline"
)

var saveCmd = &cobra.Command{
	Use:   "save AMOUNT",
	Short: "Record money set aside toward this month's savings goal",
	Long: "Record money set aside toward this month's savings goal.\n" +
		"The balance is not changed: savings already count against flexible spending.",
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show savings goal progress",
	Args:  cobra.NoArgs,
	RunE:  runGoal,
}

var goalSetCmd = &cobra.Command{
	Use:   "set WEEKLY",
	Short: "Set the weekly savings goal (0 to disable)",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalSet,
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current balance",
	Args:  cobra.NoArgs,
	RunE:  runBalance,
}

var balanceSetCmd = &cobra.Command{
	Use:   "set AMOUNT",
	Short: "Overwrite the current balance",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalanceSet,
}

func init() {
	goalCmd.AddCommand(goalSetCmd)
	balanceCmd.AddCommand(balanceSetCmd)
	rootCmd.AddCommand(saveCmd, goalCmd, balanceCmd)
}

func runSave(_ *cobra.Command, args []string) error {
	amount, err := cli.ParseAmount(args[0])
	if err != nil {
		return err
	}
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := eng.AddToSavings(amount); err != nil {
		return err
	}
	if err := checkSaved(eng); err != nil {
		return err
	}

	sum := eng.Summary(cfg.PipelineOptions())
	fmt.Printf("  Saved %s. This month: %s of %s\n",
		cur(amount), cur(sum.SavedThisMonth), cur(sum.MonthlySavingsGoal))
	return nil
}

func runGoal(_ *cobra.Command, _ []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	st := eng.State()
	if !st.SavingsGoalWeekly.IsPositive() {
		fmt.Println("\n  No savings goal set. Use `balancebuddy goal set WEEKLY`.")
		return nil
	}

	goal := pipeline.MonthlySavingsGoal(st.SavingsGoalWeekly)
	pct := pipeline.SavingsProgressPercent(st.SavedThisMonth, goal)
	fmt.Println()
	fmt.Printf("  Weekly goal:  %s\n", cur(st.SavingsGoalWeekly))
	fmt.Printf("  Monthly goal: %s\n", cur(goal))
	fmt.Printf("  Saved:        %s\n", cur(st.SavedThisMonth))
	fmt.Printf("  Remaining:    %s\n", cur(goal.Sub(st.SavedThisMonth)))
	fmt.Printf("\n  %s\n", cli.RenderProgressBar(pct, 30))
	return nil
}

func runGoalSet(_ *cobra.Command, args []string) error {
	goal, err := cli.ParseAmount(args[0])
	if err != nil {
		return err
	}
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := eng.SetSavingsGoalWeekly(goal); err != nil {
		return err
	}
	if err := checkSaved(eng); err != nil {
		return err
	}
	fmt.Printf("  Weekly savings goal: %s (%s per month)\n",
		cur(goal), cur(pipeline.MonthlySavingsGoal(goal)))
	return nil
}

func runBalance(_ *cobra.Command, _ []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	sum := eng.Summary(cfg.PipelineOptions())
	fmt.Printf("  %s  %s\n", cli.RenderHealth(cur(sum.Balance), sum.Health), cli.RenderMuted(string(sum.Health)))
	return nil
}

func runBalanceSet(_ *cobra.Command, args []string) error {
	amount, err := cli.ParseAmount(args[0])
	if err != nil {
		return err
	}
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	eng.SetInitialBalance(amount)
	if err := checkSaved(eng); err != nil {
		return err
	}
	fmt.Printf("  Balance set to %s\n", cur(amount))
	return nil
}
