package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "This month's budget numbers",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	if !eng.State().OnboardingComplete {
		fmt.Println("\n  No budget set up yet.")
		fmt.Println("  Run `balancebuddy setup` to get started!")
		return nil
	}

	sum := eng.Summary(cfg.PipelineOptions())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s", sum.At.Format("January 2006"))))
	fmt.Println()

	flexible := cur(sum.FlexibleSpending)
	if sum.LowBalance {
		flexible = cli.RenderWarn(flexible + "  low")
	}

	rows := [][]string{
		{"Balance", cli.RenderHealth(cur(sum.Balance), sum.Health) + "  " + cli.RenderMuted(string(sum.Health))},
		{"Days left", fmt.Sprintf("%d (%s weeks)", sum.DaysLeftInMonth, sum.WeeksLeftInMonth.StringFixed(1))},
		{"---"},
		{"Fixed income", cur(sum.TotalFixedIncome)},
		{"Fixed expenses", cur(sum.TotalFixedExpense)},
		{"Net fixed", cli.FormatSigned(sum.NetFixed, cfg.General.Currency)},
		{"Bills still due", fmt.Sprintf("%s (%d)", cur(sum.RemainingFixedExpenses), len(sum.UpcomingBills))},
		{"---"},
		{"Savings goal", cur(sum.MonthlySavingsGoal) + cli.RenderMuted(" /month")},
		{"Saved", cur(sum.SavedThisMonth)},
		{"Still to save", cur(sum.RemainingSavings)},
		{"---"},
		{"Flexible", flexible},
		{"Per day", cur(sum.PerDay)},
		{"Per week", cur(sum.PerWeek)},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if sum.MonthlySavingsGoal.IsPositive() {
		fmt.Printf("\n  Savings  %s\n", cli.RenderProgressBar(sum.SavingsProgressPercent, 30))
	}

	if sum.DueSoonCount > 0 {
		fmt.Println()
		for _, bill := range sum.UpcomingBills {
			if bill.DueSoon {
				fmt.Println("  " + cli.RenderWarn(fmt.Sprintf("● %s %s due %s",
					bill.Name, cur(bill.Amount), bill.DueDate.Format("Mon Jan 2"))))
			}
		}
	}
	return nil
}
