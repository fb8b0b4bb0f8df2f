package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/budget"
	"github.com/theirongolddev/balancebuddy/internal/cli"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Register fixed monthly incomes and expenses",
}

var addIncomeCmd = &cobra.Command{
	Use:     "add-income NAME AMOUNT DAY",
	Short:   "Add a fixed monthly income",
	Example: "  balancebuddy schedule add-income Salary 3200 25",
	Args:    cobra.ExactArgs(3),
	RunE:    runAddIncome,
}

var addExpenseCmd = &cobra.Command{
	Use:     "add-expense NAME AMOUNT DAY",
	Short:   "Add a fixed monthly bill",
	Example: "  balancebuddy schedule add-expense Rent 950 1",
	Args:    cobra.ExactArgs(3),
	RunE:    runAddExpense,
}

func init() {
	scheduleCmd.AddCommand(addIncomeCmd, addExpenseCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func parseSchedule(args []string) (budget.Schedule, error) {
	amount, err := cli.ParseAmount(args[1])
	if err != nil {
		return budget.Schedule{}, err
	}
	day, err := cli.ParseDay(args[2])
	if err != nil {
		return budget.Schedule{}, err
	}
	return budget.Schedule{Name: args[0], Amount: amount, DueDay: day}, nil
}

func runAddIncome(_ *cobra.Command, args []string) error {
	sc, err := parseSchedule(args)
	if err != nil {
		return err
	}
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	inc, err := eng.AddFixedIncome(sc)
	if err != nil {
		return err
	}
	if err := checkSaved(eng); err != nil {
		return err
	}
	fmt.Printf("  Added income %s: %s on the %s (id %s)\n",
		inc.Name, cur(inc.Amount), cli.FormatDayOfMonth(inc.DueDay), cli.ShortID(inc.ID))
	return nil
}

func runAddExpense(_ *cobra.Command, args []string) error {
	sc, err := parseSchedule(args)
	if err != nil {
		return err
	}
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	exp, err := eng.AddFixedExpense(sc)
	if err != nil {
		return err
	}
	if err := checkSaved(eng); err != nil {
		return err
	}
	fmt.Printf("  Added bill %s: %s on the %s (id %s)\n",
		exp.Name, cur(exp.Amount), cli.FormatDayOfMonth(exp.DueDay), cli.ShortID(exp.ID))
	return nil
}
