package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/cli"
	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/pipeline"
)

var flagBillsAll bool

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Upcoming bills for this month",
	Args:  cobra.NoArgs,
	RunE:  runBills,
}

var payCmd = &cobra.Command{
	Use:   "pay <id|name>",
	Short: "Mark a fixed expense paid for this month",
	Args:  cobra.ExactArgs(1),
	RunE:  runPay,
}

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Fixed incomes and whether they arrived this month",
	Args:  cobra.NoArgs,
	RunE:  runIncome,
}

var receiveCmd = &cobra.Command{
	Use:   "receive <id|name>",
	Short: "Mark a fixed income received for this month",
	Args:  cobra.ExactArgs(1),
	RunE:  runReceive,
}

func init() {
	billsCmd.Flags().BoolVarP(&flagBillsAll, "all", "a", false, "Include bills already paid")
	billsCmd.AddCommand(payCmd)
	incomeCmd.AddCommand(receiveCmd)
	rootCmd.AddCommand(billsCmd, incomeCmd)
}

func runBills(_ *cobra.Command, _ []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	opts := cfg.PipelineOptions()
	sum := eng.Summary(opts)

	var rows [][]string
	if flagBillsAll {
		bills := eng.State().FixedExpenses
		sort.SliceStable(bills, func(i, j int) bool { return bills[i].DueDay < bills[j].DueDay })
		for _, b := range bills {
			status := "due " + pipeline.DueDate(sum.At, b.DueDay).Format("Jan 2")
			switch {
			case b.Paid:
				status = "paid"
			case pipeline.DueSoon(sum.At, b.DueDay, opts.DueSoonDays):
				status = cli.RenderWarn("● " + status)
			}
			rows = append(rows, []string{cli.ShortID(b.ID), b.Name, cli.FormatDayOfMonth(b.DueDay), cur(b.Amount), status})
		}
	} else {
		for _, b := range sum.UpcomingBills {
			status := "due " + b.DueDate.Format("Jan 2")
			if b.DueSoon {
				status = cli.RenderWarn("● " + status)
			}
			rows = append(rows, []string{cli.ShortID(b.ID), b.Name, cli.FormatDayOfMonth(b.DueDay), cur(b.Amount), status})
		}
	}

	if len(rows) == 0 {
		if len(eng.State().FixedExpenses) == 0 {
			fmt.Println("\n  No fixed expenses yet. Add one with `balancebuddy schedule add-expense`.")
		} else {
			fmt.Println("\n  All bills are paid this month.")
		}
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Bills  %s still due", cur(sum.RemainingFixedExpenses)),
		Headers:  []string{"ID", "Name", "Day", "Amount", "Status"},
		Rows:     rows,
		LeftCols: []int{1, 4},
	}))
	return nil
}

func runPay(_ *cobra.Command, args []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	bill, err := resolve(eng.State().FixedExpenses, args[0], "bill",
		func(e model.FixedExpense) string { return e.ID },
		func(e model.FixedExpense) string { return e.Name })
	if err != nil {
		return err
	}
	if bill.Paid {
		fmt.Printf("  %s is already paid this month\n", bill.Name)
		return nil
	}

	eng.MarkExpensePaid(bill.ID)
	if err := checkSaved(eng); err != nil {
		return err
	}
	fmt.Printf("  Paid %s (%s). Balance: %s\n", bill.Name, cur(bill.Amount), cur(eng.State().Balance))
	return nil
}

func runIncome(_ *cobra.Command, _ []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	incomes := eng.State().FixedIncomes
	if len(incomes) == 0 {
		fmt.Println("\n  No fixed incomes yet. Add one with `balancebuddy schedule add-income`.")
		return nil
	}
	sort.SliceStable(incomes, func(i, j int) bool { return incomes[i].DueDay < incomes[j].DueDay })

	rows := make([][]string, 0, len(incomes))
	for _, inc := range incomes {
		status := "expected"
		if inc.Received {
			status = "received"
		}
		rows = append(rows, []string{cli.ShortID(inc.ID), inc.Name, cli.FormatDayOfMonth(inc.DueDay), cur(inc.Amount), status})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Income  %s per month", cur(pipeline.TotalFixedIncome(incomes))),
		Headers:  []string{"ID", "Name", "Day", "Amount", "Status"},
		Rows:     rows,
		LeftCols: []int{1, 4},
	}))
	return nil
}

func runReceive(_ *cobra.Command, args []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	inc, err := resolve(eng.State().FixedIncomes, args[0], "income",
		func(i model.FixedIncome) string { return i.ID },
		func(i model.FixedIncome) string { return i.Name })
	if err != nil {
		return err
	}
	if inc.Received {
		fmt.Printf("  %s is already received this month\n", inc.Name)
		return nil
	}

	eng.MarkIncomeReceived(inc.ID)
	if err := checkSaved(eng); err != nil {
		return err
	}
	fmt.Printf("  Received %s (%s). Balance: %s\n", inc.Name, cur(inc.Amount), cur(eng.State().Balance))
	return nil
}
