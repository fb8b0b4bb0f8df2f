package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/balancebuddy/internal/budget"
	"github.com/theirongolddev/balancebuddy/internal/cli"
	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/pipeline"
)

var (
	flagTxDesc     string
	flagTxFixed    bool
	flagTxDate     string
	flagTxCategory string
	flagTxType     string
	flagTxLimit    int
	flagTxAmount   string
)

var txCmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"transactions"},
	Short:   "Record and review transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add income|expense AMOUNT [CATEGORY]",
	Short: "Record a transaction",
	Long: "Record a transaction. A fixed expense whose category is not yet a bill\n" +
		"also registers that bill, due on today's day of the month.",
	Example: "  balancebuddy tx add expense 12.50 Food --desc lunch\n" +
		"  balancebuddy tx add expense 60 Internet --fixed",
	Args: cobra.RangeArgs(2, 3),
	RunE: runTxAdd,
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTxList,
}

var txEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a recorded transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxEdit,
}

var txRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a transaction and undo its effect on the balance",
	Args:    cobra.ExactArgs(1),
	RunE:    runTxRm,
}

var spendingCmd = &cobra.Command{
	Use:   "spending",
	Short: "This month's expenses by category",
	Args:  cobra.NoArgs,
	RunE:  runSpending,
}

func init() {
	txAddCmd.Flags().StringVar(&flagTxDesc, "desc", "", "Description")
	txAddCmd.Flags().BoolVar(&flagTxFixed, "fixed", false, "Mark as a fixed expense")

	txListCmd.Flags().StringVar(&flagTxDate, "date", "", "Only this day (YYYY-MM-DD)")
	txListCmd.Flags().StringVar(&flagTxCategory, "category", "", "Category filter (substring match)")
	txListCmd.Flags().StringVar(&flagTxType, "type", "", "income or expense")
	txListCmd.Flags().IntVarP(&flagTxLimit, "limit", "l", 50, "Max rows to show (0 for all)")

	txEditCmd.Flags().StringVar(&flagTxAmount, "amount", "", "New amount")
	txEditCmd.Flags().StringVar(&flagTxCategory, "category", "", "New category")
	txEditCmd.Flags().StringVar(&flagTxDesc, "desc", "", "New description")
	txEditCmd.Flags().StringVar(&flagTxType, "type", "", "New type: income or expense")
	txEditCmd.Flags().BoolVar(&flagTxFixed, "fixed", false, "Fixed flag")
	txEditCmd.Flags().StringVar(&flagTxDate, "date", "", "New date (YYYY-MM-DD)")

	txCmd.AddCommand(txAddCmd, txListCmd, txEditCmd, txRmCmd, spendingCmd)
	rootCmd.AddCommand(txCmd)
}

func parseTxType(s string) (model.TxType, error) {
	t := model.TxType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (want income or expense)", budget.ErrInvalidType, s)
	}
	return t, nil
}

func runTxAdd(_ *cobra.Command, args []string) error {
	typ, err := parseTxType(args[0])
	if err != nil {
		return err
	}
	amount, err := cli.ParseAmount(args[1])
	if err != nil {
		return err
	}
	category := ""
	if len(args) == 3 {
		category = args[2]
	}

	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	billsBefore := len(eng.State().FixedExpenses)
	tx, err := eng.AddTransaction(budget.NewTransaction{
		Amount:      amount,
		Category:    category,
		Description: flagTxDesc,
		Type:        typ,
		Fixed:       flagTxFixed,
	})
	if err != nil {
		return err
	}
	if err := checkSaved(eng); err != nil {
		return err
	}

	st := eng.State()
	fmt.Printf("  Recorded %s %s (id %s). Balance: %s\n",
		tx.Type, cur(tx.Amount), cli.ShortID(tx.ID), cur(st.Balance))
	if len(st.FixedExpenses) > billsBefore {
		bill := st.FixedExpenses[len(st.FixedExpenses)-1]
		fmt.Printf("  New bill %s, due on the %s each month\n", bill.Name, cli.FormatDayOfMonth(bill.DueDay))
	}
	return nil
}

func runTxList(_ *cobra.Command, _ []string) error {
	filter := pipeline.TxFilter{Date: flagTxDate, Category: flagTxCategory}
	if flagTxDate != "" {
		if _, err := time.Parse(pipeline.DateLayout, flagTxDate); err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagTxDate)
		}
	}
	if flagTxType != "" {
		typ, err := parseTxType(flagTxType)
		if err != nil {
			return err
		}
		filter.Type = typ
	}

	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	txs := eng.Transactions(filter)
	if len(txs) == 0 {
		fmt.Println("\n  No transactions found.")
		return nil
	}

	shown := txs
	if flagTxLimit > 0 && len(shown) > flagTxLimit {
		shown = shown[:flagTxLimit]
	}

	rows := make([][]string, 0, len(shown))
	for _, tx := range shown {
		desc := tx.Description
		if tx.Fixed {
			desc = strings.TrimSpace("[fixed] " + desc)
		}
		rows = append(rows, []string{
			cli.ShortID(tx.ID),
			cli.FormatDate(tx.Date),
			tx.Category,
			cli.FormatSigned(tx.Signed(), cfg.General.Currency),
			desc,
		})
	}

	title := fmt.Sprintf("Transactions (%d)", len(txs))
	if len(shown) < len(txs) {
		title = fmt.Sprintf("Transactions (%d of %d)", len(shown), len(txs))
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    title,
		Headers:  []string{"ID", "Date", "Category", "Amount", "Description"},
		Rows:     rows,
		LeftCols: []int{1, 2, 4},
	}))
	return nil
}

func findTransaction(eng *budget.Engine, ref string) (model.Transaction, error) {
	return resolve(eng.State().Transactions, ref, "transaction",
		func(t model.Transaction) string { return t.ID }, nil)
}

func runTxEdit(cmd *cobra.Command, args []string) error {
	var u budget.TransactionUpdate
	flags := cmd.Flags()

	if flags.Changed("amount") {
		amount, err := cli.ParseAmount(flagTxAmount)
		if err != nil {
			return err
		}
		u.Amount = &amount
	}
	if flags.Changed("type") {
		typ, err := parseTxType(flagTxType)
		if err != nil {
			return err
		}
		u.Type = &typ
	}
	if flags.Changed("category") {
		u.Category = &flagTxCategory
	}
	if flags.Changed("desc") {
		u.Description = &flagTxDesc
	}
	if flags.Changed("fixed") {
		u.Fixed = &flagTxFixed
	}
	if flags.Changed("date") {
		day, err := time.ParseInLocation(pipeline.DateLayout, flagTxDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagTxDate)
		}
		// Noon keeps the calendar day stable across DST shifts.
		day = day.Add(12 * time.Hour)
		u.Date = &day
	}
	if u == (budget.TransactionUpdate{}) {
		return fmt.Errorf("nothing to change: pass at least one of --amount, --type, --category, --desc, --fixed, --date")
	}

	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	tx, err := findTransaction(eng, args[0])
	if err != nil {
		return err
	}
	if err := eng.EditTransaction(tx.ID, u); err != nil {
		return err
	}
	if err := checkSaved(eng); err != nil {
		return err
	}
	fmt.Printf("  Updated transaction %s. Balance: %s\n", cli.ShortID(tx.ID), cur(eng.State().Balance))
	return nil
}

func runTxRm(_ *cobra.Command, args []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	tx, err := findTransaction(eng, args[0])
	if err != nil {
		return err
	}
	eng.DeleteTransaction(tx.ID)
	if err := checkSaved(eng); err != nil {
		return err
	}
	fmt.Printf("  Deleted %s %s (%s). Balance: %s\n",
		tx.Type, cur(tx.Amount), tx.Category, cur(eng.State().Balance))
	return nil
}

func runSpending(_ *cobra.Command, _ []string) error {
	eng, closeStore, err := openEngine()
	if err != nil {
		return err
	}
	defer closeStore()

	sum := eng.Summary(cfg.PipelineOptions())
	totals := pipeline.SpendingByCategory(eng.State().Transactions, sum.At)
	if len(totals) == 0 {
		fmt.Println("\n  No expenses recorded this month.")
		return nil
	}

	rows := make([][]string, 0, len(totals))
	for _, c := range totals {
		rows = append(rows, []string{c.Category, fmt.Sprintf("%d", c.Count), cur(c.Total)})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Spending  " + sum.At.Format("January 2006"),
		Headers: []string{"Category", "Count", "Total"},
		Rows:    rows,
	}))
	return nil
}
