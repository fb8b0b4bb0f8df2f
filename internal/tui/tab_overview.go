package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/balancebuddy/internal/cli"
	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/tui/components"
	"github.com/theirongolddev/balancebuddy/internal/tui/theme"
)

func (a App) money(d decimal.Decimal) string {
	return cli.FormatMoney(d, a.opts.Currency)
}

func healthColor(tier model.HealthTier) lipgloss.Color {
	t := theme.Active
	switch tier {
	case model.Healthy:
		return t.Green
	case model.Caution:
		return t.Yellow
	default:
		return t.Red
	}
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	sum := a.sum
	var b strings.Builder

	// Row 1: spendable figures
	flexColor := t.TextPrimary
	flexNote := "after bills and savings"
	if sum.LowBalance {
		flexColor = t.Red
		flexNote = "low: under " + a.money(a.opts.Pipeline.LowBalanceThreshold)
	}
	metrics := []components.Metric{
		{Label: "Balance", Value: a.money(sum.Balance), Note: string(sum.Health), Color: healthColor(sum.Health)},
		{Label: "Flexible", Value: a.money(sum.FlexibleSpending), Note: flexNote, Color: flexColor},
		{Label: "Per day", Value: a.money(sum.PerDay), Note: fmt.Sprintf("%d days left", sum.DaysLeftInMonth)},
		{Label: "Per week", Value: a.money(sum.PerWeek), Note: sum.WeeksLeftInMonth.StringFixed(1) + " weeks left"},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: fixed totals | savings
	halves := components.LayoutRow(cw, 2)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	kv := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-18s", label)) + valueStyle.Render(value)
	}

	var fixed strings.Builder
	fixed.WriteString(kv("Fixed income", a.money(sum.TotalFixedIncome)) + "\n")
	fixed.WriteString(kv("Fixed expenses", a.money(sum.TotalFixedExpense)) + "\n")
	fixed.WriteString(kv("Net fixed", cli.FormatSigned(sum.NetFixed, a.opts.Currency)) + "\n")
	fixed.WriteString(kv("Bills still due", a.money(sum.RemainingFixedExpenses)))

	var savings strings.Builder
	savings.WriteString(kv("Monthly goal", a.money(sum.MonthlySavingsGoal)) + "\n")
	savings.WriteString(kv("Saved", a.money(sum.SavedThisMonth)) + "\n")
	savings.WriteString(kv("Remaining", a.money(sum.RemainingSavings)) + "\n")
	if sum.MonthlySavingsGoal.IsPositive() {
		barW := max(10, components.CardInnerWidth(halves[1])-6)
		savings.WriteString(components.ProgressBar("", sum.SavingsProgressPercent.InexactFloat64()/100, 0, barW))
	} else {
		savings.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("No savings goal set"))
	}

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Fixed This Month", fixed.String(), halves[0]),
		components.ContentCard("Savings", savings.String(), halves[1]),
	}))
	b.WriteString("\n")

	// Row 3: due soon | spending by category
	var due strings.Builder
	shown := 0
	for _, bill := range sum.UpcomingBills {
		if !bill.DueSoon {
			continue
		}
		if shown > 0 {
			due.WriteString("\n")
		}
		fmt.Fprintf(&due, "%s %s %s",
			lipgloss.NewStyle().Foreground(t.Orange).Render("●"),
			valueStyle.Render(truncStr(bill.Name, 18)),
			labelStyle.Render(a.money(bill.Amount)+" on "+bill.DueDate.Format("Jan 2")))
		shown++
	}
	if shown == 0 {
		due.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("Nothing due in the next few days"))
	}

	spendW := halves[1]
	var spend string
	if len(a.spending) == 0 {
		spend = lipgloss.NewStyle().Foreground(t.TextDim).Render("No expenses this month")
	} else {
		limit := min(len(a.spending), 6)
		bars := make([]components.Bar, limit)
		for i, c := range a.spending[:limit] {
			bars[i] = components.Bar{
				Label: truncStr(c.Category, 14),
				Value: c.Total.InexactFloat64(),
				Text:  a.money(c.Total),
			}
		}
		spend = components.HorizontalBars(bars, components.CardInnerWidth(spendW))
	}

	b.WriteString(components.CardRow([]string{
		components.ContentCard(fmt.Sprintf("Due Soon (%d)", sum.DueSoonCount), due.String(), halves[0]),
		components.ContentCard("Spending This Month", spend, spendW),
	}))

	return b.String()
}
