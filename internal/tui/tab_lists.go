package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/balancebuddy/internal/cli"
	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/pipeline"
	"github.com/theirongolddev/balancebuddy/internal/tui/components"
	"github.com/theirongolddev/balancebuddy/internal/tui/theme"
)

// listRow is one line of a selectable list card.
type listRow struct {
	cells []string
	done  bool
	alert bool
}

// visibleRange returns the [start, end) window that keeps cursor on screen.
func visibleRange(cursor, n, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

// renderList draws a titled card with a header row and a highlighted cursor.
// widths holds the column widths; the first column is left aligned.
func renderList(title string, headers []string, widths []int, rows []listRow, cursor, cw, h int, empty string) string {
	t := theme.Active

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	doneStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	alertStyle := lipgloss.NewStyle().Foreground(t.Orange)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	innerW := components.CardInnerWidth(cw)
	format := func(cells []string) string {
		var b strings.Builder
		for i, c := range cells {
			if i >= len(widths) {
				break
			}
			c = truncStr(c, widths[i])
			if i == 0 {
				fmt.Fprintf(&b, "%-*s", widths[i], c)
			} else {
				fmt.Fprintf(&b, " %*s", widths[i], c)
			}
		}
		line := b.String()
		if pad := innerW - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return line
	}

	var body strings.Builder
	body.WriteString(headStyle.Render(format(headers)))

	if len(rows) == 0 {
		body.WriteString("\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render(empty))
		return components.ContentCard(title, body.String(), cw)
	}

	// title + header + borders
	start, end := visibleRange(cursor, len(rows), h-4)
	for i := start; i < end; i++ {
		r := rows[i]
		line := format(r.cells)
		style := rowStyle
		switch {
		case i == cursor:
			style = selStyle
		case r.done:
			style = doneStyle
		case r.alert:
			style = alertStyle
		}
		body.WriteString("\n" + style.Render(line))
	}

	if len(rows) > end-start {
		title = fmt.Sprintf("%s [%d/%d]", title, cursor+1, len(rows))
	}
	return components.ContentCard(title, body.String(), cw)
}

func (a App) renderBillsTab(cw, h int) string {
	now := a.sum.At
	window := a.opts.Pipeline.DueSoonDays

	rows := make([]listRow, len(a.bills))
	for i, bill := range a.bills {
		status := "due " + pipeline.DueDate(now, bill.DueDay).Format("Jan 2")
		soon := !bill.Paid && pipeline.DueSoon(now, bill.DueDay, window)
		switch {
		case bill.Paid:
			status = "✓ paid"
		case soon:
			status = "● " + status
		}
		rows[i] = listRow{
			cells: []string{bill.Name, cli.FormatDayOfMonth(bill.DueDay), a.money(bill.Amount), status},
			done:  bill.Paid,
			alert: soon,
		}
	}

	title := fmt.Sprintf("Bills · %s still due", a.money(a.sum.RemainingFixedExpenses))
	return renderList(title,
		[]string{"Name", "Day", "Amount", "Status"},
		[]int{24, 5, 12, 14},
		rows, a.cursors[tabBills], cw, h,
		"No fixed expenses yet. Run setup or add a fixed expense transaction.")
}

func (a App) renderIncomeTab(cw, h int) string {
	rows := make([]listRow, len(a.incomes))
	var pending int
	for i, inc := range a.incomes {
		status := "expected"
		if inc.Received {
			status = "✓ received"
		} else {
			pending++
		}
		rows[i] = listRow{
			cells: []string{inc.Name, cli.FormatDayOfMonth(inc.DueDay), a.money(inc.Amount), status},
			done:  inc.Received,
		}
	}

	title := fmt.Sprintf("Income · %s per month, %d pending", a.money(a.sum.TotalFixedIncome), pending)
	return renderList(title,
		[]string{"Name", "Day", "Amount", "Status"},
		[]int{24, 5, 12, 12},
		rows, a.cursors[tabIncome], cw, h,
		"No fixed incomes yet.")
}

func (a App) renderHistoryTab(cw, h int) string {
	innerW := components.CardInnerWidth(cw)
	descW := max(8, innerW-12-16-12-4)

	rows := make([]listRow, len(a.history))
	for i, tx := range a.history {
		amount := a.money(tx.Amount)
		if tx.Type == model.Expense {
			amount = "-" + amount
		} else {
			amount = "+" + amount
		}
		desc := tx.Description
		if tx.Fixed {
			desc = "[fixed] " + desc
		}
		rows[i] = listRow{
			cells: []string{cli.FormatDate(tx.Date), tx.Category, amount, desc},
		}
	}

	return renderList(fmt.Sprintf("History (%d)", len(a.history)),
		[]string{"Date", "Category", "Amount", "Description"},
		[]int{12, 16, 12, descW},
		rows, a.cursors[tabHistory], cw, h,
		"No transactions yet. Press a to add one.")
}
