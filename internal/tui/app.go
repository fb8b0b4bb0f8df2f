// Package tui provides the interactive Bubble Tea dashboard for balancebuddy.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/balancebuddy/internal/budget"
	"github.com/theirongolddev/balancebuddy/internal/cli"
	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/pipeline"
	"github.com/theirongolddev/balancebuddy/internal/tui/components"
	"github.com/theirongolddev/balancebuddy/internal/tui/theme"
)

const (
	tabOverview = iota
	tabBills
	tabIncome
	tabHistory
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
)

type formKind int

const (
	formNone formKind = iota
	formWizard
	formTransaction
	formSavings
)

// Options wires the dashboard.
type Options struct {
	Engine     *budget.Engine
	Pipeline   pipeline.Options
	Currency   string
	Categories []string
	Theme      string
	// OnOnboarded receives the currency and theme picked in the wizard so
	// the caller can persist them.
	OnOnboarded func(currency, theme string) error
}

// App is the root Bubble Tea model.
type App struct {
	opts Options
	eng  *budget.Engine

	// Derived on every change
	state    model.State
	sum      model.Summary
	bills    []model.FixedExpense
	incomes  []model.FixedIncome
	history  []model.Transaction
	spending []pipeline.CategoryTotal

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursors   [4]int

	// History deletion waits for a second press
	pendingDelete string

	// Active huh form, if any
	form      *huh.Form
	formKind  formKind
	wizard    *Wizard
	txVals    TransactionValues
	amountVal string

	status    string
	statusErr bool
}

// NewApp creates the dashboard model. Onboarding starts immediately when the
// engine's state has not completed it yet.
func NewApp(opts Options) App {
	if opts.Pipeline == (pipeline.Options{}) {
		opts.Pipeline = pipeline.DefaultOptions()
	}
	if opts.Categories == nil {
		opts.Categories = model.DefaultCategories
	}
	if opts.Theme != "" {
		theme.SetActive(opts.Theme)
	}
	a := App{opts: opts, eng: opts.Engine}
	a.recompute()
	if !a.state.OnboardingComplete {
		a.startWizard()
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, tickCmd()}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) recompute() {
	a.state = a.eng.State()
	a.sum = a.eng.Summary(a.opts.Pipeline)

	a.bills = append([]model.FixedExpense(nil), a.state.FixedExpenses...)
	sort.SliceStable(a.bills, func(i, j int) bool { return a.bills[i].DueDay < a.bills[j].DueDay })

	a.incomes = append([]model.FixedIncome(nil), a.state.FixedIncomes...)
	sort.SliceStable(a.incomes, func(i, j int) bool { return a.incomes[i].DueDay < a.incomes[j].DueDay })

	a.history = pipeline.FilterTransactions(a.state.Transactions, pipeline.TxFilter{})
	a.spending = pipeline.SpendingByCategory(a.state.Transactions, a.sum.At)

	for tab := range a.cursors {
		n := a.listLen(tab)
		if a.cursors[tab] >= n {
			a.cursors[tab] = n - 1
		}
		if a.cursors[tab] < 0 {
			a.cursors[tab] = 0
		}
	}
}

func (a App) listLen(tab int) int {
	switch tab {
	case tabBills:
		return len(a.bills)
	case tabIncome:
		return len(a.incomes)
	case tabHistory:
		return len(a.history)
	}
	return 0
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 80)).WithHeight(msg.Height)
		}
		return a, nil

	case tickMsg:
		// Other processes may have written since the last tick.
		if err := a.eng.Refresh(); err != nil {
			a.setStatus(err.Error(), true)
		}
		if a.eng.Rollover() {
			a.setStatus("New month: bills and income reset", false)
		}
		a.recompute()
		return a, tickCmd()

	case tea.MouseMsg:
		if a.form != nil || a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateKeys(msg)
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.pendingDelete != "" {
		id := a.pendingDelete
		a.pendingDelete = ""
		if key == "d" {
			a.eng.DeleteTransaction(id)
			a.afterMutation("Transaction deleted")
			return a, nil
		}
		a.setStatus("", false)
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.showHelp = true
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	case "j", "down":
		if a.cursors[a.activeTab] < a.listLen(a.activeTab)-1 {
			a.cursors[a.activeTab]++
		}
	case "k", "up":
		if a.cursors[a.activeTab] > 0 {
			a.cursors[a.activeTab]--
		}
	case "enter", " ":
		a.markSelected()
	case "d":
		if a.activeTab == tabHistory && len(a.history) > 0 {
			tx := a.history[a.cursors[tabHistory]]
			a.pendingDelete = tx.ID
			a.setStatus(fmt.Sprintf("Delete %s %s? press d again", tx.Category, a.money(tx.Amount)), true)
		}
	case "a":
		a.txVals = TransactionValues{}
		return a.openForm(formTransaction, TransactionForm(a.opts.Categories, &a.txVals))
	case "s":
		a.amountVal = ""
		return a.openForm(formSavings, AmountForm("Add to savings", &a.amountVal))
	case "W":
		if !a.state.OnboardingComplete {
			a.startWizard()
			return a, a.form.Init()
		}
	case "r":
		if err := a.eng.Refresh(); err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		a.recompute()
		a.setStatus("Refreshed", false)
	default:
		if len(msg.Runes) == 1 {
			if tab := components.TabIdxByKey(msg.Runes[0]); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// markSelected pays the selected bill or receives the selected income.
func (a *App) markSelected() {
	switch a.activeTab {
	case tabBills:
		if len(a.bills) == 0 {
			return
		}
		bill := a.bills[a.cursors[tabBills]]
		if bill.Paid {
			a.setStatus(bill.Name+" is already paid this month", false)
			return
		}
		a.eng.MarkExpensePaid(bill.ID)
		a.afterMutation(fmt.Sprintf("Paid %s (%s)", bill.Name, a.money(bill.Amount)))
	case tabIncome:
		if len(a.incomes) == 0 {
			return
		}
		inc := a.incomes[a.cursors[tabIncome]]
		if inc.Received {
			a.setStatus(inc.Name+" is already received this month", false)
			return
		}
		a.eng.MarkIncomeReceived(inc.ID)
		a.afterMutation(fmt.Sprintf("Received %s (%s)", inc.Name, a.money(inc.Amount)))
	}
}

func (a *App) startWizard() {
	a.wizard = NewWizard(a.opts.Currency, theme.Active.Name, theme.Names())
	a.formKind = formWizard
	a.form = a.sizedForm(a.wizard.Form())
}

func (a App) openForm(kind formKind, f *huh.Form) (tea.Model, tea.Cmd) {
	a.formKind = kind
	a.form = a.sizedForm(f)
	return a, a.form.Init()
}

func (a App) sizedForm(f *huh.Form) *huh.Form {
	if a.width > 0 {
		return f.WithWidth(min(a.width, 80)).WithHeight(a.height)
	}
	return f
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		return a.completeForm()
	case huh.StateAborted:
		if a.formKind == formWizard {
			a.setStatus("Setup skipped. Press W to resume", true)
		}
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
}

func (a App) completeForm() (tea.Model, tea.Cmd) {
	kind := a.formKind
	a.closeForm()

	switch kind {
	case formWizard:
		if err := a.wizard.Advance(); err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		if !a.wizard.Done() {
			return a.openForm(formWizard, a.wizard.Form())
		}
		if err := a.eng.Onboard(a.wizard.Onboarding()); err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		vals := a.wizard.Values
		a.opts.Currency = vals.Currency
		theme.SetActive(vals.Theme)
		a.wizard = nil
		if a.opts.OnOnboarded != nil {
			if err := a.opts.OnOnboarded(vals.Currency, vals.Theme); err != nil {
				a.recompute()
				a.setStatus("Settings not saved: "+err.Error(), true)
				return a, nil
			}
		}
		a.afterMutation("All set!")

	case formTransaction:
		in, err := a.txVals.NewTransaction()
		if err == nil {
			_, err = a.eng.AddTransaction(in)
		}
		if err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		a.afterMutation(fmt.Sprintf("Added %s %s", in.Type, a.money(in.Amount)))

	case formSavings:
		amount, err := cli.ParseAmount(a.amountVal)
		if err == nil {
			err = a.eng.AddToSavings(amount)
		}
		if err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		a.afterMutation("Saved " + a.money(amount))
	}
	return a, nil
}

// afterMutation refreshes derived data and reports persistence failures,
// which never undo the change itself.
func (a *App) afterMutation(msg string) {
	a.recompute()
	if err := a.eng.LastSaveError(); err != nil {
		a.setStatus("Not saved: "+err.Error(), true)
		return
	}
	a.setStatus(msg, false)
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n  balancebuddy needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) viewForm() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("◈ balancebuddy")
	body := title + "\n\n" + a.form.View()
	if a.status != "" && a.statusErr {
		body += "\n" + lipgloss.NewStyle().Foreground(t.Red).Render(a.status)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	bindings := []struct{ key, desc string }{
		{"o b i h", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move in lists"},
		{"Enter", "Mark bill paid / income received"},
		{"a", "Add transaction"},
		{"s", "Add to savings"},
		{"d d", "Delete transaction (History)"},
		{"r", "Refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()

	monthLine := lipgloss.NewStyle().Foreground(t.TextDim).Render(fmt.Sprintf(" %s · %d days left",
		a.sum.At.Format("January 2006"), a.sum.DaysLeftInMonth))
	header := components.RenderTabBar(a.activeTab, a.width) + "\n" + monthLine

	hints := "[a]dd  [s]ave  [?]help  [q]uit"
	statusBar := components.RenderStatusBar(a.width, hints, a.status, a.statusErr)

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabBills:
		content = a.renderBillsTab(cw, contentH)
	case tabIncome:
		content = a.renderIncomeTab(cw, contentH)
	case tabHistory:
		content = a.renderHistoryTab(cw, contentH)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}

type tickMsg struct{}

// tickCmd wakes the dashboard each minute so day counts and the monthly
// rollover follow the clock.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
