package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/balancebuddy/internal/budget"
	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/store"
)

var testNow = time.Date(2026, time.April, 10, 9, 30, 0, 0, time.Local)

func newTestEngine(t *testing.T, onboarded bool) *budget.Engine {
	t.Helper()
	eng, err := budget.New(budget.Config{Now: func() time.Time { return testNow }})
	if err != nil {
		t.Fatalf("budget.New: %v", err)
	}
	if onboarded {
		err := eng.Onboard(budget.Onboarding{
			StartingBalance: decimal.NewFromInt(2000),
			Incomes: []budget.Schedule{
				{Name: "Salary", Amount: decimal.NewFromInt(3000), DueDay: 25},
			},
			Expenses: []budget.Schedule{
				{Name: "Rent", Amount: decimal.NewFromInt(900), DueDay: 28},
				{Name: "Power", Amount: decimal.NewFromInt(80), DueDay: 12},
			},
			SavingsGoalWeekly: decimal.NewFromInt(50),
		})
		if err != nil {
			t.Fatalf("Onboard: %v", err)
		}
	}
	return eng
}

func newTestApp(t *testing.T, eng *budget.Engine) App {
	t.Helper()
	a := NewApp(Options{Engine: eng, Currency: "$"})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestNewApp_StartsWizardWhenNotOnboarded(t *testing.T) {
	a := newTestApp(t, newTestEngine(t, false))
	if a.form == nil || a.formKind != formWizard {
		t.Fatalf("expected onboarding wizard, got formKind %d", a.formKind)
	}

	b := newTestApp(t, newTestEngine(t, true))
	if b.form != nil {
		t.Error("onboarded budget should open on the dashboard")
	}
}

func TestApp_TabSwitching(t *testing.T) {
	a := newTestApp(t, newTestEngine(t, true))

	a = press(t, a, "b")
	if a.activeTab != tabBills {
		t.Errorf("after b: tab %d, want %d", a.activeTab, tabBills)
	}
	a = press(t, a, "right")
	if a.activeTab != tabIncome {
		t.Errorf("after right: tab %d, want %d", a.activeTab, tabIncome)
	}
	a = press(t, a, "h", "right")
	if a.activeTab != tabOverview {
		t.Errorf("right from history should wrap to overview, got %d", a.activeTab)
	}
	a = press(t, a, "left")
	if a.activeTab != tabHistory {
		t.Errorf("left from overview should wrap to history, got %d", a.activeTab)
	}
}

func TestApp_EnterPaysSelectedBill(t *testing.T) {
	eng := newTestEngine(t, true)
	a := newTestApp(t, eng)

	// Bills are listed by due day: Power (12th), Rent (28th).
	a = press(t, a, "b", "j", "enter")

	st := eng.State()
	var rent, power model.FixedExpense
	for _, e := range st.FixedExpenses {
		switch e.Name {
		case "Rent":
			rent = e
		case "Power":
			power = e
		}
	}
	if !rent.Paid || power.Paid {
		t.Fatalf("rent paid=%v power paid=%v, want only rent", rent.Paid, power.Paid)
	}
	if !st.Balance.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("balance = %s, want 1100", st.Balance)
	}

	// Second press is a no-op.
	a = press(t, a, "enter")
	if got := eng.State().Balance; !got.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("paying twice moved balance to %s", got)
	}
	if !strings.Contains(a.status, "already paid") {
		t.Errorf("status = %q", a.status)
	}
}

func TestApp_EnterReceivesIncome(t *testing.T) {
	eng := newTestEngine(t, true)
	a := newTestApp(t, eng)

	press(t, a, "i", "enter")

	st := eng.State()
	if !st.FixedIncomes[0].Received {
		t.Fatal("income not marked received")
	}
	if !st.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("balance = %s, want 5000", st.Balance)
	}
}

func TestApp_DeleteNeedsSecondPress(t *testing.T) {
	eng := newTestEngine(t, true)
	if _, err := eng.AddTransaction(budget.NewTransaction{
		Amount:   decimal.NewFromInt(40),
		Category: "Food",
		Type:     model.Expense,
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	a := newTestApp(t, eng)

	a = press(t, a, "h", "d")
	if len(eng.State().Transactions) != 1 {
		t.Fatal("single d must not delete")
	}
	if a.pendingDelete == "" {
		t.Fatal("expected a pending delete")
	}

	a = press(t, a, "k")
	if a.pendingDelete != "" || len(eng.State().Transactions) != 1 {
		t.Fatal("another key should cancel the delete")
	}

	press(t, a, "d", "d")
	st := eng.State()
	if len(st.Transactions) != 0 {
		t.Fatalf("transactions = %d, want 0", len(st.Transactions))
	}
	if !st.Balance.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("balance = %s, want 2000 after delete", st.Balance)
	}
}

func TestApp_CursorStaysInBounds(t *testing.T) {
	a := newTestApp(t, newTestEngine(t, true))
	a = press(t, a, "b", "j", "j", "j", "j")
	if a.cursors[tabBills] != 1 {
		t.Errorf("cursor = %d, want 1", a.cursors[tabBills])
	}
	a = press(t, a, "k", "k", "k")
	if a.cursors[tabBills] != 0 {
		t.Errorf("cursor = %d, want 0", a.cursors[tabBills])
	}
}

func TestApp_TabAtX(t *testing.T) {
	a := newTestApp(t, newTestEngine(t, true))

	// Active "Overview" is 10 wide, then a space, then " [B]ills " (9 wide).
	tests := []struct {
		x    int
		want int
	}{
		{0, tabOverview},
		{9, tabOverview},
		{10, -1},
		{11, tabBills},
		{19, tabBills},
		{500, -1},
	}
	for _, tt := range tests {
		if got := a.tabAtX(tt.x); got != tt.want {
			t.Errorf("tabAtX(%d) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestApp_ViewRendersEveryTab(t *testing.T) {
	a := newTestApp(t, newTestEngine(t, true))

	checks := map[string]string{
		"o": "Flexible",
		"b": "Rent",
		"i": "Salary",
		"h": "No transactions yet",
	}
	for key, want := range checks {
		a = press(t, a, key)
		view := a.View()
		if !strings.Contains(view, want) {
			t.Errorf("tab %s: view missing %q", key, want)
		}
		if h := strings.Count(view, "\n") + 1; h > 40 {
			t.Errorf("tab %s: view is %d lines, taller than the terminal", key, h)
		}
	}
}

func TestApp_NarrowTerminal(t *testing.T) {
	a := NewApp(Options{Engine: newTestEngine(t, true)})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	if !strings.Contains(m.View(), "too narrow") {
		t.Error("expected narrow terminal notice")
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		cursor, n, rows int
		start, end      int
	}{
		{0, 3, 10, 0, 3},
		{0, 20, 5, 0, 5},
		{10, 20, 5, 8, 13},
		{19, 20, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := visibleRange(tt.cursor, tt.n, tt.rows)
		if start != tt.start || end != tt.end {
			t.Errorf("visibleRange(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.cursor, tt.n, tt.rows, start, end, tt.start, tt.end)
		}
	}
}

func TestTransactionValues(t *testing.T) {
	in, err := TransactionValues{
		Type:     "income",
		Amount:   "$1,200.50",
		Category: otherCategory,
		Custom:   "  Side gig ",
		Fixed:    true,
	}.NewTransaction()
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	if in.Category != "Side gig" {
		t.Errorf("category = %q", in.Category)
	}
	if in.Fixed {
		t.Error("income must never be fixed")
	}
	if !in.Amount.Equal(decimal.RequireFromString("1200.50")) {
		t.Errorf("amount = %s", in.Amount)
	}

	if _, err := (TransactionValues{Type: "expense", Amount: "lots"}).NewTransaction(); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}

func TestApp_TickPicksUpOtherWriters(t *testing.T) {
	dir := t.TempDir()
	open := func() *budget.Engine {
		t.Helper()
		b, err := store.Open(store.KindJSON, dir)
		if err != nil {
			t.Fatalf("store.Open: %v", err)
		}
		t.Cleanup(func() { _ = b.Close() })
		eng, err := budget.New(budget.Config{Store: b, Now: func() time.Time { return testNow }})
		if err != nil {
			t.Fatalf("budget.New: %v", err)
		}
		return eng
	}

	a := newTestApp(t, open())
	cli := open()
	if _, err := cli.AddTransaction(budget.NewTransaction{
		Amount: decimal.NewFromInt(12), Category: "Coffee", Type: model.Expense,
	}); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if len(a.history) != 0 {
		t.Fatalf("history = %d before the tick, want 0", len(a.history))
	}

	m, _ := a.Update(tickMsg{})
	a = m.(App)
	if len(a.history) != 1 || a.history[0].Category != "Coffee" {
		t.Fatalf("history after tick = %+v, want the Coffee expense", a.history)
	}
	if !a.state.Balance.Equal(decimal.NewFromInt(-12)) {
		t.Errorf("balance = %s, want -12", a.state.Balance)
	}
}
