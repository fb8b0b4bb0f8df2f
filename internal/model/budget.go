// Package model defines the budget state and the values derived from it.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedIncome is a recurring monthly income with a per-period received flag.
type FixedIncome struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	DueDay   int             `json:"dueDay"`
	Received bool            `json:"received"`
}

// FixedExpense is a recurring monthly bill with a per-period paid flag.
type FixedExpense struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	DueDay int             `json:"dueDay"`
	Paid   bool            `json:"paid"`
}

// State is the complete persisted budget. LastMonth is zero-based (0 = January).
type State struct {
	Balance            decimal.Decimal `json:"balance"`
	FixedIncomes       []FixedIncome   `json:"fixedIncomes"`
	FixedExpenses      []FixedExpense  `json:"fixedExpenses"`
	SavingsGoalWeekly  decimal.Decimal `json:"savingsGoalWeekly"`
	SavedThisMonth     decimal.Decimal `json:"savedThisMonth"`
	Transactions       []Transaction   `json:"transactions"`
	LastMonth          int             `json:"lastMonth"`
	LastYear           int             `json:"lastYear"`
	OnboardingComplete bool            `json:"onboardingComplete"`
}

// NewState returns the empty state used when nothing has been persisted yet.
func NewState(now time.Time) State {
	month, year := PeriodOf(now)
	return State{
		Balance:           decimal.Zero,
		FixedIncomes:      []FixedIncome{},
		FixedExpenses:     []FixedExpense{},
		SavingsGoalWeekly: decimal.Zero,
		SavedThisMonth:    decimal.Zero,
		Transactions:      []Transaction{},
		LastMonth:         month,
		LastYear:          year,
	}
}

// PeriodOf returns the zero-based month and the year of t.
func PeriodOf(t time.Time) (month, year int) {
	return int(t.Month()) - 1, t.Year()
}

// Clone returns a deep copy so callers never share slices with the owner.
// Nil collections come back empty.
func (s State) Clone() State {
	c := s
	c.FixedIncomes = append([]FixedIncome{}, s.FixedIncomes...)
	c.FixedExpenses = append([]FixedExpense{}, s.FixedExpenses...)
	c.Transactions = append([]Transaction{}, s.Transactions...)
	return c
}

// Rollover resets the per-period flags and savings progress when now falls in
// a different month than the stored marker. It reports whether anything changed.
func (s *State) Rollover(now time.Time) bool {
	month, year := PeriodOf(now)
	if month == s.LastMonth && year == s.LastYear {
		return false
	}
	for i := range s.FixedIncomes {
		s.FixedIncomes[i].Received = false
	}
	for i := range s.FixedExpenses {
		s.FixedExpenses[i].Paid = false
	}
	s.SavedThisMonth = decimal.Zero
	s.LastMonth = month
	s.LastYear = year
	return true
}
