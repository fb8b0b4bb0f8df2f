package budget

import (
	"strings"

	"github.com/theirongolddev/balancebuddy/internal/model"

	"github.com/shopspring/decimal"
)

// Onboarding is everything the first-run flow collects.
type Onboarding struct {
	StartingBalance   decimal.Decimal
	Incomes           []Schedule
	Expenses          []Schedule
	SavingsGoalWeekly decimal.Decimal
}

// SetInitialBalance overwrites the balance.
func (e *Engine) SetInitialBalance(amount decimal.Decimal) {
	e.apply("set_initial_balance", func(s *model.State) bool {
		s.Balance = amount
		return true
	})
}

// SetSavingsGoalWeekly sets the weekly savings target. Zero disables it.
func (e *Engine) SetSavingsGoalWeekly(goal decimal.Decimal) error {
	if goal.IsNegative() {
		return ErrInvalidAmount
	}
	e.apply("set_savings_goal", func(s *model.State) bool {
		s.SavingsGoalWeekly = goal
		return true
	})
	return nil
}

// CompleteOnboarding closes the onboarding gate. There is no way back.
func (e *Engine) CompleteOnboarding() {
	e.apply("complete_onboarding", func(s *model.State) bool {
		if s.OnboardingComplete {
			return false
		}
		s.OnboardingComplete = true
		return true
	})
}

// Onboard applies a finished onboarding flow as one mutation: starting
// balance, schedules and savings goal, then closes the gate. Nothing is
// applied if any part is invalid.
func (e *Engine) Onboard(o Onboarding) error {
	for _, sc := range o.Incomes {
		if err := sc.validate(); err != nil {
			return err
		}
	}
	for _, sc := range o.Expenses {
		if err := sc.validate(); err != nil {
			return err
		}
	}
	if o.SavingsGoalWeekly.IsNegative() {
		return ErrInvalidAmount
	}

	e.apply("onboard", func(s *model.State) bool {
		s.Balance = o.StartingBalance
		for _, sc := range o.Incomes {
			s.FixedIncomes = append(s.FixedIncomes, model.FixedIncome{
				ID:     e.newID(),
				Name:   strings.TrimSpace(sc.Name),
				Amount: sc.Amount,
				DueDay: sc.DueDay,
			})
		}
		for _, sc := range o.Expenses {
			s.FixedExpenses = append(s.FixedExpenses, model.FixedExpense{
				ID:     e.newID(),
				Name:   strings.TrimSpace(sc.Name),
				Amount: sc.Amount,
				DueDay: sc.DueDay,
			})
		}
		s.SavingsGoalWeekly = o.SavingsGoalWeekly
		s.OnboardingComplete = true
		return true
	})
	return nil
}

// AddToSavings records money set aside this month. The balance is left
// alone: savings count against flexible spending through the remaining goal,
// not as a debit.
func (e *Engine) AddToSavings(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	e.apply("add_to_savings", func(s *model.State) bool {
		s.SavedThisMonth = s.SavedThisMonth.Add(amount)
		return true
	})
	return nil
}
