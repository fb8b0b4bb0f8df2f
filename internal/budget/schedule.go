package budget

import (
	"strings"

	"github.com/theirongolddev/balancebuddy/internal/model"

	"github.com/shopspring/decimal"
)

// Schedule describes a fixed income or expense before it is registered.
type Schedule struct {
	Name   string
	Amount decimal.Decimal
	DueDay int
}

func (sc Schedule) validate() error {
	if strings.TrimSpace(sc.Name) == "" {
		return ErrInvalidName
	}
	if !sc.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if sc.DueDay < 1 || sc.DueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}

// AddFixedIncome registers a recurring income, not yet received this month.
func (e *Engine) AddFixedIncome(sc Schedule) (model.FixedIncome, error) {
	if err := sc.validate(); err != nil {
		return model.FixedIncome{}, err
	}
	inc := model.FixedIncome{
		ID:     e.newID(),
		Name:   strings.TrimSpace(sc.Name),
		Amount: sc.Amount,
		DueDay: sc.DueDay,
	}
	e.apply("add_fixed_income", func(s *model.State) bool {
		s.FixedIncomes = append(s.FixedIncomes, inc)
		return true
	})
	return inc, nil
}

// AddFixedExpense registers a recurring bill, not yet paid this month.
func (e *Engine) AddFixedExpense(sc Schedule) (model.FixedExpense, error) {
	if err := sc.validate(); err != nil {
		return model.FixedExpense{}, err
	}
	exp := model.FixedExpense{
		ID:     e.newID(),
		Name:   strings.TrimSpace(sc.Name),
		Amount: sc.Amount,
		DueDay: sc.DueDay,
	}
	e.apply("add_fixed_expense", func(s *model.State) bool {
		s.FixedExpenses = append(s.FixedExpenses, exp)
		return true
	})
	return exp, nil
}

// MarkIncomeReceived flags the income as received and credits the balance.
// Unknown ids and incomes already received are ignored.
func (e *Engine) MarkIncomeReceived(id string) {
	e.apply("mark_income_received", func(s *model.State) bool {
		for i := range s.FixedIncomes {
			inc := &s.FixedIncomes[i]
			if inc.ID != id {
				continue
			}
			if inc.Received {
				return false
			}
			inc.Received = true
			s.Balance = s.Balance.Add(inc.Amount)
			return true
		}
		return false
	})
}

// MarkExpensePaid flags the bill as paid and debits the balance.
// Unknown ids and bills already paid are ignored.
func (e *Engine) MarkExpensePaid(id string) {
	e.apply("mark_expense_paid", func(s *model.State) bool {
		for i := range s.FixedExpenses {
			exp := &s.FixedExpenses[i]
			if exp.ID != id {
				continue
			}
			if exp.Paid {
				return false
			}
			exp.Paid = true
			s.Balance = s.Balance.Sub(exp.Amount)
			return true
		}
		return false
	})
}

// hasExpenseNamed reports whether a fixed expense matches name, ignoring case.
func hasExpenseNamed(s *model.State, name string) bool {
	for _, exp := range s.FixedExpenses {
		if strings.EqualFold(exp.Name, name) {
			return true
		}
	}
	return false
}
