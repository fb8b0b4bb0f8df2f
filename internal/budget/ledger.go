package budget

import (
	"strings"
	"time"

	"github.com/theirongolddev/balancebuddy/internal/model"

	"github.com/shopspring/decimal"
)

// NewTransaction is the user-supplied part of a ledger entry.
type NewTransaction struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Type        model.TxType
	Fixed       bool
}

// TransactionUpdate carries the fields to change; nil fields keep their value.
type TransactionUpdate struct {
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Type        *model.TxType
	Fixed       *bool
	Date        *time.Time
}

// AddTransaction appends a ledger entry stamped with the current time and
// moves the balance by its signed amount. A fixed expense whose category is
// not yet a fixed expense name (ignoring case) also registers that bill, due
// on today's day of the month.
func (e *Engine) AddTransaction(in NewTransaction) (model.Transaction, error) {
	if !in.Amount.IsPositive() {
		return model.Transaction{}, ErrInvalidAmount
	}
	if !in.Type.Valid() {
		return model.Transaction{}, ErrInvalidType
	}

	now := e.now()
	tx := model.Transaction{
		ID:          e.newID(),
		Date:        now,
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		Type:        in.Type,
		Fixed:       in.Fixed,
	}

	e.apply("add_transaction", func(s *model.State) bool {
		s.Transactions = append(s.Transactions, tx)
		s.Balance = s.Balance.Add(tx.Signed())

		if tx.Type == model.Expense && tx.Fixed && tx.Category != "" && !hasExpenseNamed(s, tx.Category) {
			s.FixedExpenses = append(s.FixedExpenses, model.FixedExpense{
				ID:     e.newID(),
				Name:   tx.Category,
				Amount: tx.Amount,
				DueDay: now.Day(),
			})
			e.log.Info().Str("name", tx.Category).Int("due_day", now.Day()).Msg("learned fixed expense")
		}
		return true
	})
	return tx, nil
}

// EditTransaction applies u to the transaction with the given id. The
// balance moves by the difference between the new and old signed amounts,
// so edits that leave amount and type alone never touch it. Unknown ids are
// ignored.
func (e *Engine) EditTransaction(id string, u TransactionUpdate) error {
	if u.Amount != nil && !u.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if u.Type != nil && !u.Type.Valid() {
		return ErrInvalidType
	}

	e.apply("edit_transaction", func(s *model.State) bool {
		for i := range s.Transactions {
			tx := &s.Transactions[i]
			if tx.ID != id {
				continue
			}
			before := tx.Signed()
			if u.Amount != nil {
				tx.Amount = *u.Amount
			}
			if u.Type != nil {
				tx.Type = *u.Type
			}
			if u.Category != nil {
				tx.Category = strings.TrimSpace(*u.Category)
			}
			if u.Description != nil {
				tx.Description = *u.Description
			}
			if u.Fixed != nil {
				tx.Fixed = *u.Fixed
			}
			if u.Date != nil && !u.Date.IsZero() {
				tx.Date = *u.Date
			}
			s.Balance = s.Balance.Add(tx.Signed().Sub(before))
			return true
		}
		return false
	})
	return nil
}

// DeleteTransaction removes the transaction and reverses its effect on the
// balance. Unknown ids are ignored, so repeated deletes are harmless.
func (e *Engine) DeleteTransaction(id string) {
	e.apply("delete_transaction", func(s *model.State) bool {
		for i, tx := range s.Transactions {
			if tx.ID != id {
				continue
			}
			s.Balance = s.Balance.Sub(tx.Signed())
			s.Transactions = append(s.Transactions[:i], s.Transactions[i+1:]...)
			return true
		}
		return false
	})
}
