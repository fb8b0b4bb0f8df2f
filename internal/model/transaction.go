package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType says which way a transaction moves the balance.
type TxType string

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction is a single ledger entry. Amount is always positive.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Type        TxType          `json:"type"`
	Fixed       bool            `json:"fixed"`
}

// Signed returns the amount with the sign it applies to the balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

// DefaultCategories are offered by the transaction forms; any other
// non-empty category is accepted as well.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Church",
	"Entertainment",
	"Shopping",
	"Health",
	"Education",
	"Miscellaneous",
}
