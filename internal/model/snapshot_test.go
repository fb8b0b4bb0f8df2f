package model

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	at := time.Date(2026, time.March, 3, 8, 15, 0, 0, time.UTC)
	st := NewState(at)
	st.Balance = decimal.RequireFromString("980.10")
	st.SavingsGoalWeekly = decimal.RequireFromString("50")
	st.FixedExpenses = append(st.FixedExpenses, FixedExpense{ID: "e1", Name: "Rent", Amount: decimal.RequireFromString("300"), DueDay: 5})
	st.Transactions = append(st.Transactions, Transaction{ID: "t1", Date: at, Amount: decimal.RequireFromString("19.90"), Category: "Food", Type: Expense})

	data, err := MarshalSnapshot(st)
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	if !bytes.Contains(data, []byte(`"balance": 980.1`)) {
		t.Errorf("balance not encoded as a JSON number:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"lastMonth": 2`)) {
		t.Errorf("lastMonth not zero-based:\n%s", data)
	}

	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}
	if !got.Balance.Equal(st.Balance) {
		t.Errorf("Balance = %s, want %s", got.Balance, st.Balance)
	}
	if len(got.FixedExpenses) != 1 || got.FixedExpenses[0].Name != "Rent" {
		t.Errorf("FixedExpenses = %+v", got.FixedExpenses)
	}
	if len(got.Transactions) != 1 || !got.Transactions[0].Date.Equal(at) {
		t.Errorf("Transactions = %+v", got.Transactions)
	}
	if got.FixedIncomes == nil {
		t.Error("FixedIncomes decoded as nil, want empty slice")
	}
}

func TestDecodeSnapshot_MissingCollectionsBecomeEmpty(t *testing.T) {
	got, err := UnmarshalSnapshot([]byte(`{"balance": 5, "lastMonth": 0, "lastYear": 2026}`))
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}
	if got.FixedIncomes == nil || got.FixedExpenses == nil || got.Transactions == nil {
		t.Errorf("nil collections after decode: %+v", got)
	}
}

func TestDecodeSnapshot_Malformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"month out of range", `{"lastMonth": 12, "lastYear": 2026}`},
		{"missing year", `{"lastMonth": 1}`},
		{"unknown field", `{"lastMonth": 1, "lastYear": 2026, "currency": "EUR"}`},
		{"negative goal", `{"lastMonth": 1, "lastYear": 2026, "savingsGoalWeekly": -1}`},
		{"bad due day", `{"lastMonth": 1, "lastYear": 2026, "fixedExpenses": [{"id": "a", "name": "x", "amount": 1, "dueDay": 0, "paid": false}]}`},
		{"duplicate schedule id", `{"lastMonth": 1, "lastYear": 2026, "fixedIncomes": [
			{"id": "a", "name": "x", "amount": 1, "dueDay": 1, "received": false},
			{"id": "a", "name": "y", "amount": 2, "dueDay": 2, "received": false}]}`},
		{"bad transaction type", `{"lastMonth": 1, "lastYear": 2026, "transactions": [
			{"id": "t", "date": "2026-02-01T00:00:00Z", "amount": 3, "category": "", "description": "", "type": "transfer", "fixed": false}]}`},
		{"zero amount", `{"lastMonth": 1, "lastYear": 2026, "transactions": [
			{"id": "t", "date": "2026-02-01T00:00:00Z", "amount": 0, "category": "", "description": "", "type": "income", "fixed": false}]}`},
		{"not json", `balance=3`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(strings.NewReader(tt.json))
			if !errors.Is(err, ErrMalformedSnapshot) {
				t.Fatalf("DecodeSnapshot error = %v, want ErrMalformedSnapshot", err)
			}
		})
	}
}

func TestState_RolloverIdempotent(t *testing.T) {
	st := NewState(time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC))
	st.FixedExpenses = []FixedExpense{{ID: "e", Name: "Rent", Amount: decimal.NewFromInt(1), DueDay: 1, Paid: true}}
	st.FixedIncomes = []FixedIncome{{ID: "i", Name: "Pay", Amount: decimal.NewFromInt(1), DueDay: 1, Received: true}}
	st.SavedThisMonth = decimal.NewFromInt(40)

	feb := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	if !st.Rollover(feb) {
		t.Fatal("first Rollover = false, want true")
	}
	if st.FixedExpenses[0].Paid || st.FixedIncomes[0].Received || !st.SavedThisMonth.IsZero() {
		t.Errorf("flags not reset: %+v", st)
	}
	if st.LastMonth != 1 || st.LastYear != 2026 {
		t.Errorf("period = %d/%d, want 1/2026", st.LastMonth, st.LastYear)
	}
	if st.Rollover(feb.Add(72 * time.Hour)) {
		t.Error("second Rollover in same month = true, want false")
	}
}
