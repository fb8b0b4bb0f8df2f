package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/balancebuddy/internal/model"
)

func TestFilterTransactions(t *testing.T) {
	day := func(dd, hh int) time.Time {
		return time.Date(2026, time.April, dd, hh, 0, 0, 0, time.Local)
	}
	txs := []model.Transaction{
		{ID: "1", Date: day(20, 9), Amount: d("12"), Category: "Food", Type: model.Expense},
		{ID: "2", Date: day(21, 8), Amount: d("40"), Category: "Fast food", Type: model.Expense},
		{ID: "3", Date: day(21, 18), Amount: d("500"), Category: "Salary", Type: model.Income},
	}

	all := FilterTransactions(txs, TxFilter{})
	if len(all) != 3 || all[0].ID != "3" || all[2].ID != "1" {
		t.Fatalf("unfiltered order = %v, want newest first", ids(all))
	}

	byCategory := FilterTransactions(txs, TxFilter{Category: "FOOD"})
	if got := ids(byCategory); len(got) != 2 || got[0] != "2" || got[1] != "1" {
		t.Errorf("category filter = %v, want [2 1]", got)
	}

	byDate := FilterTransactions(txs, TxFilter{Date: "2026-04-21"})
	if got := ids(byDate); len(got) != 2 || got[0] != "3" || got[1] != "2" {
		t.Errorf("date filter = %v, want [3 2]", got)
	}

	byType := FilterTransactions(txs, TxFilter{Type: model.Income})
	if got := ids(byType); len(got) != 1 || got[0] != "3" {
		t.Errorf("type filter = %v, want [3]", got)
	}
}

func ids(txs []model.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func TestSpendingByCategory(t *testing.T) {
	now := time.Date(2026, time.April, 21, 12, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		{ID: "1", Date: now.AddDate(0, 0, -1), Amount: d("12.50"), Category: "Food", Type: model.Expense},
		{ID: "2", Date: now, Amount: d("7.50"), Category: "food", Type: model.Expense},
		{ID: "3", Date: now, Amount: d("40"), Category: "Transport", Type: model.Expense},
		{ID: "4", Date: now, Amount: d("900"), Category: "Salary", Type: model.Income},
		{ID: "5", Date: now.AddDate(0, -1, 0), Amount: d("99"), Category: "Food", Type: model.Expense},
		{ID: "6", Date: now, Amount: d("1"), Category: " ", Type: model.Expense},
	}

	got := SpendingByCategory(txs, now)
	if len(got) != 3 {
		t.Fatalf("got %d categories, want 3: %+v", len(got), got)
	}
	if got[0].Category != "Transport" || !got[0].Total.Equal(d("40")) {
		t.Errorf("got[0] = %+v, want Transport 40", got[0])
	}
	if got[1].Category != "Food" || !got[1].Total.Equal(d("20")) || got[1].Count != 2 {
		t.Errorf("got[1] = %+v, want Food 20 x2", got[1])
	}
	if got[2].Category != "Uncategorized" {
		t.Errorf("got[2] = %+v, want Uncategorized", got[2])
	}
}
