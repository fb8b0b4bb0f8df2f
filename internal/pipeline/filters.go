package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/balancebuddy/internal/model"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used by transaction filters.
const DateLayout = "2006-01-02"

// TxFilter narrows the transaction history. Empty fields match everything.
type TxFilter struct {
	Date     string // YYYY-MM-DD in local time
	Category string // case-insensitive substring
	Type     model.TxType
}

// FilterTransactions returns the matching transactions, newest first.
func FilterTransactions(txs []model.Transaction, f TxFilter) []model.Transaction {
	category := strings.ToLower(strings.TrimSpace(f.Category))

	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Date != "" && tx.Date.Local().Format(DateLayout) != f.Date {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(tx.Category), category) {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// SpendingByCategory sums this month's expense transactions per category,
// largest first. Categories are grouped case-insensitively under the first
// spelling seen; a blank category is reported as "Uncategorized".
func SpendingByCategory(txs []model.Transaction, now time.Time) []CategoryTotal {
	month, year := model.PeriodOf(now)
	index := make(map[string]int)
	var out []CategoryTotal
	for _, tx := range txs {
		if tx.Type != model.Expense {
			continue
		}
		if m, y := model.PeriodOf(tx.Date.In(now.Location())); m != month || y != year {
			continue
		}
		name := strings.TrimSpace(tx.Category)
		if name == "" {
			name = "Uncategorized"
		}
		key := strings.ToLower(name)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, CategoryTotal{Category: name, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(tx.Amount)
		out[i].Count++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}
