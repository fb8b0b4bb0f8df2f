// Package pipeline derives the dashboard figures from a budget state. Every
// function here is pure: the same state and clock always give the same result.
package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/balancebuddy/internal/model"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	seven   = decimal.NewFromInt(7)
	four    = decimal.NewFromInt(4)

	healthyAbove = decimal.NewFromInt(1000)
	cautionAbove = decimal.NewFromInt(500)
)

// Options tunes the alert thresholds.
type Options struct {
	LowBalanceThreshold decimal.Decimal
	DueSoonDays         int
}

// DefaultOptions flags flexible spending under 500 and bills due within 3 days.
func DefaultOptions() Options {
	return Options{
		LowBalanceThreshold: decimal.NewFromInt(500),
		DueSoonDays:         3,
	}
}

// Derive computes the Summary for st as seen at now.
func Derive(st model.State, now time.Time, opts Options) model.Summary {
	days := DaysLeftInMonth(now)
	daysD := decimal.NewFromInt(int64(days))

	sum := model.Summary{
		At:                 now,
		Balance:            st.Balance,
		Health:             HealthOf(st.Balance),
		DaysLeftInMonth:    days,
		WeeksLeftInMonth:   daysD.Div(seven),
		SavedThisMonth:     st.SavedThisMonth,
		TransactionCount:   len(st.Transactions),
		OnboardingComplete: st.OnboardingComplete,
	}

	sum.TotalFixedIncome = TotalFixedIncome(st.FixedIncomes)
	sum.TotalFixedExpense = TotalFixedExpense(st.FixedExpenses)
	sum.NetFixed = sum.TotalFixedIncome.Sub(sum.TotalFixedExpense)
	sum.RemainingFixedExpenses = RemainingFixedExpenses(st.FixedExpenses)

	sum.MonthlySavingsGoal = MonthlySavingsGoal(st.SavingsGoalWeekly)
	sum.RemainingSavings = sum.MonthlySavingsGoal.Sub(st.SavedThisMonth)
	sum.SavingsProgressPercent = SavingsProgressPercent(st.SavedThisMonth, sum.MonthlySavingsGoal)

	sum.FlexibleSpending = st.Balance.Sub(sum.RemainingFixedExpenses).Sub(sum.RemainingSavings)
	sum.PerDay = sum.FlexibleSpending.Div(daysD)
	// flexible / (days/7), kept as one division so weeks are never rounded.
	sum.PerWeek = sum.FlexibleSpending.Mul(seven).Div(daysD)
	sum.LowBalance = sum.FlexibleSpending.LessThan(opts.LowBalanceThreshold)

	sum.UpcomingBills = UpcomingBills(st.FixedExpenses, now, opts.DueSoonDays)
	for _, b := range sum.UpcomingBills {
		if b.DueSoon {
			sum.DueSoonCount++
		}
	}

	return sum
}

// TotalFixedIncome sums every fixed income, received or not.
func TotalFixedIncome(incomes []model.FixedIncome) decimal.Decimal {
	total := decimal.Zero
	for _, inc := range incomes {
		total = total.Add(inc.Amount)
	}
	return total
}

// TotalFixedExpense sums every fixed expense, paid or not.
func TotalFixedExpense(expenses []model.FixedExpense) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
	}
	return total
}

// RemainingFixedExpenses sums the bills not yet paid this month.
func RemainingFixedExpenses(expenses []model.FixedExpense) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		if !exp.Paid {
			total = total.Add(exp.Amount)
		}
	}
	return total
}

// MonthlySavingsGoal approximates a month as four weeks.
func MonthlySavingsGoal(weekly decimal.Decimal) decimal.Decimal {
	return weekly.Mul(four)
}

// SavingsProgressPercent returns saved/goal as a percentage clamped to
// [0, 100]. A zero goal reports 0.
func SavingsProgressPercent(saved, goal decimal.Decimal) decimal.Decimal {
	if !goal.IsPositive() {
		return decimal.Zero
	}
	pct := saved.Mul(hundred).Div(goal)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// HealthOf buckets a balance: above 1000 is healthy, above 500 caution.
func HealthOf(balance decimal.Decimal) model.HealthTier {
	switch {
	case balance.GreaterThan(healthyAbove):
		return model.Healthy
	case balance.GreaterThan(cautionAbove):
		return model.Caution
	default:
		return model.Critical
	}
}

// UpcomingBills returns the unpaid fixed expenses ordered by due day, each
// annotated with this month's due date and whether it is due soon.
func UpcomingBills(expenses []model.FixedExpense, now time.Time, window int) []model.Bill {
	bills := make([]model.Bill, 0, len(expenses))
	for _, exp := range expenses {
		if exp.Paid {
			continue
		}
		bills = append(bills, model.Bill{
			FixedExpense: exp,
			DueDate:      DueDate(now, exp.DueDay),
			DueSoon:      DueSoon(now, exp.DueDay, window),
		})
	}
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].DueDay < bills[j].DueDay
	})
	return bills
}
