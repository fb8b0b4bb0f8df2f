package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// HealthTier buckets the raw balance for display.
type HealthTier string

const (
	Healthy  HealthTier = "healthy"
	Caution  HealthTier = "caution"
	Critical HealthTier = "critical"
)

// Bill is an unpaid fixed expense annotated for the reminder list.
type Bill struct {
	FixedExpense
	DueDate time.Time `json:"dueDate"`
	DueSoon bool      `json:"dueSoon"`
}

// Summary holds every value the dashboard shows. It is recomputed on each
// read and never persisted.
type Summary struct {
	At                     time.Time       `json:"at"`
	Balance                decimal.Decimal `json:"balance"`
	Health                 HealthTier      `json:"health"`
	DaysLeftInMonth        int             `json:"daysLeftInMonth"`
	WeeksLeftInMonth       decimal.Decimal `json:"weeksLeftInMonth"`
	TotalFixedIncome       decimal.Decimal `json:"totalFixedIncome"`
	TotalFixedExpense      decimal.Decimal `json:"totalFixedExpense"`
	NetFixed               decimal.Decimal `json:"netFixed"`
	RemainingFixedExpenses decimal.Decimal `json:"remainingFixedExpenses"`
	MonthlySavingsGoal     decimal.Decimal `json:"monthlySavingsGoal"`
	SavedThisMonth         decimal.Decimal `json:"savedThisMonth"`
	RemainingSavings       decimal.Decimal `json:"remainingSavings"`
	SavingsProgressPercent decimal.Decimal `json:"savingsProgressPercent"`
	FlexibleSpending       decimal.Decimal `json:"flexibleSpending"`
	PerDay                 decimal.Decimal `json:"perDay"`
	PerWeek                decimal.Decimal `json:"perWeek"`
	LowBalance             bool            `json:"lowBalance"`
	UpcomingBills          []Bill          `json:"upcomingBills"`
	DueSoonCount           int             `json:"dueSoonCount"`
	TransactionCount       int             `json:"transactionCount"`
	OnboardingComplete     bool            `json:"onboardingComplete"`
}
