// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with two decimals, thousands separators and
// the currency symbol after the sign.
// e.g., -1234.5 -> "-$1,234.50"
func FormatMoney(d decimal.Decimal, symbol string) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + symbol + fixed
	}
	return sign + symbol + FormatNumber(n) + "." + frac
}

// FormatSigned renders an amount with an explicit + or - sign.
func FormatSigned(d decimal.Decimal, symbol string) string {
	if d.IsNegative() {
		return FormatMoney(d, symbol)
	}
	return "+" + FormatMoney(d, symbol)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value with one decimal.
func FormatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// FormatDayOfMonth returns the ordinal form of a due day.
// e.g., 1 -> "1st", 12 -> "12th", 23 -> "23rd"
func FormatDayOfMonth(day int) string {
	suffix := "th"
	if day%100 < 11 || day%100 > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// FormatDate renders a transaction timestamp in local time.
func FormatDate(t time.Time) string {
	return t.Local().Format("Jan 02 15:04")
}

// ShortID trims a UUID to its first block for table output.
func ShortID(id string) string {
	if head, _, ok := strings.Cut(id, "-"); ok && len(head) >= 6 {
		return head
	}
	return id
}
