package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a user-typed amount. A leading currency symbol and
// thousands separators are ignored.
// e.g., "$1,250.50" -> 1250.5
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	neg := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "-")
	clean = strings.TrimLeft(clean, "$€£¥₦ ")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// ParseDay reads a day of the month in 1..31.
func ParseDay(s string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day %q (want 1-31)", s)
	}
	return day, nil
}
