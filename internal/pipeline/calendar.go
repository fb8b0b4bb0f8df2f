package pipeline

import "time"

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// DaysLeftInMonth counts today and every remaining day of the month.
func DaysLeftInMonth(now time.Time) int {
	return DaysInMonth(now) - now.Day() + 1
}

// DueDate builds this month's due date for dueDay at midnight. A dueDay past
// the end of the month rolls into the next month (day 31 in April is May 1).
func DueDate(now time.Time, dueDay int) time.Time {
	return time.Date(now.Year(), now.Month(), dueDay, 0, 0, 0, 0, now.Location())
}

// DueSoon reports whether today falls within window days before the due
// date, both ends inclusive. The comparison is by calendar day.
func DueSoon(now time.Time, dueDay, window int) bool {
	due := DueDate(now, dueDay)
	start := due.AddDate(0, 0, -window)
	today := startOfDay(now)
	return !today.Before(start) && !today.After(due)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
