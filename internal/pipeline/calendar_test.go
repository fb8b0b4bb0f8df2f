package pipeline

import (
	"testing"
	"time"
)

func TestDaysLeftInMonth(t *testing.T) {
	tests := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2026, time.April, 21, 23, 59, 0, 0, time.UTC), 10},
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 31},
		{time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC), 1},
		{time.Date(2025, time.February, 1, 12, 0, 0, 0, time.UTC), 28},
	}
	for _, tt := range tests {
		if got := DaysLeftInMonth(tt.now); got != tt.want {
			t.Errorf("DaysLeftInMonth(%s) = %d, want %d", tt.now.Format(DateLayout), got, tt.want)
		}
	}
}

func TestDueSoon(t *testing.T) {
	tests := []struct {
		dueDay int
		want   bool
	}{
		{20, false}, // already past
		{21, true},  // due today, for the whole day
		{24, true},  // exactly three days out
		{25, false}, // four days out
	}
	for _, tt := range tests {
		if got := DueSoon(april21, tt.dueDay, 3); got != tt.want {
			t.Errorf("DueSoon(Apr 21, day %d) = %v, want %v", tt.dueDay, got, tt.want)
		}
	}
}

func TestDueDate_OverflowsIntoNextMonth(t *testing.T) {
	now := time.Date(2026, time.April, 28, 9, 0, 0, 0, time.UTC)

	due := DueDate(now, 31)
	want := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("DueDate(April, 31) = %s, want %s", due, want)
	}
	if !DueSoon(now, 31, 3) {
		t.Error("day 31 in April lands on May 1 and should be due soon on April 28")
	}
}
