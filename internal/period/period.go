// Package period answers calendar-window questions for the analytics
// engine: does a timestamp fall in the current week or month, and what are
// the exact boundaries of a past month.
//
// All arithmetic runs in the location of the reference time, matching the
// wall clock the rest of the application uses. Weeks start on Monday.
package period

import "time"

// SameWeek reports whether t falls in the same calendar week as now.
func SameWeek(t, now time.Time) bool {
	start := weekStart(now)
	end := start.AddDate(0, 0, 7)
	return !t.Before(start) && t.Before(end)
}

// SameMonth reports whether t falls in the same calendar year and month
// as now.
func SameMonth(t, now time.Time) bool {
	return t.Year() == now.Year() && t.Month() == now.Month()
}

// MonthRange returns the inclusive boundaries of the month monthsAgo
// months before now's month (0 = current month). The end is the last
// representable instant before the following month begins, so a record
// stamped anywhere on the last day still falls inside the window.
// time.Date normalizes out-of-range months, which handles year rollover.
func MonthRange(monthsAgo int, now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month()-time.Month(monthsAgo), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// weekStart returns midnight of the Monday beginning t's week.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return day.AddDate(0, 0, -offset)
}
