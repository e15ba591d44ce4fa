package schedule

import "time"

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month, loc *time.Location) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// IsLastDayOfMonth reports whether t falls on the final day of its month.
func IsLastDayOfMonth(t time.Time) bool {
	return t.Day() == DaysIn(t.Year(), t.Month(), t.Location())
}

// AddMonthsClamped moves t by months calendar months in t's location. The
// day is clamped to the target month's last day, hour and minute are kept
// and seconds are dropped.
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	idx := int(month) - 1 + months
	year += idx / 12
	idx %= 12
	if idx < 0 {
		idx += 12
		year--
	}
	target := time.Month(idx + 1)

	if last := DaysIn(year, target, t.Location()); day > last {
		day = last
	}
	return time.Date(year, target, day, t.Hour(), t.Minute(), 0, 0, t.Location())
}
