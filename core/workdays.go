package core

import (
	"time"

	"stafflow.com/stafflow/utils"
)

// IsWeekend reports Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WorkingDays returns every Mon-Fri date in [from, to] inclusive, skipping
// any date present in the holidays set (pass nil to keep holidays counted).
func WorkingDays(from, to time.Time, holidays map[string]bool) []time.Time {
	from = utils.DateOf(from)
	to = utils.DateOf(to)

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWeekend(d) {
			continue
		}
		if holidays != nil && holidays[utils.DateKey(d)] {
			continue
		}
		days = append(days, d)
	}
	return days
}

// CountWorkingDays counts Mon-Fri dates in the inclusive range.
func CountWorkingDays(from, to time.Time, holidays map[string]bool) int {
	return len(WorkingDays(from, to, holidays))
}
