package schedule

import "time"

// NextOccurrence returns the next calendar date strictly after ref that
// falls on the given canonical weekday. When ref itself is that weekday the
// result is a full week ahead: a semester recurrence anchored "next Sunday"
// must not appear to have already started on the compile date.
//
// The reference time is always passed in, never read from a clock, so
// resolution is reproducible.
func NextOccurrence(ref time.Time, weekday string) time.Time {
	target, ok := WeekdayIndex(weekday)
	if !ok {
		target = 0
	}
	days := (target - int(ref.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	return day.AddDate(0, 0, days)
}

// Combine stamps a clock time onto a date in the given location, producing
// the concrete local start/end instant for an occurrence. Seconds and
// sub-seconds are zero.
func Combine(date time.Time, t ClockTime, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour24(), t.Minute, 0, 0, loc)
}
