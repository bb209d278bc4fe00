package dateutil

import (
	"time"
)

// Date returns midnight UTC for the given calendar day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the clock and zone, keeping the calendar day as written
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// StartOfMonth returns the first day of the month containing t
func StartOfMonth(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// EndOfMonth returns the last day of the month containing t
func EndOfMonth(t time.Time) time.Time {
	return Date(t.Year(), t.Month()+1, 1).AddDate(0, 0, -1)
}

// DaysInMonth returns the number of days in the month containing t
func DaysInMonth(t time.Time) int {
	return EndOfMonth(t).Day()
}

// SameMonth reports whether a and b fall in the same calendar month
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DaysBetween returns whole days from a to b (negative when b precedes a)
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// InclusiveDays counts calendar days in [start, end]; zero when end precedes start
func InclusiveDays(start, end time.Time) int {
	n := DaysBetween(start, end) + 1
	if n < 0 {
		return 0
	}
	return n
}

// MaxDate returns the later of two dates
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of two dates
func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// MonthsBetween lists the first day of every month from the month of start to the month of end
func MonthsBetween(start, end time.Time) []time.Time {
	var months []time.Time
	last := StartOfMonth(end)
	for m := StartOfMonth(start); !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

