package utils

import "time"

// Mission reset windows. A stored reset timestamp is "fresh" while it falls
// inside the current window and "expired" once the window rolls over.
// Weeks start on Monday.

// SameDay reports whether a and b fall on the same calendar day
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfWeek returns midnight of the Monday of t's week
func StartOfWeek(t time.Time) time.Time {
	days := int(t.Weekday()) - int(time.Monday)
	if days < 0 {
		days += 7 // Sunday
	}
	y, m, d := t.AddDate(0, 0, -days).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameWeek reports whether a and b fall in the same Monday-start week
func SameWeek(a, b time.Time) bool {
	return StartOfWeek(a).Equal(StartOfWeek(b.In(a.Location())))
}

// SameMonth reports whether a and b fall in the same calendar month
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
