package models

import "time"

// DateOf truncates t to midnight UTC of its calendar day in t's location.
// Request deadlines, donation dates and cool-down arithmetic all work on
// calendar days.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
