package utils

import (
	"time"
)

// NormalizeUTC converts a timestamp to UTC at second precision. Price
// observations are stored and compared in this form.
func NormalizeUTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// DateOnly strips the time-of-day portion, keeping the UTC calendar date.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// PrettyDate renders a timestamp for human-facing messages.
func PrettyDate(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}
