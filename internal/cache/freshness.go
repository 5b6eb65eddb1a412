package cache

import "time"

// The catalog refreshes upstream once a day; artifacts written before the
// most recent reset are considered stale.
const (
	resetHourUTC   = 16
	resetMinuteUTC = 30
)

// Boundary returns the most recent daily reset boundary relative to now:
// today's 16:30 UTC if now is at or after it, otherwise yesterday's.
func Boundary(now time.Time) time.Time {
	now = now.UTC()
	b := time.Date(now.Year(), now.Month(), now.Day(), resetHourUTC, resetMinuteUTC, 0, 0, time.UTC)
	if now.Before(b) {
		b = b.AddDate(0, 0, -1)
	}
	return b
}

// Fresh reports whether an artifact written at modTime is still valid at
// now: its last write must fall strictly after the current boundary.
func Fresh(modTime, now time.Time) bool {
	return modTime.After(Boundary(now))
}
