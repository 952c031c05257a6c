package service

import "time"

// Run window, as minutes past midnight (both ends inclusive).
const (
	windowOpensAt  = 8*60 + 30
	windowClosesAt = 10 * 60
)

// IsWindowOpen reports whether now is a weekday between 08:30 and 10:00
// inclusive, in now's own location.
func IsWindowOpen(now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minute := now.Hour()*60 + now.Minute()
	if minute < windowOpensAt {
		return false
	}
	if minute > windowClosesAt {
		return false
	}
	// 10:00:00 is the last open instant
	if minute == windowClosesAt && (now.Second() > 0 || now.Nanosecond() > 0) {
		return false
	}
	return true
}
