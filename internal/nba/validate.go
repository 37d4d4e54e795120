package nba

import (
	"time"
)

// ValidateDateRange checks the fetch precondition on a game query range.
// The range is invalid when start falls strictly after end; equal dates are
// a valid single-day range. The message is human-readable and empty when
// the range is valid.
func ValidateDateRange(start, end time.Time) (bool, string) {
	if start.After(end) {
		return false, "start date must be earlier than or equal to end date"
	}
	return true, ""
}
