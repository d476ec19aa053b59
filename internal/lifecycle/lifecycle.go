// Package lifecycle holds the pure membership date rules: expiry computation
// and the two-state Active/Expired classification. Status is always derived
// from the stored expiry date at read time, never persisted or transitioned.
package lifecycle

import "time"

// Status is a member's derived subscription state.
type Status int

// Status values.
const (
	// StatusActive means the current date is on or before the expiry date.
	StatusActive Status = iota + 1
	// StatusExpired means the current date is past the expiry date.
	StatusExpired
)

// String returns the human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// daysPerMonth is the fixed month approximation used for expiry arithmetic.
// Callers must not assume calendar-month alignment.
const daysPerMonth = 30

// ExpiryDate computes a subscription expiry date as join + 30 days per plan
// month. The duration must be a positive integer and the join date a valid
// calendar date; both are validated by the caller.
func ExpiryDate(join time.Time, months int) time.Time {
	return DateOnly(join).AddDate(0, 0, daysPerMonth*months)
}

// Classify derives a member's status from the expiry date and the current
// date. The boundary is inclusive: today == expiry classifies as Active.
func Classify(expiry, today time.Time) Status {
	if DateOnly(today).After(DateOnly(expiry)) {
		return StatusExpired
	}
	return StatusActive
}

// DateOnly truncates a time to its calendar date at midnight UTC. All dates
// stored by the system are normalized through this so equality comparisons
// in queries behave as date comparisons.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
