// Package expiry converts validity durations into absolute expiry instants
// and tests them. Records past their instant are refused, never evicted.
package expiry

import (
	"time"
)

// DefaultValidityMinutes applies when the caller supplies no validity.
const DefaultValidityMinutes = 30

// At returns the absolute expiry instant for an alias created at now with
// the given validity in minutes. Callers must have rejected non-positive
// validity values before reaching this point.
func At(now time.Time, validityMinutes int) time.Time {
	return now.Add(time.Duration(validityMinutes) * time.Minute)
}

// Expired reports whether expiresAt lies strictly in the past relative to
// now. An alias is still valid at its exact expiry instant.
func Expired(now, expiresAt time.Time) bool {
	return now.After(expiresAt)
}
