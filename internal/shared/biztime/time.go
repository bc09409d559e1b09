// Package biztime centralizes time handling. Everything is stored and compared in UTC.
package biztime

import (
	"time"
)

// Clock returns the current time. Use cases take one so tests can pin "now".
type Clock func() time.Time

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Location is the scheduler location. Token expiry windows are absolute, so UTC.
func Location() *time.Location {
	return time.UTC
}

// ExpiryFromSeconds converts a provider expires_in into an absolute timestamp.
// Non-positive values mean the provider did not report an expiry.
func ExpiryFromSeconds(now time.Time, expiresIn int64) *time.Time {
	if expiresIn <= 0 {
		return nil
	}
	t := now.Add(time.Duration(expiresIn) * time.Second).UTC()
	return &t
}
