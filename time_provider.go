package moshbrosh

import "time"

// TimeProvider is an interface for getting the current time.
// This allows for deterministic testing by injecting a mock time provider.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider uses the actual system time.
type RealTimeProvider struct{}

// Now returns the current system time.
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
