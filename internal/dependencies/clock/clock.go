// Package clock abstracts wall time so game timestamps, hint expiry and
// self-play timings can be pinned in tests.
package clock

import "time"

// Clock reports the current time
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock reads the system clock
type RealClock struct{}

var _ Clock = (*RealClock)(nil)

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}
