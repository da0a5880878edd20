package mocks

import (
	"time"

	"github.com/mcoot/crosswordrobot/internal/dependencies/clock"
)

// MockClock is a Clock that only moves when told to
type MockClock struct {
	CurrentTime time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock pinned at t
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Since measures against the pinned time
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.CurrentTime.Sub(t)
}

// Advance moves the clock forward by d, e.g. past a hint's TTL
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set pins the clock to t
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}
