package clock

import "time"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

// All scheduling comparisons happen on UTC instants.
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a controllable clock for tests.
type FixedClock struct {
	current time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t.UTC()}
}

func (c *FixedClock) Now() time.Time {
	return c.current
}

func (c *FixedClock) Set(t time.Time) {
	c.current = t.UTC()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
