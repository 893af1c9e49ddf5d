package clock

import "time"

// Clock is the injectable time source used for in/out timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock pinned to a single instant, for deterministic tests.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type stepClock struct {
	now  time.Time
	step time.Duration
}

// NewStepping returns a clock that advances by step on every Now call,
// so tests can drive elapsed parking time without sleeping.
func NewStepping(start time.Time, step time.Duration) Clock {
	return &stepClock{now: start.UTC(), step: step}
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}
