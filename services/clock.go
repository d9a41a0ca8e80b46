package services

import "time"

// Clock supplies the current time for penalty accrual and bill stamps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c *FixedClock) Now() time.Time { return c.At }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.At = c.At.Add(d) }
