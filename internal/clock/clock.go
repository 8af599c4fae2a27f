package clock

import "time"

// Clock abstracts wall-clock time so arrears math and the sweep schedule
// can be tested against fixed reference dates.
type Clock interface {
	Now() time.Time
}

// NewSystemClock returns the production wall clock.
func NewSystemClock() Clock { return SystemClock{} }

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
