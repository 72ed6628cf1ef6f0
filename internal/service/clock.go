package service

import (
	"time"

	"github.com/pennywise/pennywise-backend/internal/util"
)

// Clock returns the current instant. Services read "today" through it so
// tests can pin the reference date.
type Clock func() time.Time

// SystemClock is the wall clock
func SystemClock() time.Time {
	return time.Now()
}

// FixedClock always returns t
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func (c Clock) today() time.Time {
	return util.DateOf(c.now())
}
