package gbclock

import "github.com/benbjohnson/clock"

var currentClock clock.Clock = clock.New()

// Clock returns the clock used for timestamps.
func Clock() clock.Clock {
	return currentClock
}

// Mock replaces the clock with a mock and returns it. Tests only.
func Mock() *clock.Mock {
	m := clock.NewMock()
	currentClock = m
	return m
}
