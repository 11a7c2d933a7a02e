package util

import "time"

// Clock supplies the current time. Components that stamp samples or check
// freshness take a Clock instead of calling time.Now directly, so the
// throttling and cache rules can be exercised in tests without real timers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock implementation used in production.
func SystemClock() Clock {
	return systemClock{}
}
