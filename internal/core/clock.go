package core

import "time"

// Clock supplies the current time. Month classification, remaining-day math
// and default transaction dates all go through it so tests can pin the day.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
