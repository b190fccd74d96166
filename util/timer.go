package util

import (
	"time"
)

// ResetTimer resets the given timer properly
//
// Only safe when the timer's channel is known to be unread since the last arm,
// e.g. when the caller owns all receives on a single goroutine
func ResetTimer(timer *time.Timer, duration time.Duration) {
	if !timer.Stop() {
		<-timer.C
	}
	timer.Reset(duration)
}
