package util

import (
	"sync/atomic"
)

// RunOnce is a function wrapper that calls the underlying function at most once
//
// Returns true when the wrapper function is actually called
//
// Used to guard completion callbacks that must fire exactly once, e.g. the relay's
// drain-complete continuation when the host invokes the shutdown hook repeatedly
type RunOnce func() bool

// NewRunOnce creates a function that would call the given "f" at most once
func NewRunOnce(f func()) RunOnce {
	var invoked int32 = 0
	return func() bool {
		if atomic.CompareAndSwapInt32(&invoked, 0, 1) {
			f()
			return true
		}
		return false
	}
}
