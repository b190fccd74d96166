package util

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunOnce(t *testing.T) {
	invocations := int64(0)
	f := NewRunOnce(func() {
		atomic.AddInt64(&invocations, 1)
	})

	succeeded := int64(0)
	wg := &sync.WaitGroup{}
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f() {
				atomic.AddInt64(&succeeded, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), invocations)
	assert.Equal(t, int64(1), succeeded)
}
