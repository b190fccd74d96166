package summary

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/base"
)

func TestSummaryCounting(t *testing.T) {
	s := New()
	s.Count("mocha", base.OutcomePassed)
	s.Count("mocha", base.OutcomePassed)
	s.Count("mocha", base.OutcomeFailed)
	s.Count("karma", base.OutcomeIgnored)

	mocha := s.Tally("mocha")
	assert.NotNil(t, mocha)
	assert.Equal(t, int64(2), mocha.Passed())
	assert.Equal(t, int64(1), mocha.Failed())
	assert.Equal(t, int64(0), mocha.Ignored())
	assert.Nil(t, s.Tally("jasmine"))

	passed, failed, ignored := s.Totals()
	assert.Equal(t, int64(2), passed)
	assert.Equal(t, int64(1), failed)
	assert.Equal(t, int64(1), ignored)

	assert.Equal(t, "karma: passed=0 failed=0 ignored=1; mocha: passed=2 failed=1 ignored=0", s.Dump())
}

func TestSummaryParallelCounting(t *testing.T) {
	s := New()
	workers := 8
	countsPerWorker := 1000

	wg := &sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < countsPerWorker; i++ {
				s.Count("mocha", base.OutcomePassed)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers*countsPerWorker), s.Tally("mocha").Passed())
}
