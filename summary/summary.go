// Package summary keeps end-of-run tallies of reported test outcomes per framework
package summary

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/base"
)

// Tally counts outcomes of one framework; fields are updated atomically because test events
// may arrive from parallel runner workers
type Tally struct {
	passed  int64
	failed  int64
	ignored int64
}

// Passed returns the number of passed tests
func (tally *Tally) Passed() int64 { return atomic.LoadInt64(&tally.passed) }

// Failed returns the number of failed tests
func (tally *Tally) Failed() int64 { return atomic.LoadInt64(&tally.failed) }

// Ignored returns the number of ignored tests
func (tally *Tally) Ignored() int64 { return atomic.LoadInt64(&tally.ignored) }

// Summary aggregates tallies across frameworks
type Summary struct {
	tallies *xsync.MapOf[*Tally]
}

// New creates an empty Summary
func New() *Summary {
	return &Summary{tallies: xsync.NewMapOf[*Tally]()}
}

// Count records one reported outcome for the given framework
func (s *Summary) Count(framework string, outcome base.Outcome) {
	tally, _ := s.tallies.LoadOrStore(framework, &Tally{})
	switch outcome {
	case base.OutcomePassed:
		atomic.AddInt64(&tally.passed, 1)
	case base.OutcomeFailed:
		atomic.AddInt64(&tally.failed, 1)
	case base.OutcomeIgnored:
		atomic.AddInt64(&tally.ignored, 1)
	}
}

// Tally returns the tally of one framework, or nil if nothing was counted for it
func (s *Summary) Tally(framework string) *Tally {
	tally, ok := s.tallies.Load(framework)
	if !ok {
		return nil
	}
	return tally
}

// Totals sums all frameworks
func (s *Summary) Totals() (passed int64, failed int64, ignored int64) {
	s.tallies.Range(func(_ string, tally *Tally) bool {
		passed += tally.Passed()
		failed += tally.Failed()
		ignored += tally.Ignored()
		return true
	})
	return
}

// Dump renders one line per framework, sorted by framework name
func (s *Summary) Dump() string {
	byFramework := make(map[string]*Tally, 10)
	s.tallies.Range(func(framework string, tally *Tally) bool {
		byFramework[framework] = tally
		return true
	})

	frameworks := maps.Keys(byFramework)
	slices.Sort(frameworks)

	lines := make([]string, 0, len(frameworks))
	for _, framework := range frameworks {
		tally := byFramework[framework]
		lines = append(lines, fmt.Sprintf("%s: passed=%d failed=%d ignored=%d",
			framework, tally.Passed(), tally.Failed(), tally.Ignored()))
	}
	return strings.Join(lines, "; ")
}
