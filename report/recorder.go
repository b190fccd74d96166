// Package report provides the host-facing boundary of the reporter: it normalizes raw
// test-completed events into immutable result records and feeds them to the relay
package report

import (
	"github.com/relex/gotils/logger"
	"github.com/relex/gotils/promexporter/promext"
	"github.com/relex/gotils/promexporter/promreg"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/base"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/defs"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/filter"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/relay"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/summary"
)

// Recorder receives test-completed events, applies the exclusion filter, builds TestResults
// and appends them to the relay; one Recorder serves one test run
type Recorder struct {
	logger           logger.Logger
	relay            relay.Relay
	filter           *filter.Filter
	summary          *summary.Summary
	defaultFramework string
	metrics          recorderMetrics
}

type recorderMetrics struct {
	receivedEventsTotal promext.RWCounter
	excludedTestsTotal  promext.RWCounter
	invalidEventsTotal  promext.RWCounter
}

// NewRecorder creates a Recorder feeding the given relay
//
// resultFilter may be nil to report everything.
func NewRecorder(parentLogger logger.Logger, resultRelay relay.Relay, resultFilter *filter.Filter,
	defaultFramework string, metricCreator promreg.MetricCreator) *Recorder {

	recorderMetricCreator := metricCreator.AddOrGetPrefix("recorder_", nil, nil)
	return &Recorder{
		logger:           parentLogger.WithField(defs.LabelComponent, "Recorder"),
		relay:            resultRelay,
		filter:           resultFilter,
		summary:          summary.New(),
		defaultFramework: defaultFramework,
		metrics: recorderMetrics{
			receivedEventsTotal: recorderMetricCreator.AddOrGetCounter("received_events_total", "Numbers of received test events", nil, nil),
			excludedTestsTotal:  recorderMetricCreator.AddOrGetCounter("excluded_tests_total", "Numbers of tests excluded from reporting", nil, nil),
			invalidEventsTotal:  recorderMetricCreator.AddOrGetCounter("invalid_events_total", "Numbers of malformed test events", nil, nil),
		},
	}
}

// TestCompleted normalizes one event and queues the result for transmission
//
// A malformed event is counted and reported back as an error but never aborts the run.
func (rec *Recorder) TestCompleted(event TestEvent) error {
	rec.metrics.receivedEventsTotal.Inc()

	outcome, err := base.ParseOutcome(event.Outcome)
	if err != nil {
		rec.metrics.invalidEventsTotal.Inc()
		rec.logger.Warnf("ignored event for test %q: %s", event.Name, err.Error())
		return err
	}

	if rec.filter != nil && rec.filter.Exclude(event.Name) {
		rec.metrics.excludedTestsTotal.Inc()
		rec.logger.Debugf("excluded test from reporting: %s", event.Name)
		return nil
	}

	framework := event.Framework
	if framework == "" {
		framework = rec.defaultFramework
	}

	duration := event.DurationMilliseconds
	if duration != nil && *duration < 0 {
		rec.logger.Warnf("dropped negative duration of test %q: %d", event.Name, *duration)
		duration = nil
	}

	result := base.TestResult{
		TestName:             event.Name,
		TestFramework:        framework,
		FileName:             event.File,
		Outcome:              outcome,
		DurationMilliseconds: duration,
		StdOut:               event.StdOut,
		StdErr:               event.StdErr,
	}
	if outcome == base.OutcomeFailed {
		result.ErrorMessage = event.ErrorMessage
		result.ErrorStackTrace = event.ErrorStackTrace
	}

	rec.summary.Count(framework, outcome)
	rec.relay.Append(result)
	return nil
}

// Summary returns the live outcome tallies of this run
func (rec *Recorder) Summary() *summary.Summary {
	return rec.summary
}

// Close logs the run summary and drains the relay; onComplete fires exactly once, after all
// queued results have been transmitted or dropped
func (rec *Recorder) Close(onComplete func()) {
	passed, failed, ignored := rec.summary.Totals()
	if passed+failed+ignored > 0 {
		rec.logger.Infof("test run finished: %s", rec.summary.Dump())
	} else {
		rec.logger.Info("test run finished with no reported tests")
	}
	rec.relay.Drain(onComplete)
}
