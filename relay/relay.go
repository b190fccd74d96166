// Package relay implements the batching and flushing scheduler for test results: it decides
// when to transmit queued results, enforces single-flight transmission, and coordinates the
// drain protocol at the end of a run.
package relay

import (
	"time"

	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
	"github.com/relex/gotils/promexporter/promreg"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/base"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/defs"
)

// Relay accepts test results and forwards them to a remote sink in batches
//
// A flush is triggered either periodically or as soon as the amount of queued results reaches
// the batch size, with at most one send in flight at any time. Results are transmitted in the
// exact order they were appended, partitioned into contiguous batches.
type Relay interface {
	// Launch starts the background worker; must be called once before Append or Drain
	Launch()

	// Append queues one result for transmission. Results appended after the drain has
	// completed are dropped.
	Append(result base.TestResult)

	// Drain requests shutdown: all queued results are transmitted (or dropped on send
	// failure) and then onComplete is invoked, exactly once across all Drain calls.
	// Only the callback of the first call is ever invoked.
	Drain(onComplete func())

	// Stopped returns an Awaitable signaled when the relay has fully stopped
	Stopped() channels.Awaitable
}

// New creates a Relay forwarding to the given sink
//
// A nil sink disables forwarding entirely: the returned Relay ignores all results and
// completes any drain synchronously. This is the documented behavior when no ingestion
// endpoint is configured, surfaced as a one-time warning here.
func New(parentLogger logger.Logger, sink base.BatchSender, batchSize int, flushInterval time.Duration, metricCreator promreg.MetricCreator) Relay {
	relayLogger := parentLogger.WithField(defs.LabelComponent, "ResultRelay")

	if sink == nil {
		relayLogger.Warn("no ingestion endpoint configured; test results will not be reported")
		return newNoopRelay(relayLogger)
	}

	if batchSize < 1 {
		batchSize = defs.RelayDefaultBatchSize
	}
	if flushInterval <= 0 {
		flushInterval = defs.RelayDefaultFlushInterval
	}

	return newWorker(relayLogger, sink, batchSize, flushInterval, metricCreator)
}
