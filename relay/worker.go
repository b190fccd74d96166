package relay

import (
	"time"

	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
	"github.com/relex/gotils/promexporter/promreg"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/base"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/defs"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/util"
)

// worker runs the relay state machine on a single goroutine which owns the queue, the timer
// handle and the in-flight flag, so no locking is needed anywhere in the scheduling flow.
//
// States: idle (no send in flight, timer armed), flushing (one send outstanding), draining
// (shutdown requested, finishing remaining work), done (loop exited, stopped signaled).
// The in-flight send runs on its own goroutine and reports back through sendDoneChan; it is
// never cancelled - a drain waits for it to resolve. No timeout is imposed here, so a send
// hung inside the sink stalls shutdown until the sink itself gives up.
type worker struct {
	logger        logger.Logger
	sink          base.BatchSender
	batchSize     int
	flushInterval time.Duration
	queue         base.ResultQueue
	pendingChan   chan base.TestResult
	drainChan     chan func()
	sendDoneChan  chan sendOutcome
	timer         *time.Timer // the single timer handle; nil until first armed
	timerArmed    bool
	inFlight      bool
	onDrained     util.RunOnce // nil until a drain is requested
	stopped       *channels.SignalAwaitable
	metrics       workerMetrics
}

type sendOutcome struct {
	numResults int
	err        error
}

func newWorker(relayLogger logger.Logger, sink base.BatchSender, batchSize int, flushInterval time.Duration, metricCreator promreg.MetricCreator) *worker {
	return &worker{
		logger:        relayLogger,
		sink:          sink,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		queue:         base.ResultQueue{},
		pendingChan:   make(chan base.TestResult, defs.RelayPendingResultsBufferSize),
		drainChan:     make(chan func()),
		sendDoneChan:  make(chan sendOutcome, 1),
		timer:         nil,
		timerArmed:    false,
		inFlight:      false,
		onDrained:     nil,
		stopped:       channels.NewSignalAwaitable(),
		metrics:       newWorkerMetrics(metricCreator),
	}
}

// Launch starts the worker goroutine
func (w *worker) Launch() {
	go w.run()
}

// Append queues one result, blocking while the pending buffer is full
//
// Results appended after the relay has stopped are dropped with a warning; nothing may be
// sent once the drain has completed.
func (w *worker) Append(result base.TestResult) {
	select {
	case w.pendingChan <- result:
	case <-w.stopped.Channel():
		w.logger.Warnf("dropped result appended after shutdown: %s", result.String())
		w.metrics.droppedResultsTotal.Inc()
	}
}

// Drain requests shutdown; see Relay.Drain
func (w *worker) Drain(onComplete func()) {
	select {
	case w.drainChan <- onComplete:
	case <-w.stopped.Channel():
		// drain already completed earlier and its callback already fired; exactly-once holds
		w.logger.Info("ignored repeated drain request after shutdown")
	}
}

// Stopped returns an Awaitable signaled after the drain has completed
func (w *worker) Stopped() channels.Awaitable {
	return w.stopped
}

func (w *worker) run() {
	defer w.stopped.Signal()
	w.logger.Infof("started, batchSize=%d flushInterval=%s", w.batchSize, w.flushInterval)
	w.armTimer()

	for {
		var timerChan <-chan time.Time
		if w.timerArmed {
			timerChan = w.timer.C
		}

		select {
		case result := <-w.pendingChan:
			w.queue.Append(result)
			w.metrics.queuedResults.Inc()
			if w.queue.Len() >= w.batchSize && !w.inFlight {
				w.beginFlush("threshold")
			}

		case <-timerChan:
			w.timerArmed = false
			if w.attemptFlush("timer") {
				return
			}

		case outcome := <-w.sendDoneChan:
			w.collectPending()
			if w.completeSend(outcome) {
				return
			}

		case onComplete := <-w.drainChan:
			w.collectPending()
			if w.beginDrain(onComplete) {
				return
			}
		}
	}
}

// collectPending moves everything buffered in pendingChan into the queue. Appends made
// before a drain request or send completion are already in the channel buffer, so pulling
// them here keeps those results from being missed by the drain-completion check.
func (w *worker) collectPending() {
	for {
		select {
		case result := <-w.pendingChan:
			w.queue.Append(result)
			w.metrics.queuedResults.Inc()
		default:
			return
		}
	}
}

// attemptFlush handles a flush request in idle or draining state; returns true when the
// worker is done. Never called with a send in flight: the timer is cancelled on every flush
// start and a fired-but-unread timer event is discarded by cancelTimer before re-arming.
func (w *worker) attemptFlush(trigger string) bool {
	if w.queue.Len() == 0 {
		if w.onDrained != nil {
			w.finishDrain()
			return true
		}
		w.armTimer()
		return false
	}
	w.beginFlush(trigger)
	return false
}

// beginFlush snapshots the queue and starts the single in-flight send
func (w *worker) beginFlush(trigger string) {
	w.cancelTimer()
	batch := w.queue.SnapshotAndClear()
	w.inFlight = true
	w.metrics.queuedResults.Sub(int64(len(batch)))
	w.metrics.OnFlush(trigger)
	w.logger.Debugf("flushing %d results (%s)", len(batch), trigger)

	go func() {
		err := w.sink.SendBatch(batch)
		w.sendDoneChan <- sendOutcome{numResults: len(batch), err: err}
	}()
}

// completeSend applies the uniform post-send rule: drain-complete if pending and nothing is
// queued, otherwise immediate re-flush of whatever queued up during the send, otherwise back
// to idle with the timer re-armed. Failures follow the exact same path; the batch itself is
// dropped without retry (at-most-once delivery).
func (w *worker) completeSend(outcome sendOutcome) bool {
	w.inFlight = false
	if outcome.err != nil {
		w.logger.Warnf("dropped batch of %d results: %s", outcome.numResults, outcome.err.Error())
		w.metrics.OnSendFailure(outcome.numResults)
	} else {
		w.metrics.OnSendSuccess(outcome.numResults)
	}

	switch {
	case w.onDrained != nil && w.queue.Len() == 0:
		w.finishDrain()
		return true
	case w.queue.Len() > 0:
		w.beginFlush("backlog")
		return false
	default:
		w.armTimer()
		return false
	}
}

// beginDrain registers the completion callback and, when nothing is in flight, flushes the
// remaining queue or completes immediately; returns true when the worker is done
func (w *worker) beginDrain(onComplete func()) bool {
	if w.onDrained != nil {
		// repeated shutdown hook invocation; only the first callback may ever fire
		w.logger.Info("ignored repeated drain request")
		return false
	}
	w.onDrained = util.NewRunOnce(onComplete)
	w.logger.Infof("drain requested, queued=%d inFlight=%v", w.queue.Len(), w.inFlight)

	if w.inFlight {
		return false // completeSend fires the callback once the send resolves
	}
	return w.attemptFlush("drain")
}

func (w *worker) finishDrain() {
	w.cancelTimer()
	w.onDrained()
	w.logger.Info("drained and stopped")
}

func (w *worker) armTimer() {
	if w.timerArmed {
		util.ResetTimer(w.timer, w.flushInterval)
		return
	}
	if w.timer == nil {
		w.timer = time.NewTimer(w.flushInterval)
	} else {
		// not armed and channel already drained, plain Reset is safe
		w.timer.Reset(w.flushInterval)
	}
	w.timerArmed = true
}

func (w *worker) cancelTimer() {
	if !w.timerArmed {
		return
	}
	if !w.timer.Stop() {
		<-w.timer.C // fired but unread, discard the stale trigger
	}
	w.timerArmed = false
}
