package relay

import (
	"github.com/relex/gotils/promexporter/promext"
	"github.com/relex/gotils/promexporter/promreg"
)

// workerMetrics defines metrics of the relay worker
type workerMetrics struct {
	queuedResults        promext.RWGauge // results currently queued and not yet handed to a send
	flushesTimer         promext.RWCounter
	flushesThreshold     promext.RWCounter
	flushesBacklog       promext.RWCounter
	flushesDrain         promext.RWCounter
	sentBatchesTotal     promext.RWCounter
	sentResultsTotal     promext.RWCounter
	failedBatchesTotal   promext.RWCounter
	droppedResultsTotal  promext.RWCounter
}

func newWorkerMetrics(metricCreator promreg.MetricCreator) workerMetrics {
	relayMetricCreator := metricCreator.AddOrGetPrefix("relay_", nil, nil)
	flushes := relayMetricCreator.AddOrGetCounterVec("flushes_total", "Numbers of started flushes", []string{"trigger"}, nil)

	metrics := workerMetrics{
		queuedResults:       relayMetricCreator.AddOrGetGauge("queued_results", "Numbers of currently queued test results", nil, nil),
		flushesTimer:        flushes.WithLabelValues("timer"),
		flushesThreshold:    flushes.WithLabelValues("threshold"),
		flushesBacklog:      flushes.WithLabelValues("backlog"),
		flushesDrain:        flushes.WithLabelValues("drain"),
		sentBatchesTotal:    relayMetricCreator.AddOrGetCounter("sent_batches_total", "Numbers of successfully sent batches", nil, nil),
		sentResultsTotal:    relayMetricCreator.AddOrGetCounter("sent_results_total", "Numbers of successfully sent test results", nil, nil),
		failedBatchesTotal:  relayMetricCreator.AddOrGetCounter("failed_batches_total", "Numbers of failed batch sends", nil, nil),
		droppedResultsTotal: relayMetricCreator.AddOrGetCounter("dropped_results_total", "Numbers of test results dropped due to failed sends or late appends", nil, nil),
	}
	metrics.queuedResults.Set(0)

	return metrics
}

func (metrics *workerMetrics) OnFlush(trigger string) {
	switch trigger {
	case "timer":
		metrics.flushesTimer.Inc()
	case "threshold":
		metrics.flushesThreshold.Inc()
	case "backlog":
		metrics.flushesBacklog.Inc()
	default:
		metrics.flushesDrain.Inc()
	}
}

func (metrics *workerMetrics) OnSendSuccess(numResults int) {
	metrics.sentBatchesTotal.Inc()
	metrics.sentResultsTotal.Add(uint64(numResults))
}

func (metrics *workerMetrics) OnSendFailure(numResults int) {
	metrics.failedBatchesTotal.Inc()
	metrics.droppedResultsTotal.Add(uint64(numResults))
}
