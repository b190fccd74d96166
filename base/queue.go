package base

// ResultQueue is an ordered buffer of test results awaiting transmission
//
// It is not safe for concurrent use; the relay worker owns it and serializes all access on its
// own goroutine. Results are appended in arrival order and handed over as one batch by
// SnapshotAndClear, so a result is never visible in two batches or in both the queue and an
// in-flight batch at the same time.
type ResultQueue struct {
	results []TestResult
}

// Append adds one result to the tail of the queue
func (queue *ResultQueue) Append(result TestResult) {
	queue.results = append(queue.results, result)
}

// Len returns the number of queued results
func (queue *ResultQueue) Len() int {
	return len(queue.results)
}

// SnapshotAndClear empties the queue and returns everything it held, in insertion order
//
// Ownership of the returned slice passes to the caller; the queue never touches it again
func (queue *ResultQueue) SnapshotAndClear() []TestResult {
	batch := queue.results
	queue.results = nil
	return batch
}
