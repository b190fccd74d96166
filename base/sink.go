package base

// BatchSender delivers one batch of test results to the remote ingestion endpoint
//
// A batch succeeds or fails as a unit; a non-nil error means the whole batch was not accepted.
// The relay never retries a failed batch, so implementations should not silently re-queue.
type BatchSender interface {
	SendBatch(batch []TestResult) error
}

// BatchSenderFunc adapts a plain function to BatchSender
type BatchSenderFunc func(batch []TestResult) error

// SendBatch calls the underlying function
func (f BatchSenderFunc) SendBatch(batch []TestResult) error {
	return f(batch)
}
