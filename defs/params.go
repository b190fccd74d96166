package defs

import (
	"time"
)

var (
	// RelayDefaultBatchSize defines how many queued test results trigger an immediate flush,
	// without waiting for the next periodic flush
	//
	// The AppVeyor batch API accepts at most a few hundred results per call comfortably;
	// larger batches only increase the damage of a dropped batch
	RelayDefaultBatchSize = 100

	// RelayDefaultFlushInterval defines how often queued test results are flushed to the
	// ingestion endpoint when the batch size threshold is not reached
	RelayDefaultFlushInterval = 1000 * time.Millisecond

	// RelayPendingResultsBufferSize defines the buffer size of the channel feeding test
	// results into the relay worker
	//
	// Producers block when the buffer is full; the worker always drains it before sending
	RelayPendingResultsBufferSize = 256

	// InputMaxEventBytes defines the maximum length of one serialized test event accepted
	// from an event stream, large enough for captured output of a noisy test
	InputMaxEventBytes = 1 * 1024 * 1024

	// SinkDefaultHTTPTimeout is the default timeout for one batch POST, covering connect,
	// send and response
	//
	// 0 disables the timeout entirely; a hung send then stalls shutdown indefinitely
	SinkDefaultHTTPTimeout = 60 * time.Second

	// SinkDefaultMaxBodyBytes is the default limit for one serialized batch body before
	// compression; a batch over the limit is rejected as a failed send
	SinkDefaultMaxBodyBytes = 7 * 1024 * 1024
)

// For testing and experiments
const (
	TestReadTimeout = 5 * time.Second
)
