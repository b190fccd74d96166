package relay

import (
	"sync"

	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/base"
)

// noopRelay is the inert Relay used when no ingestion endpoint is configured: every result is
// discarded, no timer exists, and a drain completes synchronously on the caller's goroutine
type noopRelay struct {
	logger    logger.Logger
	drainOnce sync.Once
	stopped   *channels.SignalAwaitable
}

func newNoopRelay(relayLogger logger.Logger) *noopRelay {
	return &noopRelay{
		logger:    relayLogger,
		drainOnce: sync.Once{},
		stopped:   channels.NewSignalAwaitable(),
	}
}

func (relay *noopRelay) Launch() {}

func (relay *noopRelay) Append(result base.TestResult) {}

func (relay *noopRelay) Drain(onComplete func()) {
	completed := false
	relay.drainOnce.Do(func() {
		onComplete()
		relay.stopped.Signal()
		completed = true
	})
	if !completed {
		relay.logger.Info("ignored repeated drain request")
	}
}

func (relay *noopRelay) Stopped() channels.Awaitable {
	return relay.stopped
}
