// Package drain waits for a MonitoredQueue to finish draining and, once
// the caller has closed it, flushes whatever was still queued so shutdown
// doesn't silently discard it. Nothing in this package calls Close.
package drain

import (
	"context"
	"fmt"
	"time"

	"github.com/mqtool/monqueue"
	"github.com/mqtool/monqueue/internal/telemetry"
)

const defaultPollInterval = 10 * time.Millisecond

// Option configures WaitEmpty.
type Option func(*config)

type config struct {
	pollInterval time.Duration
}

// WithPollInterval overrides the interval at which WaitEmpty checks
// whether the queue has emptied. The default is 10ms.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) { c.pollInterval = d }
}

// WaitEmpty blocks until queue is empty or ctx is done, recording the wait
// in the process-wide QueueMetrics either way. Callers that also need
// producers to stop should Close the queue after WaitEmpty returns; a
// queue with a producer still pushing will never report empty.
func WaitEmpty[T any](ctx context.Context, queue *monqueue.MonitoredQueue[T], opts ...Option) error {
	cfg := config{pollInterval: defaultPollInterval}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	if queue.IsEmpty() {
		telemetry.DefaultQueueMetrics().RecordDrainWait(time.Since(start), false)
		return nil
	}

	ticker := time.NewTicker(cfg.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			telemetry.DefaultQueueMetrics().RecordDrainWait(time.Since(start), true)
			return fmt.Errorf("drain: %w with %d item(s) still queued", ctx.Err(), queue.Len())
		case <-ticker.C:
			if queue.IsEmpty() {
				telemetry.DefaultQueueMetrics().RecordDrainWait(time.Since(start), false)
				return nil
			}
		}
	}
}

// Drain pops and hands every remaining element to consume, in order,
// stopping once the queue is empty (whether or not it is also closed) or
// ctx is done. It is meant to run after Close, to flush whatever was
// still queued instead of discarding it.
func Drain[T any](ctx context.Context, queue *monqueue.MonitoredQueue[T], consume func(T)) error {
	for {
		v, err := queue.TryPopFront()
		if err == monqueue.ErrEmpty || err == monqueue.ErrDisabled {
			return nil
		}
		if err != nil {
			return err
		}
		consume(v)

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
