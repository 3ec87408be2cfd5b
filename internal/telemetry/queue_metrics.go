// Package telemetry holds process-wide counters for the sampled CLI and
// posting collaborators around monqueue. The core queue never imports
// this package; it only ever reaches these counters through an EventSink,
// keeping the watermark state machine itself free of observability
// concerns.
package telemetry

import (
	"sync/atomic"
	"time"
)

// QueueMetrics aggregates measurements about watermark transitions across
// every MonitoredQueue an EventSink is wired to, and about how long
// draining a queue takes at shutdown.
type QueueMetrics struct {
	totalDispatchNanos atomic.Int64
	transitions        atomic.Uint64
	drainWaitNanos     atomic.Int64
	drainTimeouts      atomic.Uint64
}

var defaultQueueMetrics QueueMetrics

// DefaultQueueMetrics returns the process-wide metrics instance.
func DefaultQueueMetrics() *QueueMetrics {
	return &defaultQueueMetrics
}

// RecordTransition accounts for a single EventSink.OnStateChange
// invocation, including how long the sink call took to return.
func (m *QueueMetrics) RecordTransition(elapsed time.Duration) {
	m.transitions.Add(1)
	m.totalDispatchNanos.Add(elapsed.Nanoseconds())
}

// RecordDrainWait accounts for one call to drain.WaitEmpty: how long it
// waited for a queue to empty, and whether it gave up before the queue
// did so.
func (m *QueueMetrics) RecordDrainWait(elapsed time.Duration, timedOut bool) {
	m.drainWaitNanos.Add(elapsed.Nanoseconds())
	if timedOut {
		m.drainTimeouts.Add(1)
	}
}

// Snapshot returns the collected values.
func (m *QueueMetrics) Snapshot() (transitions uint64, averageDispatch time.Duration, drainTimeouts uint64) {
	transitions = m.transitions.Load()
	drainTimeouts = m.drainTimeouts.Load()
	total := m.totalDispatchNanos.Load()
	if transitions == 0 {
		return transitions, 0, drainTimeouts
	}
	averageDispatch = time.Duration(total / int64(transitions))
	return transitions, averageDispatch, drainTimeouts
}

// Reset zeroes every counter. Intended for tests.
func (m *QueueMetrics) Reset() {
	m.totalDispatchNanos.Store(0)
	m.transitions.Store(0)
	m.drainWaitNanos.Store(0)
	m.drainTimeouts.Store(0)
}
