package monqueue

import "github.com/mqtool/monqueue/internal/watermark"

// State is one of the four watermark states a MonitoredQueue can occupy.
// It is a re-export of internal/watermark.State so callers never need to
// import the internal package directly.
type State = watermark.State

const (
	StateNormal                = watermark.StateNormal
	StateHighWatermarkReached  = watermark.StateHighWatermarkReached
	StateHighWatermark2Reached = watermark.StateHighWatermark2Reached
	StateFilled                = watermark.StateFilled
)

// EventSink receives a notification for every watermark state transition a
// MonitoredQueue computes. Invocation is synchronous, on the goroutine
// that performed the triggering push or pop, and happens after the FIFO
// mutation but before that call returns.
//
// A sink must not call back into the MonitoredQueue that invoked it — the
// queue detects this re-entrancy and panics with a *ContractViolationError
// rather than deadlocking. A sink must also return promptly; dispatch
// long-running work (to a channel, a worker pool, a log flush) elsewhere.
type EventSink interface {
	OnStateChange(old, new State, size int)
}

// EventSinkFunc adapts a bare function to the EventSink interface, the
// same func-as-interface idiom the teacher repo uses for its Bank
// callbacks in its orchestrator tests.
type EventSinkFunc func(old, new State, size int)

// OnStateChange implements EventSink.
func (f EventSinkFunc) OnStateChange(old, new State, size int) {
	f(old, new, size)
}
