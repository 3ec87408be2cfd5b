// Package monqueue provides MonitoredQueue, a bounded multi-producer /
// multi-consumer FIFO augmented with watermark-based backpressure state
// tracking.
//
// MonitoredQueue composes an internal bounded FIFO (package
// internal/fifo) with a watermark state machine (package
// internal/watermark): every successful push or pop feeds the new size
// into the state machine, and any resulting threshold crossing is
// dispatched, synchronously and on the caller's goroutine, to an optional
// EventSink.
//
// The queue itself never logs, never touches a metrics registry, and
// never parses configuration — those are the concerns of the sampled
// collaborator packages (postpipe, cmd/mqpost, internal/telemetry)
// layered on top of it.
package monqueue
