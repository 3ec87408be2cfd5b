// Package monqueue implements a fixed-capacity, concurrency-safe FIFO queue
// that tracks its own fill level against low/high/high2/capacity watermarks
// and notifies an injected EventSink exactly once per threshold crossing.
//
// It is the Go port of a broker-client-facing bounded queue: producers
// push, a consumer (or several) pop, and the watermark state machine gives
// a caller enough signal to apply backpressure without polling Len() on
// every iteration.
package monqueue

import (
	"context"
	"sync"
	"time"

	"github.com/mqtool/monqueue/internal/fifo"
	"github.com/mqtool/monqueue/internal/reentry"
	"github.com/mqtool/monqueue/internal/watermark"
)

// MonitoredQueue is a fixed-capacity FIFO queue of T that computes and
// dispatches watermark state transitions as elements are pushed and
// popped. The zero value is not usable; construct with New, NewQueue, or
// NewTimedQueue.
type MonitoredQueue[T any] struct {
	fifo  *fifo.Fifo[T]
	wm    *watermark.Machine
	guard *reentry.Guard

	sinkMu sync.Mutex // guards sink against concurrent SetEventSink/dispatch
	sink   EventSink
}

// New constructs a MonitoredQueue of the given capacity. opts may set
// watermarks, an initial EventSink, and whether TimedPopFront is
// supported; by default TimedPopFront panics with a *ContractViolationError.
//
// This is the flag-based constructor the original spec describes.
// NewQueue and NewTimedQueue below offer the same construction split as
// two named functions. All three return the same *MonitoredQueue[T]
// type, so calling TimedPopFront on an untimed queue is still only
// caught at runtime, by the panic.
func New[T any](capacity int, opts ...Option) *MonitoredQueue[T] {
	cfg := defaultConfig(capacity)
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := watermark.ValidateThresholds(cfg.lowWatermark, cfg.highWatermark, cfg.highWatermark2, capacity); err != nil {
		panic(&ContractViolationError{Reason: err.Error()})
	}

	q := &MonitoredQueue[T]{
		wm:    watermark.New(capacity),
		guard: reentry.NewGuard(),
		sink:  cfg.eventSink,
	}
	q.fifo = fifo.New[T](fifo.Options{
		Capacity:               capacity,
		SupportTimedOperations: cfg.supportTimedOperations,
		OnMutate:               q.dispatchLocked,
	})
	if err := q.wm.SetThresholds(cfg.lowWatermark, cfg.highWatermark, cfg.highWatermark2); err != nil {
		panic(&ContractViolationError{Reason: err.Error()})
	}
	return q
}

// NewQueue constructs a MonitoredQueue without TimedPopFront support. It
// is New under another name and adds no option of its own: the queue it
// returns carries the same timed-operations flag, left unset unless opts
// include WithTimedOperations.
func NewQueue[T any](capacity int, opts ...Option) *MonitoredQueue[T] {
	return New[T](capacity, opts...)
}

// NewTimedQueue constructs a MonitoredQueue with TimedPopFront support
// already enabled, sparing callers a WithTimedOperations() option.
func NewTimedQueue[T any](capacity int, opts ...Option) *MonitoredQueue[T] {
	opts = append(opts, WithTimedOperations())
	return New[T](capacity, opts...)
}

// PushBack blocks until space is available, the queue is closed, or ctx
// is done.
func (q *MonitoredQueue[T]) PushBack(ctx context.Context, v T) error {
	q.guard.Check(q.panicContractViolation)
	return q.fifo.PushBack(ctx, v)
}

// TryPushBack is the non-blocking variant of PushBack.
func (q *MonitoredQueue[T]) TryPushBack(v T) error {
	q.guard.Check(q.panicContractViolation)
	return q.fifo.TryPushBack(v)
}

// PopFront blocks until an element is available, the queue is closed, or
// ctx is done.
func (q *MonitoredQueue[T]) PopFront(ctx context.Context) (T, error) {
	q.guard.Check(q.panicContractViolation)
	return q.fifo.PopFront(ctx)
}

// TryPopFront is the non-blocking variant of PopFront.
func (q *MonitoredQueue[T]) TryPopFront() (T, error) {
	q.guard.Check(q.panicContractViolation)
	return q.fifo.TryPopFront()
}

// TimedPopFront blocks up to timeout waiting for an element. It panics
// with a *ContractViolationError if the queue was constructed without
// WithTimedOperations (or via NewQueue instead of NewTimedQueue).
func (q *MonitoredQueue[T]) TimedPopFront(timeout time.Duration) (T, error) {
	q.guard.Check(q.panicContractViolation)
	return q.fifo.TimedPopFront(timeout)
}

func (q *MonitoredQueue[T]) panicContractViolation(reason string) {
	panic(&ContractViolationError{Reason: reason})
}

// Reset drops all elements and silently returns the watermark state to
// StateNormal: no EventSink notification fires, matching the spec's
// silent-drain requirement. Calling Reset while producers or consumers
// are actively blocked on the queue is a contract violation and its
// outcome is undefined; quiesce first.
func (q *MonitoredQueue[T]) Reset() {
	q.fifo.Reset()
	q.wm.Reset()
}

// Close disables the queue: every blocked PushBack/PopFront/TimedPopFront
// wakes with ErrDisabled, and future blocking calls return immediately.
// Already-enqueued elements are not dropped; TryPopFront/PopFront against
// a closed, non-empty queue continue to drain it.
func (q *MonitoredQueue[T]) Close() {
	q.fifo.Disable()
}

// SetWatermarks reinitializes the low/high/high2 thresholds. It never
// emits events, even if the current size would imply a different state
// under the new thresholds — the state is re-derived lazily on the next
// push or pop.
func (q *MonitoredQueue[T]) SetWatermarks(low, high, high2 int) error {
	if err := q.wm.SetThresholds(low, high, high2); err != nil {
		return err
	}
	return nil
}

// State returns the current watermark state.
func (q *MonitoredQueue[T]) State() State {
	return q.wm.State()
}

// Len returns the current number of elements.
func (q *MonitoredQueue[T]) Len() int {
	return q.fifo.Len()
}

// Cap returns the fixed capacity of the queue.
func (q *MonitoredQueue[T]) Cap() int {
	return q.fifo.Cap()
}

// IsEmpty reports whether the queue currently holds no elements.
func (q *MonitoredQueue[T]) IsEmpty() bool {
	return q.fifo.IsEmpty()
}

// LowWatermark returns the current low threshold.
func (q *MonitoredQueue[T]) LowWatermark() int {
	low, _, _ := q.wm.Thresholds()
	return low
}

// HighWatermark returns the current high threshold.
func (q *MonitoredQueue[T]) HighWatermark() int {
	_, high, _ := q.wm.Thresholds()
	return high
}

// HighWatermark2 returns the current second high threshold.
func (q *MonitoredQueue[T]) HighWatermark2() int {
	_, _, high2 := q.wm.Thresholds()
	return high2
}

// SetEventSink installs the EventSink that receives state-transition
// notifications, replacing any previously installed sink. Passing nil
// clears it. At most one sink is active at a time; the last caller wins.
func (q *MonitoredQueue[T]) SetEventSink(sink EventSink) {
	q.sinkMu.Lock()
	q.sink = sink
	q.sinkMu.Unlock()
}

// dispatchLocked applies newSize to the watermark machine and
// synchronously invokes the installed sink once per resulting transition,
// in order. It is passed to internal/fifo as the Fifo's OnMutate hook, so
// it runs while the Fifo's own lock is still held: the size change and
// the watermark update happen as one atomic step, and dispatchLocked
// calls serialize in exactly the order their underlying push/pop calls
// were granted the Fifo's lock. That closes the window a separate,
// after-the-fact Len() re-read would leave open, where a transient
// threshold crossing reached and reversed between two delayed dispatches
// could be silently skipped or applied out of order.
//
// While a sink call is in flight the calling goroutine is marked in
// q.guard, so a sink that calls back into PushBack/PopFront/etc. on this
// same goroutine trips the re-entrancy check at the top of those methods
// instead of deadlocking against the Fifo's lock it is nested inside.
func (q *MonitoredQueue[T]) dispatchLocked(newSize int) {
	transitions := q.wm.Apply(newSize)
	if len(transitions) == 0 {
		return
	}

	q.sinkMu.Lock()
	sink := q.sink
	q.sinkMu.Unlock()
	if sink == nil {
		return
	}

	id := q.guard.Enter()
	defer q.guard.Exit(id)

	for _, t := range transitions {
		sink.OnStateChange(t.Old, t.New, newSize)
	}
}
