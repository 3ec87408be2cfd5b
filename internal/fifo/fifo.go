package fifo

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type node[T any] struct {
	value T
	next  *node[T]
}

// Options configures a Fifo at construction.
type Options struct {
	Capacity               int
	SupportTimedOperations bool

	// OnMutate, if set, is called synchronously with the resultant size
	// immediately after every successful push or pop, while the Fifo's own
	// lock is still held. This gives a caller layering additional state
	// (e.g. a watermark machine) a single critical section shared with the
	// size change itself, instead of an independent, unsynchronized
	// re-read of Len() after the fact — which under contention can observe
	// a size several mutations removed from the one it meant to react to,
	// and can even invoke OnMutate out of mutation order. OnMutate must not
	// call back into this Fifo; doing so deadlocks.
	OnMutate func(newSize int)
}

// Fifo is a fixed-capacity multi-producer/multi-consumer FIFO queue.
type Fifo[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	head, tail *node[T]
	size       int

	capacity int
	timedOK  bool
	disabled bool
	onMutate func(newSize int)
}

// New creates a Fifo with the given options. Capacity must be positive.
func New[T any](opts Options) *Fifo[T] {
	if opts.Capacity <= 0 {
		panic(&ContractViolationError{Reason: fmt.Sprintf("capacity must be positive, got %d", opts.Capacity)})
	}
	f := &Fifo[T]{
		capacity: opts.Capacity,
		timedOK:  opts.SupportTimedOperations,
		onMutate: opts.OnMutate,
	}
	f.notFull = sync.NewCond(&f.mu)
	f.notEmpty = sync.NewCond(&f.mu)
	return f
}

// Cap returns the fixed capacity of the queue.
func (f *Fifo[T]) Cap() int {
	return f.capacity
}

// Len returns the current number of elements. It may be momentarily stale
// under concurrency but is read atomically.
func (f *Fifo[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

// IsEmpty reports whether the queue currently holds no elements.
func (f *Fifo[T]) IsEmpty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size == 0
}

// PushBack blocks until space is available, the queue is disabled, or ctx
// is done. It returns nil on success.
func (f *Fifo[T]) PushBack(ctx context.Context, v T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stop := f.watchContextLocked(ctx, f.notFull)
	defer stop()

	for f.size >= f.capacity && !f.disabled {
		if ctxDone(ctx) {
			return ctx.Err()
		}
		f.notFull.Wait()
	}
	if f.disabled {
		return ErrDisabled
	}

	f.pushBackLocked(v)
	f.notEmpty.Signal()
	return nil
}

// TryPushBack is the non-blocking variant of PushBack.
func (f *Fifo[T]) TryPushBack(v T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.disabled {
		return ErrDisabled
	}
	if f.size >= f.capacity {
		return ErrFull
	}
	f.pushBackLocked(v)
	f.notEmpty.Signal()
	return nil
}

// PopFront blocks until an element is available, the queue is disabled, or
// ctx is done.
func (f *Fifo[T]) PopFront(ctx context.Context) (T, error) {
	var zero T

	f.mu.Lock()
	defer f.mu.Unlock()

	stop := f.watchContextLocked(ctx, f.notEmpty)
	defer stop()

	for f.size == 0 && !f.disabled {
		if ctxDone(ctx) {
			return zero, ctx.Err()
		}
		f.notEmpty.Wait()
	}
	if f.size == 0 {
		return zero, ErrDisabled
	}

	return f.popFrontLocked(), nil
}

// TryPopFront is the non-blocking variant of PopFront.
func (f *Fifo[T]) TryPopFront() (T, error) {
	var zero T

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.size == 0 {
		return zero, ErrEmpty
	}
	return f.popFrontLocked(), nil
}

// TimedPopFront blocks up to timeout waiting for an element. It panics
// with a *ContractViolationError if the Fifo was constructed without
// SupportTimedOperations.
func (f *Fifo[T]) TimedPopFront(timeout time.Duration) (T, error) {
	if !f.timedOK {
		panic(&ContractViolationError{Reason: "TimedPopFront called on a queue built without SupportTimedOperations"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	v, err := f.PopFront(ctx)
	if err == context.DeadlineExceeded {
		var zero T
		return zero, ErrTimeout
	}
	return v, err
}

// Reset drops all elements and returns the queue to empty. Concurrent
// Reset with active pushers/poppers is a contract violation and is
// undefined; the caller is expected to have quiesced first.
func (f *Fifo[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.head = nil
	f.tail = nil
	f.size = 0
	f.notFull.Broadcast()
}

// Disable wakes every blocked PushBack/PopFront call with ErrDisabled and
// causes future blocking calls to return immediately. It does not drop
// already-enqueued elements: TryPopFront/PopFront against a disabled,
// non-empty queue still drain it.
func (f *Fifo[T]) Disable() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabled = true
	f.notFull.Broadcast()
	f.notEmpty.Broadcast()
}

// pushBackLocked must be called with f.mu held. It calls f.onMutate with
// the resultant size before returning, still under f.mu, so the size
// change and whatever reacts to it are one atomic step.
func (f *Fifo[T]) pushBackLocked(v T) {
	n := &node[T]{value: v}
	if f.tail == nil {
		f.head = n
		f.tail = n
	} else {
		f.tail.next = n
		f.tail = n
	}
	f.size++
	if f.onMutate != nil {
		f.onMutate(f.size)
	}
}

// popFrontLocked must be called with f.mu held. See pushBackLocked.
func (f *Fifo[T]) popFrontLocked() T {
	n := f.head
	f.head = n.next
	if f.head == nil {
		f.tail = nil
	}
	n.next = nil
	f.size--
	f.notFull.Signal()
	if f.onMutate != nil {
		f.onMutate(f.size)
	}
	return n.value
}

// watchContextLocked arranges for cond to be broadcast when ctx is done,
// waking any goroutine parked in cond.Wait so it can re-check ctx and
// return promptly instead of waiting for an unrelated push/pop. Must be
// called with f.mu held; the returned stop function must be deferred.
func (f *Fifo[T]) watchContextLocked(ctx context.Context, cond *sync.Cond) func() {
	if ctx == nil || ctx.Done() == nil {
		return func() {}
	}
	stop := context.AfterFunc(ctx, func() {
		f.mu.Lock()
		cond.Broadcast()
		f.mu.Unlock()
	})
	return func() { stop() }
}

func ctxDone(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
