// Package fifo implements BoundedFifo, a fixed-capacity multi-producer /
// multi-consumer FIFO queue. It supports blocking push/pop (cancellable via
// context.Context), non-blocking try-variants, and an optional timed pop.
//
// The queue is a singly linked list guarded by one mutex and two condition
// variables (not-full, not-empty), the same discipline the retrieval pack's
// flow.BoundedQueue uses, extended with context cancellation via
// context.AfterFunc so a blocked PushBack/PopFront wakes promptly when its
// caller's context is done rather than only when another goroutine happens
// to signal.
//
// Disable wakes every blocked caller with ErrDisabled; it is the FIFO's
// shutdown primitive, analogous to closing a channel. Reset concurrent with
// active pushers/poppers is a contract violation and is not guarded against
// at runtime — callers are expected to quiesce first.
package fifo
