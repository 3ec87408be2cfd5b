// Package watermark tracks the fill level of a bounded queue against three
// thresholds (low, high, high2) and emits exactly one transition event per
// threshold crossing.
//
// A crossing is only reported the first time it happens in a given
// direction: repeated pushes into an already-Filled queue emit nothing
// further, and repeated pops at or below the low watermark emit nothing
// further once the Normal state has been re-entered. SetThresholds never
// emits events on its own; the state is re-derived lazily on the next Apply
// call, even if the new thresholds would imply a different state for the
// current size.
//
// Apply serializes size+state updates under a single mutex so concurrent
// callers cannot double-report or miss a crossing. The caller (see
// monqueue.MonitoredQueue.dispatchLocked) additionally arranges for Apply
// to run inside the same critical section as the size change itself, so
// calls reach Apply in exact mutation order.
package watermark
