package monqueue

import (
	"github.com/mqtool/monqueue/internal/fifo"
)

// Transient, expected errors returned by the non-blocking and timed
// operations. These are re-exports of the internal/fifo sentinels so
// callers of this package never need to import internal/fifo directly.
var (
	ErrFull     = fifo.ErrFull
	ErrEmpty    = fifo.ErrEmpty
	ErrTimeout  = fifo.ErrTimeout
	ErrDisabled = fifo.ErrDisabled
)

// ContractViolationError reports a misuse of the queue's API contract:
// TimedPopFront on a queue built without timed-operation support,
// non-positive capacity, watermarks that violate
// 0 <= low < high <= high2 <= capacity, or a re-entrant call into the
// queue from its own EventSink. These are programmer errors and are
// always fatal: the queue panics with this type rather than returning a
// status, matching the BDE assertion the spec is ported from.
type ContractViolationError = fifo.ContractViolationError
