package postpipe

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mqtool/monqueue"
	"github.com/mqtool/monqueue/internal/telemetry"
)

// Poster owns the resources shared by every PostingContext it
// manufactures: a logger and pools for the buffers a high-throughput
// posting loop would otherwise allocate on every message. It holds no
// stats handle of its own; each PostingContext and each EventSink it
// builds gets its own StatContext.
type Poster struct {
	logger *zap.Logger

	payloadPool   sync.Pool
	timestampPool sync.Pool
}

// NewPoster creates a Poster. A nil logger falls back to zap.NewNop, the
// same default the teacher repo's test helpers use when logging isn't
// under test.
func NewPoster(logger *zap.Logger) *Poster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poster{
		logger: logger,
		payloadPool: sync.Pool{
			New: func() any { return make([]byte, 0, 256) },
		},
		timestampPool: sync.Pool{
			New: func() any { return make([]byte, 0, 8) },
		},
	}
}

// acquirePayload returns a pooled byte slice truncated to zero length.
// Newly allocated slices start with a capacity of 256 bytes.
func (p *Poster) acquirePayload() []byte {
	return p.payloadPool.Get().([]byte)[:0]
}

func (p *Poster) releasePayload(buf []byte) {
	p.payloadPool.Put(buf) //nolint:staticcheck // pooled slices are reused by value, not by pointer
}

// timestampBlob returns a pooled 8-byte scratch buffer holding t's
// UnixNano value in big-endian byte order, standing in for the length/timestamp-prefixed wire
// framing the original broker-client tool applies before a payload.
func (p *Poster) timestampBlob(t time.Time) []byte {
	buf := p.timestampPool.Get().([]byte)[:0]
	nanos := t.UnixNano()
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(nanos>>(56-8*i)))
	}
	return buf
}

func (p *Poster) releaseTimestampBlob(buf []byte) {
	p.timestampPool.Put(buf) //nolint:staticcheck
}

// PostingParams configures a PostingContext.
type PostingParams struct {
	QueueID    string
	TotalPosts int
	Payload    []byte
}

// NewPostingContext manufactures a PostingContext bound to session and
// the outbound queue, ready to post params.TotalPosts messages.
func (p *Poster) NewPostingContext(session Session, queue *monqueue.MonitoredQueue[Message], params PostingParams) *PostingContext {
	return &PostingContext{
		poster:  p,
		session: session,
		queue:   queue,
		params:  params,
		stats:   NewStatContext(params.QueueID),
	}
}

// EventSink returns a monqueue.EventSink that logs every watermark
// transition via the Poster's logger, forwards it to postpipe's
// Prometheus gauge, and records it in the process-wide QueueMetrics —
// the one place transition telemetry actually reaches a metrics system,
// per the queue's own logging/metrics Non-goal.
func (p *Poster) EventSink(queueID string) monqueue.EventSink {
	stats := NewStatContext(queueID)
	return monqueue.EventSinkFunc(func(old, new monqueue.State, size int) {
		start := time.Now()
		p.logger.Info("queue state transition",
			zap.String("queue", queueID),
			zap.Stringer("old", old),
			zap.Stringer("new", new),
			zap.Int("size", size),
		)
		stats.SetQueueState(int(new))
		telemetry.DefaultQueueMetrics().RecordTransition(time.Since(start))
	})
}
