package postpipe

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mqtool/monqueue"
)

// PostingContext drives one session's worth of posting against one
// outbound MonitoredQueue. It is not safe for concurrent use by more
// than one goroutine — a session represents one logical connection, the
// same way a single BlazingMQ session handle is not meant to be shared
// across posting threads.
type PostingContext struct {
	poster  *Poster
	session Session
	queue   *monqueue.MonitoredQueue[Message]
	params  PostingParams
	stats   *StatContext

	posted atomic.Int64
}

// PendingPost reports whether at least one more message remains to be
// posted.
func (c *PostingContext) PendingPost() bool {
	return c.posted.Load() < int64(c.params.TotalPosts)
}

// PostNext posts exactly one message. Precondition: PendingPost() is
// true; calling PostNext with no pending posts panics with a
// *monqueue.ContractViolationError, matching the queue's own contract-
// violation convention for programmer errors.
func (c *PostingContext) PostNext(ctx context.Context) error {
	if !c.PendingPost() {
		panic(&monqueue.ContractViolationError{Reason: "PostNext called with no pending posts"})
	}

	payload := c.poster.acquirePayload()
	defer c.poster.releasePayload(payload)
	payload = append(payload, c.params.Payload...)

	ts := c.poster.timestampBlob(time.Now())
	defer c.poster.releaseTimestampBlob(ts)

	msg := NewMessage(c.params.QueueID, payload)

	if err := c.session.Send(ctx, msg); err != nil {
		if err := c.session.Reconnect(ctx); err != nil {
			c.stats.IncPostFailure()
			return err
		}
		if err := c.session.Send(ctx, msg); err != nil {
			c.stats.IncPostFailure()
			return err
		}
	}

	if err := c.queue.PushBack(ctx, msg); err != nil {
		c.stats.IncPostFailure()
		return err
	}

	c.posted.Add(1)
	c.stats.IncPosted()
	return nil
}
