package postpipe

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// ErrSessionClosed is returned by Session methods once Close has run.
var ErrSessionClosed = errors.New("postpipe: session closed")

// Session stands in for a broker-client network session: the real
// BlazingMQ tool negotiates a connection and exchanges wire messages,
// which is out of scope here (Non-goal). What matters for this pipeline
// is that posting can transiently fail and needs a reconnect/backoff
// loop before the caller retries.
type Session interface {
	ID() uuid.UUID
	// Send simulates handing a message to the broker. It returns
	// ErrSessionClosed after Close, and otherwise fails transiently on a
	// deterministic schedule so callers can exercise Reconnect.
	Send(ctx context.Context, msg Message) error
	// Reconnect blocks until the session is usable again or ctx is done,
	// backing off between attempts.
	Reconnect(ctx context.Context) error
	Close() error
}

// localSession is a simulated Session with no real network I/O. It fails
// every Nth Send (simulating a transient broker hiccup) until Reconnect
// runs, matching the shape of a real reconnect loop without any of the
// wire-level behavior.
type localSession struct {
	mu           sync.Mutex
	id           uuid.UUID
	closed       bool
	failEvery    int
	sendsSoFar   int
	needsReconn  bool
	backoffMaker func() backoff.BackOff
}

// LocalSessionOption configures a simulated Session.
type LocalSessionOption func(*localSession)

// WithFailEvery makes the simulated session fail one out of every n
// sends, requiring a Reconnect before it accepts more. n <= 0 disables
// the simulated failures.
func WithFailEvery(n int) LocalSessionOption {
	return func(s *localSession) {
		s.failEvery = n
	}
}

// NewLocalSession creates a simulated Session usable in place of a real
// broker connection.
func NewLocalSession(opts ...LocalSessionOption) Session {
	s := &localSession{
		id: uuid.New(),
		backoffMaker: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 5 * time.Millisecond
			b.MaxInterval = 100 * time.Millisecond
			b.MaxElapsedTime = 0
			return b
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *localSession) ID() uuid.UUID {
	return s.id
}

func (s *localSession) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.needsReconn {
		return errors.New("postpipe: session needs reconnect")
	}

	s.sendsSoFar++
	if s.failEvery > 0 && s.sendsSoFar%s.failEvery == 0 {
		s.needsReconn = true
		return errors.New("postpipe: simulated transient send failure")
	}
	return nil
}

func (s *localSession) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if !s.needsReconn {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	b := backoff.WithContext(s.backoffMaker(), ctx)
	return backoff.Retry(func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return backoff.Permanent(ErrSessionClosed)
		}
		s.needsReconn = false
		return nil
	}, b)
}

func (s *localSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
