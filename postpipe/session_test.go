package postpipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalSessionSendSucceedsWithoutFailureSchedule(t *testing.T) {
	s := NewLocalSession()
	msg := NewMessage("q1", []byte("payload"))

	require.NoError(t, s.Send(context.Background(), msg))
	require.NoError(t, s.Send(context.Background(), msg))
}

func TestLocalSessionRequiresReconnectAfterSimulatedFailure(t *testing.T) {
	s := NewLocalSession(WithFailEvery(2))
	msg := NewMessage("q1", []byte("payload"))
	ctx := context.Background()

	require.NoError(t, s.Send(ctx, msg))
	require.Error(t, s.Send(ctx, msg))

	// Further sends fail until Reconnect runs.
	require.Error(t, s.Send(ctx, msg))

	require.NoError(t, s.Reconnect(ctx))
	require.NoError(t, s.Send(ctx, msg))
}

func TestLocalSessionSendAfterCloseReturnsErrSessionClosed(t *testing.T) {
	s := NewLocalSession()
	require.NoError(t, s.Close())

	err := s.Send(context.Background(), NewMessage("q1", nil))
	require.ErrorIs(t, err, ErrSessionClosed)
}

func TestLocalSessionReconnectAfterCloseReturnsErrSessionClosed(t *testing.T) {
	s := NewLocalSession(WithFailEvery(1))
	ctx := context.Background()

	require.Error(t, s.Send(ctx, NewMessage("q1", nil)))
	require.NoError(t, s.Close())

	err := s.Reconnect(ctx)
	require.ErrorIs(t, err, ErrSessionClosed)
}
