package postpipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mqtool/monqueue"
)

func TestPostingContextPostsUntilExhausted(t *testing.T) {
	poster := NewPoster(nil)
	queue := monqueue.New[Message](8)
	session := NewLocalSession()

	pc := poster.NewPostingContext(session, queue, PostingParams{
		QueueID:    "test-queue",
		TotalPosts: 3,
		Payload:    []byte("hello"),
	})

	ctx := context.Background()
	count := 0
	for pc.PendingPost() {
		require.NoError(t, pc.PostNext(ctx))
		count++
	}

	require.Equal(t, 3, count)
	require.Equal(t, 3, queue.Len())
	require.False(t, pc.PendingPost())
}

func TestPostingContextPostNextPanicsWhenExhausted(t *testing.T) {
	poster := NewPoster(nil)
	queue := monqueue.New[Message](8)
	session := NewLocalSession()

	pc := poster.NewPostingContext(session, queue, PostingParams{
		QueueID:    "test-queue",
		TotalPosts: 0,
	})

	require.Panics(t, func() {
		_ = pc.PostNext(context.Background())
	})
}

func TestPostingContextReconnectsOnTransientSendFailure(t *testing.T) {
	poster := NewPoster(nil)
	queue := monqueue.New[Message](8)
	session := NewLocalSession(WithFailEvery(2))

	pc := poster.NewPostingContext(session, queue, PostingParams{
		QueueID:    "test-queue",
		TotalPosts: 4,
		Payload:    []byte("hello"),
	})

	ctx := context.Background()
	for pc.PendingPost() {
		require.NoError(t, pc.PostNext(ctx))
	}

	require.Equal(t, 4, queue.Len())
}
