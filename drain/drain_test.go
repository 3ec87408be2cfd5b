package drain

import (
	"context"
	"testing"
	"time"

	"github.com/mqtool/monqueue"
)

func TestWaitEmptyReturnsImmediatelyWhenAlreadyEmpty(t *testing.T) {
	queue := monqueue.NewQueue[int](4)

	if err := WaitEmpty(context.Background(), queue); err != nil {
		t.Fatalf("WaitEmpty: %v", err)
	}
}

func TestWaitEmptyBlocksUntilQueueDrains(t *testing.T) {
	queue := monqueue.NewQueue[int](4)
	if err := queue.TryPushBack(1); err != nil {
		t.Fatalf("TryPushBack: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- WaitEmpty(context.Background(), queue, WithPollInterval(time.Millisecond))
	}()

	time.Sleep(20 * time.Millisecond)
	if _, err := queue.TryPopFront(); err != nil {
		t.Fatalf("TryPopFront: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WaitEmpty: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitEmpty never observed the drained queue")
	}
}

func TestWaitEmptyFailsOnContextDeadline(t *testing.T) {
	queue := monqueue.NewQueue[int](4)
	if err := queue.TryPushBack(1); err != nil {
		t.Fatalf("TryPushBack: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()

	if err := WaitEmpty(ctx, queue, WithPollInterval(time.Millisecond)); err == nil {
		t.Fatal("expected error from WaitEmpty with a non-empty queue and expired context")
	}
}

func TestDrainFlushesRemainingItemsInOrder(t *testing.T) {
	queue := monqueue.NewQueue[int](4)
	for _, v := range []int{1, 2, 3} {
		if err := queue.TryPushBack(v); err != nil {
			t.Fatalf("TryPushBack(%d): %v", v, err)
		}
	}
	queue.Close()

	var got []int
	if err := Drain(context.Background(), queue, func(v int) { got = append(got, v) }); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
