package integration

import (
	"context"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mqtool/monqueue"
)

// posted is one producer's numbered message, tagged so the consumer can
// detect loss or duplication without relying on value equality alone.
type posted struct {
	producer int
	seq      int
}

// sentinel marks the end of the stream; the consumer stops on the first
// one it sees, after every producer has finished.
var sentinel = posted{producer: -1}

// TestMultiProducerSingleConsumerThroughput fans producerCount goroutines
// in against one bounded queue and drains it with a single consumer,
// asserting every pushed item arrives exactly once. This is a scaled-down
// version of the original broker-client benchmark's 5-producer,
// 2,000,000-message, 250,000-capacity run, cut down to keep `go test`
// fast while exercising the same contention pattern.
func TestMultiProducerSingleConsumerThroughput(t *testing.T) {
	const (
		producerCount   = 5
		perProducer     = 2000
		queueCapacity   = 250
	)

	queue := monqueue.NewQueue[posted](queueCapacity)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var producers errgroup.Group
	for p := 0; p < producerCount; p++ {
		p := p
		producers.Go(func() error {
			for seq := 0; seq < perProducer; seq++ {
				if err := queue.PushBack(ctx, posted{producer: p, seq: seq}); err != nil {
					return err
				}
			}
			return nil
		})
	}

	produceErr := make(chan error, 1)
	go func() {
		err := producers.Wait()
		if err == nil {
			err = queue.PushBack(ctx, sentinel)
		}
		produceErr <- err
	}()

	seen := make([][]bool, producerCount)
	for i := range seen {
		seen[i] = make([]bool, perProducer)
	}

	total := 0
	for {
		item, err := queue.PopFront(ctx)
		if err != nil {
			t.Fatalf("PopFront: %v", err)
		}
		if item == sentinel {
			break
		}
		if item.producer < 0 || item.producer >= producerCount || item.seq < 0 || item.seq >= perProducer {
			t.Fatalf("received out-of-range item: %+v", item)
		}
		if seen[item.producer][item.seq] {
			t.Fatalf("duplicate delivery of %+v", item)
		}
		seen[item.producer][item.seq] = true
		total++
	}

	if err := <-produceErr; err != nil {
		t.Fatalf("producers: %v", err)
	}

	if want := producerCount * perProducer; total != want {
		t.Fatalf("consumer drained %d items, want %d", total, want)
	}
	for p, row := range seen {
		for seq, ok := range row {
			if !ok {
				t.Fatalf("producer %d seq %d was never delivered", p, seq)
			}
		}
	}
	if !queue.IsEmpty() {
		t.Fatalf("queue not empty after drain: len=%d", queue.Len())
	}
}
