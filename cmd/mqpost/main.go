// Command mqpost drives a bounded, watermark-monitored queue with a
// configurable number of concurrent posting sessions, the CLI
// counterpart to a BlazingMQ broker-client posting tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mqtool/monqueue"
	"github.com/mqtool/monqueue/drain"
	"github.com/mqtool/monqueue/postpipe"
)

const shutdownGrace = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mqpost:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := NewConfig()
	cfg.AddFlags(pflag.CommandLine)
	pflag.Parse()

	if err := cfg.Load(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("mqpost: build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	postpipe.RegisterStats()

	queueOpts := []monqueue.Option{
		monqueue.WithWatermarks(cfg.LowWatermark, cfg.HighWatermark, cfg.HighWatermark2),
	}
	if cfg.TimedOperations {
		queueOpts = append(queueOpts, monqueue.WithTimedOperations())
	}
	queue := monqueue.New[postpipe.Message](cfg.Capacity, queueOpts...)

	poster := postpipe.NewPoster(logger)
	queue.SetEventSink(poster.EventSink(cfg.QueueID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	perSession := cfg.PostCount / cfg.PostConcurrency
	remainder := cfg.PostCount % cfg.PostConcurrency

	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.PostConcurrency; i++ {
		total := perSession
		if i < remainder {
			total++
		}
		sessionID := i
		group.Go(func() error {
			session := postpipe.NewLocalSession()
			defer session.Close() //nolint:errcheck

			pc := poster.NewPostingContext(session, queue, postpipe.PostingParams{
				QueueID:    cfg.QueueID,
				TotalPosts: total,
				Payload:    []byte(fmt.Sprintf("session-%d", sessionID)),
			})
			for pc.PendingPost() {
				if err := pc.PostNext(gctx); err != nil {
					return fmt.Errorf("session %d: %w", sessionID, err)
				}
			}
			return nil
		})
	}

	postErr := group.Wait()

	// All posting sessions have stopped producing by now (the errgroup
	// above only returns once every session's loop has exited). mqpost
	// itself never pops from the queue, so WaitEmpty succeeds only if the
	// queue is already empty and otherwise gives up after shutdownGrace;
	// Close then disables the queue and Drain logs every message left.
	quiesceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := drain.WaitEmpty(quiesceCtx, queue); err != nil {
		logger.Warn("queue did not drain before shutdown deadline", zap.Error(err))
	}
	queue.Close()

	if err := drain.Drain(context.Background(), queue, func(msg postpipe.Message) {
		logger.Warn("dropping message left in queue at shutdown",
			zap.String("id", msg.ID.String()), zap.String("queue_id", msg.QueueID))
	}); err != nil {
		logger.Warn("final drain flush failed", zap.Error(err))
	}

	return postErr
}
