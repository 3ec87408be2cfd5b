package telemetry

import (
	"testing"
	"time"
)

func TestDefaultQueueMetricsSingleton(t *testing.T) {
	if DefaultQueueMetrics() != DefaultQueueMetrics() {
		t.Fatalf("expected default metrics to return singleton instance")
	}
}

func TestRecordTransitionAccumulatesCountAndDuration(t *testing.T) {
	metrics := DefaultQueueMetrics()
	metrics.Reset()

	metrics.RecordTransition(time.Millisecond)
	metrics.RecordTransition(3 * time.Millisecond)

	transitions, average, drainTimeouts := metrics.Snapshot()
	if transitions != 2 {
		t.Fatalf("expected 2 transitions, got %d", transitions)
	}
	if average != 2*time.Millisecond {
		t.Fatalf("expected average 2ms, got %v", average)
	}
	if drainTimeouts != 0 {
		t.Fatalf("expected no drain timeouts yet, got %d", drainTimeouts)
	}

	metrics.Reset()
	transitions, average, _ = metrics.Snapshot()
	if transitions != 0 || average != 0 {
		t.Fatalf("expected metrics to reset to zero, got transitions=%d average=%v", transitions, average)
	}
}

func TestRecordDrainWaitCountsTimeouts(t *testing.T) {
	metrics := DefaultQueueMetrics()
	metrics.Reset()

	metrics.RecordDrainWait(5*time.Millisecond, false)
	metrics.RecordDrainWait(10*time.Millisecond, true)

	_, _, drainTimeouts := metrics.Snapshot()
	if drainTimeouts != 1 {
		t.Fatalf("expected 1 drain timeout, got %d", drainTimeouts)
	}
}
