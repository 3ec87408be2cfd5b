package postpipe

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestPosterAcquireReleasePayloadRoundTrips(t *testing.T) {
	p := NewPoster(nil)

	buf := p.acquirePayload()
	require.Len(t, buf, 0)
	buf = append(buf, 1, 2, 3)
	p.releasePayload(buf)

	buf2 := p.acquirePayload()
	require.Len(t, buf2, 0)
}

func TestPosterTimestampBlobIsEightBytes(t *testing.T) {
	p := NewPoster(nil)
	blob := p.timestampBlob(time.Now())
	require.Len(t, blob, 8)
	p.releaseTimestampBlob(blob)
}

func TestPosterEventSinkUpdatesQueueStateGauge(t *testing.T) {
	p := NewPoster(nil)
	sink := p.EventSink("gauge-test-queue")

	require.NotPanics(t, func() {
		sink.OnStateChange(0, 1, 5)
	})

	var m dto.Metric
	require.NoError(t, queueStateGauge.WithLabelValues("gauge-test-queue").Write(&m))
	require.Equal(t, 1.0, m.GetGauge().GetValue())
}
