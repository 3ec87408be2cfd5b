package postpipe

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const statsNamespace = "mqtool"

var (
	postedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: statsNamespace,
			Subsystem: "postpipe",
			Name:      "posted_total",
			Help:      "Number of messages successfully posted, by queue.",
		},
		[]string{"queue"},
	)
	postFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: statsNamespace,
			Subsystem: "postpipe",
			Name:      "post_failures_total",
			Help:      "Number of PostNext calls that returned an error, by queue.",
		},
		[]string{"queue"},
	)
	queueStateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: statsNamespace,
			Subsystem: "postpipe",
			Name:      "queue_state",
			Help:      "Current watermark state of the outbound queue (0=Normal,1=High,2=High2,3=Filled), by queue.",
		},
		[]string{"queue"},
	)
)

var registerStats sync.Once

// RegisterStats registers postpipe's Prometheus collectors with the
// default registry. Safe to call more than once; only the first call
// takes effect.
func RegisterStats() {
	registerStats.Do(func() {
		prometheus.MustRegister(postedTotal)
		prometheus.MustRegister(postFailuresTotal)
		prometheus.MustRegister(queueStateGauge)
	})
}

// StatContext is a thin handle onto the package's registered collectors,
// scoped to one queue identifier.
type StatContext struct {
	queueID string
}

// NewStatContext returns a StatContext for the given queue identifier and
// ensures the underlying collectors are registered.
func NewStatContext(queueID string) *StatContext {
	RegisterStats()
	return &StatContext{queueID: queueID}
}

// IncPosted records one successful post.
func (s *StatContext) IncPosted() {
	postedTotal.WithLabelValues(s.queueID).Inc()
}

// IncPostFailure records one failed PostNext call.
func (s *StatContext) IncPostFailure() {
	postFailuresTotal.WithLabelValues(s.queueID).Inc()
}

// SetQueueState records the current watermark state as a small ordinal,
// matching monqueue.State's iota ordering.
func (s *StatContext) SetQueueState(state int) {
	queueStateGauge.WithLabelValues(s.queueID).Set(float64(state))
}
