package console

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for rendered streams. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	items    *prometheus.CounterVec
	tokens   *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "autogen",
				Subsystem: "console",
				Name:      "items_total",
				Help:      "Total number of stream items processed, by kind.",
			},
			[]string{"kind"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "autogen",
				Subsystem: "console",
				Name:      "tokens_total",
				Help:      "Total number of model tokens reported by rendered messages.",
			},
			[]string{"type"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "autogen",
				Subsystem: "console",
				Name:      "runs_total",
				Help:      "Total number of consumed streams, by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "autogen",
				Subsystem: "console",
				Name:      "run_duration_seconds",
				Help:      "Wall clock time spent consuming a stream.",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.items, m.tokens, m.runs, m.duration)
	}
	return m
}

func (m *Metrics) observeItem(kind string) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(kind).Inc()
}

func (m *Metrics) observeUsage(prompt, completion int) {
	if m == nil {
		return
	}
	if prompt > 0 {
		m.tokens.WithLabelValues("prompt").Add(float64(prompt))
	}
	if completion > 0 {
		m.tokens.WithLabelValues("completion").Add(float64(completion))
	}
}

func (m *Metrics) observeRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}
