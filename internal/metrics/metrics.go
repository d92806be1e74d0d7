// Package metrics provides Prometheus metrics for the news bot and the HTTP
// listener that serves them together with a health endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsbot"

// Metrics holds the bot's collectors. A nil *Metrics records nothing.
type Metrics struct {
	ButtonPrompts      prometheus.Counter
	Summaries          *prometheus.CounterVec
	SummaryDuration    *prometheus.HistogramVec
	SummariesTruncated prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ButtonPrompts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "button_prompts_total",
			Help:      "Total number of Generate News prompts posted",
		}),
		Summaries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Total number of summary requests by source and outcome",
		}, []string{"source", "status"}),
		SummaryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_duration_seconds",
			Help:      "Duration of summary requests in seconds, generation and delivery",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"source"}),
		SummariesTruncated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_truncated_total",
			Help:      "Total number of summaries cut to the embed description limit",
		}),
	}
}

// RecordPrompt counts one posted button prompt.
func (m *Metrics) RecordPrompt() {
	if m == nil {
		return
	}
	m.ButtonPrompts.Inc()
}

// RecordSummary records one finished summary request.
func (m *Metrics) RecordSummary(source, status string, duration time.Duration, truncated bool) {
	if m == nil {
		return
	}
	m.Summaries.WithLabelValues(source, status).Inc()
	m.SummaryDuration.WithLabelValues(source).Observe(duration.Seconds())
	if truncated {
		m.SummariesTruncated.Inc()
	}
}
