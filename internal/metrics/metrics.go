// Package metrics exports page workflow and backend call counters.
package metrics

import (
	"net/http"
	"time"

	"lowvie/internal/backend"
	"lowvie/internal/workflow"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lowvie"

type Metrics struct {
	registry       *prometheus.Registry
	backendCalls   *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
	transitions    *prometheus.CounterVec
	pagesCreated   prometheus.Counter
}

// New registers the collectors on a private registry, so several instances
// can coexist in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(namespace, "backend", "calls_total"),
			Help: "Count of calls to the analysis backend",
		}, []string{"op", "result"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prometheus.BuildFQName(namespace, "backend", "call_duration_seconds"),
			Help:    "Latency of calls to the analysis backend",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"op"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(namespace, "page", "transitions_total"),
			Help: "Count of page workflow state changes",
		}, []string{"from", "to"}),
		pagesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(namespace, "page", "created_total"),
			Help: "Count of page workflows minted",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.backendCalls,
		m.backendLatency,
		m.transitions,
		m.pagesCreated,
	)
	return m
}

// ObserveBackendCall implements backend.Observer.
func (m *Metrics) ObserveBackendCall(op string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = backend.KindOf(err).String()
	}
	m.backendCalls.WithLabelValues(op, result).Inc()
	m.backendLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveTransition is a workflow.Observer.
func (m *Metrics) ObserveTransition(_ string, t workflow.Transition) {
	m.transitions.WithLabelValues(t.From.String(), t.To.String()).Inc()
}

func (m *Metrics) PageCreated() {
	m.pagesCreated.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ backend.Observer = (*Metrics)(nil)
