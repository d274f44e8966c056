package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/you-humble/asset-tracker/internal/model"
)

const (
	namespace = "asset_tracker"

	subsystemAssignment = "assignment"
	subsystemReconcile  = "reconcile"
	subsystemHTTP       = "http"
)

// Metrics holds the collectors of the service, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	transitions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	repairs     *prometheus.CounterVec
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemAssignment,
				Name:      "transitions_total",
				Help:      "Committed assignment transitions by asset kind",
			},
			[]string{"kind", "transition"},
		),
		conflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemAssignment,
				Name:      "conflicts_total",
				Help:      "Conditional asset writes lost to a concurrent writer",
			},
			[]string{"kind"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemAssignment,
				Name:      "failures_total",
				Help:      "Failed coordinator operations",
			},
			[]string{"op"},
		),
		repairs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemReconcile,
				Name:      "repairs_total",
				Help:      "Repairs applied by the reconciler",
			},
			[]string{"kind", "action"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemHTTP,
				Name:      "requests_total",
				Help:      "Handled HTTP requests",
			},
			[]string{"method", "route", "code"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystemHTTP,
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *Metrics) ObserveTransition(kind model.Kind, t model.Transition) {
	m.transitions.WithLabelValues(string(kind), string(t)).Inc()
}

func (m *Metrics) ObserveConflict(kind model.Kind) {
	m.conflicts.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) ObserveFailure(op string) {
	m.failures.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveRepair(kind model.Kind, action string) {
	m.repairs.WithLabelValues(string(kind), action).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, code int, took time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(method, route).Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
