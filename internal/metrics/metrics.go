// Package metrics exposes Prometheus collectors for the tutor.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "csatutor"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	llmRequests  *prometheus.CounterVec
	llmDuration  prometheus.Histogram
	gradings     *prometheus.CounterVec
	wrongbook    prometheus.Counter
	logins       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		),
		llmRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "Language model calls by outcome",
			},
			[]string{"outcome"},
		),
		llmDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Duration of language model calls including retries",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		gradings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gradings_total",
				Help:      "Graded answers by deciding source and result",
			},
			[]string{"source", "result"},
		),
		wrongbook: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wrongbook_entries_total",
			Help:      "Entries appended to the wrongbook",
		}),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Login attempts by role and outcome",
			},
			[]string{"role", "outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.llmRequests, m.llmDuration,
		m.gradings, m.wrongbook, m.logins,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveLLM(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(outcome).Inc()
	m.llmDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveGrading(source, result string) {
	if m == nil {
		return
	}
	m.gradings.WithLabelValues(source, result).Inc()
}

func (m *Metrics) IncWrongbookEntry() {
	if m == nil {
		return
	}
	m.wrongbook.Inc()
}

func (m *Metrics) ObserveLogin(role string, ok bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if ok {
		outcome = "accepted"
	}
	m.logins.WithLabelValues(role, outcome).Inc()
}
