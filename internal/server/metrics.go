package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/twd38/alamo-app-sub003/pkg/pipeline"
)

// Pair outcomes reported by lotyield_pairs_evaluated_total.
const (
	outcomeViable     = "viable"
	outcomeInfeasible = "infeasible"
	outcomeInvalid    = "invalid"
)

// metrics is a per-server registry so several servers (and tests) never
// collide on the global one.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	pairs    *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lotyield_http_requests_total",
			Help: "HTTP requests served, by route pattern and status code.",
		}, []string{"route", "code"}),
		pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lotyield_pairs_evaluated_total",
			Help: "Lot/scheme pairs evaluated, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.pairs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// observeRequest must run after the mux has matched r, so r.Pattern is set.
func (m *metrics) observeRequest(r *http.Request, status int) {
	route := r.Pattern
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *metrics) observeScenarios(scenarios []pipeline.Scenario) {
	for _, sc := range scenarios {
		switch {
		case sc.Err != nil:
			m.pairs.WithLabelValues(outcomeInvalid).Inc()
		case sc.Viable():
			m.pairs.WithLabelValues(outcomeViable).Inc()
		default:
			m.pairs.WithLabelValues(outcomeInfeasible).Inc()
		}
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
