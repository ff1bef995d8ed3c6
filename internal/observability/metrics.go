package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UnmatchedRoute labels requests no route claimed, so probing random paths
// cannot grow the label set.
const UnmatchedRoute = "unmatched"

// Metrics collects the HTTP metrics of the store API.
type Metrics struct {
	registry      *prometheus.Registry
	handler       http.Handler
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	responseBytes *prometheus.HistogramVec
	inFlight      prometheus.Gauge
}

// NewMetrics builds a private registry. Request series are labelled by method,
// route label and status code; see RouteLabel.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tiendapos",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Store API requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tiendapos",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Store API latency by method and route.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route"}),
		responseBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tiendapos",
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "Response body size by route. Listing endpoints dominate.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 7),
		}, []string{"route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tiendapos",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Store API requests currently being served.",
		}),
	}
	registry.MustRegister(m.requests, m.latency, m.responseBytes, m.inFlight)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records each request once the router has resolved its pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := RouteLabel(r)
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.responseBytes.WithLabelValues(route).Observe(float64(ww.BytesWritten()))
	})
}

// Registerer exposes the registry so job and cache collectors share /metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// RouteLabel maps a request to a bounded label. API routes keep their chi
// pattern with ids left as {id}; wildcard catch-alls and requests no route
// matched collapse into UnmatchedRoute.
func RouteLabel(r *http.Request) string {
	routeCtx := chi.RouteContext(r.Context())
	if routeCtx == nil {
		return UnmatchedRoute
	}
	pattern := routeCtx.RoutePattern()
	if pattern == "" || strings.HasSuffix(pattern, "*") {
		return UnmatchedRoute
	}
	if strings.HasPrefix(pattern, "/api/") {
		return strings.TrimSuffix(pattern, "/")
	}
	return pattern
}
