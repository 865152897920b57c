// Package metrics exposes Prometheus collectors for the scan service.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pre-defined histogram buckets
var (
	// HTTPLatencyBuckets are latency buckets for the full HTTP request/response cycle
	HTTPLatencyBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0}

	// AnalyzeLatencyBuckets are latency buckets for one engine pass
	AnalyzeLatencyBuckets = []float64{0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005}

	// ScoreBuckets split the 0-100 scam score into tenths
	ScoreBuckets = prometheus.LinearBuckets(10, 10, 10)
)

// Store write outcomes.
const (
	StoreOK      = "ok"
	StoreError   = "error"
	StoreDropped = "dropped"
)

// Metrics holds all Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// ScansTotal counts analyzed messages by verdict and language
	ScansTotal *prometheus.CounterVec

	// ScamScore tracks the distribution of normalized scores
	ScamScore prometheus.Histogram

	// AnalyzeLatency tracks the time spent in the engine and policy
	AnalyzeLatency prometheus.Histogram

	// HTTPRequestDuration tracks full HTTP request duration
	HTTPRequestDuration *prometheus.HistogramVec

	// InFlightRequests tracks currently processing requests
	InFlightRequests prometheus.Gauge

	// StoreWrites counts persistence outcomes
	StoreWrites *prometheus.CounterVec

	// AuditErrors counts failed audit writes
	AuditErrors prometheus.Counter
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ScansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scamshield_scans_total",
				Help: "Total analyzed messages",
			},
			[]string{"verdict", "language"},
		),
		ScamScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scamshield_scam_score",
				Help:    "Distribution of normalized scam scores",
				Buckets: ScoreBuckets,
			},
		),
		AnalyzeLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scamshield_analyze_latency_seconds",
				Help:    "Engine and policy latency in seconds",
				Buckets: AnalyzeLatencyBuckets,
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scamshield_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds (full request/response cycle)",
				Buckets: HTTPLatencyBuckets,
			},
			[]string{"method", "endpoint", "status_code"},
		),
		InFlightRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scamshield_in_flight_requests",
				Help: "Number of in-flight requests",
			},
		),
		StoreWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scamshield_store_writes_total",
				Help: "Scan history writes by outcome",
			},
			[]string{"status"},
		),
		AuditErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scamshield_audit_errors_total",
				Help: "Failed audit log writes",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ScansTotal,
		m.ScamScore,
		m.AnalyzeLatency,
		m.HTTPRequestDuration,
		m.InFlightRequests,
		m.StoreWrites,
		m.AuditErrors,
	)

	// Pre-initialize labels so they are exposed immediately
	for _, s := range []string{StoreOK, StoreError, StoreDropped} {
		m.StoreWrites.WithLabelValues(s)
	}

	return m
}

// Registry returns the private registry, for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveScan records one finished analysis.
func (m *Metrics) ObserveScan(verdict, language string, score int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(verdict, language).Inc()
	m.ScamScore.Observe(float64(score))
	m.AnalyzeLatency.Observe(elapsed.Seconds())
}

// ObserveStoreWrite records a persistence outcome (StoreOK, StoreError, StoreDropped).
func (m *Metrics) ObserveStoreWrite(status string) {
	if m == nil {
		return
	}
	m.StoreWrites.WithLabelValues(status).Inc()
}

// ObserveAuditError records a failed audit write.
func (m *Metrics) ObserveAuditError() {
	if m == nil {
		return
	}
	m.AuditErrors.Inc()
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// OtherRoute labels requests that match none of the known routes.
const OtherRoute = "other"

// routeLabel maps a request path onto a fixed route set so the endpoint
// label stays bounded. Routes ending in "/" match as prefixes.
func routeLabel(path string, routes []string) string {
	for _, route := range routes {
		if path == route || (strings.HasSuffix(route, "/") && strings.HasPrefix(path, route)) {
			return route
		}
	}
	return OtherRoute
}

// Middleware returns middleware that tracks HTTP request metrics. The
// endpoint label is one of routes or OtherRoute.
func (m *Metrics) Middleware(next http.Handler, routes ...string) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip metrics collection for /metrics endpoint
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		m.InFlightRequests.Inc()

		// Wrap ResponseWriter to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			m.InFlightRequests.Dec()
			m.HTTPRequestDuration.WithLabelValues(
				r.Method,
				routeLabel(r.URL.Path, routes),
				strconv.Itoa(wrapped.statusCode),
			).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(wrapped, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
