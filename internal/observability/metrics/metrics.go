package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	obserrors "github.com/gamestore/gamestore-web/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Config configures the collectors.
type Config struct {
	Namespace string
	Registry  prometheus.Registerer
	Buckets   []float64
}

// Metrics holds the Prometheus collectors for the storefront.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

// New registers the collectors against cfg.Registry.
func New(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "gamestore"
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(cfg.Registry)
	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Browser-facing HTTP requests by route and status code",
		}, []string{"route", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Browser-facing HTTP request duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"route"}),
		backendCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "backend",
			Name:      "calls_total",
			Help:      "Backend API calls by operation, result and error class",
		}, []string{"operation", "result", "error_class"}),
		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "Backend API call duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"operation"}),
	}
}

// BackendCall captures one backend round trip for metric emission.
type BackendCall struct {
	Operation  string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// ObserveBackendCall records a backend call.
func (m *Metrics) ObserveBackendCall(in BackendCall) {
	if m == nil {
		return
	}

	result := ResultSuccess
	class := ""
	switch {
	case in.Err != nil:
		result = ResultError
		class = obserrors.Classify(in.Err)
	case in.StatusCode >= 400:
		result = ResultRejected
	}

	m.backendCalls.WithLabelValues(in.Operation, result, class).Inc()
	if in.Duration > 0 {
		m.backendDuration.WithLabelValues(in.Operation).Observe(in.Duration.Seconds())
	}
}

// ObserveHTTPRequest records a served browser request. Route should be the mux pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
