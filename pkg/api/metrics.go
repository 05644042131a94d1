package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/hoard/pkg/codec"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	decodeComplete = "complete"
	decodePartial  = "partial"
	decodeInvalid  = "invalid"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Decoder metrics
	decodesTotal      *prometheus.CounterVec
	itemsDecodedTotal prometheus.Counter

	// Snapshot store metrics
	snapshotOperationsTotal *prometheus.CounterVec

	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates the API metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hoard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hoard_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		decodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoard_decodes_total",
				Help: "Inventory blobs decoded, by outcome",
			},
			[]string{"result"},
		),

		itemsDecodedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hoard_items_decoded_total",
				Help: "Total number of item records decoded",
			},
		),

		snapshotOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoard_snapshot_operations_total",
				Help: "Total number of snapshot store operations",
			},
			[]string{"operation", "status"},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoard_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the private registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDecode records the outcome of decoding one blob.
// col is nil when the blob could not be decoded at all.
func (m *Metrics) RecordDecode(col *codec.Collection) {
	switch {
	case col == nil:
		m.decodesTotal.WithLabelValues(decodeInvalid).Inc()
		return
	case col.Complete():
		m.decodesTotal.WithLabelValues(decodeComplete).Inc()
	default:
		m.decodesTotal.WithLabelValues(decodePartial).Inc()
	}
	m.itemsDecodedTotal.Add(float64(len(col.Items)))
}

// RecordSnapshotOperation records a snapshot store operation
func (m *Metrics) RecordSnapshotOperation(operation string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.snapshotOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
