package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP-level metrics shared by every route.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	readyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "service_ready",
		Help: "Whether the service currently reports ready (1) or not (0).",
	})
)

// Domain metrics for the certification lifecycle.
var (
	certificatesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "certificates_issued_total",
		Help: "Certificates issued since process start.",
	})

	certificatesRevokedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "certificates_revoked_total",
		Help: "Certificates revoked since process start.",
	})

	verificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificate_verifications_total",
			Help: "Verification lookups by outcome.",
		},
		[]string{"result"},
	)
)

// Init registers all metrics in the default registry.
func Init() {
	prometheus.MustRegister(
		httpInFlight, httpRequestsTotal, httpRequestDuration, readyGauge,
		certificatesIssuedTotal, certificatesRevokedTotal, verificationsTotal,
	)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SetReady records the last readiness probe outcome.
func SetReady(ready bool) {
	if ready {
		readyGauge.Set(1)
		return
	}
	readyGauge.Set(0)
}

// CertificateIssued increments the issuance counter.
func CertificateIssued() { certificatesIssuedTotal.Inc() }

// CertificateRevoked increments the revocation counter.
func CertificateRevoked() { certificatesRevokedTotal.Inc() }

// VerificationObserved records a verification outcome ("valid" or "invalid").
func VerificationObserved(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	verificationsTotal.WithLabelValues(result).Inc()
}

// CanonicalPath collapses resource identifiers so metric label cardinality
// stays bounded.
func CanonicalPath(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	// /v1/certificates/{id}[/pdf|image|qr|revoke]
	if len(parts) >= 4 && parts[1] == "v1" && parts[2] == "certificates" && parts[3] != "" && parts[3] != "stats" {
		if len(parts) == 4 {
			return "/v1/certificates/:id"
		}
		if len(parts) == 5 {
			return "/v1/certificates/:id/" + parts[4]
		}
	}
	// /v1/verification/{id}[/chain-status]
	if len(parts) >= 4 && parts[1] == "v1" && parts[2] == "verification" && parts[3] != "" {
		switch parts[3] {
		case "verify", "verify-hash", "bulk-verify", "deep-verify":
			return path
		}
		if len(parts) == 4 {
			return "/v1/verification/:id"
		}
		if len(parts) == 5 {
			return "/v1/verification/:id/" + parts[4]
		}
	}
	return path
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE responses streamable through the wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Instrument wraps a handler with RPS/latency/in-flight measurements.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}
