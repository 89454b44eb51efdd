package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/handlescout/handlescout/internal/observability"
)

// statusRecorder captures the status code and body size the handler produced.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// knownPaths maps raw paths to metric labels when no chi pattern is
// available, keeping label cardinality bounded.
var knownPaths = map[string]string{
	"/health":       "/health/*",
	"/healthz":      "/health/*",
	"/health/live":  "/health/*",
	"/health/ready": "/health/*",
	"/version":      "/version",
	"/metrics":      "/metrics",
	"/":             "/",
}

// getEndpointPattern prefers the chi route pattern as the endpoint label.
func getEndpointPattern(r *http.Request) string {
	if pattern := chi.RouteContext(r.Context()).RoutePattern(); pattern != "" {
		return pattern
	}
	if label, ok := knownPaths[r.URL.Path]; ok {
		return label
	}
	return "/unknown"
}

func contentLength(r *http.Request) int64 {
	header := r.Header.Get("Content-Length")
	if header == "" {
		return 0
	}
	size, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return 0
	}
	return size
}

// RequestMetrics emits per-request counters, latency, and size metrics, and
// writes one completion log line per request.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		telemetry := observability.TelemetrySystem
		if telemetry == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		requestSize := contentLength(r)

		next.ServeHTTP(recorder, r)

		elapsed := time.Since(start)
		endpoint := getEndpointPattern(r)
		status := strconv.Itoa(recorder.status)

		labels := map[string]string{
			"method":   r.Method,
			"endpoint": endpoint,
			"status":   status,
		}
		sizeLabels := map[string]string{
			"method":   r.Method,
			"endpoint": endpoint,
		}

		_ = telemetry.Counter("http_requests_total", 1, labels)
		_ = telemetry.Histogram("http_request_duration_ms", elapsed, labels)
		_ = telemetry.Gauge("http_request_size_bytes", float64(requestSize), sizeLabels)
		_ = telemetry.Gauge("http_response_size_bytes", float64(recorder.bytes), sizeLabels)

		if recorder.status >= 400 {
			errorType := "client_error"
			if recorder.status >= 500 {
				errorType = "server_error"
			}
			_ = telemetry.Counter("http_errors_total", 1, map[string]string{
				"method":     r.Method,
				"endpoint":   endpoint,
				"status":     status,
				"error_type": errorType,
			})
		}

		// The request ID belongs in logs, never in metric labels.
		if observability.ServerLogger != nil {
			observability.ServerLogger.Info("HTTP request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("endpoint", endpoint),
				zap.Int("status", recorder.status),
				zap.Duration("duration", elapsed),
				zap.Int64("request_size", requestSize),
				zap.Int64("response_size", recorder.bytes),
				zap.String("requestID", GetRequestID(r.Context())),
			)
		}
	})
}
