// Package metrics holds the application's telemetry vocabulary: one helper
// per metric, all safe to call before telemetry is initialized.
package metrics

import (
	"strconv"
	"time"

	"github.com/handlescout/handlescout/internal/observability"
)

// Metric names, Prometheus conventions.
const (
	ChecksTotal        = "app_checks_total"
	CandidatesRejected = "app_candidates_rejected_total"

	OperationsTotal = "app_operations_total"

	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	ErrorsTotalName      = "errors_total"
	PanicsTotalName      = "panics_total"
	ErrorsByEndpointName = "errors_by_endpoint"
)

func count(name string, labels map[string]string) {
	if sys := observability.TelemetrySystem; sys != nil {
		_ = sys.Counter(name, 1, labels)
	}
}

// RecordCheck counts one oracle check by outcome token (available, taken,
// rate_limited, transient, error).
func RecordCheck(outcome string) {
	count(ChecksTotal, map[string]string{"outcome": outcome})
}

// RecordRejected counts candidates dropped before the oracle was asked
// (already seen, or failed the grammar).
func RecordRejected(reason string) {
	count(CandidatesRejected, map[string]string{"reason": reason})
}

// RecordOperation counts one named API operation.
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	count(OperationsTotal, map[string]string{"operation": operation, "status": status})
}

// RecordHealthCheck counts one component health probe and tracks its latency.
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	count(HealthCheckTotal, map[string]string{"check": checkName, "status": status})

	if sys := observability.TelemetrySystem; sys != nil {
		_ = sys.Histogram(HealthCheckDuration, duration, map[string]string{"check": checkName})
	}
}

// RecordError counts one error response by code and HTTP status.
func RecordError(errorCode string, httpStatus int) {
	count(ErrorsTotalName, map[string]string{
		"error_code":  errorCode,
		"http_status": strconv.Itoa(httpStatus),
	})
}

// RecordPanic counts one recovered handler panic.
func RecordPanic() {
	count(PanicsTotalName, nil)
}

// RecordErrorByEndpoint counts one error response by endpoint.
func RecordErrorByEndpoint(endpoint string, errorCode string) {
	count(ErrorsByEndpointName, map[string]string{
		"endpoint":   endpoint,
		"error_code": errorCode,
	})
}
