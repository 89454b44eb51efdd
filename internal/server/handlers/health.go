package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/errors"

	"github.com/handlescout/handlescout/internal/metrics"
)

// HealthChecker is implemented by components that can report their own
// health (the state database registers itself through this).
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// HealthResponse is the aggregate /health payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProbeResponse is the liveness/readiness probe payload.
type ProbeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthManager aggregates registered component checks into probe results.
type HealthManager struct {
	checkers map[string]HealthChecker
	version  string
}

func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		checkers: make(map[string]HealthChecker),
		version:  version,
	}
}

// RegisterChecker adds a named component check. Not safe for concurrent use
// with probe handling; register everything before the server starts.
func (hm *HealthManager) RegisterChecker(name string, checker HealthChecker) {
	hm.checkers[name] = checker
}

func (hm *HealthManager) runChecks(ctx context.Context) map[string]string {
	results := make(map[string]string, len(hm.checkers))

	for name, checker := range hm.checkers {
		if ctx.Err() != nil {
			results[name] = "timeout"
			return results
		}
		start := time.Now()
		err := checker.CheckHealth(ctx)
		metrics.RecordHealthCheck(name, err == nil, time.Since(start))
		if err != nil {
			results[name] = "unhealthy"
		} else {
			results[name] = "healthy"
		}
	}

	return results
}

func overallStatus(checks map[string]string) string {
	status := "healthy"
	for _, result := range checks {
		switch result {
		case "unhealthy":
			return "unhealthy"
		case "degraded", "timeout":
			status = "degraded"
		}
	}
	return status
}

// probeSpec describes one probe endpoint's behavior.
type probeSpec struct {
	name      string
	timeout   time.Duration
	aggregate bool
	failMsg   string
}

var (
	aggregateProbe = probeSpec{name: "", timeout: 5 * time.Second, aggregate: true, failMsg: "aggregate health check failed"}
	livenessProbe  = probeSpec{name: "live", timeout: 2 * time.Second, failMsg: "liveness probe failed"}
	readinessProbe = probeSpec{name: "ready", timeout: 5 * time.Second, failMsg: "readiness probe failed"}
)

func (hm *HealthManager) serveProbe(w http.ResponseWriter, r *http.Request, spec probeSpec) {
	ctx, cancel := context.WithTimeout(r.Context(), spec.timeout)
	defer cancel()

	checks := hm.runChecks(ctx)
	status := overallStatus(checks)

	if status == "unhealthy" {
		envelope := errors.NewErrorEnvelope("SERVICE_UNAVAILABLE", spec.failMsg)
		respondWithError(w, r, enrichHealthEnvelope(envelope, spec.name, status, checks))
		return
	}

	var payload any
	if spec.aggregate {
		payload = HealthResponse{
			Status:    status,
			Version:   hm.version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		}
	} else {
		payload = ProbeResponse{Status: status, Timestamp: time.Now().UTC()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}

// HealthHandler serves the aggregate health report.
func (hm *HealthManager) HealthHandler(w http.ResponseWriter, r *http.Request) {
	hm.serveProbe(w, r, aggregateProbe)
}

// LivenessHandler reports whether the process is running at all.
func (hm *HealthManager) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	hm.serveProbe(w, r, livenessProbe)
}

// ReadinessHandler reports whether the process can serve traffic.
func (hm *HealthManager) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	hm.serveProbe(w, r, readinessProbe)
}

func enrichHealthEnvelope(envelope *errors.ErrorEnvelope, probe, status string, checks map[string]string) *errors.ErrorEnvelope {
	if envelope == nil {
		return nil
	}

	details := map[string]interface{}{"status": status}
	if len(checks) > 0 {
		details["checks"] = checks
	}
	if probe != "" {
		details["probe"] = probe
	}
	envelope = envelope.WithDetails(details)

	contextData := map[string]interface{}{"status": status}
	if probe != "" {
		contextData["probe"] = probe
	}
	var unhealthy []string
	for name, result := range checks {
		if result != "healthy" {
			unhealthy = append(unhealthy, name)
		}
	}
	if len(unhealthy) > 0 {
		contextData["unhealthy_checks"] = unhealthy
	}

	envelope, _ = envelope.WithContext(contextData)
	return envelope
}

var globalHealthManager *HealthManager

// InitHealthManager installs the process-wide health manager.
func InitHealthManager(version string) {
	globalHealthManager = NewHealthManager(version)
}

func GetHealthManager() *HealthManager {
	return globalHealthManager
}

func globalProbe(w http.ResponseWriter, r *http.Request, spec probeSpec) {
	if globalHealthManager != nil {
		globalHealthManager.serveProbe(w, r, spec)
		return
	}

	envelope := errors.NewErrorEnvelope("SERVICE_UNAVAILABLE", "health manager not initialized")
	probe := spec.name
	if spec.aggregate {
		probe = "aggregate"
	}
	respondWithError(w, r, enrichHealthEnvelope(envelope, probe, "unknown", nil))
}

// HealthHandler routes to the global manager.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	globalProbe(w, r, aggregateProbe)
}

// LivenessHandler routes to the global manager.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	globalProbe(w, r, livenessProbe)
}

// ReadinessHandler routes to the global manager.
func ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	globalProbe(w, r, readinessProbe)
}
