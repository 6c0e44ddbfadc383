//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "encoding/json"

// Health status values reported by GET /api/health.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"

	BackendUnreachable = "unreachable"
)

// HealthReport is the JSON document served by the health proxy.
// Backend carries the backend's own JSON when it returned some, its status code
// when the body was not JSON, or the string "unreachable".
type HealthReport struct {
	Status  string `json:"status"`
	Backend any    `json:"backend"`
}

// NewHealthReport builds the report for a backend that answered. A 5xx answer
// means the backend is up but failing, which the proxy reports as degraded.
func NewHealthReport(statusCode int, body []byte) HealthReport {
	status := HealthStatusOK
	if statusCode >= 500 {
		status = HealthStatusDegraded
	}
	var payload any
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		return HealthReport{Status: status, Backend: payload}
	}
	return HealthReport{Status: status, Backend: map[string]int{"status_code": statusCode}}
}

// Healthy reports whether the front end should present itself as serving.
func (h HealthReport) Healthy() bool { return h.Status == HealthStatusOK }

// UnreachableHealthReport builds the report used when the backend cannot be reached.
func UnreachableHealthReport() HealthReport {
	return HealthReport{Status: HealthStatusDegraded, Backend: BackendUnreachable}
}
