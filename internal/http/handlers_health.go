package httpx

import (
	"io"
	"net/http"

	"github.com/gamestore/gamestore-web/internal/ports"
	"github.com/gamestore/gamestore-web/internal/service"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for liveness checks. It never calls the backend.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// HealthHandlers proxies the backend health endpoint.
type HealthHandlers struct {
	Svc      *service.StorefrontService
	Backends ports.BackendFactory
}

// APIHealth reports ok (200) for a healthy backend and degraded (503) when it is
// unreachable or failing.
func (h *HealthHandlers) APIHealth(w http.ResponseWriter, r *http.Request) {
	result := h.Svc.Health(r.Context(), h.Backends.New())
	WriteJSON(w, result.StatusCode, result.Report)
}
