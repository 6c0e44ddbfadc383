package httpx

import (
	"net/http"
	"time"

	"github.com/gamestore/gamestore-web/internal/observability/metrics"
)

// Metrics returns a middleware that records request counts and latency per route pattern.
// It must wrap the router directly so the mux-assigned r.Pattern is visible after dispatch.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)
			m.ObserveHTTPRequest(r.Pattern, ww.Status(), time.Since(start))
		})
	}
}
