// Package httptransport composes the domain handlers into one HTTP surface.
// Business logic lives in the domain services; this layer only mounts routes
// and the operational endpoints.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteRegistrar is implemented by every domain handler package.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// NewRouter mounts the domain handlers plus the health and metrics
// endpoints.
func NewRouter(handlers ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
