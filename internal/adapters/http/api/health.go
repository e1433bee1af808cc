package api

import (
	"net/http"

	"github.com/okian/campusbites/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler answers liveness checks with a scrape of the metrics
// registry.
type HealthHandler struct{}

// NewHealthHandler returns the /healthz handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth serves GET /healthz with the campusbites registry in the
// Prometheus text format.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
