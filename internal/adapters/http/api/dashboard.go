package api

import (
	"net/http"
)

type dashboardHandler struct{}

func newDashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard serves GET /dashboard. The page plots mean against median
// rating per cuisine from /api/summary/rating and the mean price and
// distance levels from /api/summary/mean.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, dashboardFS, "dashboard.html")
}
