package api

import (
	"net/http"
)

// StatsProvider reports the shape of the loaded cache document.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the cache document counters.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler returns the /stats handler backed by the presentation
// service.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats serves GET /stats: university, cuisine and venue counts plus
// the time the cache file was last loaded.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
