package api

import (
	"context"
	"net/http"

	"github.com/okian/campusbites/internal/domain/types"
)

// SummaryDependencies defines the aggregate operations.
type SummaryDependencies interface {
	RatingSummary(ctx context.Context) ([]types.CuisineRating, error)
	MeanSummary(ctx context.Context) (types.MeanSummary, error)
}

// SummaryHandler handles summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleRating handles GET /api/summary/rating requests.
func (h *SummaryHandler) HandleRating(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows, err := h.deps.RatingSummary(r.Context())
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleMean handles GET /api/summary/mean requests.
func (h *SummaryHandler) HandleMean(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	out, err := h.deps.MeanSummary(r.Context())
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
