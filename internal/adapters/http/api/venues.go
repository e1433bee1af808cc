package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/types"
)

// VenueDependencies defines the venue listing operations.
type VenueDependencies interface {
	Sort(ctx context.Context, university, cuisine, sortBy, direction string) ([]types.NameMetric, error)
	Venues(ctx context.Context, university, cuisine string) ([]model.Venue, error)
}

// VenueHandler handles venue listing requests.
type VenueHandler struct {
	deps VenueDependencies
}

// NewVenueHandler creates a new venue handler.
func NewVenueHandler(deps VenueDependencies) *VenueHandler {
	return &VenueHandler{deps: deps}
}

// HandleSorted handles GET /api/venues/sorted?university=&cuisine=&sort=&dir=
// requests. dir defaults to ascending.
func (h *VenueHandler) HandleSorted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params, err := requireQuery(r, "university", "cuisine", "sort")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	dir := strings.TrimSpace(r.URL.Query().Get("dir"))
	rows, err := h.deps.Sort(r.Context(), params[0], params[1], params[2], dir)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if dir == "" {
		dir = "ascending"
	}
	writeJSON(w, http.StatusOK, sortedResponse{
		University: params[0],
		Cuisine:    params[1],
		SortBy:     strings.ToLower(params[2]),
		Direction:  strings.ToLower(dir),
		Rows:       rows,
	})
}

// HandleList handles GET /api/venues?university=&cuisine= requests.
func (h *VenueHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params, err := requireQuery(r, "university", "cuisine")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	venues, err := h.deps.Venues(r.Context(), params[0], params[1])
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, venues)
}
