package api

import (
	"context"
	"net/http"

	"github.com/okian/campusbites/internal/domain/types"
)

// BucketDependencies defines the bucket listing operations.
type BucketDependencies interface {
	PriceBucket(ctx context.Context, university, cuisine, level string) (types.BucketListing, error)
	DistanceBucket(ctx context.Context, university, cuisine, level string) (types.BucketListing, error)
}

type bucketFunc func(ctx context.Context, university, cuisine, level string) (types.BucketListing, error)

// BucketHandler handles bucket requests.
type BucketHandler struct {
	deps BucketDependencies
}

// NewBucketHandler creates a new bucket handler.
func NewBucketHandler(deps BucketDependencies) *BucketHandler {
	return &BucketHandler{deps: deps}
}

// HandlePrice handles GET /api/buckets/price?university=&cuisine=&level= requests.
func (h *BucketHandler) HandlePrice(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.deps.PriceBucket)
}

// HandleDistance handles GET /api/buckets/distance?university=&cuisine=&level= requests.
func (h *BucketHandler) HandleDistance(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.deps.DistanceBucket)
}

func (h *BucketHandler) serve(w http.ResponseWriter, r *http.Request, fn bucketFunc) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params, err := requireQuery(r, "university", "cuisine", "level")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	out, err := fn(r.Context(), params[0], params[1], params[2])
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
