package api

import (
	"context"
	"net/http"

	"github.com/okian/campusbites/internal/domain/types"
)

// CatalogDependencies defines the catalog lookup.
type CatalogDependencies interface {
	Catalog(ctx context.Context) types.Catalog
}

// CatalogHandler handles catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleCatalog handles GET /api/catalog requests. The site and the
// dashboard use it to fill their selectors.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Catalog(r.Context()))
}
