// Package api serves the campus dining JSON endpoints, the metrics
// exposition and the summary dashboard.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	VenueDependencies
	SummaryDependencies
	BucketDependencies
	CatalogDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	venueHandler     *VenueHandler
	summaryHandler   *SummaryHandler
	bucketHandler    *BucketHandler
	catalogHandler   *CatalogHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		venueHandler:     NewVenueHandler(deps),
		summaryHandler:   NewSummaryHandler(deps),
		bucketHandler:    NewBucketHandler(deps),
		catalogHandler:   NewCatalogHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/catalog", MetricsMiddleware(s.catalogHandler.HandleCatalog, "catalog"))
	mux.HandleFunc("/api/venues", MetricsMiddleware(s.venueHandler.HandleList, "venues"))
	mux.HandleFunc("/api/venues/sorted", MetricsMiddleware(s.venueHandler.HandleSorted, "sort"))
	mux.HandleFunc("/api/summary/rating", MetricsMiddleware(s.summaryHandler.HandleRating, "rating_summary"))
	mux.HandleFunc("/api/summary/mean", MetricsMiddleware(s.summaryHandler.HandleMean, "mean_summary"))
	mux.HandleFunc("/api/buckets/price", MetricsMiddleware(s.bucketHandler.HandlePrice, "price_bucket"))
	mux.HandleFunc("/api/buckets/distance", MetricsMiddleware(s.bucketHandler.HandleDistance, "distance_bucket"))
}

// sortedResponse is the body of GET /api/venues/sorted.
type sortedResponse struct {
	University string             `json:"university"`
	Cuisine    string             `json:"cuisine"`
	SortBy     string             `json:"sort"`
	Direction  string             `json:"dir"`
	Rows       []types.NameMetric `json:"rows"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeQueryError translates a query error into its HTTP status and code.
func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, model.ErrNoData):
		writeError(w, http.StatusNotFound, "no_data", err)
	case isBadRequest(err):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
