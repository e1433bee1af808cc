// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/campusbites/internal/adapters/repository"
	"github.com/okian/campusbites/internal/domain/bucket"
	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/ranking"
	"github.com/okian/campusbites/internal/domain/stats"
	"github.com/okian/campusbites/internal/domain/types"
	"github.com/okian/campusbites/pkg/logger"
	"github.com/okian/campusbites/pkg/metrics"
)

// ErrInvalidLevel reports an unknown bucket level.
var ErrInvalidLevel = bucket.ErrInvalidLevel

// Service answers presentation queries from the loaded cache document.
type Service struct {
	mu sync.RWMutex

	loader   repository.Loader
	snapshot *repository.Snapshot

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader sets where Start reads the document from.
func WithLoader(l repository.Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithDocument serves doc directly, without a loader.
func WithDocument(doc model.Document) Option {
	return func(s *Service) {
		s.snapshot = repository.NewSnapshot(doc)
	}
}

// New constructs a Service. Until Start loads a document it serves an
// empty one.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.snapshot == nil {
		s.snapshot = repository.NewSnapshot(nil)
	}
	return s
}

// Start loads the document once. A malformed document is returned as an
// error and the service stays stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.loader != nil {
		if err := s.snapshot.Reload(ctx, s.loader); err != nil {
			s.logger.Error(ctx, "failed to load cache document", logger.Error(err))
			return fmt.Errorf("load cache document: %w", err)
		}
	}

	doc := s.snapshot.Document()
	s.started = true
	s.logger.Info(ctx, "campusbites service started",
		logger.Int("universities", len(doc)),
		logger.Int("venues", doc.VenueCount()),
	)
	return nil
}

// Stop marks the service stopped. The document stays readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "campusbites service stopped")
}

func (s *Service) document() model.Document {
	return s.snapshot.Document()
}

// observe records latency and outcome of one query.
func observe(op string, start time.Time, err error) {
	if err == nil {
		metrics.RecordQuery(op, float64(time.Since(start).Microseconds())/1000)
		return
	}
	kind := "internal"
	switch {
	case errors.Is(err, model.ErrNotFound):
		kind = "not_found"
	case errors.Is(err, model.ErrNoData):
		kind = "no_data"
	case errors.Is(err, ranking.ErrInvalidKey), errors.Is(err, ranking.ErrInvalidDirection), errors.Is(err, ErrInvalidLevel):
		kind = "bad_request"
	}
	metrics.RecordQueryError(op, kind)
}

// Sort returns the venues of one pair as (name, metric) rows ordered by
// sortBy (rating, price or distance) and direction (ascending or
// descending; empty means ascending).
func (s *Service) Sort(ctx context.Context, university, cuisine, sortBy, direction string) (rows []types.NameMetric, err error) {
	defer func(start time.Time) { observe("sort", start, err) }(time.Now())

	key, err := ranking.ParseKey(sortBy)
	if err != nil {
		return nil, err
	}
	dir, err := ranking.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	venues, err := s.document().Venues(university, cuisine)
	if err != nil {
		return nil, err
	}
	return ranking.Sort(venues, key, dir)
}

// RatingSummary returns mean and median rating per catalog cuisine.
func (s *Service) RatingSummary(ctx context.Context) (rows []types.CuisineRating, err error) {
	defer func(start time.Time) { observe("rating_summary", start, err) }(time.Now())
	return stats.RatingSummary(s.document())
}

// MeanSummary returns the global mean price and distance levels.
func (s *Service) MeanSummary(ctx context.Context) (out types.MeanSummary, err error) {
	defer func(start time.Time) { observe("mean_summary", start, err) }(time.Now())
	return stats.MeanSummary(s.document())
}

// PriceBucket returns the names of one pair at a price level.
func (s *Service) PriceBucket(ctx context.Context, university, cuisine, level string) (out types.BucketListing, err error) {
	defer func(start time.Time) { observe("price_bucket", start, err) }(time.Now())

	lvl, err := model.ParsePriceLevel(level)
	if err != nil {
		return types.BucketListing{}, fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	venues, err := s.document().Venues(university, cuisine)
	if err != nil {
		return types.BucketListing{}, err
	}
	return listing(university, cuisine, lvl.String(), bucket.PriceNames(venues, lvl)), nil
}

// DistanceBucket returns the names of one pair at a distance level.
func (s *Service) DistanceBucket(ctx context.Context, university, cuisine, level string) (out types.BucketListing, err error) {
	defer func(start time.Time) { observe("distance_bucket", start, err) }(time.Now())

	lvl, err := model.ParseDistanceLevel(level)
	if err != nil {
		return types.BucketListing{}, fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	venues, err := s.document().Venues(university, cuisine)
	if err != nil {
		return types.BucketListing{}, err
	}
	return listing(university, cuisine, lvl.String(), bucket.DistanceNames(venues, lvl)), nil
}

func listing(university, cuisine, level string, names []string) types.BucketListing {
	if names == nil {
		names = []string{}
	}
	return types.BucketListing{
		University: university,
		Cuisine:    cuisine,
		Level:      level,
		Names:      names,
		Count:      len(names),
	}
}

// Catalog lists the universities and cuisines present in the document,
// catalog order first, and the levels a bucket query accepts. Both lists
// are empty when no document was loaded.
func (s *Service) Catalog(ctx context.Context) types.Catalog {
	doc := s.document()
	out := types.Catalog{
		Universities:   doc.Universities(),
		Cuisines:       doc.Cuisines(),
		PriceLevels:    make([]string, 0, len(model.PriceLevels)),
		DistanceLevels: make([]string, 0, len(model.DistanceLevels)),
	}
	for _, p := range model.PriceLevels {
		out.PriceLevels = append(out.PriceLevels, p.String())
	}
	for _, d := range model.DistanceLevels {
		out.DistanceLevels = append(out.DistanceLevels, d.String())
	}
	return out
}

// Venues returns the full records of one pair in stored order.
func (s *Service) Venues(ctx context.Context, university, cuisine string) (out []model.Venue, err error) {
	defer func(start time.Time) { observe("venues", start, err) }(time.Now())
	return s.document().Venues(university, cuisine)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.document()
	return map[string]interface{}{
		"started":      s.started,
		"universities": len(doc),
		"cuisines":     len(doc.Cuisines()),
		"venues":       doc.VenueCount(),
		"loadedAt":     s.snapshot.LoadedAt().UTC().Format(time.RFC3339),
	}
}
