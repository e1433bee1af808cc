// Package ingest builds the cache document from the listing and places
// providers.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/campusbites/internal/adapters/provider"
	"github.com/okian/campusbites/internal/adapters/provider/places"
	"github.com/okian/campusbites/internal/adapters/provider/yelp"
	"github.com/okian/campusbites/internal/domain/catalog"
	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/normalize"
	"github.com/okian/campusbites/pkg/logger"
	"github.com/okian/campusbites/pkg/metrics"
)

// ErrMissingCoordinates reports a listing without a position to search
// parks around.
var ErrMissingCoordinates = errors.New("listing has no coordinates")

// Listings searches restaurants by location and term.
type Listings interface {
	Search(ctx context.Context, location, term string) ([]yelp.Business, error)
}

// Stats summarizes one run.
type Stats struct {
	RunID     string
	Pairs     int
	Venues    int
	Parks     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Ingester walks every (university, cuisine) pair sequentially. The first
// failure aborts the run.
type Ingester struct {
	listings      Listings
	parks         places.Searcher
	universities  []string
	cuisines      []string
	parksPerVenue int
	log           logger.Logger
}

// Option applies a configuration option to the Ingester.
type Option func(*Ingester)

// WithUniversities restricts the run to the given universities.
func WithUniversities(names ...string) Option {
	return func(in *Ingester) {
		if len(names) > 0 {
			in.universities = names
		}
	}
}

// WithCuisines restricts the run to the given cuisines.
func WithCuisines(names ...string) Option {
	return func(in *Ingester) {
		if len(names) > 0 {
			in.cuisines = names
		}
	}
}

// WithParksPerVenue caps the parks kept per venue.
func WithParksPerVenue(n int) Option {
	return func(in *Ingester) {
		if n >= 0 && n <= model.MaxNearbyParks {
			in.parksPerVenue = n
		}
	}
}

// WithLogger sets the ingester logger.
func WithLogger(l logger.Logger) Option {
	return func(in *Ingester) {
		if l != nil {
			in.log = l
		}
	}
}

// New returns an ingester over the full catalog.
func New(listings Listings, parks places.Searcher, opts ...Option) *Ingester {
	in := &Ingester{
		listings:      listings,
		parks:         parks,
		universities:  catalog.Universities(),
		cuisines:      catalog.Cuisines(),
		parksPerVenue: model.MaxNearbyParks,
		log:           logger.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run fetches and normalizes every pair and returns the assembled document.
// Exactly one proximity lookup is made per listing.
func (in *Ingester) Run(ctx context.Context) (model.Document, *Stats, error) {
	stats := &Stats{RunID: uuid.NewString(), StartTime: time.Now()}
	runField := logger.String("run_id", stats.RunID)

	in.log.Info(ctx, "starting ingestion",
		runField,
		logger.Int("universities", len(in.universities)),
		logger.Int("cuisines", len(in.cuisines)))

	doc := make(model.Document, len(in.universities))
	for _, u := range in.universities {
		// Catalog cuisines left out of a restricted run are stored empty so
		// the written document stays loadable.
		byCuisine := make(map[string][]model.Venue, len(in.cuisines))
		for _, c := range catalog.Cuisines() {
			byCuisine[c] = []model.Venue{}
		}
		for _, c := range in.cuisines {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
			venues, parks, err := in.pair(ctx, u, c)
			if err != nil {
				metrics.RecordErrorByComponent("ingest", "pair_failed")
				in.log.Error(ctx, "ingestion aborted", runField,
					logger.String("university", u), logger.String("cuisine", c), logger.Error(err))
				return nil, stats, fmt.Errorf("ingest %s/%s: %w", u, c, err)
			}
			byCuisine[c] = venues
			stats.Pairs++
			stats.Venues += len(venues)
			stats.Parks += parks
			in.log.Debug(ctx, "pair ingested", runField,
				logger.String("university", u), logger.String("cuisine", c), logger.Int("venues", len(venues)))
		}
		doc[u] = byCuisine
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	metrics.UpdateIngestRunDuration(stats.Duration)

	in.log.Info(ctx, "ingestion completed", runField,
		logger.Int("pairs", stats.Pairs),
		logger.Int("venues", stats.Venues),
		logger.Int("parks", stats.Parks),
		logger.String("duration", stats.Duration.String()))
	return doc, stats, nil
}

func (in *Ingester) pair(ctx context.Context, university, cuisine string) ([]model.Venue, int, error) {
	found, err := in.listings.Search(ctx, university, cuisine)
	if err != nil {
		return nil, 0, err
	}
	venues := make([]model.Venue, 0, len(found))
	parks := 0
	for _, b := range found {
		v, err := in.venue(ctx, b)
		if err != nil {
			return nil, 0, err
		}
		venues = append(venues, v)
		parks += len(v.NearbyParks)
		metrics.RecordIngestedVenue(len(v.NearbyParks))
	}
	return venues, parks, nil
}

func (in *Ingester) venue(ctx context.Context, b yelp.Business) (model.Venue, error) {
	if b.Coordinates.Latitude == nil || b.Coordinates.Longitude == nil {
		return model.Venue{}, fmt.Errorf("%w: %q", ErrMissingCoordinates, b.Name)
	}
	if b.Rating == nil {
		return model.Venue{}, fmt.Errorf("%w: listing %q has no rating", provider.ErrMalformed, b.Name)
	}
	at := model.Coordinates{Lat: *b.Coordinates.Latitude, Lon: *b.Coordinates.Longitude}

	raw, err := in.parks.NearbyParks(ctx, at)
	if err != nil {
		return model.Venue{}, err
	}
	parks, err := normalize.Parks(at, raw)
	if err != nil {
		return model.Venue{}, err
	}
	if len(parks) > in.parksPerVenue {
		parks = parks[:in.parksPerVenue]
	}

	return model.Venue{
		Name:        b.Name,
		Rating:      *b.Rating,
		Price:       normalize.Price(b.Price),
		Distance:    normalize.Distance(b.Distance),
		Address:     b.Address(),
		Phone:       b.DisplayPhone,
		Coordinates: at,
		NearbyParks: parks,
	}, nil
}
