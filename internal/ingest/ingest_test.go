package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/campusbites/internal/adapters/provider"
	"github.com/okian/campusbites/internal/adapters/provider/yelp"
	"github.com/okian/campusbites/internal/adapters/repository"
	"github.com/okian/campusbites/internal/config"
	"github.com/okian/campusbites/internal/domain/catalog"
	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/normalize"
	"github.com/okian/campusbites/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr[T any](v T) *T { return &v }

func business(name string, price *string, distance *float64, lat, lon float64) yelp.Business {
	b := yelp.Business{Name: name, Rating: ptr(4.0), Price: price, Distance: distance, DisplayPhone: "(555) 010-0000"}
	b.Location.DisplayAddress = []string{"1 Main St", "Town, MI"}
	b.Coordinates.Latitude = &lat
	b.Coordinates.Longitude = &lon
	return b
}

type fakeListings struct {
	results map[string][]yelp.Business
	err     error
	calls   []string
}

func (f *fakeListings) Search(_ context.Context, location, term string) ([]yelp.Business, error) {
	f.calls = append(f.calls, location+"/"+term)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[location+"/"+term], nil
}

type fakeParks struct {
	calls  []model.Coordinates
	parks  []normalize.RawPark
	failAt int
}

func (f *fakeParks) NearbyParks(_ context.Context, at model.Coordinates) ([]normalize.RawPark, error) {
	f.calls = append(f.calls, at)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return nil, provider.ErrMalformed
	}
	return f.parks, nil
}

func fiveParks() []normalize.RawPark {
	out := make([]normalize.RawPark, 0, 5)
	for i := 1; i <= 5; i++ {
		out = append(out, normalize.RawPark{Name: fmt.Sprintf("park-%d", i), Types: []string{"park"}})
	}
	return out
}

func TestIngesterRun(t *testing.T) {
	ctx := context.Background()
	u, c := "University of Michigan", "Thai"

	Convey("Given one pair with three listings", t, func() {
		listings := &fakeListings{results: map[string][]yelp.Business{
			u + "/" + c: {
				business("A", ptr("$$"), ptr(800.0), 42.28, -83.74),
				business("B", nil, nil, 42.27, -83.73),
				business("C", ptr("$$$$"), ptr(6000.0), 42.26, -83.72),
			},
		}}
		parks := &fakeParks{parks: fiveParks()}
		in := New(listings, parks, WithUniversities(u), WithCuisines(c))

		Convey("When the run completes", func() {
			doc, stats, err := in.Run(ctx)
			So(err, ShouldBeNil)
			venues, err := doc.Venues(u, c)
			So(err, ShouldBeNil)

			Convey("Then listings keep provider order", func() {
				So(len(venues), ShouldEqual, 3)
				So(venues[0].Name, ShouldEqual, "A")
				So(venues[2].Name, ShouldEqual, "C")
			})

			Convey("And exactly one park lookup is made per listing", func() {
				So(len(parks.calls), ShouldEqual, 3)
				So(parks.calls[1], ShouldResemble, model.Coordinates{Lat: 42.27, Lon: -83.73})
			})

			Convey("And price and distance are normalized", func() {
				So(venues[0].Price, ShouldEqual, model.PriceLow)
				So(venues[0].Distance, ShouldEqual, model.DistanceNear)
				So(venues[1].Price, ShouldEqual, model.PriceUnknown)
				So(venues[1].Distance, ShouldEqual, model.DistanceUnknown)
				So(venues[2].Price, ShouldEqual, model.PriceHigher)
				So(venues[2].Distance, ShouldEqual, model.DistanceFaraway)
				So(venues[0].Address, ShouldEqual, "1 Main St, Town, MI")
			})

			Convey("And at most three parks are kept", func() {
				So(len(venues[0].NearbyParks), ShouldEqual, 3)
				So(venues[0].NearbyParks[2].Name, ShouldEqual, "park-3")
			})

			Convey("And cuisines outside the run are stored empty", func() {
				So(len(doc[u]), ShouldEqual, 6)
				So(doc[u]["Italian"], ShouldNotBeNil)
				So(doc[u]["Italian"], ShouldBeEmpty)
			})

			Convey("And the stats describe the run", func() {
				So(stats.RunID, ShouldNotBeEmpty)
				So(stats.Pairs, ShouldEqual, 1)
				So(stats.Venues, ShouldEqual, 3)
				So(stats.Parks, ShouldEqual, 9)
			})
		})

		Convey("When fewer parks per venue are configured", func() {
			in := New(listings, parks, WithUniversities(u), WithCuisines(c), WithParksPerVenue(1))
			doc, _, err := in.Run(ctx)
			So(err, ShouldBeNil)

			Convey("Then only that many are kept", func() {
				So(len(doc[u][c][0].NearbyParks), ShouldEqual, 1)
			})
		})

		Convey("When a park lookup fails midway", func() {
			parks.failAt = 2
			doc, _, err := in.Run(ctx)

			Convey("Then the run aborts without a document", func() {
				So(errors.Is(err, provider.ErrMalformed), ShouldBeTrue)
				So(doc, ShouldBeNil)
				So(len(parks.calls), ShouldEqual, 2)
			})
		})
	})

	Convey("Given the full catalog", t, func() {
		listings := &fakeListings{results: map[string][]yelp.Business{}}
		in := New(listings, &fakeParks{})

		Convey("When the run completes", func() {
			doc, stats, err := in.Run(ctx)
			So(err, ShouldBeNil)

			Convey("Then every pair is searched once in catalog order", func() {
				So(len(listings.calls), ShouldEqual, 48)
				So(listings.calls[0], ShouldEqual, "Central Michigan University/American")
				So(listings.calls[47], ShouldEqual, "Western Michigan University/Thai")
				So(stats.Pairs, ShouldEqual, 48)
			})

			Convey("And every catalog key exists even when empty", func() {
				for _, uu := range catalog.Universities() {
					for _, cc := range catalog.Cuisines() {
						venues, err := doc.Venues(uu, cc)
						So(err, ShouldBeNil)
						So(venues, ShouldNotBeNil)
					}
				}
			})
		})
	})

	Convey("Given a listing without coordinates", t, func() {
		b := business("X", nil, nil, 0, 0)
		b.Coordinates.Latitude = nil
		listings := &fakeListings{results: map[string][]yelp.Business{u + "/" + c: {b}}}
		parks := &fakeParks{}

		Convey("Then the run fails before any park lookup", func() {
			_, _, err := New(listings, parks, WithUniversities(u), WithCuisines(c)).Run(ctx)
			So(errors.Is(err, ErrMissingCoordinates), ShouldBeTrue)
			So(len(parks.calls), ShouldEqual, 0)
		})
	})

	Convey("Given a listing without a rating", t, func() {
		b := business("Y", nil, nil, 42.28, -83.74)
		b.Rating = nil
		listings := &fakeListings{results: map[string][]yelp.Business{u + "/" + c: {b}}}
		parks := &fakeParks{}

		Convey("Then the run fails instead of storing a zero rating", func() {
			doc, _, err := New(listings, parks, WithUniversities(u), WithCuisines(c)).Run(ctx)
			So(errors.Is(err, provider.ErrMalformed), ShouldBeTrue)
			So(doc, ShouldBeNil)
			So(len(parks.calls), ShouldEqual, 0)
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		Convey("Then the run stops", func() {
			_, _, err := New(&fakeListings{}, &fakeParks{}).Run(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestExecuteEndToEnd(t *testing.T) {
	ctx := context.Background()

	Convey("Given fake provider endpoints", t, func() {
		yelpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("term") != "Thai" {
				_, _ = w.Write([]byte(`{"businesses": []}`))
				return
			}
			_, _ = w.Write([]byte(`{"businesses": [
				{"name": "Siam", "rating": 4.5, "price": "$", "distance": 2000,
				 "display_phone": "", "location": {"display_address": ["Ann Arbor"]},
				 "coordinates": {"latitude": 42.28, "longitude": -83.74}}]}`))
		}))
		defer yelpSrv.Close()

		placesSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": "OK", "results": [
				{"name": "Island Park", "types": ["park"], "vicinity": "Ann Arbor",
				 "geometry": {"location": {"lat": 42.29, "lng": -83.74}}}]}`))
		}))
		defer placesSrv.Close()

		cfg := config.New()
		cfg.YelpAPIKey, cfg.PlacesAPIKey = "y", "p"
		cfg.YelpBaseURL, cfg.PlacesBaseURL = yelpSrv.URL, placesSrv.URL

		in, closer, err := FromConfig(ctx, cfg, logger.NewNop(), WithUniversities("University of Michigan"))
		So(err, ShouldBeNil)
		defer func() { _ = closer() }()

		store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "cache.json"))
		So(err, ShouldBeNil)

		Convey("When the run is executed and the file reloaded", func() {
			stats, err := Execute(ctx, in, store)
			So(err, ShouldBeNil)
			doc, err := store.Load(ctx)
			So(err, ShouldBeNil)

			Convey("Then the cache holds the normalized listing", func() {
				So(stats.Venues, ShouldEqual, 1)
				venues, err := doc.Venues("University of Michigan", "Thai")
				So(err, ShouldBeNil)
				So(venues[0].Price, ShouldEqual, model.PriceLower)
				So(venues[0].Distance, ShouldEqual, model.DistanceFar)
				So(venues[0].NearbyParks[0].Name, ShouldEqual, "Island Park")
				So(venues[0].NearbyParks[0].Rating, ShouldBeNil)
				So(venues[0].NearbyParks[0].DistanceMeters, ShouldBeGreaterThan, 1000)
			})
		})

		Convey("When the listing provider rejects the key", func() {
			bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer bad.Close()
			cfg.YelpBaseURL = bad.URL
			in, _, err := FromConfig(ctx, cfg, logger.NewNop())
			So(err, ShouldBeNil)

			_, err = Execute(ctx, in, store)

			Convey("Then nothing is written", func() {
				So(errors.Is(err, provider.ErrStatus), ShouldBeTrue)
				doc, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(len(doc), ShouldEqual, 0)
			})
		})
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Given the help text", t, func() {
		var b strings.Builder
		ShowHelp(&b)

		Convey("Then it documents the flags and keys", func() {
			So(b.String(), ShouldContainSubstring, "-out")
			So(b.String(), ShouldContainSubstring, "CAMPUSBITES_YELP_API_KEY")
		})
	})
}
