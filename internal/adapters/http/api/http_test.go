package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/campusbites/internal/adapters/http/api"
	service "github.com/okian/campusbites/internal/app"
	"github.com/okian/campusbites/internal/domain/catalog"
	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/types"
	"github.com/okian/campusbites/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	um   = "University of Michigan"
	thai = "Thai"
)

func testDocument() model.Document {
	byCuisine := make(map[string][]model.Venue)
	for _, c := range catalog.Cuisines() {
		byCuisine[c] = []model.Venue{}
	}
	byCuisine[thai] = []model.Venue{
		{Name: "Siam", Rating: 4.0, Price: model.PriceLow, Distance: model.DistanceNear},
		{Name: "Lotus", Rating: 4.0, Price: model.PriceHigher, Distance: model.DistanceFar},
		{Name: "Basil", Rating: 3.5, Distance: model.DistanceFaraway},
	}
	return model.Document{um: byCuisine}
}

func newMux(doc model.Document) *http.ServeMux {
	svc := service.New(service.WithDocument(doc), service.WithLogger(logger.NewNop()))
	So(svc.Start(context.Background()), ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(testDocument())

		Convey("Then the health endpoint serves metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "campusbites_")
		})

		Convey("And the stats endpoint reports the document", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["venues"], ShouldEqual, 3.0)
			So(stats["started"], ShouldEqual, true)
			So(stats["universities"], ShouldNotBeNil)
			So(stats["cuisines"], ShouldNotBeNil)
			So(stats["loadedAt"], ShouldNotBeEmpty)
		})

		Convey("And the dashboard serves HTML with both charts", func() {
			w := get(mux, "/dashboard")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, `id="rating-chart"`)
			So(w.Body.String(), ShouldContainSubstring, `id="mean-chart"`)
			So(w.Body.String(), ShouldContainSubstring, `/api/summary/rating`)
			So(w.Body.String(), ShouldContainSubstring, `/api/summary/mean`)
		})

		Convey("And unknown paths are not found", func() {
			w := get(mux, "/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And every API response carries a request id", func() {
			w := get(mux, "/api/catalog")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("And a caller's request id is echoed back", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/catalog", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "req-42")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "req-42")
		})
	})

	Convey("Given a nil mux", t, func() {
		server := api.NewServer(&failingDeps{}, &failingDeps{})

		Convey("Then registering panics", func() {
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestVenueHandler_HandleSorted(t *testing.T) {
	Convey("Given a pair with three venues", t, func() {
		mux := newMux(testDocument())

		Convey("When sorting by rating without a direction", func() {
			w := get(mux, "/api/venues/sorted?university=University+of+Michigan&cuisine=Thai&sort=rating")

			Convey("Then rows are ascending and ties keep source order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Direction string             `json:"dir"`
					Rows      []types.NameMetric `json:"rows"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Direction, ShouldEqual, "ascending")
				So(body.Rows, ShouldResemble, []types.NameMetric{
					{Name: "Basil", Metric: 3.5},
					{Name: "Siam", Metric: 4.0},
					{Name: "Lotus", Metric: 4.0},
				})
			})
		})

		Convey("When sorting by price descending", func() {
			w := get(mux, "/api/venues/sorted?university=University+of+Michigan&cuisine=Thai&sort=price&dir=descending")

			Convey("Then the unknown price comes first with metric 5", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Rows []types.NameMetric `json:"rows"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Rows[0], ShouldResemble, types.NameMetric{Name: "Basil", Metric: 5})
				So(body.Rows[2], ShouldResemble, types.NameMetric{Name: "Siam", Metric: 2})
			})
		})

		Convey("When the sort key is invalid", func() {
			w := get(mux, "/api/venues/sorted?university=University+of+Michigan&cuisine=Thai&sort=name")

			Convey("Then a bad request is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the direction is invalid", func() {
			w := get(mux, "/api/venues/sorted?university=University+of+Michigan&cuisine=Thai&sort=rating&dir=up")

			Convey("Then a bad request is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a parameter is missing", func() {
			w := get(mux, "/api/venues/sorted?university=University+of+Michigan&sort=rating")

			Convey("Then the message names it", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, `"cuisine"`)
			})
		})

		Convey("When the university is unknown", func() {
			w := get(mux, "/api/venues/sorted?university=Nowhere&cuisine=Thai&sort=rating")

			Convey("Then not found is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the method is not GET", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/venues/sorted", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then not found is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestVenueHandler_HandleList(t *testing.T) {
	Convey("Given a pair with three venues", t, func() {
		mux := newMux(testDocument())

		Convey("When listing the pair", func() {
			w := get(mux, "/api/venues?university=University+of+Michigan&cuisine=Thai")

			Convey("Then full records come back in stored order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var venues []model.Venue
				So(json.Unmarshal(w.Body.Bytes(), &venues), ShouldBeNil)
				So(len(venues), ShouldEqual, 3)
				So(venues[0].Name, ShouldEqual, "Siam")
				So(venues[2].Price, ShouldEqual, model.PriceUnknown)
			})
		})

		Convey("When the cuisine is unknown", func() {
			w := get(mux, "/api/venues?university=University+of+Michigan&cuisine=French")

			Convey("Then not found is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSummaryHandler(t *testing.T) {
	Convey("Given a pair with ratings 4.0, 4.0 and 3.5", t, func() {
		mux := newMux(testDocument())

		Convey("When asking for the rating summary", func() {
			w := get(mux, "/api/summary/rating")

			Convey("Then every cuisine is listed and empty ones are null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rows []types.CuisineRating
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 6)
				So(rows[0].Mean, ShouldBeNil)
				So(*rows[5].Mean, ShouldEqual, 3.833)
				So(*rows[5].Median, ShouldEqual, 4.0)
			})
		})

		Convey("When asking for the mean summary", func() {
			w := get(mux, "/api/summary/mean")

			Convey("Then venues without a price are left out", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var out types.MeanSummary
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out.PriceCount, ShouldEqual, 2)
				So(*out.Price, ShouldEqual, 2.5)
				So(out.DistanceCount, ShouldEqual, 3)
				So(*out.Distance, ShouldEqual, 2.0)
			})
		})
	})

	Convey("Given no document", t, func() {
		mux := newMux(nil)

		Convey("Then both summaries answer no data", func() {
			for _, target := range []string{"/api/summary/rating", "/api/summary/mean"} {
				w := get(mux, target)
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "no_data")
			}
		})

		Convey("And the catalog is empty", func() {
			w := get(mux, "/api/catalog")
			So(w.Code, ShouldEqual, http.StatusOK)
			var cat types.Catalog
			So(json.Unmarshal(w.Body.Bytes(), &cat), ShouldBeNil)
			So(cat.Universities, ShouldBeEmpty)
			So(cat.Universities, ShouldNotBeNil)
		})
	})
}

func TestBucketHandler(t *testing.T) {
	Convey("Given a pair with three venues", t, func() {
		mux := newMux(testDocument())

		Convey("When listing a price level", func() {
			w := get(mux, "/api/buckets/price?university=University+of+Michigan&cuisine=Thai&level=higher")

			Convey("Then names and count agree", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var out types.BucketListing
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out.Names, ShouldResemble, []string{"Lotus"})
				So(out.Count, ShouldEqual, 1)
			})
		})

		Convey("When a distance level is empty", func() {
			w := get(mux, "/api/buckets/distance?university=University+of+Michigan&cuisine=American&level=near")

			Convey("Then an empty list is encoded, not null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"names":[]`)
			})
		})

		Convey("When the level is invalid", func() {
			w := get(mux, "/api/buckets/distance?university=University+of+Michigan&cuisine=Thai&level=close")

			Convey("Then a bad request is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the level is missing", func() {
			w := get(mux, "/api/buckets/price?university=University+of+Michigan&cuisine=Thai")

			Convey("Then a bad request is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestServer_InternalError(t *testing.T) {
	Convey("Given dependencies that fail unexpectedly", t, func() {
		deps := &failingDeps{}
		mux := http.NewServeMux()
		api.NewServer(deps, deps).Register(context.Background(), mux)

		Convey("Then the error is reported as internal", func() {
			w := get(mux, "/api/summary/mean")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w)["code"], ShouldEqual, "internal_error")
		})
	})
}

var errBoom = errors.New("boom")

type failingDeps struct{}

func (f *failingDeps) Sort(context.Context, string, string, string, string) ([]types.NameMetric, error) {
	return nil, errBoom
}

func (f *failingDeps) Venues(context.Context, string, string) ([]model.Venue, error) {
	return nil, errBoom
}

func (f *failingDeps) RatingSummary(context.Context) ([]types.CuisineRating, error) {
	return nil, errBoom
}

func (f *failingDeps) MeanSummary(context.Context) (types.MeanSummary, error) {
	return types.MeanSummary{}, errBoom
}

func (f *failingDeps) PriceBucket(context.Context, string, string, string) (types.BucketListing, error) {
	return types.BucketListing{}, errBoom
}

func (f *failingDeps) DistanceBucket(context.Context, string, string, string) (types.BucketListing, error) {
	return types.BucketListing{}, errBoom
}

func (f *failingDeps) Catalog(context.Context) types.Catalog { return types.Catalog{} }

func (f *failingDeps) GetStats() map[string]interface{} { return map[string]interface{}{} }
