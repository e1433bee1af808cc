package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})

			Convey("And collectors are registered under the service namespace", func() {
				manager.cacheVenues.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "campusbites_cache_venues" {
						found = true
						So(f.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 3)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty values are given", func() {
			manager := NewManager(
				WithRefreshInterval(0),
				WithPrometheusRegistry(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.Enabled(), ShouldBeTrue)
			})
		})

		Convey("When the global refresh interval is changed", func() {
			defer SetRefreshInterval(defaultRefreshInterval)
			SetRefreshInterval(250 * time.Millisecond)
			So(RefreshInterval(), ShouldEqual, 250*time.Millisecond)

			Convey("Then a non-positive interval is ignored", func() {
				SetRefreshInterval(-time.Second)
				So(RefreshInterval(), ShouldEqual, 250*time.Millisecond)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording queries", func() {
			before := testutil.ToFloat64(globalManager.queriesServed.WithLabelValues("sort"))
			RecordQuery("sort", 1.5)
			RecordQuery("sort", 2.5)

			Convey("Then the counter moves by the number of queries", func() {
				So(testutil.ToFloat64(globalManager.queriesServed.WithLabelValues("sort"))-before, ShouldEqual, 2)
			})
		})

		Convey("When recording a cache load", func() {
			RecordCacheLoad(12, 8, 1440)

			Convey("Then the gauges reflect the document", func() {
				So(testutil.ToFloat64(globalManager.cacheVenues), ShouldEqual, 1440)
				So(testutil.ToFloat64(globalManager.cacheUniversities), ShouldEqual, 8)
				So(testutil.ToFloat64(globalManager.cacheLastLoadUnix), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When recording ingestion", func() {
			venues := testutil.ToFloat64(globalManager.ingestedVenues)
			parks := testutil.ToFloat64(globalManager.ingestedParks)
			RecordIngestedVenue(3)
			RecordIngestedVenue(0)
			RecordProviderRequest("yelp", "ok", 120)
			UpdateIngestRunDuration(90 * time.Second)

			Convey("Then venues and parks are counted", func() {
				So(testutil.ToFloat64(globalManager.ingestedVenues)-venues, ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.ingestedParks)-parks, ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.ingestRunDuration), ShouldEqual, 90)
			})
		})

		Convey("When recording is disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			before := testutil.ToFloat64(globalManager.memoHits)
			RecordMemoHit()

			Convey("Then domain counters do not move", func() {
				So(testutil.ToFloat64(globalManager.memoHits), ShouldEqual, before)
			})
		})

		Convey("When recording errors and system values", func() {
			So(func() {
				RecordQueryError("rating_summary", "no_data")
				RecordCacheLoadError()
				RecordMemoMiss()
				RecordMemoError()
				RecordErrorByComponent("repository", "cache_format")
				RecordErrorByType("not_found", "low")
				RecordErrorByEndpoint("/api/summary/rating", "GET", "no_data")
				RecordHTTPRequest("/healthz", "GET", "200")
				RecordHTTPRequestDuration("/healthz", "GET", "200", 0.3)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsExposition(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordHTTPRequest("/api/catalog", "GET", "200")

		Convey("Then it exposes campusbites metrics", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "campusbites_http_requests_total")
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics recorded concurrently", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordQuery("price_bucket", float64(j))
					RecordHTTPRequest("/test", "GET", "200")
					RecordMemoMiss()
				}
			}()
		}
		wg.Wait()

		Convey("Then no panic occurred", func() {
			So(testutil.ToFloat64(globalManager.queriesServed.WithLabelValues("price_bucket")), ShouldBeGreaterThanOrEqualTo, 1000)
		})
	})
}
