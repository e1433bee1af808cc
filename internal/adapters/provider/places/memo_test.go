package places

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

type countingSearcher struct {
	calls int
	parks []normalize.RawPark
	err   error
}

func (c *countingSearcher) NearbyParks(context.Context, model.Coordinates) ([]normalize.RawPark, error) {
	c.calls++
	return c.parks, c.err
}

func TestMemo(t *testing.T) {
	ctx := context.Background()
	at := model.Coordinates{Lat: 42.28, Lon: -83.74}
	rating := 4.2

	Convey("Given a memo backed by redis", t, func() {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()

		inner := &countingSearcher{parks: []normalize.RawPark{{Name: "Island Park", Rating: &rating, Types: []string{"park"}}}}
		memo := NewMemo(inner, rdb, WithTTL(time.Hour), WithScope(1500, "park"))

		Convey("When the same position is looked up twice", func() {
			first, err := memo.NearbyParks(ctx, at)
			So(err, ShouldBeNil)
			second, err := memo.NearbyParks(ctx, at)
			So(err, ShouldBeNil)

			Convey("Then the provider is called once and answers match", func() {
				So(inner.calls, ShouldEqual, 1)
				So(second, ShouldResemble, first)
			})

			Convey("And the entry expires after the ttl", func() {
				So(mr.TTL(memo.Key(at)), ShouldEqual, time.Hour)
			})
		})

		Convey("When a different position is looked up", func() {
			_, _ = memo.NearbyParks(ctx, at)
			_, _ = memo.NearbyParks(ctx, model.Coordinates{Lat: 42.30, Lon: -83.74})

			Convey("Then both go to the provider", func() {
				So(inner.calls, ShouldEqual, 2)
			})
		})

		Convey("When the provider fails", func() {
			inner.err = errors.New("boom")
			_, err := memo.NearbyParks(ctx, at)

			Convey("Then the error is returned and nothing is stored", func() {
				So(err, ShouldNotBeNil)
				So(mr.Exists(memo.Key(at)), ShouldBeFalse)
			})
		})

		Convey("When redis is down", func() {
			mr.Close()
			parks, err := memo.NearbyParks(ctx, at)

			Convey("Then the memo is bypassed", func() {
				So(err, ShouldBeNil)
				So(len(parks), ShouldEqual, 1)
				So(inner.calls, ShouldEqual, 1)
			})
		})
	})

	Convey("Given memos with different scopes", t, func() {
		a := NewMemo(nil, nil, WithScope(1500, "park"))
		b := NewMemo(nil, nil, WithScope(500, "park"))

		Convey("Then keys differ for the same position", func() {
			So(a.Key(at), ShouldNotEqual, b.Key(at))
			So(a.Key(at), ShouldStartWith, "campusbites:places:v1:")
		})
	})
}
