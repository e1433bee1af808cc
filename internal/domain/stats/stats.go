// Package stats computes the cross-cuisine aggregates shown on the charts.
package stats

import (
	"math"
	"sort"

	"github.com/okian/campusbites/internal/domain/catalog"
	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/types"
)

// ratingPlaces is the number of decimals kept on mean ratings.
const ratingPlaces = 3

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, &model.NoDataError{Op: "mean"}
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), nil
}

// Median returns the median of xs; for an even count it is the mean of the
// two middle values. xs is not modified.
func Median(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, &model.NoDataError{Op: "median"}
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid], nil
	}
	return (s[mid-1] + s[mid]) / 2, nil
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// PriceLevel maps a price bucket onto the 3-level scale used by the global
// mean: lower=1, low=2, high and higher=3. ok is false for unknown.
func PriceLevel(p model.PriceBucket) (level int, ok bool) {
	switch p {
	case model.PriceLower:
		return 1, true
	case model.PriceLow:
		return 2, true
	case model.PriceHigh, model.PriceHigher:
		return 3, true
	}
	return 0, false
}

// DistanceLevel maps a distance bucket: near=1, far=2, faraway=3. ok is
// false for unknown.
func DistanceLevel(d model.DistanceBucket) (level int, ok bool) {
	if !d.Known() {
		return 0, false
	}
	return int(d), true
}

// RatingSummary returns, for each catalog cuisine in order, the mean
// (rounded to 3 decimals) and median rating over every university's venues
// of that cuisine. A cuisine without venues has nil mean and median. The
// whole call fails with a NoDataError only when no cuisine has venues.
func RatingSummary(doc model.Document) ([]types.CuisineRating, error) {
	cuisines := catalog.Cuisines()
	ratings := make(map[string][]float64, len(cuisines))
	doc.Each(func(_, cuisine string, v model.Venue) {
		ratings[cuisine] = append(ratings[cuisine], v.Rating)
	})

	out := make([]types.CuisineRating, 0, len(cuisines))
	total := 0
	for _, c := range cuisines {
		xs := ratings[c]
		row := types.CuisineRating{Cuisine: c, Count: len(xs)}
		if mean, err := Mean(xs); err == nil {
			m := Round(mean, ratingPlaces)
			row.Mean = &m
		}
		if median, err := Median(xs); err == nil {
			row.Median = &median
		}
		total += len(xs)
		out = append(out, row)
	}
	if total == 0 {
		return nil, &model.NoDataError{Op: "rating summary"}
	}
	return out, nil
}

// MeanSummary returns the mean price level and mean distance level over
// all venues of the document.
//
// Venues whose price or distance is unknown are left out of the respective
// mean. Sorting keeps the same venues with a sentinel level instead; see
// ranking.Sort. Whether that asymmetry was ever intended is an open
// question; do not unify the two without deciding it.
func MeanSummary(doc model.Document) (types.MeanSummary, error) {
	var prices, distances []float64
	doc.Each(func(_, _ string, v model.Venue) {
		if lvl, ok := PriceLevel(v.Price); ok {
			prices = append(prices, float64(lvl))
		}
		if lvl, ok := DistanceLevel(v.Distance); ok {
			distances = append(distances, float64(lvl))
		}
	})

	out := types.MeanSummary{PriceCount: len(prices), DistanceCount: len(distances)}
	if m, err := Mean(prices); err == nil {
		out.Price = &m
	}
	if m, err := Mean(distances); err == nil {
		out.Distance = &m
	}
	if out.Price == nil && out.Distance == nil {
		return out, &model.NoDataError{Op: "mean summary"}
	}
	return out, nil
}
