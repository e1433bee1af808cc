// Package ranking orders the venues of one (university, cuisine) pair by
// rating, price or distance.
package ranking

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/campusbites/internal/domain/model"
	"github.com/okian/campusbites/internal/domain/types"
)

// Sentinel kinds for ranking errors.
var (
	ErrInvalidKey       = errors.New("invalid sort key")
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// Key selects the metric venues are ordered by.
type Key string

// Supported sort keys.
const (
	ByRating   Key = "rating"
	ByPrice    Key = "price"
	ByDistance Key = "distance"
)

// Direction selects ascending or descending order.
type Direction string

// Supported directions.
const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// UnknownLevel is the sort metric of a venue whose price or distance is
// unknown. It places those venues after every known level when ascending.
const UnknownLevel = 5

// ParseKey validates a sort key.
func ParseKey(s string) (Key, error) {
	switch k := Key(strings.ToLower(strings.TrimSpace(s))); k {
	case ByRating, ByPrice, ByDistance:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
}

// ParseDirection validates a direction. An empty string means ascending.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Ascending, nil
	case Ascending, Descending:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// PriceMetric encodes a price bucket: lower=1, low=2, high=3, higher=4,
// unknown=5.
func PriceMetric(p model.PriceBucket) int {
	if !p.Known() {
		return UnknownLevel
	}
	return int(p)
}

// DistanceMetric encodes a distance bucket: near=1, far=2, faraway=3,
// unknown=5.
func DistanceMetric(d model.DistanceBucket) int {
	if !d.Known() {
		return UnknownLevel
	}
	return int(d)
}

// Metric returns the value v is ordered by under key.
func Metric(v model.Venue, key Key) (float64, error) {
	switch key {
	case ByRating:
		return v.Rating, nil
	case ByPrice:
		return float64(PriceMetric(v.Price)), nil
	case ByDistance:
		return float64(DistanceMetric(v.Distance)), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
}

// Sort returns (name, metric) rows ordered by key. The ascending order is
// stable, so ties keep their source order. Descending is the exact reverse
// of ascending, so ties appear in reverse source order.
//
// Unknown price or distance is kept with the sentinel metric here, while
// the global means in package stats drop such venues. Whether that
// asymmetry was ever intended is an open question; both behaviors are kept
// as they are.
func Sort(venues []model.Venue, key Key, dir Direction) ([]types.NameMetric, error) {
	if dir != Ascending && dir != Descending {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	rows := make([]types.NameMetric, 0, len(venues))
	for _, v := range venues {
		m, err := Metric(v, key)
		if err != nil {
			return nil, err
		}
		rows = append(rows, types.NameMetric{Name: v.Name, Metric: m})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Metric < rows[j].Metric })

	if dir == Descending {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows, nil
}
