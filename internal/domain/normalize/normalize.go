// Package normalize turns raw provider fields into the categorical levels
// stored in the cache document.
package normalize

import (
	"errors"
	"fmt"

	"github.com/golang/geo/s2"

	"github.com/okian/campusbites/internal/domain/model"
)

// Distance thresholds in meters.
const (
	NearMaxMeters = 1500.0
	FarMaxMeters  = 5000.0
)

// earthRadiusMeters is the IUGG mean Earth radius.
const earthRadiusMeters = 6371008.8

// ErrMalformed reports a provider record missing a required attribute.
var ErrMalformed = errors.New("malformed provider record")

// Price maps a currency-symbol price ("$".."$$$$") to a bucket. A nil or
// unrecognized value yields PriceUnknown.
func Price(symbols *string) model.PriceBucket {
	if symbols == nil {
		return model.PriceUnknown
	}
	switch *symbols {
	case "$":
		return model.PriceLower
	case "$$":
		return model.PriceLow
	case "$$$":
		return model.PriceHigh
	case "$$$$":
		return model.PriceHigher
	}
	return model.PriceUnknown
}

// Distance maps a distance in meters to a bucket: <=1500 near,
// (1500, 5000] far, >5000 faraway. A nil value yields DistanceUnknown.
func Distance(meters *float64) model.DistanceBucket {
	if meters == nil {
		return model.DistanceUnknown
	}
	switch m := *meters; {
	case m <= NearMaxMeters:
		return model.DistanceNear
	case m <= FarMaxMeters:
		return model.DistanceFar
	default:
		return model.DistanceFaraway
	}
}

// GreatCircleMeters returns the surface distance between two positions.
func GreatCircleMeters(a, b model.Coordinates) float64 {
	from := s2.LatLngFromDegrees(a.Lat, a.Lon)
	to := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return from.Distance(to).Radians() * earthRadiusMeters
}

// RawPark is one proximity search result as reported by the places provider.
type RawPark struct {
	Name             string             `json:"name"`
	Rating           *float64           `json:"rating,omitempty"`
	Types            []string           `json:"types"`
	UserRatingsTotal *int               `json:"user_ratings_total,omitempty"`
	Vicinity         string             `json:"vicinity"`
	Location         *model.Coordinates `json:"location,omitempty"`
}

// Parks keeps the first MaxNearbyParks results, in provider order, and
// summarizes each. The primary category is the first reported type; a
// result without types is malformed.
func Parks(venue model.Coordinates, raw []RawPark) ([]model.Park, error) {
	n := len(raw)
	if n > model.MaxNearbyParks {
		n = model.MaxNearbyParks
	}
	out := make([]model.Park, 0, n)
	for _, r := range raw[:n] {
		if len(r.Types) == 0 {
			return nil, fmt.Errorf("%w: park %q has no types", ErrMalformed, r.Name)
		}
		p := model.Park{
			Name:        r.Name,
			Rating:      r.Rating,
			Category:    r.Types[0],
			ReviewCount: r.UserRatingsTotal,
			Vicinity:    r.Vicinity,
		}
		if r.Location != nil {
			p.DistanceMeters = GreatCircleMeters(venue, *r.Location)
		}
		out = append(out, p)
	}
	return out, nil
}
