// Package bucket partitions the venues of one (university, cuisine) pair
// by price or distance level.
package bucket

import (
	"errors"

	"github.com/okian/campusbites/internal/domain/model"
)

// ErrInvalidLevel reports an unknown bucket level.
var ErrInvalidLevel = errors.New("invalid bucket level")

// ByPrice groups venue names by known price level, in source order.
// Venues with unknown price are in no group.
func ByPrice(venues []model.Venue) map[model.PriceBucket][]string {
	out := make(map[model.PriceBucket][]string, len(model.PriceLevels))
	for _, p := range model.PriceLevels {
		out[p] = []string{}
	}
	for _, v := range venues {
		if v.Price.Known() {
			out[v.Price] = append(out[v.Price], v.Name)
		}
	}
	return out
}

// ByDistance groups venue names by known distance level, in source order.
// Venues with unknown distance are in no group.
func ByDistance(venues []model.Venue) map[model.DistanceBucket][]string {
	out := make(map[model.DistanceBucket][]string, len(model.DistanceLevels))
	for _, d := range model.DistanceLevels {
		out[d] = []string{}
	}
	for _, v := range venues {
		if v.Distance.Known() {
			out[v.Distance] = append(out[v.Distance], v.Name)
		}
	}
	return out
}

// PriceNames returns the names at one price level.
func PriceNames(venues []model.Venue, level model.PriceBucket) []string {
	return ByPrice(venues)[level]
}

// DistanceNames returns the names at one distance level.
func DistanceNames(venues []model.Venue, level model.DistanceBucket) []string {
	return ByDistance(venues)[level]
}
