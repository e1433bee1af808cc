package model

import (
	"fmt"
	"strings"
)

// PriceBucket is the categorical price level of a venue.
type PriceBucket int

// Price levels. PriceUnknown is used when the provider reported no price.
const (
	PriceUnknown PriceBucket = iota
	PriceLower
	PriceLow
	PriceHigh
	PriceHigher
)

// PriceLevels lists the known price levels in ascending order.
var PriceLevels = []PriceBucket{PriceLower, PriceLow, PriceHigh, PriceHigher}

var priceNames = map[PriceBucket]string{
	PriceUnknown: "unknown",
	PriceLower:   "lower",
	PriceLow:     "low",
	PriceHigh:    "high",
	PriceHigher:  "higher",
}

// String returns the wire label of the bucket.
func (p PriceBucket) String() string {
	if s, ok := priceNames[p]; ok {
		return s
	}
	return fmt.Sprintf("PriceBucket(%d)", int(p))
}

// Known reports whether p is one of the four known levels.
func (p PriceBucket) Known() bool {
	return p >= PriceLower && p <= PriceHigher
}

// ParsePriceLevel parses a known price level label. "unknown" is rejected
// because it is not a level a caller can ask for.
func ParsePriceLevel(s string) (PriceBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower":
		return PriceLower, nil
	case "low":
		return PriceLow, nil
	case "high":
		return PriceHigh, nil
	case "higher":
		return PriceHigher, nil
	}
	return PriceUnknown, fmt.Errorf("invalid price level %q", s)
}

// DistanceBucket is the categorical distance of a venue from its university.
type DistanceBucket int

// Distance levels. DistanceUnknown is used when the provider reported no distance.
const (
	DistanceUnknown DistanceBucket = iota
	DistanceNear
	DistanceFar
	DistanceFaraway
)

// DistanceLevels lists the known distance levels in ascending order.
var DistanceLevels = []DistanceBucket{DistanceNear, DistanceFar, DistanceFaraway}

var distanceNames = map[DistanceBucket]string{
	DistanceUnknown: "unknown",
	DistanceNear:    "near",
	DistanceFar:     "far",
	DistanceFaraway: "faraway",
}

var distanceRecommendations = map[DistanceBucket]string{
	DistanceNear:    "go on foot",
	DistanceFar:     "go by bus",
	DistanceFaraway: "go by car",
}

// String returns the short label of the bucket.
func (d DistanceBucket) String() string {
	if s, ok := distanceNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DistanceBucket(%d)", int(d))
}

// Known reports whether d is one of the three known levels.
func (d DistanceBucket) Known() bool {
	return d >= DistanceNear && d <= DistanceFaraway
}

// Recommendation returns how to get there, empty for unknown.
func (d DistanceBucket) Recommendation() string {
	return distanceRecommendations[d]
}

// Label returns the label written to the cache file,
// e.g. "near (recommend: go on foot)".
func (d DistanceBucket) Label() string {
	if !d.Known() {
		return ""
	}
	return fmt.Sprintf("%s (recommend: %s)", d.String(), d.Recommendation())
}

// ParseDistanceLevel parses a known distance level. Both the short form
// ("far") and the cache file label ("far (recommend: go by bus)") are accepted.
func ParseDistanceLevel(s string) (DistanceBucket, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if i := strings.Index(v, " ("); i >= 0 {
		v = v[:i]
	}
	switch v {
	case "near":
		return DistanceNear, nil
	case "far":
		return DistanceFar, nil
	case "faraway":
		return DistanceFaraway, nil
	}
	return DistanceUnknown, fmt.Errorf("invalid distance level %q", s)
}

// MarshalText encodes the bucket as its label.
func (p PriceBucket) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a label; "unknown" and "" decode to PriceUnknown.
func (p *PriceBucket) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	if s == "" || s == "unknown" {
		*p = PriceUnknown
		return nil
	}
	v, err := ParsePriceLevel(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalText encodes the bucket as its short label.
func (d DistanceBucket) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a label; "unknown" and "" decode to DistanceUnknown.
func (d *DistanceBucket) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	if s == "" || s == "unknown" {
		*d = DistanceUnknown
		return nil
	}
	v, err := ParseDistanceLevel(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
