// Package types contains the read shapes returned by the service and the API.
package types

// NameMetric is one row of a sorted listing.
type NameMetric struct {
	Name   string  `json:"name"`
	Metric float64 `json:"metric"`
}

// CuisineRating summarizes ratings of one cuisine across universities.
// Mean and Median are nil when Count is zero.
type CuisineRating struct {
	Cuisine string   `json:"cuisine"`
	Mean    *float64 `json:"mean"`
	Median  *float64 `json:"median"`
	Count   int      `json:"count"`
}

// MeanSummary holds the global mean price and distance levels and how many
// venues each was computed over. A mean is nil when its count is zero.
type MeanSummary struct {
	Price         *float64 `json:"mean_price"`
	PriceCount    int      `json:"price_count"`
	Distance      *float64 `json:"mean_distance"`
	DistanceCount int      `json:"distance_count"`
}

// BucketListing is the set of venue names that fall in one bucket level.
type BucketListing struct {
	University string   `json:"university"`
	Cuisine    string   `json:"cuisine"`
	Level      string   `json:"level"`
	Names      []string `json:"names"`
	Count      int      `json:"count"`
}

// Catalog lists the keys and levels a client can query.
type Catalog struct {
	Universities   []string `json:"universities"`
	Cuisines       []string `json:"cuisines"`
	PriceLevels    []string `json:"price_levels"`
	DistanceLevels []string `json:"distance_levels"`
}
