// Package model contains domain models passed between layers.
package model

// MaxNearbyParks bounds the parks kept per venue.
const MaxNearbyParks = 3

// Coordinates is a WGS84 position in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Park summarizes one park near a venue. Rating and ReviewCount are nil
// when the places provider did not report them.
type Park struct {
	Name           string   `json:"name"`
	Rating         *float64 `json:"rating"`
	Category       string   `json:"category"`
	ReviewCount    *int     `json:"review_count"`
	Vicinity       string   `json:"vicinity"`
	DistanceMeters float64  `json:"distance_m"`
}

// Venue is one restaurant listing with its derived attributes.
type Venue struct {
	Name        string         `json:"name"`
	Rating      float64        `json:"rating"`
	Price       PriceBucket    `json:"price"`
	Distance    DistanceBucket `json:"distance"`
	Address     string         `json:"address"`
	Phone       string         `json:"phone"`
	Coordinates Coordinates    `json:"coordinates"`
	NearbyParks []Park         `json:"nearby_parks"`
}
