package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/campusbites/internal/domain/model"
)

// Sentinels written in place of absent park attributes.
const (
	noRating      = "No rating"
	noRatingCount = "No user ratings number"
)

// fileDocument mirrors the on-disk layout: each university maps to a list
// of cuisine maps. The list normally holds a single element.
type fileDocument map[string][]map[string][]fileVenue

type fileVenue struct {
	Name        string     `json:"Name"`
	Price       string     `json:"Price,omitempty"`
	Rating      float64    `json:"Rating"`
	Distance    string     `json:"Distance,omitempty"`
	Address     string     `json:"Address"`
	Phone       string     `json:"Phone"`
	Coordinates [2]float64 `json:"Coordinates"`
	NearbyParks []filePark `json:"Nearby parks"`
}

type filePark struct {
	Name           string      `json:"Place name"`
	Rating         parkRating  `json:"Place rating"`
	Category       string      `json:"Place type"`
	ReviewCount    reviewCount `json:"User ratings total"`
	Vicinity       string      `json:"Vicinity"`
	DistanceMeters float64     `json:"Distance meters,omitempty"`
}

// parkRating is a number or the "No rating" sentinel.
type parkRating struct{ v *float64 }

func (r parkRating) MarshalJSON() ([]byte, error) {
	if r.v == nil {
		return json.Marshal(noRating)
	}
	return json.Marshal(*r.v)
}

func (r *parkRating) UnmarshalJSON(b []byte) error {
	if b = bytes.TrimSpace(b); len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s != noRating {
			return fmt.Errorf("unexpected place rating %q", s)
		}
		r.v = nil
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	r.v = &f
	return nil
}

// reviewCount is an integer or the "No user ratings number" sentinel.
type reviewCount struct{ v *int }

func (c reviewCount) MarshalJSON() ([]byte, error) {
	if c.v == nil {
		return json.Marshal(noRatingCount)
	}
	return json.Marshal(*c.v)
}

func (c *reviewCount) UnmarshalJSON(b []byte) error {
	if b = bytes.TrimSpace(b); len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s != noRatingCount {
			return fmt.Errorf("unexpected user ratings total %q", s)
		}
		c.v = nil
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	c.v = &n
	return nil
}

func toFile(doc model.Document) fileDocument {
	out := make(fileDocument, len(doc))
	for u, byCuisine := range doc {
		cuisines := make(map[string][]fileVenue, len(byCuisine))
		for c, venues := range byCuisine {
			list := make([]fileVenue, 0, len(venues))
			for _, v := range venues {
				list = append(list, venueToFile(v))
			}
			cuisines[c] = list
		}
		out[u] = []map[string][]fileVenue{cuisines}
	}
	return out
}

func venueToFile(v model.Venue) fileVenue {
	fv := fileVenue{
		Name:        v.Name,
		Rating:      v.Rating,
		Address:     v.Address,
		Phone:       v.Phone,
		Coordinates: [2]float64{v.Coordinates.Lat, v.Coordinates.Lon},
		NearbyParks: make([]filePark, 0, len(v.NearbyParks)),
	}
	if v.Price.Known() {
		fv.Price = v.Price.String()
	}
	if v.Distance.Known() {
		fv.Distance = v.Distance.Label()
	}
	for _, p := range v.NearbyParks {
		fv.NearbyParks = append(fv.NearbyParks, filePark{
			Name:           p.Name,
			Rating:         parkRating{v: p.Rating},
			Category:       p.Category,
			ReviewCount:    reviewCount{v: p.ReviewCount},
			Vicinity:       p.Vicinity,
			DistanceMeters: p.DistanceMeters,
		})
	}
	return fv
}

// fromFile flattens the list wrapper, concatenating every element's venues
// per cuisine in order.
func fromFile(fd fileDocument) (model.Document, error) {
	doc := make(model.Document, len(fd))
	for u, items := range fd {
		byCuisine := make(map[string][]model.Venue)
		for _, item := range items {
			for c, venues := range item {
				list := byCuisine[c]
				if list == nil {
					list = make([]model.Venue, 0, len(venues))
				}
				for i, fv := range venues {
					v, err := venueFromFile(fv)
					if err != nil {
						return nil, fmt.Errorf("%s/%s[%d]: %w", u, c, i, err)
					}
					list = append(list, v)
				}
				byCuisine[c] = list
			}
		}
		doc[u] = byCuisine
	}
	return doc, nil
}

func venueFromFile(fv fileVenue) (model.Venue, error) {
	v := model.Venue{
		Name:        fv.Name,
		Rating:      fv.Rating,
		Address:     fv.Address,
		Phone:       fv.Phone,
		Coordinates: model.Coordinates{Lat: fv.Coordinates[0], Lon: fv.Coordinates[1]},
		NearbyParks: make([]model.Park, 0, len(fv.NearbyParks)),
	}
	if fv.Price != "" {
		p, err := model.ParsePriceLevel(fv.Price)
		if err != nil {
			return model.Venue{}, err
		}
		v.Price = p
	}
	if fv.Distance != "" {
		d, err := model.ParseDistanceLevel(fv.Distance)
		if err != nil {
			return model.Venue{}, err
		}
		v.Distance = d
	}
	for _, fp := range fv.NearbyParks {
		v.NearbyParks = append(v.NearbyParks, model.Park{
			Name:           fp.Name,
			Rating:         fp.Rating.v,
			Category:       fp.Category,
			ReviewCount:    fp.ReviewCount.v,
			Vicinity:       fp.Vicinity,
			DistanceMeters: fp.DistanceMeters,
		})
	}
	return v, nil
}
