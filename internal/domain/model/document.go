package model

import "github.com/okian/campusbites/internal/domain/catalog"

// Document is the cached dataset: university -> cuisine -> venues in
// provider order. It is read-only once built.
type Document map[string]map[string][]Venue

// Venues returns the venues of one (university, cuisine) pair. Unknown keys
// yield a *NotFoundError. The returned slice must not be modified.
func (d Document) Venues(university, cuisine string) ([]Venue, error) {
	byCuisine, ok := d[university]
	if !ok {
		return nil, &NotFoundError{Kind: "university", Key: university}
	}
	venues, ok := byCuisine[cuisine]
	if !ok {
		return nil, &NotFoundError{Kind: "cuisine", Key: cuisine}
	}
	return venues, nil
}

// Universities returns the universities present, catalog order first.
func (d Document) Universities() []string {
	keys := make([]string, 0, len(d))
	for u := range d {
		keys = append(keys, u)
	}
	return catalog.Order(keys, catalog.Universities())
}

// Cuisines returns every cuisine present under any university, catalog
// order first.
func (d Document) Cuisines() []string {
	seen := make(map[string]struct{})
	keys := make([]string, 0, len(catalog.Cuisines()))
	for _, byCuisine := range d {
		for c := range byCuisine {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			keys = append(keys, c)
		}
	}
	return catalog.Order(keys, catalog.Cuisines())
}

// VenueCount returns the number of venues across all pairs.
func (d Document) VenueCount() int {
	n := 0
	for _, byCuisine := range d {
		for _, venues := range byCuisine {
			n += len(venues)
		}
	}
	return n
}

// Each visits every venue, university-major then cuisine-minor, both in
// catalog order, venues in stored order.
func (d Document) Each(fn func(university, cuisine string, v Venue)) {
	cuisines := d.Cuisines()
	for _, u := range d.Universities() {
		byCuisine := d[u]
		for _, c := range cuisines {
			for _, v := range byCuisine[c] {
				fn(u, c, v)
			}
		}
	}
}
