// Package catalog holds the fixed universities and cuisines the dataset is
// built from.
package catalog

import "sort"

var universities = []string{
	"Central Michigan University",
	"Eastern Michigan University",
	"Michigan State University",
	"Michigan Technological University",
	"Oakland University",
	"University of Michigan",
	"Wayne State University",
	"Western Michigan University",
}

var cuisines = []string{
	"American",
	"Chinese",
	"Italian",
	"Japanese",
	"Mexican",
	"Thai",
}

// Universities returns the university names in catalog order.
func Universities() []string {
	return append([]string(nil), universities...)
}

// Cuisines returns the cuisine names in catalog order.
func Cuisines() []string {
	return append([]string(nil), cuisines...)
}

// IsUniversity reports whether name is a catalog university.
func IsUniversity(name string) bool { return contains(universities, name) }

// IsCuisine reports whether name is a catalog cuisine.
func IsCuisine(name string) bool { return contains(cuisines, name) }

// Order returns keys arranged by their position in reference; keys absent
// from reference follow in lexical order.
func Order(keys, reference []string) []string {
	pos := make(map[string]int, len(reference))
	for i, r := range reference {
		pos[r] = i
	}
	out := make([]string, len(keys))
	copy(out, keys)
	sort.SliceStable(out, func(i, j int) bool {
		pi, iok := pos[out[i]]
		pj, jok := pos[out[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
