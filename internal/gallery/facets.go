package gallery

import (
	"sort"
	"strings"

	"github.com/romdeck/romdeck/internal/domain"
)

// FacetOptions holds the distinct, sorted values offered by the filter bar,
// derived from whatever the gallery is currently showing.
type FacetOptions struct {
	Genres      []string
	Franchises  []string
	Companies   []string
	Collections []string
}

// collectFacets recomputes the option lists over a view
func collectFacets(roms []domain.Rom) FacetOptions {
	genres := make(map[string]struct{})
	franchises := make(map[string]struct{})
	companies := make(map[string]struct{})
	collections := make(map[string]struct{})

	for _, r := range roms {
		addAll(genres, r.Genres)
		addAll(franchises, r.Franchises)
		addAll(companies, r.Companies)
		addAll(collections, r.Collections)
	}

	return FacetOptions{
		Genres:      sortedKeys(genres),
		Franchises:  sortedKeys(franchises),
		Companies:   sortedKeys(companies),
		Collections: sortedKeys(collections),
	}
}

func addAll(set map[string]struct{}, values []string) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
