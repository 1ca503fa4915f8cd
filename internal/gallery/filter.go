package gallery

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/romdeck/romdeck/internal/domain"
)

// Filter is the gallery predicate: a free-text term plus one optional value
// per facet. The zero value matches everything.
type Filter struct {
	Text       string
	Genre      string
	Franchise  string
	Company    string
	Collection string
}

// Empty reports whether no predicate is active
func (f Filter) Empty() bool {
	return f.Text == "" && f.Genre == "" && f.Franchise == "" &&
		f.Company == "" && f.Collection == ""
}

// SearchTerm returns the normalized text term sent to the server
func (f Filter) SearchTerm() string {
	return strings.ToLower(strings.TrimSpace(f.Text))
}

// Matches reports whether a rom passes the predicate. Text matches fuzzily
// against the display name and the file name; each set facet must be present
// in the rom's corresponding metadata list.
func (f Filter) Matches(r domain.Rom) bool {
	if term := f.SearchTerm(); term != "" {
		if !fuzzy.MatchNormalizedFold(term, r.DisplayName()) &&
			!fuzzy.MatchNormalizedFold(term, r.FileName) {
			return false
		}
	}
	if f.Genre != "" && !containsFold(r.Genres, f.Genre) {
		return false
	}
	if f.Franchise != "" && !containsFold(r.Franchises, f.Franchise) {
		return false
	}
	if f.Company != "" && !containsFold(r.Companies, f.Company) {
		return false
	}
	if f.Collection != "" && !containsFold(r.Collections, f.Collection) {
		return false
	}
	return true
}

// apply returns the order-preserving subsequence of roms passing the predicate
func (f Filter) apply(roms []domain.Rom) []domain.Rom {
	filtered := make([]domain.Rom, 0, len(roms))
	for _, r := range roms {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
