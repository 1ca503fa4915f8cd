package gallery

import (
	"testing"

	"github.com/romdeck/romdeck/internal/domain"
)

func TestFilterEmpty(t *testing.T) {
	if !(Filter{}).Empty() {
		t.Fatalf("zero filter should be empty")
	}
	if (Filter{Text: "mario"}).Empty() {
		t.Fatalf("text filter should not be empty")
	}
	if (Filter{Genre: "RPG"}).Empty() {
		t.Fatalf("facet filter should not be empty")
	}
}

func TestFilterSearchTerm(t *testing.T) {
	f := Filter{Text: "  Super MARIO "}
	if got := f.SearchTerm(); got != "super mario" {
		t.Fatalf("SearchTerm = %q, want %q", got, "super mario")
	}
}

func TestFilterMatchesText(t *testing.T) {
	rom := domain.Rom{
		Name:     "Chrono Trigger",
		FileName: "Chrono Trigger (USA).sfc",
	}

	tests := []struct {
		text string
		want bool
	}{
		{"chrono", true},
		{"CHRONO TRIGGER", true},
		{"chrno", true}, // fuzzy
		{"zelda", false},
		{"", true},
	}
	for _, tt := range tests {
		f := Filter{Text: tt.text}
		if got := f.Matches(rom); got != tt.want {
			t.Errorf("Matches(text=%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFilterMatchesFacets(t *testing.T) {
	rom := domain.Rom{
		Name:        "Secret of Mana",
		Genres:      []string{"RPG", "Action"},
		Franchises:  []string{"Mana"},
		Companies:   []string{"Square"},
		Collections: []string{"Favorites"},
	}

	if !(Filter{Genre: "rpg"}).Matches(rom) {
		t.Fatalf("facet match should fold case")
	}
	if (Filter{Genre: "Sports"}).Matches(rom) {
		t.Fatalf("missing facet value should not match")
	}
	if !(Filter{Genre: "RPG", Company: "Square", Collection: "Favorites"}).Matches(rom) {
		t.Fatalf("all set facets present should match")
	}
	if (Filter{Franchise: "Mana", Company: "Nintendo"}).Matches(rom) {
		t.Fatalf("one failing facet should reject")
	}
}

func TestFilterApplyPreservesOrder(t *testing.T) {
	roms := []domain.Rom{
		{ID: 1, Name: "Alpha", Genres: []string{"RPG"}},
		{ID: 2, Name: "Beta", Genres: []string{"Sports"}},
		{ID: 3, Name: "Gamma", Genres: []string{"RPG"}},
		{ID: 4, Name: "Delta", Genres: []string{"RPG"}},
	}

	got := Filter{Genre: "RPG"}.apply(roms)

	want := []int{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("apply returned %d roms, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("apply[%d].ID = %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestCollectFacets(t *testing.T) {
	roms := []domain.Rom{
		{Genres: []string{"RPG", "Action"}, Companies: []string{"Square"}},
		{Genres: []string{"RPG"}, Franchises: []string{"Zelda"}, Companies: []string{" Nintendo "}},
		{Collections: []string{"Favorites"}},
		{Genres: []string{""}},
	}

	facets := collectFacets(roms)

	wantGenres := []string{"Action", "RPG"}
	if len(facets.Genres) != len(wantGenres) {
		t.Fatalf("Genres = %v, want %v", facets.Genres, wantGenres)
	}
	for i := range wantGenres {
		if facets.Genres[i] != wantGenres[i] {
			t.Fatalf("Genres = %v, want %v", facets.Genres, wantGenres)
		}
	}

	if len(facets.Companies) != 2 {
		t.Fatalf("Companies = %v, want 2 distinct", facets.Companies)
	}
	if facets.Companies[0] != "Nintendo" {
		t.Fatalf("Companies[0] = %q, want trimmed %q", facets.Companies[0], "Nintendo")
	}
	if len(facets.Franchises) != 1 || facets.Franchises[0] != "Zelda" {
		t.Fatalf("Franchises = %v, want [Zelda]", facets.Franchises)
	}
	if len(facets.Collections) != 1 {
		t.Fatalf("Collections = %v, want [Favorites]", facets.Collections)
	}
}
