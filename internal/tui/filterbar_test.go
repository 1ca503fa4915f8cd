package tui

import (
	"testing"

	"github.com/romdeck/romdeck/internal/gallery"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want gallery.Filter
	}{
		{"empty", "", gallery.Filter{}},
		{"free text only", "chrono trigger", gallery.Filter{Text: "chrono trigger"}},
		{"single facet", "genre:RPG", gallery.Filter{Genre: "RPG"}},
		{"facet plus text", "genre:RPG chrono", gallery.Filter{Genre: "RPG", Text: "chrono"}},
		{
			"all facets",
			"genre:RPG franchise:Zelda company:Nintendo collection:Favorites",
			gallery.Filter{Genre: "RPG", Franchise: "Zelda", Company: "Nintendo", Collection: "Favorites"},
		},
		{"prefix is case-insensitive", "GENRE:RPG", gallery.Filter{Genre: "RPG"}},
		{"unknown prefix stays free text", "size:big mario", gallery.Filter{Text: "size:big mario"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFilter(tt.raw); got != tt.want {
				t.Fatalf("parseFilter(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSuggestionsForPartialFacet(t *testing.T) {
	bar := NewFilterBar()
	bar.SetFacets(gallery.FacetOptions{
		Genres: []string{"Action", "Adventure", "RPG", "Racing"},
	})

	bar.input.SetValue("genre:rac")
	bar.refreshSuggestions()

	if len(bar.suggestions) != 1 || bar.suggestions[0] != "Racing" {
		t.Fatalf("suggestions = %v, want just Racing", bar.suggestions)
	}

	bar.input.SetValue("genre:xyz")
	bar.refreshSuggestions()
	if len(bar.suggestions) != 0 {
		t.Fatalf("suggestions = %v, want none for a non-match", bar.suggestions)
	}
}

func TestSuggestionsEmptyPartialListsOptions(t *testing.T) {
	bar := NewFilterBar()
	bar.SetFacets(gallery.FacetOptions{
		Genres: []string{"A", "B", "C", "D", "E", "F", "G"},
	})

	bar.input.SetValue("genre:")
	bar.refreshSuggestions()

	if len(bar.suggestions) != maxSuggestions {
		t.Fatalf("suggestions = %d, want capped at %d", len(bar.suggestions), maxSuggestions)
	}
}

func TestSuggestionsClearForFreeText(t *testing.T) {
	bar := NewFilterBar()
	bar.SetFacets(gallery.FacetOptions{Genres: []string{"RPG"}})

	bar.input.SetValue("genre:")
	bar.refreshSuggestions()
	bar.input.SetValue("mario")
	bar.refreshSuggestions()

	if len(bar.suggestions) != 0 {
		t.Fatalf("suggestions = %v, want none for free text", bar.suggestions)
	}
}
