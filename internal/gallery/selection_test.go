package gallery

import (
	"sort"
	"testing"

	"github.com/romdeck/romdeck/internal/domain"
)

func view(n int) []domain.Rom {
	roms := make([]domain.Rom, n)
	for i := range roms {
		roms[i] = domain.Rom{ID: i + 1}
	}
	return roms
}

func selectedIDs(s *Selection) []int {
	ids := s.IDs()
	sort.Ints(ids)
	return ids
}

func TestToggle(t *testing.T) {
	s := NewSelection()
	v := view(5)

	if got := s.Toggle(v, 2); !got {
		t.Fatalf("Toggle(2) = %v, want true", got)
	}
	if !s.Contains(3) {
		t.Fatalf("expected rom 3 selected")
	}
	if s.LastIndex() != 2 {
		t.Fatalf("LastIndex = %d, want 2", s.LastIndex())
	}

	if got := s.Toggle(v, 2); got {
		t.Fatalf("Toggle(2) again = %v, want false", got)
	}
	if s.Count() != 0 {
		t.Fatalf("Count = %d, want 0", s.Count())
	}
}

func TestToggleOutOfRange(t *testing.T) {
	s := NewSelection()
	v := view(3)

	if s.Toggle(v, -1) || s.Toggle(v, 3) {
		t.Fatalf("out of range toggle should report false")
	}
	if s.Count() != 0 {
		t.Fatalf("Count = %d, want 0", s.Count())
	}
}

func TestSelectRangeNoAnchor(t *testing.T) {
	s := NewSelection()
	v := view(5)

	s.SelectRange(v, 3, true)

	if s.Count() != 0 {
		t.Fatalf("Count = %d, want 0 (anchor only)", s.Count())
	}
	if s.LastIndex() != 3 {
		t.Fatalf("LastIndex = %d, want 3", s.LastIndex())
	}
}

func TestSelectRangeOpenInterval(t *testing.T) {
	// Items A..E at indices 0..4 with IDs 1..5. Anchor at index 1 (B,
	// selected), then range-select to index 3 (D). The interval between the
	// endpoints is added; the clicked item is the caller's job.
	s := NewSelection()
	v := view(5)

	s.Toggle(v, 1) // selects B, anchor=1
	s.SelectRange(v, 3, true)
	s.Add(v[3].ID)

	want := []int{2, 3, 4} // B, C, D
	if got := selectedIDs(s); len(got) != len(want) {
		t.Fatalf("selected = %v, want %v", got, want)
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("selected = %v, want %v", got, want)
			}
		}
	}
	if s.LastIndex() != 3 {
		t.Fatalf("LastIndex = %d, want 3", s.LastIndex())
	}
}

func TestDeselectRangeClosedInterval(t *testing.T) {
	// All of A..E selected, anchor at index 1. Range-deselect to index 3
	// removes the closed interval B..D and anchors just before it.
	s := NewSelection()
	v := view(5)

	for _, r := range v {
		s.Add(r.ID)
	}
	s.Toggle(v, 1) // deselects B, anchor=1
	s.Add(v[1].ID) // restore B so the closed interval removal shows

	s.SelectRange(v, 3, false)

	want := []int{1, 5} // A and E remain
	got := selectedIDs(s)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("selected = %v, want %v", got, want)
	}
	if s.LastIndex() != 2 {
		t.Fatalf("LastIndex = %d, want 2", s.LastIndex())
	}
}

func TestSelectRangeReversed(t *testing.T) {
	s := NewSelection()
	v := view(6)

	s.Toggle(v, 4) // anchor=4
	s.SelectRange(v, 1, true)
	s.Add(v[1].ID)

	// Open interval between 1 and 4 plus both toggled endpoints.
	want := []int{2, 3, 4, 5}
	got := selectedIDs(s)
	if len(got) != len(want) {
		t.Fatalf("selected = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("selected = %v, want %v", got, want)
		}
	}
	if s.LastIndex() != 1 {
		t.Fatalf("LastIndex = %d, want 1", s.LastIndex())
	}
}

func TestClearResetsAnchor(t *testing.T) {
	s := NewSelection()
	v := view(3)

	s.Toggle(v, 2)
	s.Clear()

	if s.Count() != 0 {
		t.Fatalf("Count = %d, want 0", s.Count())
	}
	if s.LastIndex() != -1 {
		t.Fatalf("LastIndex = %d, want -1", s.LastIndex())
	}
}
