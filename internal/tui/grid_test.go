package tui

import (
	"testing"

	"github.com/romdeck/romdeck/internal/domain"
)

func gridItems(n int) []domain.Rom {
	items := make([]domain.Rom, n)
	for i := range items {
		items[i] = domain.Rom{ID: i + 1, Name: "Rom"}
	}
	return items
}

func TestNearBottomThreshold(t *testing.T) {
	g := NewGrid(nil)
	g.SetSize(gridCellWidth*4, gridCellHeight*3) // 4 columns
	g.SetItems(gridItems(40))                    // 10 rows

	if g.NearBottom() {
		t.Fatalf("cursor on the first row should not be near the bottom")
	}

	// Row 7 of 9 is exactly at the threshold.
	g.MoveTo(7 * 4)
	if !g.NearBottom() {
		t.Fatalf("cursor two rows from the end should be near the bottom")
	}

	g.MoveTo(6 * 4)
	if g.NearBottom() {
		t.Fatalf("cursor three rows from the end should not be near the bottom")
	}
}

func TestNearBottomEmptyGrid(t *testing.T) {
	g := NewGrid(nil)
	if !g.NearBottom() {
		t.Fatalf("empty grid must always request content")
	}
}

func TestMoveClampsToBounds(t *testing.T) {
	g := NewGrid(nil)
	g.SetSize(gridCellWidth*2, gridCellHeight*2) // 2 columns
	g.SetItems(gridItems(5))

	g.Move(-1, 0)
	if g.Cursor() != 0 {
		t.Fatalf("cursor = %d after moving above the top", g.Cursor())
	}

	g.Move(10, 0)
	if g.Cursor() != 4 {
		t.Fatalf("cursor = %d after moving past the end", g.Cursor())
	}
}

func TestSetItemsClampsCursor(t *testing.T) {
	g := NewGrid(nil)
	g.SetSize(gridCellWidth, gridCellHeight)
	g.SetItems(gridItems(10))
	g.MoveTo(9)

	g.SetItems(gridItems(3))
	if g.Cursor() != 2 {
		t.Fatalf("cursor = %d after shrinking the view", g.Cursor())
	}

	g.SetItems(nil)
	if g.Cursor() != 0 {
		t.Fatalf("cursor = %d on empty view", g.Cursor())
	}
	if g.CursorItem() != nil {
		t.Fatalf("CursorItem should be nil on an empty view")
	}
}
