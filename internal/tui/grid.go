package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/romdeck/romdeck/internal/domain"
	"github.com/romdeck/romdeck/internal/tui/styles"
)

const (
	gridCellWidth  = 24
	gridCellHeight = 4

	// Rows from the bottom at which more content is requested
	fetchThresholdRows = 2
)

// Grid renders the gallery as a scrollable grid of rom cells over the
// filtered view. It owns only presentation state; the list itself belongs to
// the gallery controller.
type Grid struct {
	items    []domain.Rom
	selected func(id int) bool

	cursor    int
	offsetRow int
	width     int
	height    int
}

// NewGrid creates a grid; selected reports membership in the selection set
func NewGrid(selected func(id int) bool) Grid {
	return Grid{selected: selected}
}

// SetItems replaces the backing view, clamping the cursor
func (g *Grid) SetItems(items []domain.Rom) {
	g.items = items
	if g.cursor >= len(items) {
		g.cursor = len(items) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
	g.clampOffset()
}

// SetSize updates the viewport dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.clampOffset()
}

// Cursor returns the focused index
func (g *Grid) Cursor() int { return g.cursor }

// CursorItem returns the focused rom, nil when the view is empty
func (g *Grid) CursorItem() *domain.Rom {
	if g.cursor < 0 || g.cursor >= len(g.items) {
		return nil
	}
	return &g.items[g.cursor]
}

// Len returns the number of items in view
func (g *Grid) Len() int { return len(g.items) }

func (g *Grid) columns() int {
	cols := g.width / gridCellWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (g *Grid) visibleRows() int {
	rows := g.height / gridCellHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Move shifts the cursor by a row/column delta
func (g *Grid) Move(dRow, dCol int) {
	if len(g.items) == 0 {
		return
	}
	next := g.cursor + dRow*g.columns() + dCol
	if next < 0 {
		next = 0
	}
	if next >= len(g.items) {
		next = len(g.items) - 1
	}
	g.cursor = next
	g.clampOffset()
}

// MoveTo jumps the cursor to an absolute index
func (g *Grid) MoveTo(index int) {
	if len(g.items) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(g.items) {
		index = len(g.items) - 1
	}
	g.cursor = index
	g.clampOffset()
}

// NearBottom reports whether the cursor has scrolled close enough to the end
// of the fetched content to warrant another page.
func (g *Grid) NearBottom() bool {
	if len(g.items) == 0 {
		return true
	}
	cols := g.columns()
	cursorRow := g.cursor / cols
	lastRow := (len(g.items) - 1) / cols
	return lastRow-cursorRow <= fetchThresholdRows
}

func (g *Grid) clampOffset() {
	cols := g.columns()
	cursorRow := g.cursor / cols
	if cursorRow < g.offsetRow {
		g.offsetRow = cursorRow
	}
	if rows := g.visibleRows(); cursorRow >= g.offsetRow+rows {
		g.offsetRow = cursorRow - rows + 1
	}
	if g.offsetRow < 0 {
		g.offsetRow = 0
	}
}

// View renders the visible grid rows
func (g *Grid) View() string {
	if len(g.items) == 0 {
		return styles.DimStyle.Render("no roms")
	}

	cols := g.columns()
	rows := g.visibleRows()
	innerWidth := gridCellWidth - 4

	var rendered []string
	for row := g.offsetRow; row < g.offsetRow+rows; row++ {
		var cells []string
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if idx >= len(g.items) {
				break
			}
			cells = append(cells, g.renderCell(idx, innerWidth))
		}
		if len(cells) == 0 {
			break
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rendered, "\n")
}

func (g *Grid) renderCell(idx, innerWidth int) string {
	rom := g.items[idx]

	marker := " "
	if g.selected != nil && g.selected(rom.ID) {
		marker = styles.SuccessStyle.Render(styles.SelectedChar)
	} else if rom.Multi {
		marker = styles.DimStyle.Render(styles.MultiChar)
	}

	name := styles.Truncate(rom.DisplayName(), innerWidth-2)
	size := styles.DimStyle.Render(styles.Truncate(rom.FormattedFileSize(), innerWidth-2))

	body := marker + " " + name + "\n  " + size

	style := styles.GridCellStyle
	switch {
	case idx == g.cursor:
		style = styles.GridCellFocusedStyle
	case g.selected != nil && g.selected(rom.ID):
		style = styles.GridCellSelectedStyle
	}
	return style.Width(gridCellWidth - 2).Render(body)
}
