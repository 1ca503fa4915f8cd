package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	RomPurple  = lipgloss.Color("#A855F7")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Yellow     = lipgloss.Color("#F59E0B")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(RomPurple)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(RomPurple)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Yellow)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	FocusedItemStyle = lipgloss.NewStyle().
				Foreground(RomPurple).
				Bold(true).
				Padding(0, 1)
)

// Grid cell styles
var (
	GridCellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)

	GridCellFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(RomPurple).
				Padding(0, 1)

	GridCellSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Green).
				Padding(0, 1)
)

// Marker characters for gallery cells
const (
	SelectedChar = "✓"
	MultiChar    = "▤"
)

// Toast styles keyed by notification color
var (
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	toastColors = map[string]lipgloss.Color{
		"green":  Green,
		"red":    Red,
		"yellow": Yellow,
	}
)

// ToastColor maps a notification color name to the palette
func ToastColor(name string) lipgloss.Color {
	if c, ok := toastColors[name]; ok {
		return c
	}
	return RomPurple
}

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(RomPurple)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(RomPurple).
				Bold(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(RomPurple)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

// Pad pads a string to the given width
func Pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + spaces(width-len(s))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
