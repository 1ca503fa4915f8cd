package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Actions
	Quit        key.Binding
	Help        key.Binding
	Escape      key.Binding
	Filter      key.Binding
	Toggle      key.Binding
	RangeSelect key.Binding
	ClearSel    key.Binding
	Play        key.Binding
	Delete      key.Binding
	SyncSave    key.Binding
	SyncState   key.Binding
	RestoreSave key.Binding
	RestoreSt   key.Binding
	Rescan      key.Binding
	Platforms   key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		RangeSelect: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "select range"),
		),
		ClearSel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear selection"),
		),
		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "play"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete selected"),
		),
		SyncSave: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync save"),
		),
		SyncState: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sync state"),
		),
		RestoreSave: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "restore save"),
		),
		RestoreSt: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "restore state"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan platform"),
		),
		Platforms: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "platforms"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
