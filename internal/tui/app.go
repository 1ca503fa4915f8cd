package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/romdeck/romdeck/internal/domain"
	"github.com/romdeck/romdeck/internal/gallery"
	"github.com/romdeck/romdeck/internal/session"
	"github.com/romdeck/romdeck/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StatePlatforms ApplicationState = iota
	StateGallery
	StateHelp
	StateConfirmDelete
)

const defaultToastTimeout = 3 * time.Second

// ChromeHeight is the fixed footer height
const ChromeHeight = 1

// Model is the main Bubble Tea model for the application
type Model struct {
	State ApplicationState
	Ready bool

	// Services
	Client      romClient
	Ctrl        *gallery.Controller
	Sess        *session.Session
	Launcher    *session.Launcher
	Scanner     domain.ScanNotifier
	DownloadDir string

	// UI components
	Grid      Grid
	FilterBar FilterBar

	// Data
	Platforms      []domain.Platform
	PlatformCursor int

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusText   string
	StatusIsErr  bool
	Notification *domain.Notification
}

// NewModel creates the application model
func NewModel(client romClient, ctrl *gallery.Controller, sess *session.Session, launcher *session.Launcher, scanner domain.ScanNotifier, downloadDir string) Model {
	m := Model{
		State:       StatePlatforms,
		Client:      client,
		Ctrl:        ctrl,
		Sess:        sess,
		Launcher:    launcher,
		Scanner:     scanner,
		DownloadDir: downloadDir,
		FilterBar:   NewFilterBar(),
	}
	m.Grid = NewGrid(func(id int) bool { return ctrl.Selection().Contains(id) })
	return m
}

// Init loads the platform list
func (m Model) Init() tea.Cmd {
	return LoadPlatformsCmd(m.Client)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Grid.SetSize(msg.Width, msg.Height-ChromeHeight-2)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case PlatformsLoadedMsg:
		m.Platforms = msg.Platforms
		return m, nil

	case PlatformResetMsg, PageFetchedMsg, FilterAppliedMsg:
		m.refreshGallery()
		return m, nil

	case RomLaunchedMsg:
		m.StatusText = "Launched: " + msg.Rom.DisplayName()
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case RomsDeletedMsg:
		m.Ctrl.Selection().Clear()
		m.StatusText = fmt.Sprintf("Deleted %d roms", msg.Count)
		m.StatusIsErr = false
		return m, tea.Batch(
			ResetPlatformCmd(m.Ctrl, m.Ctrl.PlatformID()),
			ClearStatusCmd(3*time.Second),
		)

	case RomUploadedMsg:
		m.StatusText = "Uploaded: " + msg.FileName
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case ScanTriggeredMsg:
		m.StatusText = "Rescan requested"
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case NotificationMsg:
		n := msg.Notification
		m.Notification = &n
		timeout := n.Timeout
		if timeout <= 0 {
			timeout = defaultToastTimeout
		}
		return m, ClearNotificationCmd(timeout)

	case ClearNotificationMsg:
		m.Notification = nil
		return m, nil

	case StatusMsg:
		m.StatusText = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusText = ""
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		m.StatusText = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)
	}

	return m, nil
}

// refreshGallery pulls the current view out of the controller
func (m *Model) refreshGallery() {
	m.Grid.SetItems(m.Ctrl.Roms())
	m.FilterBar.SetFacets(m.Ctrl.Facets())
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateHelp:
		switch msg.String() {
		case "esc", "?", "q":
			m.State = StateGallery
		}
		return m, nil

	case StateConfirmDelete:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateGallery
			return m, DeleteRomsCmd(m.Client, m.Ctrl.Selection().IDs())
		case key.Matches(msg, Keys.Deny):
			m.State = StateGallery
		}
		return m, nil

	case StatePlatforms:
		return m.handlePlatformKeys(msg)
	}

	// Gallery state. Filter typing takes priority over bindings.
	if m.FilterBar.Active() {
		switch msg.String() {
		case "esc":
			m.FilterBar.Reset()
			return m, ApplyFilterCmd(m.Ctrl, gallery.Filter{})
		case "enter":
			m.FilterBar.Blur()
			return m, ApplyFilterCmd(m.Ctrl, m.FilterBar.Filter())
		}
		var cmd tea.Cmd
		m.FilterBar, cmd = m.FilterBar.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if !m.Ctrl.Filter().Empty() {
			m.FilterBar.Reset()
			return m, ApplyFilterCmd(m.Ctrl, gallery.Filter{})
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		return m, m.FilterBar.Focus()

	case key.Matches(msg, Keys.Up):
		m.Grid.Move(-1, 0)
		return m, nil

	case key.Matches(msg, Keys.Down):
		m.Grid.Move(1, 0)
		return m, m.maybeFetch()

	case key.Matches(msg, Keys.Left):
		m.Grid.Move(0, -1)
		return m, nil

	case key.Matches(msg, Keys.Right):
		m.Grid.Move(0, 1)
		return m, m.maybeFetch()

	case key.Matches(msg, Keys.PageDown):
		m.Grid.Move(4, 0)
		return m, m.maybeFetch()

	case key.Matches(msg, Keys.PageUp):
		m.Grid.Move(-4, 0)
		return m, nil

	case key.Matches(msg, Keys.Home):
		m.Grid.MoveTo(0)
		return m, nil

	case key.Matches(msg, Keys.End):
		m.Grid.MoveTo(m.Grid.Len() - 1)
		return m, m.maybeFetch()

	case key.Matches(msg, Keys.Toggle):
		m.Ctrl.Selection().Toggle(m.Ctrl.Roms(), m.Grid.Cursor())
		return m, nil

	case key.Matches(msg, Keys.RangeSelect):
		m.extendSelection()
		return m, nil

	case key.Matches(msg, Keys.ClearSel):
		m.Ctrl.Selection().Clear()
		return m, nil

	case key.Matches(msg, Keys.Enter), key.Matches(msg, Keys.Play):
		if rom := m.Grid.CursorItem(); rom != nil {
			return m, LaunchRomCmd(m.Client, m.Sess, m.Launcher, m.DownloadDir, *rom)
		}
		return m, nil

	case key.Matches(msg, Keys.Delete):
		if m.Ctrl.Selection().Count() > 0 {
			m.State = StateConfirmDelete
		}
		return m, nil

	case key.Matches(msg, Keys.SyncSave):
		return m, SyncSaveCmd(m.Sess)

	case key.Matches(msg, Keys.SyncState):
		return m, SyncStateCmd(m.Sess)

	case key.Matches(msg, Keys.RestoreSave):
		return m, RestoreSaveCmd(m.Sess)

	case key.Matches(msg, Keys.RestoreSt):
		return m, RestoreStateCmd(m.Sess)

	case key.Matches(msg, Keys.Rescan):
		return m, TriggerScanCmd(m.Scanner, m.Ctrl.PlatformID())

	case key.Matches(msg, Keys.Platforms):
		m.State = StatePlatforms
		return m, nil
	}

	return m, nil
}

// handlePlatformKeys handles the platform list state
func (m Model) handlePlatformKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Up):
		if m.PlatformCursor > 0 {
			m.PlatformCursor--
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		if m.PlatformCursor < len(m.Platforms)-1 {
			m.PlatformCursor++
		}
		return m, nil

	case key.Matches(msg, Keys.Enter), key.Matches(msg, Keys.Right):
		if m.PlatformCursor < len(m.Platforms) {
			m.State = StateGallery
			m.FilterBar.Reset()
			m.Grid.MoveTo(0)
			return m, ResetPlatformCmd(m.Ctrl, m.Platforms[m.PlatformCursor].ID)
		}
		return m, nil

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil
	}
	return m, nil
}

// maybeFetch requests another page when the cursor is near the bottom of the
// fetched content and more remains.
func (m *Model) maybeFetch() tea.Cmd {
	if !m.Grid.NearBottom() || m.Ctrl.Exhausted() || m.Ctrl.InFlight() {
		return nil
	}
	return FetchPageCmd(m.Ctrl)
}

// extendSelection applies the range gesture anchored at the last action. The
// direction follows the focused item: extending over a deselected item
// selects, over a selected one deselects.
func (m *Model) extendSelection() {
	view := m.Ctrl.Roms()
	idx := m.Grid.Cursor()
	if idx < 0 || idx >= len(view) {
		return
	}

	sel := m.Ctrl.Selection()
	willSelect := !sel.Contains(view[idx].ID)
	sel.SelectRange(view, idx, willSelect)
	if willSelect {
		sel.Add(view[idx].ID)
	}
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var content string
	switch m.State {
	case StateHelp:
		content = m.renderHelp()
	case StatePlatforms:
		content = m.renderPlatforms()
	case StateConfirmDelete:
		content = m.renderConfirmDelete()
	default:
		content = m.renderGallery()
	}

	view := lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())

	if m.Notification != nil {
		toast := styles.ToastStyle.
			BorderForeground(styles.ToastColor(m.Notification.Color)).
			Render(m.Notification.Message)
		view = lipgloss.JoinVertical(lipgloss.Left, toast, view)
	}
	return view
}

func (m Model) renderPlatforms() string {
	out := styles.TitleStyle.Render("Platforms") + "\n\n"
	for i, p := range m.Platforms {
		line := fmt.Sprintf("%s (%d)", p.Name, p.RomCount)
		if i == m.PlatformCursor {
			out += styles.FocusedItemStyle.Render(line) + "\n"
		} else {
			out += styles.NormalItemStyle.Render(line) + "\n"
		}
	}
	if len(m.Platforms) == 0 {
		out += styles.DimStyle.Render("no platforms")
	}
	return out
}

func (m Model) renderGallery() string {
	header := styles.TitleStyle.Render(m.platformName())
	counts := fmt.Sprintf(" %d roms", m.Grid.Len())
	if n := m.Ctrl.Selection().Count(); n > 0 {
		counts += fmt.Sprintf(", %d selected", n)
	}
	if m.Ctrl.InFlight() {
		counts += ", loading..."
	}
	header += styles.SubtitleStyle.Render(counts)

	parts := []string{header}
	if bar := m.FilterBar.View(); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.Grid.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderConfirmDelete() string {
	prompt := fmt.Sprintf("Delete %d selected roms from the server? (y/n)", m.Ctrl.Selection().Count())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderGallery(),
		styles.ErrorStyle.Render(prompt))
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"j/k/h/l", "move"},
		{"enter/p", "download and play"},
		{"space", "select"},
		{"v", "extend selection to cursor"},
		{"c", "clear selection"},
		{"/", "filter (genre:, franchise:, company:, collection:)"},
		{"x", "delete selected"},
		{"s / S", "sync save / state to server"},
		{"u / U", "restore save / state into session"},
		{"r", "rescan platform"},
		{"b", "platform list"},
		{"q", "quit"},
	}

	out := styles.TitleStyle.Render("Keys") + "\n\n"
	for _, row := range rows {
		out += styles.HelpKeyStyle.Render(styles.Pad(row[0], 10)) +
			styles.HelpDescStyle.Render(row[1]) + "\n"
	}
	return out
}

func (m Model) renderFooter() string {
	if m.StatusText == "" {
		return styles.DimStyle.Render("? help  q quit")
	}
	if m.StatusIsErr {
		return styles.ErrorStyle.Render(m.StatusText)
	}
	return styles.SuccessStyle.Render(m.StatusText)
}

func (m Model) platformName() string {
	id := m.Ctrl.PlatformID()
	for _, p := range m.Platforms {
		if p.ID == id {
			return p.Name
		}
	}
	return "Gallery"
}
