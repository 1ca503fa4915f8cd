package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/romdeck/romdeck/internal/gallery"
	"github.com/romdeck/romdeck/internal/tui/styles"
)

const maxSuggestions = 5

// FilterBar is the gallery filter input. Plain text becomes the fuzzy search
// term; "genre:", "franchise:", "company:" and "collection:" prefixes set the
// matching facet. Facet values are suggested from the current option lists,
// ranked by fuzzy match quality.
type FilterBar struct {
	input       textinput.Model
	active      bool
	facets      gallery.FacetOptions
	suggestions []string
}

// NewFilterBar creates an inactive filter bar
func NewFilterBar() FilterBar {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle
	ti.CharLimit = 128
	return FilterBar{input: ti}
}

// Active reports whether the bar has input focus
func (b *FilterBar) Active() bool { return b.active }

// Focus activates the bar and starts the cursor blink
func (b *FilterBar) Focus() tea.Cmd {
	b.active = true
	return b.input.Focus()
}

// Blur deactivates the bar, keeping its text
func (b *FilterBar) Blur() {
	b.active = false
	b.input.Blur()
}

// Reset clears the bar entirely
func (b *FilterBar) Reset() {
	b.input.SetValue("")
	b.suggestions = nil
	b.Blur()
}

// Value returns the raw input text
func (b *FilterBar) Value() string { return b.input.Value() }

// SetFacets updates the option lists backing the suggestions
func (b *FilterBar) SetFacets(f gallery.FacetOptions) {
	b.facets = f
}

// Update feeds a message through the text input and refreshes suggestions
func (b FilterBar) Update(msg tea.Msg) (FilterBar, tea.Cmd) {
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	b.refreshSuggestions()
	return b, cmd
}

// Filter parses the current input into a gallery filter
func (b *FilterBar) Filter() gallery.Filter {
	return parseFilter(b.input.Value())
}

// parseFilter splits the input into facet terms and free text
func parseFilter(raw string) gallery.Filter {
	var f gallery.Filter
	var free []string

	for _, field := range strings.Fields(raw) {
		prefix, value, ok := strings.Cut(field, ":")
		if !ok {
			free = append(free, field)
			continue
		}
		switch strings.ToLower(prefix) {
		case "genre":
			f.Genre = value
		case "franchise":
			f.Franchise = value
		case "company":
			f.Company = value
		case "collection":
			f.Collection = value
		default:
			free = append(free, field)
		}
	}

	f.Text = strings.Join(free, " ")
	return f
}

// refreshSuggestions ranks facet values against the trailing facet term
func (b *FilterBar) refreshSuggestions() {
	b.suggestions = nil

	fields := strings.Fields(b.input.Value())
	if len(fields) == 0 {
		return
	}
	last := fields[len(fields)-1]
	prefix, partial, ok := strings.Cut(last, ":")
	if !ok {
		return
	}

	var options []string
	switch strings.ToLower(prefix) {
	case "genre":
		options = b.facets.Genres
	case "franchise":
		options = b.facets.Franchises
	case "company":
		options = b.facets.Companies
	case "collection":
		options = b.facets.Collections
	default:
		return
	}

	if partial == "" {
		if len(options) > maxSuggestions {
			options = options[:maxSuggestions]
		}
		b.suggestions = options
		return
	}

	matches := fuzzy.Find(strings.ToLower(partial), lowered(options))
	for i, match := range matches {
		if i >= maxSuggestions {
			break
		}
		b.suggestions = append(b.suggestions, options[match.Index])
	}
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// View renders the bar with its suggestion row
func (b *FilterBar) View() string {
	if !b.active && b.input.Value() == "" {
		return ""
	}

	view := b.input.View()
	if len(b.suggestions) > 0 {
		view += "\n" + styles.DimStyle.Render(strings.Join(b.suggestions, "  "))
	}
	return view
}
