package browse

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lysyi3m/folio/app/listing"
	"github.com/lysyi3m/folio/app/render"
)

type mode int

const (
	modeList mode = iota
	modeFacet
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cardStyle     = lipgloss.NewStyle().Bold(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
)

// Model is a terminal view over one collection driven by a listing.Controller
type Model struct {
	ctrl     *listing.Controller
	mode     mode
	facet    int
	cursor   int
	search   textinput.Model
	width    int
	quitting bool
}

func New(ctrl *listing.Controller) Model {
	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "/ "
	search.CharLimit = 64

	return Model{ctrl: ctrl, search: search}
}

// Run blocks until the user quits or ctx is cancelled
func Run(ctx context.Context, ctrl *listing.Controller) error {
	p := tea.NewProgram(New(ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == modeFacet {
			return m.updateFacet(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.ctrl.View()

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "y":
		if m.ctrl.Variant().Years {
			m.ctrl.SetYear(next(append([]string{""}, view.Years...), view.State.Year))
		}
	case "s":
		if view.State.Sort == listing.SortOldest {
			m.ctrl.SetSort(listing.SortNewest)
		} else {
			m.ctrl.SetSort(listing.SortOldest)
		}
	case "p":
		m.ctrl.SetPageSize(next(m.ctrl.Variant().PageSizeOptions(), view.PageSize))
	case "r":
		m.ctrl.Reset()
	case "right", "l":
		m.ctrl.NextPage()
	case "left", "h":
		m.ctrl.PrevPage()
	case "f":
		if len(m.ctrl.Variant().Facets) > 0 {
			m.mode = modeFacet
			m.cursor = 0
			m.search.SetValue("")
			return m, m.search.Focus()
		}
	}
	return m, nil
}

func (m Model) updateFacet(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	facets := m.ctrl.Variant().Facets
	key := facets[m.facet].Key
	options := m.ctrl.FacetOptions(key, m.search.Value())

	switch msg.String() {
	case "esc", "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "tab":
		m.facet = (m.facet + 1) % len(facets)
		m.cursor = 0
		m.search.SetValue("")
		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
		return m, nil
	case " ":
		if m.cursor < len(options) {
			m.ctrl.ToggleFacet(key, options[m.cursor].Name)
		}
		return m, nil
	case "ctrl+x":
		m.ctrl.ClearFacet(key)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if n := len(m.ctrl.FacetOptions(key, m.search.Value())); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	variant := m.ctrl.Variant()
	view := m.ctrl.View()

	var b strings.Builder
	b.WriteString(titleStyle.Render(variant.Title))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Width(m.width).Render(view.Summary))
	b.WriteString("\n\n")

	if m.mode == modeFacet {
		b.WriteString(m.facetView())
	} else {
		b.WriteString(m.listView(view))
	}

	return b.String()
}

func (m Model) listView(view listing.View) string {
	var b strings.Builder

	if len(view.Items) == 0 {
		b.WriteString(metaStyle.Render("No matching items"))
		b.WriteString("\n")
	}
	for _, item := range view.Items {
		b.WriteString(cardStyle.Render(item.Title))
		if dates := render.DateRange(item); dates != "" {
			b.WriteString("  " + metaStyle.Render(dates))
		}
		b.WriteString("\n")
		if item.Description != "" {
			b.WriteString("  " + summaryStyle.Render(item.Description) + "\n")
		}
	}

	b.WriteString(helpStyle.Render(view.PageSummary + "  ←/→ page · y year · s sort · p per page · f filter · r reset · q quit"))
	return b.String()
}

func (m Model) facetView() string {
	facet := m.ctrl.Variant().Facets[m.facet]
	state := m.ctrl.State()

	var b strings.Builder
	b.WriteString(cardStyle.Render(facet.Label) + "  " + metaStyle.Render(listing.ButtonLabel(facet, state)))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	for i, opt := range m.ctrl.FacetOptions(facet.Key, m.search.Value()) {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		check := "[ ]"
		line := fmt.Sprintf("%s (%d)", opt.Name, opt.Count)
		if state.IsSelected(facet.Key, opt.Name) {
			check = "[x]"
			line = selectedStyle.Render(line)
		}
		b.WriteString(prefix + check + " " + line + "\n")
	}

	b.WriteString(helpStyle.Render("space toggle · tab next facet · ctrl+x clear · enter done"))
	return b.String()
}

// next returns the element after cur in options, wrapping around
func next[T comparable](options []T, cur T) T {
	if len(options) == 0 {
		return cur
	}
	i := slices.Index(options, cur)
	return options[(i+1)%len(options)]
}
