package browse

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/listing"
)

func newTestModel() Model {
	v := listing.ProjectsVariant()
	v.PageSizes = []int{2, 4}
	v.DefaultPageSize = 2

	cards := []card.Card{
		{Kind: card.KindProject, Slug: "api", Title: "API", Date: card.NewDate("2023-05-01"), Languages: card.LabelSet{"Go"}},
		{Kind: card.KindProject, Slug: "cli", Title: "CLI", Date: card.NewDate("2022-03-01"), Languages: card.LabelSet{"Go", "Rust"}},
		{Kind: card.KindProject, Slug: "notebook", Title: "Notebook", Date: card.NewDate("2021-01-01"), Languages: card.LabelSet{"Python"}},
	}
	return New(listing.NewController(v, cards))
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestPaging(t *testing.T) {
	m := newTestModel()

	if diff := cmp.Diff([]string{"api", "cli"}, m.ctrl.View().Slugs); diff != "" {
		t.Errorf("first page mismatch (-want +got):\n%s", diff)
	}

	m = press(m, "right")
	if diff := cmp.Diff([]string{"notebook"}, m.ctrl.View().Slugs); diff != "" {
		t.Errorf("second page mismatch (-want +got):\n%s", diff)
	}

	m = press(m, "right")
	if m.ctrl.View().Page != 2 {
		t.Errorf("Expected to stay on last page, got %d", m.ctrl.View().Page)
	}

	m = press(m, "h")
	if m.ctrl.View().Page != 1 {
		t.Errorf("Expected page 1, got %d", m.ctrl.View().Page)
	}
}

func TestYearCycle(t *testing.T) {
	m := newTestModel()

	m = press(m, "y")
	if m.ctrl.View().State.Year != "2023" {
		t.Errorf("Expected year 2023, got '%s'", m.ctrl.View().State.Year)
	}

	m = press(m, "y", "y", "y")
	if m.ctrl.View().State.Year != "" {
		t.Errorf("Expected year filter to wrap to all years, got '%s'", m.ctrl.View().State.Year)
	}
}

func TestSortAndPageSize(t *testing.T) {
	m := newTestModel()

	m = press(m, "s")
	if diff := cmp.Diff([]string{"notebook", "cli"}, m.ctrl.View().Slugs); diff != "" {
		t.Errorf("oldest first mismatch (-want +got):\n%s", diff)
	}

	m = press(m, "p")
	if m.ctrl.View().PageSize != 4 {
		t.Errorf("Expected page size 4, got %d", m.ctrl.View().PageSize)
	}

	m = press(m, "r")
	if !m.ctrl.State().IsDefault() || m.ctrl.View().PageSize != 2 {
		t.Errorf("Expected reset to defaults, got %+v size %d", m.ctrl.State(), m.ctrl.View().PageSize)
	}
}

func TestFacetPicker(t *testing.T) {
	m := newTestModel()

	m = press(m, "f")
	if m.mode != modeFacet {
		t.Fatal("Expected facet mode")
	}

	// Go has the highest count and is listed first
	m = press(m, "space")
	if diff := cmp.Diff([]string{"Go"}, m.ctrl.State().Selected("languages")); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	if m.ctrl.View().Count != 2 {
		t.Errorf("Expected 2 Go projects, got %d", m.ctrl.View().Count)
	}

	m = press(m, "p", "y")
	if m.search.Value() != "py" {
		t.Errorf("Expected search 'py', got '%s'", m.search.Value())
	}
	if !strings.Contains(m.View(), "Python (1)") {
		t.Errorf("Expected Python option in view, got:\n%s", m.View())
	}

	m = press(m, "space")
	if diff := cmp.Diff([]string{"Go", "Python"}, m.ctrl.State().Selected("languages")); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	if m.ctrl.View().Count != 3 {
		t.Errorf("Expected 3 projects, got %d", m.ctrl.View().Count)
	}

	m = press(m, "esc")
	if m.mode != modeList {
		t.Error("Expected list mode after esc")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if updated.(Model).View() != "" {
		t.Error("Expected empty view after quit")
	}
}
