package tui

import (
	"strings"
	"testing"

	"mail-triage/internal/models"
	"mail-triage/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel() *AppModel {
	state := view.NewState([]models.Message{
		{Subject: "Assignment 3", Body: "Submit by 5 oct", Category: "Academics", HasDeadline: true},
		{Subject: "Infosys drive", Body: "Register by 12 oct", Category: "Placements", HasDeadline: true},
		{Subject: "Guest lecture", Body: "Friday", Category: "Academics"},
	}, []models.Deadline{{Title: "Assignment 3", Date: "2025-10-05"}})
	return NewAppModel(state, []string{"Placements", "Academics"})
}

func press(m *AppModel, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppModel_Navigation(t *testing.T) {
	m := newTestModel()

	press(m, runes("j"), runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.state.Selected == nil || m.state.Selected.Subject != "Guest lecture" {
		t.Fatalf("Expected Guest lecture selected, got %+v", m.state.Selected)
	}

	press(m, runes("k"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.state.Selected.Subject != "Infosys drive" {
		t.Errorf("Expected Infosys drive selected, got %s", m.state.Selected.Subject)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state.Selected != nil {
		t.Error("Expected esc to close the preview")
	}
}

func TestAppModel_Filter(t *testing.T) {
	m := newTestModel()

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state.Filter != "Placements" || len(m.state.Visible) != 1 {
		t.Fatalf("After tab filter = %s visible = %d", m.state.Filter, len(m.state.Visible))
	}

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state.Filter != "Academics" || len(m.state.Visible) != 2 {
		t.Fatalf("After second tab filter = %s visible = %d", m.state.Filter, len(m.state.Visible))
	}

	press(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state.Filter != view.All {
		t.Errorf("Expected shift+tab to wrap back to All, got %s", m.state.Filter)
	}

	press(m, tea.KeyMsg{Type: tea.KeyTab}, runes("a"))
	if m.state.Filter != view.All || len(m.state.Visible) != 3 {
		t.Errorf("Expected a to reset the filter, got %s", m.state.Filter)
	}
}

func TestAppModel_Quit(t *testing.T) {
	cmd := press(newTestModel(), runes("q"))
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected q to quit")
	}
}

func TestAppModel_View(t *testing.T) {
	m := newTestModel()
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	out := m.View()
	for _, want := range []string{"Mails [All]", "Assignment 3", "Submit by 5 oct", "2025-10-05"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
