package tui

import (
	"fmt"
	"strings"

	"mail-triage/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	deadlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle   = dimStyle.PaddingTop(1)
)

// AppModel is the bubbletea model browsing one session's mailbox.
// It only mutates the session state it was given.
type AppModel struct {
	state   *view.State
	filters []string
	filter  int
	cursor  int

	width, height int
}

// NewAppModel creates a model cycling through view.All and the given categories
func NewAppModel(state *view.State, categories []string) *AppModel {
	return &AppModel{
		state:   state,
		filters: append([]string{view.All}, categories...),
	}
}

func (m *AppModel) Init() tea.Cmd {
	return nil
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Visible)-1 {
			m.cursor++
		}
	case "enter":
		m.state.Select(m.cursor)
	case "esc":
		m.state.Selected = nil
	case "tab":
		m.setFilter((m.filter + 1) % len(m.filters))
	case "shift+tab":
		m.setFilter((m.filter + len(m.filters) - 1) % len(m.filters))
	case "a":
		m.setFilter(0)
	}
	return m, nil
}

func (m *AppModel) setFilter(i int) {
	m.filter = i
	m.cursor = 0
	m.state.ApplyFilter(m.filters[i])
	m.state.Selected = nil
}

func (m *AppModel) View() string {
	v := view.Render(m.state)

	var list strings.Builder
	list.WriteString(titleStyle.Render(fmt.Sprintf("Mails [%s]", v.Filter)) + "\n")
	if v.Empty != "" {
		list.WriteString(dimStyle.Render(v.Empty) + "\n")
	}
	for i, c := range v.MailList {
		line := fmt.Sprintf("%s  %s", c.Subject, dimStyle.Render(c.Category))
		if c.Deadline {
			line = deadlineStyle.Render("●") + " " + line
		} else {
			line = "  " + line
		}
		if i == m.cursor {
			line = cursorStyle.Render(">") + line
		} else {
			line = " " + line
		}
		list.WriteString(line + "\n")
	}

	var preview strings.Builder
	preview.WriteString(titleStyle.Render("Preview") + "\n")
	if v.Preview != nil {
		preview.WriteString(lipgloss.NewStyle().Bold(true).Render(v.Preview.Subject) + "\n\n" + v.Preview.Body)
	} else {
		preview.WriteString(dimStyle.Render("enter: open mail"))
	}

	var deadlines strings.Builder
	deadlines.WriteString(titleStyle.Render("Deadlines") + "\n")
	for _, d := range v.Deadlines {
		deadlines.WriteString(deadlineStyle.Render(d.Date) + "  " + d.Title + "\n")
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(strings.TrimRight(list.String(), "\n")),
		paneStyle.Width(m.previewWidth()).Render(preview.String()),
	)
	footer := footerStyle.Render("j/k: move  enter: open  esc: close  tab: next category  a: all  q: quit")

	return lipgloss.JoinVertical(lipgloss.Left, top, paneStyle.Render(strings.TrimRight(deadlines.String(), "\n")), footer)
}

func (m *AppModel) previewWidth() int {
	if m.width <= 0 {
		return 50
	}
	w := m.width / 2
	if w < 30 {
		w = 30
	}
	return w
}
