package view

import "mail-triage/internal/models"

// All is the filter sentinel that shows every message
const All = "All"

// State is the session-scoped data the presentation renders from.
// Messages is the full mailbox in store order; Visible is the filtered subset.
type State struct {
	Messages  []models.Message
	Visible   []models.Message
	Selected  *models.Message
	Deadlines []models.Deadline
	Filter    string
}

// NewState builds a state showing every message and no selection
func NewState(messages []models.Message, deadlines []models.Deadline) *State {
	return &State{
		Messages:  messages,
		Visible:   messages,
		Deadlines: deadlines,
		Filter:    All,
	}
}

// FilterMessages returns msgs unchanged for All, otherwise the messages whose
// category equals category exactly, in their original order
func FilterMessages(msgs []models.Message, category string) []models.Message {
	if category == All {
		return msgs
	}
	out := make([]models.Message, 0)
	for _, m := range msgs {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}

// ApplyFilter recomputes the visible messages for category
func (s *State) ApplyFilter(category string) {
	s.Filter = category
	s.Visible = FilterMessages(s.Messages, category)
}

// Select shows the i-th visible message in the preview. Out of range clears it.
func (s *State) Select(i int) {
	if i < 0 || i >= len(s.Visible) {
		s.Selected = nil
		return
	}
	m := s.Visible[i]
	s.Selected = &m
}
