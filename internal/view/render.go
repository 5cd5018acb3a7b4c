package view

import (
	"fmt"
	"strings"
)

// EmptyMailList is shown in place of cards when nothing matches
const EmptyMailList = "No mails"

type Card struct {
	Subject  string
	Category string
	Deadline bool
}

type Preview struct {
	Subject string
	Body    string
}

type DeadlineCard struct {
	Title string
	Date  string
}

// View describes what the screen shows, independently of any toolkit
type View struct {
	Filter    string
	MailList  []Card
	Empty     string
	Preview   *Preview
	Deadlines []DeadlineCard
}

// Render projects state into a View. It has no side effects.
func Render(s *State) View {
	v := View{Filter: s.Filter}

	if len(s.Visible) == 0 {
		v.Empty = EmptyMailList
	}
	for _, m := range s.Visible {
		v.MailList = append(v.MailList, Card{Subject: m.Subject, Category: m.Category, Deadline: m.HasDeadline})
	}

	if s.Selected != nil {
		v.Preview = &Preview{Subject: s.Selected.Subject, Body: s.Selected.Body}
	}

	for _, d := range s.Deadlines {
		v.Deadlines = append(v.Deadlines, DeadlineCard{Title: d.Title, Date: d.Date})
	}
	return v
}

// Text lays a View out as plain text for non-interactive output
func Text(v View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mails [%s]\n", v.Filter)
	if v.Empty != "" {
		fmt.Fprintf(&b, "  %s\n", v.Empty)
	}
	for _, c := range v.MailList {
		marker := " "
		if c.Deadline {
			marker = "!"
		}
		fmt.Fprintf(&b, "%s %-45s %s\n", marker, c.Subject, c.Category)
	}

	if v.Preview != nil {
		fmt.Fprintf(&b, "\n%s\n%s\n", v.Preview.Subject, v.Preview.Body)
	}

	b.WriteString("\nDeadlines\n")
	for _, d := range v.Deadlines {
		fmt.Fprintf(&b, "  %s  %s\n", d.Date, d.Title)
	}
	return b.String()
}
