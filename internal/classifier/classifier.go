package classifier

import (
	"strings"

	"mail-triage/internal/models"
)

const (
	CategoryPlacements = "Placements"
	CategoryAcademics  = "Academics"
	CategoryEvents     = "Events"
	CategoryFinance    = "Finance"
	CategoryGeneral    = "General"
)

type rule struct {
	category string
	keywords []string
}

// Rules are checked in order and the first one with a matching keyword wins.
var rules = []rule{
	{category: CategoryPlacements, keywords: []string{"placement", "internship", "recruit", "interview", "job offer", "hiring"}},
	{category: CategoryAcademics, keywords: []string{"assignment", "exam", "lecture", "quiz", "lab", "course", "project report", "viva"}},
	{category: CategoryEvents, keywords: []string{"hackathon", "workshop", "fest", "seminar", "webinar", "club", "event"}},
	{category: CategoryFinance, keywords: []string{"fee", "payment", "scholarship", "invoice", "refund"}},
}

var deadlineCues = []string{"deadline", "due", "submit", "last date", "register by", "before", "apply by"}

// Classify tags a mail with a category and whether it announces a deadline
func Classify(subject, body string) models.Classification {
	text := strings.ToLower(subject + " " + body)

	category := CategoryGeneral
	for _, r := range rules {
		if containsAny(text, r.keywords) {
			category = r.category
			break
		}
	}

	return models.Classification{
		Category:    category,
		HasDeadline: containsAny(text, deadlineCues),
	}
}

// Categories returns every category name in display order
func Categories() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, CategoryGeneral)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
