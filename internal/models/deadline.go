package models

// DeadlineSource tells how a deadline was created
type DeadlineSource string

const (
	SourceAuto   DeadlineSource = "auto"
	SourceManual DeadlineSource = "manual"
)

// Deadline is a calendar obligation derived from a message, scoped under a user.
// Date is always formatted as YYYY-MM-DD.
type Deadline struct {
	ID       string
	Title    string
	Date     string
	Category string
	Source   DeadlineSource
}

// DedupKey is the (title, date) pair that at most one auto deadline may hold per user
func (d Deadline) DedupKey() string {
	return d.Title + "\x00" + d.Date
}
