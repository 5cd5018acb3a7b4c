package models

import "time"

// Email represents a parsed message pulled from an IMAP mailbox
type Email struct {
	UID          uint32
	From         string
	Subject      string
	BodyText     string
	InternalDate time.Time
	TraceID      string
}
