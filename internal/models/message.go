package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// Message is a mail owned by one user. It is never mutated once stored.
type Message struct {
	ID          string
	OwnerID     string
	Subject     string
	Body        string
	Category    string
	HasDeadline bool
}

// ContentKey identifies a message by its content within a mailbox, used to seed idempotently
func (m Message) ContentKey() string {
	sum := sha256.Sum256([]byte(m.Subject + "\x00" + m.Body))
	return hex.EncodeToString(sum[:])
}

// Template is a raw seed mail before classification
type Template struct {
	Subject string
	Body    string
}

// Classification is the tagger output attached to a message
type Classification struct {
	Category    string
	HasDeadline bool
}
