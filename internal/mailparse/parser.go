package mailparse

import (
	"io"
	"mime"
	"regexp"

	"mail-triage/internal/models"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

var addressPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Parse converts a fetched IMAP message into an Email, keeping the first text/plain part as body
func Parse(msg *imap.Message) (*models.Email, error) {
	section := &imap.BodySectionName{}
	r := msg.GetBody(section)
	if r == nil {
		return nil, io.EOF
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, err
	}

	email := &models.Email{
		UID:          msg.Uid,
		InternalDate: msg.InternalDate,
		TraceID:      uuid.New().String(),
	}

	header := mr.Header
	email.From = extractEmailAddress(header.Get("From"))

	// Decode Subject
	decodedSubject, err := DecodeHeader(header.Get("Subject"))
	if err != nil {
		return nil, err
	}
	email.Subject = decodedSubject

	// Extract body text/plain
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok || email.BodyText != "" {
			continue
		}
		if !isPlainText(h) {
			continue
		}
		body, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}
		email.BodyText = string(body)
	}

	return email, nil
}

// isPlainText treats a part without Content-Type as text/plain, as RFC 2045 does
func isPlainText(h *mail.InlineHeader) bool {
	if h.Get("Content-Type") == "" {
		return true
	}
	contentType, _, err := h.ContentType()
	return err == nil && contentType == "text/plain"
}

// Simple regex to extract email address from "From" header, which may contain name and email
func extractEmailAddress(fromHeader string) string {
	return addressPattern.FindString(fromHeader)
}

// DecodeHeader decodes MIME-encoded headers (e.g., "=?UTF-8?B?...?=") to plain text
func DecodeHeader(encoded string) (string, error) {
	decoder := new(mime.WordDecoder)
	decoded, err := decoder.DecodeHeader(encoded)
	if err != nil {
		return "", err
	}
	return decoded, nil
}
