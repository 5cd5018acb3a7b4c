package emailprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mail-triage/internal/classifier"
	imapclient "mail-triage/internal/imap"
	"mail-triage/internal/logging"
	"mail-triage/internal/mailparse"
	"mail-triage/internal/models"
	"mail-triage/internal/store"

	"golang.org/x/time/rate"
)

type Processor struct {
	imapClient imapclient.Client
	store      store.Store
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewProcessor creates a Processor importing from imapClient into s, fetching at most fetchRate messages per second (0 means unlimited)
func NewProcessor(imapClient imapclient.Client, s store.Store, fetchRate float64) *Processor {
	limit := rate.Inf
	if fetchRate > 0 {
		limit = rate.Limit(fetchRate)
	}
	return &Processor{
		imapClient: imapClient,
		store:      s,
		limiter:    rate.NewLimiter(limit, 1),
		now:        time.Now,
	}
}

// Import connects to the configured mailbox and copies every message received within cfg.Since
// into the owner's mailbox. It returns how many new messages were stored.
func (p *Processor) Import(ctx context.Context, cfg models.ImapConfig, ownerID string) (int, error) {
	if err := p.imapClient.Connect(cfg.Server); err != nil {
		return 0, err
	}
	defer func(client imapclient.Client) {
		_ = client.Close()
	}(p.imapClient)

	if err := p.imapClient.Login(cfg.Login, cfg.Password); err != nil {
		return 0, fmt.Errorf("login error: %w", err)
	}

	if err := p.imapClient.SelectMailbox(cfg.MailBox); err != nil {
		return 0, fmt.Errorf("folder selection error: %w", err)
	}

	uids, err := p.imapClient.ListUIDsSince(cfg.Since)
	if err != nil {
		return 0, err
	}

	imported := 0
	var errs []error
	for _, uid := range uids {
		if err := p.limiter.Wait(ctx); err != nil {
			return imported, errors.Join(append(errs, err)...)
		}

		stored, err := p.ProcessEmail(ctx, uid, ownerID, cfg.Since)
		if err != nil {
			if store.IsPersistence(err) {
				errs = append(errs, err)
			}
			logging.Log.Errorf("Error processing email UID %d: %v", uid, err)
			continue
		}
		if stored {
			imported++
		}
	}

	return imported, errors.Join(errs...)
}

// ProcessEmail orchestrates the import of one message:
// fetch → parse → validate age → classify → store if absent
func (p *Processor) ProcessEmail(ctx context.Context, uid uint32, ownerID string, window time.Duration) (bool, error) {
	// Fetch message from IMAP
	msg, err := p.imapClient.FetchMessage(uid)
	if err != nil {
		return false, err
	}

	// Parse email to normalized structure
	email, err := mailparse.Parse(msg)
	if err != nil {
		logging.Log.WithField("trace_id", "unknown").Errorf("Error parsing email UID %d: %v", uid, err)
		return false, err
	}

	locallog := logging.Log.WithField("trace_id", email.TraceID)

	if !isEmailValidAt(email, p.now(), window) {
		locallog.Debugf("Message UID %d is older than %v (date: %v), skipping", uid, window, email.InternalDate)
		return false, nil
	}

	meta := classifier.Classify(email.Subject, email.BodyText)
	stored, err := p.store.InsertMessageIfAbsent(ctx, models.Message{
		OwnerID:     ownerID,
		Subject:     email.Subject,
		Body:        email.BodyText,
		Category:    meta.Category,
		HasDeadline: meta.HasDeadline,
	})
	if err != nil {
		return false, err
	}

	if stored {
		locallog.Infof("Imported %q from %s as %s", email.Subject, email.From, meta.Category)
	}
	return stored, nil
}

// isEmailValidAt allows testing with a fixed "now" time for deterministic unit tests
func isEmailValidAt(email *models.Email, now time.Time, window time.Duration) bool {
	if email.InternalDate.IsZero() {
		return true
	}

	cutoff := now.Add(-window)
	return !email.InternalDate.Before(cutoff) // inclusive
}
