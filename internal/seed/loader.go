package seed

import (
	"context"
	"fmt"

	"mail-triage/internal/classifier"
	"mail-triage/internal/logging"
	"mail-triage/internal/models"
	"mail-triage/internal/store"
)

// Loader populates a user's mailbox from a fixed template set
type Loader struct {
	store     store.Store
	templates []models.Template
}

// NewLoader creates a Loader seeding the given templates in order
func NewLoader(s store.Store, templates []models.Template) *Loader {
	return &Loader{
		store:     s,
		templates: templates,
	}
}

// Seed makes sure the owner's mailbox holds every template and returns how many
// messages were inserted. An empty mailbox gets the full set, a partially seeded
// one gets the missing templates, and a mailbox with none of the templates (real
// mail) is left alone. A complete mailbox triggers no insert at all.
func (l *Loader) Seed(ctx context.Context, ownerID string) (int, error) {
	locallog := logging.Log.WithField("owner_id", ownerID)

	existing, err := l.store.QueryMessages(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("seed: query mailbox: %w", err)
	}

	present := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		present[m.ContentKey()] = struct{}{}
	}

	missing := make([]models.Message, 0, len(l.templates))
	for _, t := range l.templates {
		msg := l.message(ownerID, t)
		if _, ok := present[msg.ContentKey()]; !ok {
			missing = append(missing, msg)
		}
	}

	switch {
	case len(missing) == 0:
		return 0, nil
	case len(existing) > 0 && len(missing) == len(l.templates):
		locallog.Debugf("Mailbox already holds %d messages, skipping seed", len(existing))
		return 0, nil
	case len(existing) > 0:
		locallog.Warnf("Mailbox partially seeded, restoring %d of %d templates", len(missing), len(l.templates))
	}

	inserted := 0
	for _, msg := range missing {
		ok, err := l.store.InsertMessageIfAbsent(ctx, msg)
		if err != nil {
			return inserted, fmt.Errorf("seed: insert %q: %w", msg.Subject, err)
		}
		if ok {
			inserted++
		}
	}

	locallog.Infof("Seeded %d messages", inserted)
	return inserted, nil
}

func (l *Loader) message(ownerID string, t models.Template) models.Message {
	meta := classifier.Classify(t.Subject, t.Body)
	return models.Message{
		OwnerID:     ownerID,
		Subject:     t.Subject,
		Body:        t.Body,
		Category:    meta.Category,
		HasDeadline: meta.HasDeadline,
	}
}
