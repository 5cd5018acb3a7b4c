package session

import (
	"context"
	"errors"
	"fmt"

	"mail-triage/internal/deadline"
	"mail-triage/internal/logging"
	"mail-triage/internal/models"
	"mail-triage/internal/store"
	"mail-triage/internal/view"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNotAuthenticated is returned when a session starts without an owner
var ErrNotAuthenticated = errors.New("not authenticated: no owner id")

type Seeder interface {
	Seed(ctx context.Context, ownerID string) (int, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, ownerID string, messages []models.Message) (deadline.Result, error)
}

type Importer interface {
	Import(ctx context.Context, cfg models.ImapConfig, ownerID string) (int, error)
}

// Runner drives one session: import, seed, reconcile, then build the view state
type Runner struct {
	store      store.Store
	seeder     Seeder
	reconciler Reconciler
	importer   Importer
	imapConfig models.ImapConfig
}

func NewRunner(s store.Store, seeder Seeder, reconciler Reconciler) *Runner {
	return &Runner{store: s, seeder: seeder, reconciler: reconciler}
}

// WithImporter enables mailbox import before seeding
func (r *Runner) WithImporter(importer Importer, cfg models.ImapConfig) *Runner {
	r.importer = importer
	r.imapConfig = cfg
	return r
}

// Run executes the session flow for ownerID and returns the state to present
func (r *Runner) Run(ctx context.Context, ownerID string) (*view.State, error) {
	if ownerID == "" {
		return nil, ErrNotAuthenticated
	}

	locallog := logging.Log.WithFields(logrus.Fields{
		"trace_id": uuid.NewString(),
		"owner_id": ownerID,
	})

	if r.importer != nil {
		n, err := r.importer.Import(ctx, r.imapConfig, ownerID)
		switch {
		case err != nil && (store.IsPersistence(err) || ctx.Err() != nil):
			return nil, fmt.Errorf("import: %w", err)
		case err != nil:
			// Import is best effort unless the store itself failed
			locallog.Warnf("Mailbox import failed: %v", err)
		default:
			locallog.Infof("Imported %d new messages", n)
		}
	}

	messages, err := r.store.QueryMessages(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	seeded, err := r.seeder.Seed(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if seeded > 0 {
		if messages, err = r.store.QueryMessages(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	res, err := r.reconciler.Reconcile(ctx, ownerID, messages)
	if err != nil {
		return nil, fmt.Errorf("reconcile deadlines: %w", err)
	}
	locallog.Infof("Deadlines: %d new, %d already known, %d without a date", res.Inserted, res.DedupHits, res.Misses)

	deadlines, err := r.store.QueryAllDeadlines(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return view.NewState(messages, deadlines), nil
}
