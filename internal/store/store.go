package store

import (
	"context"
	"errors"
	"fmt"

	"mail-triage/internal/models"
)

// DeadlineFilter selects deadlines by exact title and date
type DeadlineFilter struct {
	Title string
	Date  string
}

// Store is the persistence service owning messages and deadlines. Every method
// returns a *PersistenceError on failure.
type Store interface {
	QueryMessages(ctx context.Context, ownerID string) ([]models.Message, error)
	InsertMessage(ctx context.Context, msg models.Message) error
	// InsertMessageIfAbsent inserts msg unless the owner already holds a message
	// with the same ContentKey. The check and the write are atomic.
	InsertMessageIfAbsent(ctx context.Context, msg models.Message) (bool, error)

	QueryDeadlines(ctx context.Context, ownerID string, filter DeadlineFilter) ([]models.Deadline, error)
	QueryAllDeadlines(ctx context.Context, ownerID string) ([]models.Deadline, error)
	InsertDeadline(ctx context.Context, ownerID string, d models.Deadline) error
	// InsertDeadlineIfAbsent inserts d unless an auto deadline with the same
	// title and date exists for the owner. The check and the write are atomic.
	InsertDeadlineIfAbsent(ctx context.Context, ownerID string, d models.Deadline) (bool, error)

	Close() error
}

// PersistenceError reports a query or insert rejected by the backend
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Wrap turns a backend error into a *PersistenceError, leaving nil untouched
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistence reports whether err is, or wraps, a *PersistenceError
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
