package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mail-triage/internal/models"
	"mail-triage/internal/store"
)

// errPresent aborts a conditional-insert transaction that found a match.
var errPresent = errors.New("document already present")

// Store implements store.Store on Cloud Firestore. Mails live in the top-level
// "mails" collection keyed by a userId field; deadlines live under
// users/{uid}/deadlines.
type Store struct {
	client *firestore.Client
	now    func() time.Time
}

// NewStore creates a Firestore store for the given project.
// FIRESTORE_EMULATOR_HOST is honoured by the client library.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, now: time.Now}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) mailsCol() *firestore.CollectionRef {
	return s.client.Collection("mails")
}

func (s *Store) deadlinesCol(ownerID string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(ownerID).Collection("deadlines")
}

// docID derives a deterministic document ID so concurrent conditional
// inserts of the same key collide on Create.
func docID(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type mailDoc struct {
	UserID      string    `firestore:"userId"`
	Subject     string    `firestore:"subject"`
	Body        string    `firestore:"body"`
	Category    string    `firestore:"category"`
	HasDeadline bool      `firestore:"hasDeadline"`
	ContentKey  string    `firestore:"contentKey"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

type deadlineDoc struct {
	Title     string    `firestore:"title"`
	Date      string    `firestore:"date"`
	Category  string    `firestore:"category"`
	Source    string    `firestore:"source"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func (s *Store) newMailDoc(msg models.Message) mailDoc {
	return mailDoc{
		UserID:      msg.OwnerID,
		Subject:     msg.Subject,
		Body:        msg.Body,
		Category:    msg.Category,
		HasDeadline: msg.HasDeadline,
		ContentKey:  msg.ContentKey(),
		CreatedAt:   s.now(),
	}
}

func (s *Store) newDeadlineDoc(d models.Deadline) deadlineDoc {
	return deadlineDoc{
		Title:     d.Title,
		Date:      d.Date,
		Category:  d.Category,
		Source:    string(d.Source),
		CreatedAt: s.now(),
	}
}

// ─────────────────────────────────────────
// Messages
// ─────────────────────────────────────────

func (s *Store) QueryMessages(ctx context.Context, ownerID string) ([]models.Message, error) {
	iter := s.mailsCol().Where("userId", "==", ownerID).Documents(ctx)
	defer iter.Stop()

	type row struct {
		msg       models.Message
		createdAt time.Time
	}
	var rows []row
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, store.Wrap("QueryMessages", err)
		}

		var doc mailDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, store.Wrap("QueryMessages", fmt.Errorf("decode mailDoc: %w", err))
		}
		rows = append(rows, row{
			msg: models.Message{
				ID:          snap.Ref.ID,
				OwnerID:     doc.UserID,
				Subject:     doc.Subject,
				Body:        doc.Body,
				Category:    doc.Category,
				HasDeadline: doc.HasDeadline,
			},
			createdAt: doc.CreatedAt,
		})
	}

	// Ordering by createdAt server-side would need a composite index.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].createdAt.Before(rows[j].createdAt) })

	out := make([]models.Message, len(rows))
	for i, r := range rows {
		out[i] = r.msg
	}
	return out, nil
}

func (s *Store) InsertMessage(ctx context.Context, msg models.Message) error {
	ref := s.mailsCol().NewDoc()
	if msg.ID != "" {
		ref = s.mailsCol().Doc(msg.ID)
	}
	_, err := ref.Create(ctx, s.newMailDoc(msg))
	return store.Wrap("InsertMessage", err)
}

func (s *Store) InsertMessageIfAbsent(ctx context.Context, msg models.Message) (bool, error) {
	doc := s.newMailDoc(msg)
	ref := s.mailsCol().Doc(docID(msg.OwnerID, doc.ContentKey))
	q := s.mailsCol().Where("userId", "==", msg.OwnerID).Where("contentKey", "==", doc.ContentKey).Limit(1)

	return s.createIfAbsent(ctx, "InsertMessageIfAbsent", q, ref, doc)
}

// ─────────────────────────────────────────
// Deadlines
// ─────────────────────────────────────────

func (s *Store) QueryDeadlines(ctx context.Context, ownerID string, filter store.DeadlineFilter) ([]models.Deadline, error) {
	q := s.deadlinesCol(ownerID).Where("title", "==", filter.Title).Where("date", "==", filter.Date)
	return s.readDeadlines("QueryDeadlines", q.Documents(ctx))
}

func (s *Store) QueryAllDeadlines(ctx context.Context, ownerID string) ([]models.Deadline, error) {
	q := s.deadlinesCol(ownerID).OrderBy("createdAt", firestore.Asc)
	return s.readDeadlines("QueryAllDeadlines", q.Documents(ctx))
}

func (s *Store) readDeadlines(op string, iter *firestore.DocumentIterator) ([]models.Deadline, error) {
	defer iter.Stop()

	var out []models.Deadline
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, store.Wrap(op, err)
		}

		var doc deadlineDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, store.Wrap(op, fmt.Errorf("decode deadlineDoc: %w", err))
		}
		out = append(out, models.Deadline{
			ID:       snap.Ref.ID,
			Title:    doc.Title,
			Date:     doc.Date,
			Category: doc.Category,
			Source:   models.DeadlineSource(doc.Source),
		})
	}
	return out, nil
}

func (s *Store) InsertDeadline(ctx context.Context, ownerID string, d models.Deadline) error {
	ref := s.deadlinesCol(ownerID).NewDoc()
	if d.ID != "" {
		ref = s.deadlinesCol(ownerID).Doc(d.ID)
	}
	_, err := ref.Create(ctx, s.newDeadlineDoc(d))
	return store.Wrap("InsertDeadline", err)
}

func (s *Store) InsertDeadlineIfAbsent(ctx context.Context, ownerID string, d models.Deadline) (bool, error) {
	col := s.deadlinesCol(ownerID)
	ref := col.Doc(docID(d.Title, d.Date))
	q := col.Where("title", "==", d.Title).
		Where("date", "==", d.Date).
		Limit(1)

	return s.createIfAbsent(ctx, "InsertDeadlineIfAbsent", q, ref, s.newDeadlineDoc(d))
}

// createIfAbsent runs the existence query and the create in one transaction.
// The deterministic ref makes a lost race surface as AlreadyExists.
func (s *Store) createIfAbsent(ctx context.Context, op string, q firestore.Query, ref *firestore.DocumentRef, data any) (bool, error) {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.Documents(q).GetAll()
		if err != nil {
			return err
		}
		if len(snaps) > 0 {
			return errPresent
		}
		return tx.Create(ref, data)
	})

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errPresent), status.Code(err) == codes.AlreadyExists:
		return false, nil
	default:
		return false, store.Wrap(op, err)
	}
}

func (s *Store) Close() error {
	return s.client.Close()
}
