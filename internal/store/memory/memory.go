package memory

import (
	"context"
	"sync"

	"mail-triage/internal/models"
	"mail-triage/internal/store"

	"github.com/google/uuid"
)

// Store is an in-memory implementation of store.Store.
// It is NOT persistent and is only suitable for development and tests.
type Store struct {
	mu           sync.RWMutex
	messages     map[string][]models.Message
	contentKeys  map[string]map[string]struct{}
	deadlines    map[string][]models.Deadline
	deadlineKeys map[string]map[string]struct{}
	calls        map[string]int

	// FailOn, when set, is consulted before every operation; a non-nil
	// return is reported as a persistence failure for that call.
	FailOn func(op string) error
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		messages:     make(map[string][]models.Message),
		contentKeys:  make(map[string]map[string]struct{}),
		deadlines:    make(map[string][]models.Deadline),
		deadlineKeys: make(map[string]map[string]struct{}),
		calls:        make(map[string]int),
	}
}

// Calls returns how many times the named operation was invoked
func (s *Store) Calls(op string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

// enter records the call and runs the failure hook. Callers hold s.mu.
func (s *Store) enter(ctx context.Context, op string) error {
	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return store.Wrap(op, err)
	}
	if s.FailOn != nil {
		if err := s.FailOn(op); err != nil {
			return store.Wrap(op, err)
		}
	}
	return nil
}

func (s *Store) QueryMessages(ctx context.Context, ownerID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "QueryMessages"); err != nil {
		return nil, err
	}

	out := make([]models.Message, len(s.messages[ownerID]))
	copy(out, s.messages[ownerID])
	return out, nil
}

func (s *Store) InsertMessage(ctx context.Context, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "InsertMessage"); err != nil {
		return err
	}

	s.appendMessage(msg)
	return nil
}

func (s *Store) InsertMessageIfAbsent(ctx context.Context, msg models.Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "InsertMessageIfAbsent"); err != nil {
		return false, err
	}

	if _, ok := s.contentKeys[msg.OwnerID][msg.ContentKey()]; ok {
		return false, nil
	}
	s.appendMessage(msg)
	return true, nil
}

func (s *Store) appendMessage(msg models.Message) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	s.messages[msg.OwnerID] = append(s.messages[msg.OwnerID], msg)

	keys, ok := s.contentKeys[msg.OwnerID]
	if !ok {
		keys = make(map[string]struct{})
		s.contentKeys[msg.OwnerID] = keys
	}
	keys[msg.ContentKey()] = struct{}{}
}

func (s *Store) QueryDeadlines(ctx context.Context, ownerID string, filter store.DeadlineFilter) ([]models.Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "QueryDeadlines"); err != nil {
		return nil, err
	}

	var out []models.Deadline
	for _, d := range s.deadlines[ownerID] {
		if d.Title == filter.Title && d.Date == filter.Date {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) QueryAllDeadlines(ctx context.Context, ownerID string) ([]models.Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "QueryAllDeadlines"); err != nil {
		return nil, err
	}

	out := make([]models.Deadline, len(s.deadlines[ownerID]))
	copy(out, s.deadlines[ownerID])
	return out, nil
}

func (s *Store) InsertDeadline(ctx context.Context, ownerID string, d models.Deadline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "InsertDeadline"); err != nil {
		return err
	}

	s.appendDeadline(ownerID, d)
	return nil
}

func (s *Store) InsertDeadlineIfAbsent(ctx context.Context, ownerID string, d models.Deadline) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "InsertDeadlineIfAbsent"); err != nil {
		return false, err
	}

	if _, ok := s.deadlineKeys[ownerID][d.DedupKey()]; ok {
		return false, nil
	}
	s.appendDeadline(ownerID, d)
	return true, nil
}

func (s *Store) appendDeadline(ownerID string, d models.Deadline) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.deadlines[ownerID] = append(s.deadlines[ownerID], d)

	keys, ok := s.deadlineKeys[ownerID]
	if !ok {
		keys = make(map[string]struct{})
		s.deadlineKeys[ownerID] = keys
	}
	keys[d.DedupKey()] = struct{}{}
}

func (s *Store) Close() error {
	return nil
}
