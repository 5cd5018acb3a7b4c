package memory

import (
	"context"
	"errors"
	"testing"

	"mail-triage/internal/models"
	"mail-triage/internal/store"
	"mail-triage/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return NewStore()
	})
}

func TestStore_FailOn(t *testing.T) {
	s := NewStore()
	boom := errors.New("backend unavailable")
	s.FailOn = func(op string) error {
		if op == "InsertDeadline" {
			return boom
		}
		return nil
	}

	err := s.InsertDeadline(context.Background(), "alice", models.Deadline{Title: "x", Date: "2025-10-01"})
	if !store.IsPersistence(err) {
		t.Fatalf("Expected a persistence error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected error to wrap the backend failure, got %v", err)
	}

	if _, err := s.QueryAllDeadlines(context.Background(), "alice"); err != nil {
		t.Errorf("QueryAllDeadlines() unexpected error: %v", err)
	}
	if got := s.Calls("InsertDeadline"); got != 1 {
		t.Errorf("Calls(InsertDeadline) = %d, want 1", got)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore().QueryMessages(ctx, "alice")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
