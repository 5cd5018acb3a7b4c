// Package storetest holds behaviour checks shared by every store.Store backend.
package storetest

import (
	"context"
	"sync"
	"testing"

	"mail-triage/internal/models"
	"mail-triage/internal/store"
)

// Run exercises a fresh store returned by newStore for each subtest
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("MessagesScopedAndOrdered", func(t *testing.T) {
		testMessagesScopedAndOrdered(t, newStore(t))
	})
	t.Run("InsertMessageIfAbsent", func(t *testing.T) {
		testInsertMessageIfAbsent(t, newStore(t))
	})
	t.Run("DeadlineQueries", func(t *testing.T) {
		testDeadlineQueries(t, newStore(t))
	})
	t.Run("InsertDeadlineIfAbsent", func(t *testing.T) {
		testInsertDeadlineIfAbsent(t, newStore(t))
	})
	t.Run("ManualDeadlineBlocksInsertIfAbsent", func(t *testing.T) {
		testManualDeadlineBlocksInsertIfAbsent(t, newStore(t))
	})
	t.Run("ConcurrentInsertDeadlineIfAbsent", func(t *testing.T) {
		testConcurrentInsertDeadlineIfAbsent(t, newStore(t))
	})
}

func testMessagesScopedAndOrdered(t *testing.T, s store.Store) {
	ctx := context.Background()

	msgs, err := s.QueryMessages(ctx, "alice")
	if err != nil {
		t.Fatalf("QueryMessages() error: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("Expected empty mailbox, got %d messages", len(msgs))
	}

	subjects := []string{"first", "second", "third"}
	for _, subject := range subjects {
		err := s.InsertMessage(ctx, models.Message{OwnerID: "alice", Subject: subject, Body: "body", Category: "General"})
		if err != nil {
			t.Fatalf("InsertMessage(%s) error: %v", subject, err)
		}
	}
	if err := s.InsertMessage(ctx, models.Message{OwnerID: "bob", Subject: "other", Body: "body"}); err != nil {
		t.Fatalf("InsertMessage(bob) error: %v", err)
	}

	msgs, err = s.QueryMessages(ctx, "alice")
	if err != nil {
		t.Fatalf("QueryMessages() error: %v", err)
	}
	if len(msgs) != len(subjects) {
		t.Fatalf("Expected %d messages for alice, got %d", len(subjects), len(msgs))
	}
	for i, m := range msgs {
		if m.Subject != subjects[i] {
			t.Errorf("Message %d subject = %q, want %q", i, m.Subject, subjects[i])
		}
		if m.OwnerID != "alice" {
			t.Errorf("Message %d owner = %q, want alice", i, m.OwnerID)
		}
		if m.ID == "" {
			t.Errorf("Message %d has no ID", i)
		}
	}
}

func testInsertMessageIfAbsent(t *testing.T, s store.Store) {
	ctx := context.Background()
	msg := models.Message{OwnerID: "alice", Subject: "Lab 2", Body: "Submit by 5 oct", Category: "Academics", HasDeadline: true}

	inserted, err := s.InsertMessageIfAbsent(ctx, msg)
	if err != nil || !inserted {
		t.Fatalf("First InsertMessageIfAbsent() = (%v, %v), want (true, nil)", inserted, err)
	}

	inserted, err = s.InsertMessageIfAbsent(ctx, msg)
	if err != nil || inserted {
		t.Fatalf("Second InsertMessageIfAbsent() = (%v, %v), want (false, nil)", inserted, err)
	}

	other := msg
	other.OwnerID = "bob"
	inserted, err = s.InsertMessageIfAbsent(ctx, other)
	if err != nil || !inserted {
		t.Fatalf("InsertMessageIfAbsent() for another owner = (%v, %v), want (true, nil)", inserted, err)
	}

	msgs, err := s.QueryMessages(ctx, "alice")
	if err != nil {
		t.Fatalf("QueryMessages() error: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 message for alice, got %d", len(msgs))
	}
	if !msgs[0].HasDeadline || msgs[0].Category != "Academics" {
		t.Errorf("Stored message lost fields: %+v", msgs[0])
	}
}

func testDeadlineQueries(t *testing.T, s store.Store) {
	ctx := context.Background()

	deadlines := []models.Deadline{
		{Title: "Lab 2", Date: "2025-10-05", Category: "Academics", Source: models.SourceAuto},
		{Title: "Lab 2", Date: "2025-10-12", Category: "Academics", Source: models.SourceAuto},
		{Title: "Fees", Date: "2025-09-30", Category: "Finance", Source: models.SourceManual},
	}
	for _, d := range deadlines {
		if err := s.InsertDeadline(ctx, "alice", d); err != nil {
			t.Fatalf("InsertDeadline(%s) error: %v", d.Title, err)
		}
	}

	got, err := s.QueryDeadlines(ctx, "alice", store.DeadlineFilter{Title: "Lab 2", Date: "2025-10-05"})
	if err != nil {
		t.Fatalf("QueryDeadlines() error: %v", err)
	}
	if len(got) != 1 || got[0].Date != "2025-10-05" {
		t.Fatalf("QueryDeadlines() = %+v, want one Lab 2 deadline on 2025-10-05", got)
	}

	got, err = s.QueryDeadlines(ctx, "bob", store.DeadlineFilter{Title: "Lab 2", Date: "2025-10-05"})
	if err != nil {
		t.Fatalf("QueryDeadlines() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no deadlines for bob, got %d", len(got))
	}

	all, err := s.QueryAllDeadlines(ctx, "alice")
	if err != nil {
		t.Fatalf("QueryAllDeadlines() error: %v", err)
	}
	if len(all) != len(deadlines) {
		t.Fatalf("Expected %d deadlines, got %d", len(deadlines), len(all))
	}
	for i, d := range all {
		if d.Title != deadlines[i].Title || d.Date != deadlines[i].Date || d.Source != deadlines[i].Source {
			t.Errorf("Deadline %d = %+v, want %+v", i, d, deadlines[i])
		}
	}
}

func testInsertDeadlineIfAbsent(t *testing.T, s store.Store) {
	ctx := context.Background()
	d := models.Deadline{Title: "Lab 2", Date: "2025-10-05", Category: "Academics", Source: models.SourceAuto}

	inserted, err := s.InsertDeadlineIfAbsent(ctx, "alice", d)
	if err != nil || !inserted {
		t.Fatalf("First InsertDeadlineIfAbsent() = (%v, %v), want (true, nil)", inserted, err)
	}

	inserted, err = s.InsertDeadlineIfAbsent(ctx, "alice", d)
	if err != nil || inserted {
		t.Fatalf("Second InsertDeadlineIfAbsent() = (%v, %v), want (false, nil)", inserted, err)
	}

	inserted, err = s.InsertDeadlineIfAbsent(ctx, "bob", d)
	if err != nil || !inserted {
		t.Fatalf("InsertDeadlineIfAbsent() for bob = (%v, %v), want (true, nil)", inserted, err)
	}

	all, err := s.QueryAllDeadlines(ctx, "alice")
	if err != nil {
		t.Fatalf("QueryAllDeadlines() error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 deadline for alice, got %d", len(all))
	}
}

func testManualDeadlineBlocksInsertIfAbsent(t *testing.T, s store.Store) {
	ctx := context.Background()
	manual := models.Deadline{Title: "Fees", Date: "2025-09-30", Category: "Finance", Source: models.SourceManual}
	if err := s.InsertDeadline(ctx, "alice", manual); err != nil {
		t.Fatalf("InsertDeadline() error: %v", err)
	}

	auto := manual
	auto.Source = models.SourceAuto
	inserted, err := s.InsertDeadlineIfAbsent(ctx, "alice", auto)
	if err != nil {
		t.Fatalf("InsertDeadlineIfAbsent() error: %v", err)
	}
	if inserted {
		t.Error("Expected an existing manual deadline with the same title and date to block the insert")
	}

	all, err := s.QueryAllDeadlines(ctx, "alice")
	if err != nil {
		t.Fatalf("QueryAllDeadlines() error: %v", err)
	}
	if len(all) != 1 || all[0].Source != models.SourceManual {
		t.Errorf("Expected only the manual deadline, got %+v", all)
	}
}

func testConcurrentInsertDeadlineIfAbsent(t *testing.T, s store.Store) {
	ctx := context.Background()
	d := models.Deadline{Title: "Hackathon", Date: "2025-11-20", Category: "Events", Source: models.SourceAuto}

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	insertedCount := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := s.InsertDeadlineIfAbsent(ctx, "alice", d)
			if err != nil {
				t.Errorf("InsertDeadlineIfAbsent() error: %v", err)
				return
			}
			if inserted {
				mu.Lock()
				insertedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if insertedCount != 1 {
		t.Errorf("Expected exactly 1 concurrent insert to win, got %d", insertedCount)
	}

	all, err := s.QueryAllDeadlines(ctx, "alice")
	if err != nil {
		t.Fatalf("QueryAllDeadlines() error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 stored deadline, got %d", len(all))
	}
}
