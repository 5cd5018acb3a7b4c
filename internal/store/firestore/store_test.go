package firestore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"mail-triage/internal/store"
	"mail-triage/internal/store/storetest"
)

func TestDocID(t *testing.T) {
	a := docID("Lab 2", "2025-10-05")
	b := docID("Lab 2", "2025-10-05")
	c := docID("Lab 22", "025-10-05")

	if a != b {
		t.Errorf("docID() not deterministic: %s vs %s", a, b)
	}
	if a == c {
		t.Error("docID() must separate parts so shifted boundaries do not collide")
	}
	if len(a) != 64 {
		t.Errorf("docID() length = %d, want 64", len(a))
	}
}

// TestStore runs against the Firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		// A fresh project per subtest isolates data inside the shared emulator.
		s, err := NewStore(context.Background(), "mailtriage-test-"+uuid.NewString()[:8])
		if err != nil {
			t.Fatalf("NewStore() error: %v", err)
		}
		t.Cleanup(func() {
			_ = s.Close()
		})
		return s
	})
}

func TestNewStore_RequiresProject(t *testing.T) {
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Error("Expected an error when projectID is empty")
	}
}
