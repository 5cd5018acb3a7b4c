package models

import "testing"

func TestMessage_ContentKey(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Message
		wantSame bool
	}{
		{
			name:     "Same content, different ids",
			a:        Message{ID: "1", OwnerID: "alice", Subject: "Lab 2", Body: "Submit by 5 oct"},
			b:        Message{ID: "2", OwnerID: "bob", Subject: "Lab 2", Body: "Submit by 5 oct"},
			wantSame: true,
		},
		{
			name: "Different body",
			a:    Message{Subject: "Lab 2", Body: "Submit by 5 oct"},
			b:    Message{Subject: "Lab 2", Body: "Submit by 6 oct"},
		},
		{
			name: "Newline moved across the boundary",
			a:    Message{Subject: "a\nb", Body: "c"},
			b:    Message{Subject: "a", Body: "b\nc"},
		},
		{
			name: "Text moved across the boundary",
			a:    Message{Subject: "ab", Body: "c"},
			b:    Message{Subject: "a", Body: "bc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			same := tt.a.ContentKey() == tt.b.ContentKey()
			if same != tt.wantSame {
				t.Errorf("ContentKey() equal = %v, want %v", same, tt.wantSame)
			}
			if len(tt.a.ContentKey()) != 64 {
				t.Errorf("ContentKey() length = %d, want 64", len(tt.a.ContentKey()))
			}
		})
	}
}
