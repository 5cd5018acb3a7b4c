package dateextract_test

import (
	"fmt"
	"testing"
	"time"

	"mail-triage/internal/dateextract"
)

func TestExtractAt(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "Single digit day", text: "submit by 5 oct", want: "2025-10-05", wantOK: true},
		{name: "Two digit day", text: "exam on 23 nov", want: "2025-11-23", wantOK: true},
		{name: "First match only", text: "due 23 dec and also 1 sep", want: "2025-12-23", wantOK: true},
		{name: "No whitespace", text: "register before 12dec", want: "2025-12-12", wantOK: true},
		{name: "Several spaces", text: "fees due 7   sep", want: "2025-09-07", wantOK: true},
		{name: "Sept token", text: "viva on 30 sept", want: "2025-09-30", wantOK: true},
		{name: "Upper case source", text: "Due 9 OCT", want: "2025-10-09", wantOK: true},
		{name: "Day not range checked", text: "closes 40 oct", want: "2025-10-40", wantOK: true},
		{name: "Three digit run keeps last two", text: "room 123 oct", want: "2025-10-23", wantOK: true},
		{name: "Month prefix of a word", text: "10 octopus tanks", want: "2025-10-10", wantOK: true},
		{name: "No date", text: "meeting tomorrow", wantOK: false},
		{name: "Month outside vocabulary", text: "due 5 jan", wantOK: false},
		{name: "August is not recognised", text: "due 15 aug", wantOK: false},
		{name: "Month without day", text: "sometime in dec", wantOK: false},
		{name: "Empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := dateextract.ExtractAt(tt.text, now)
			if ok != tt.wantOK {
				t.Fatalf("ExtractAt(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractAt(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_UsesCurrentYear(t *testing.T) {
	got, ok := dateextract.Extract("submit by 5 oct")
	if !ok {
		t.Fatal("Expected a date to be extracted")
	}

	want := fmt.Sprintf("%d-10-05", time.Now().Year())
	if got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestExtract_Pure(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inputs := []string{"due 23 dec and also 1 sep", "meeting tomorrow", "5 nov", ""}

	for _, in := range inputs {
		first, firstOK := dateextract.ExtractAt(in, now)
		second, secondOK := dateextract.ExtractAt(in, now)
		if first != second || firstOK != secondOK {
			t.Errorf("ExtractAt(%q) not stable: (%q,%v) then (%q,%v)", in, first, firstOK, second, secondOK)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := dateextract.Normalize("Lab Report", "Due 5 OCT")
	if got != "lab report due 5 oct" {
		t.Errorf("Normalize() = %q", got)
	}
}
