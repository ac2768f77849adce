package reconcile

import (
	"testing"
	"time"
)

func TestDueAfter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  string
		want bool
	}{
		{"future due date", "2026-02-01T10:00:00Z", true},
		{"past due date", "2025-12-01T10:00:00Z", false},
		{"exactly now", "2026-01-01T00:00:00Z", false},
		{"malformed date", "next tuesday", false},
		{"empty date", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assignment{Due: tt.due}
			if got := a.DueAfter(now); got != tt.want {
				t.Errorf("DueAfter(%q) = %t, want %t", tt.due, got, tt.want)
			}
		})
	}
}

func TestDecodeSaved(t *testing.T) {
	raw := `{
		"COMP101": [
			{"name": "Essay", "course": "COMP101", "url": "https://canvas/a", "due": "2026-02-01T10:00:00Z"}
		],
		"MATH102": [
			{"name": "Problem Set", "course": "MATH102", "url": "https://canvas/b", "due": "2026-03-01T10:00:00Z"},
			{"name": "Quiz", "course": "MATH102", "url": "https://canvas/c", "due": "2026-03-08T10:00:00Z"}
		]
	}`

	saved, err := DecodeSaved(raw)
	if err != nil {
		t.Fatalf("DecodeSaved failed: %v", err)
	}

	if len(saved) != 2 {
		t.Errorf("Expected 2 courses, got %d", len(saved))
	}
	if len(saved.Flatten()) != 3 {
		t.Errorf("Expected 3 assignments flattened, got %d", len(saved.Flatten()))
	}
}

func TestDecodeSavedEmpty(t *testing.T) {
	saved, err := DecodeSaved("")
	if err != nil {
		t.Fatalf("DecodeSaved failed for empty input: %v", err)
	}
	if len(saved.Flatten()) != 0 {
		t.Error("Expected no assignments for empty input")
	}
}

func TestDecodeSavedMalformed(t *testing.T) {
	if _, err := DecodeSaved("{not json"); err == nil {
		t.Error("Expected error for malformed document")
	}
}
