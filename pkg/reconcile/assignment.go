package reconcile

import (
	"encoding/json"
	"fmt"
	"time"
)

// Assignment is an immutable view over one cached coursework assignment.
// Dates are RFC 3339 strings as captured from the course system.
type Assignment struct {
	Name      string `json:"name"`
	Course    string `json:"course"`
	Icon      string `json:"icon,omitempty"`
	URL       string `json:"url"`
	Available string `json:"available"`
	Due       string `json:"due"`
}

// DueAfter reports whether the assignment's due date is strictly after t.
// Unparseable dates never qualify.
func (a Assignment) DueAfter(t time.Time) bool {
	due, err := time.Parse(time.RFC3339, a.Due)
	if err != nil {
		return false
	}
	return due.After(t)
}

// SavedAssignments is the cached assignment list as stored by the capture
// side, keyed by course.
type SavedAssignments map[string][]Assignment

// DecodeSaved parses the stored assignment document.
func DecodeSaved(raw string) (SavedAssignments, error) {
	if raw == "" {
		return SavedAssignments{}, nil
	}
	var saved SavedAssignments
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return nil, fmt.Errorf("decode saved assignments: %w", err)
	}
	return saved, nil
}

// Flatten returns every assignment across all courses.
func (s SavedAssignments) Flatten() []Assignment {
	var out []Assignment
	for _, assignments := range s {
		out = append(out, assignments...)
	}
	return out
}
