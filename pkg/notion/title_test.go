package notion

import (
	"testing"
)

func TestResolveTitle(t *testing.T) {
	page := &Result{
		Object: "page",
		ID:     "page-1",
		Icon:   &Icon{Type: "emoji", Emoji: "📘"},
		Properties: map[string]Property{
			"Name": {
				Type:  "title",
				Title: []RichText{{Type: "text", PlainText: "Foo"}},
			},
			"Course": {
				Type:   "select",
				Select: &SelectValue{Name: "COMP101"},
			},
		},
	}

	tests := []struct {
		name        string
		object      *Result
		includeIcon bool
		wantTitle   string
		wantOK      bool
	}{
		{
			name:        "page with emoji icon, icon included",
			object:      page,
			includeIcon: true,
			wantTitle:   "📘 Foo",
			wantOK:      true,
		},
		{
			name:        "page with emoji icon, icon excluded",
			object:      page,
			includeIcon: false,
			wantTitle:   "Foo",
			wantOK:      true,
		},
		{
			name: "page without icon",
			object: &Result{
				Object: "page",
				Properties: map[string]Property{
					"Name": {Type: "title", Title: []RichText{{PlainText: "Bar"}}},
				},
			},
			includeIcon: true,
			wantTitle:   "Bar",
			wantOK:      true,
		},
		{
			name: "page with multi-fragment title",
			object: &Result{
				Object: "page",
				Properties: map[string]Property{
					"Name": {Type: "title", Title: []RichText{
						{PlainText: "Assignment "},
						{PlainText: "One"},
					}},
				},
			},
			wantTitle: "Assignment One",
			wantOK:    true,
		},
		{
			name: "database reads its own title",
			object: &Result{
				Object: "database",
				Title:  []RichText{{PlainText: "Coursework"}},
			},
			wantTitle: "Coursework",
			wantOK:    true,
		},
		{
			name: "database with emoji icon, icon included",
			object: &Result{
				Object: "database",
				Icon:   &Icon{Type: "emoji", Emoji: "📘"},
				Title:  []RichText{{PlainText: "Coursework"}},
			},
			includeIcon: true,
			wantTitle:   "📘 Coursework",
			wantOK:      true,
		},
		{
			name: "page without title property",
			object: &Result{
				Object: "page",
				Properties: map[string]Property{
					"Course": {Type: "select", Select: &SelectValue{Name: "COMP101"}},
				},
			},
			wantOK: false,
		},
		{
			name: "page with empty title text",
			object: &Result{
				Object: "page",
				Properties: map[string]Property{
					"Name": {Type: "title", Title: []RichText{}},
				},
			},
			includeIcon: true,
			wantOK:      false,
		},
		{
			name:   "nil object",
			object: nil,
			wantOK: false,
		},
		{
			name: "non-emoji icon is ignored",
			object: &Result{
				Object: "page",
				Icon:   &Icon{Type: "external"},
				Properties: map[string]Property{
					"Name": {Type: "title", Title: []RichText{{PlainText: "Baz"}}},
				},
			},
			includeIcon: true,
			wantTitle:   "Baz",
			wantOK:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, ok := ResolveTitle(tt.object, tt.includeIcon)
			if ok != tt.wantOK {
				t.Errorf("Expected ok=%t, got %t", tt.wantOK, ok)
			}
			if title != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, title)
			}
		})
	}
}
