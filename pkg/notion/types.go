package notion

// RichText is one fragment of formatted text as represented by the Notion API.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// TextContent is the writable part of a rich text fragment.
type TextContent struct {
	Content string `json:"content"`
}

// Text builds a single-fragment rich text value for page creation.
func Text(content string) []RichText {
	return []RichText{{Text: &TextContent{Content: content}}}
}

// PlainText concatenates the plain-text content of all fragments.
func PlainText(fragments []RichText) string {
	var out string
	for _, f := range fragments {
		out += f.PlainText
	}
	return out
}

// Icon is a page or database icon. Only emoji icons are used here.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// EmojiIcon returns an emoji icon, or nil for an empty emoji.
func EmojiIcon(emoji string) *Icon {
	if emoji == "" {
		return nil
	}
	return &Icon{Type: "emoji", Emoji: emoji}
}

// Parent locates a new page under its database.
type Parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id"`
}

// SelectValue is the value of a select property.
type SelectValue struct {
	Name string `json:"name"`
}

// DateValue is the value of a date property. End and TimeZone are optional.
type DateValue struct {
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	TimeZone string `json:"time_zone,omitempty"`
}

// Writable property values for page creation. Each type serializes exactly one
// property kind; SelectProperty deliberately emits "select": null when the
// value is absent, which Notion treats as "no value".
type (
	TitleProperty struct {
		Title []RichText `json:"title"`
	}

	SelectProperty struct {
		Select *SelectValue `json:"select"`
	}

	URLProperty struct {
		URL string `json:"url"`
	}

	DateProperty struct {
		Date *DateValue `json:"date"`
	}
)

// Property is a readable page property as returned by query-database.
type Property struct {
	ID     string       `json:"id,omitempty"`
	Type   string       `json:"type"`
	Title  []RichText   `json:"title,omitempty"`
	Select *SelectValue `json:"select,omitempty"`
	URL    string       `json:"url,omitempty"`
	Date   *DateValue   `json:"date,omitempty"`
}

// Result is a page-or-database union as returned by query-database and search.
// Object discriminates: pages carry Properties, databases carry Title.
type Result struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	Icon       *Icon               `json:"icon,omitempty"`
	Title      []RichText          `json:"title,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// ListResponse is the cursor-paginated response shape shared by query-database
// and search. After aggregation Results holds every page's results in server
// order; HasMore and NextCursor are then unspecified for callers.
type ListResponse struct {
	Object     string   `json:"object"`
	Results    []Result `json:"results"`
	HasMore    bool     `json:"has_more"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// Paginated reports whether the response carries the paginated list shape.
func (r *ListResponse) Paginated() bool {
	return r != nil && r.Object == "list"
}

// User is the response of retrieve-self.
type User struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Database is the response of retrieve-database.
type Database struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	Title      []RichText          `json:"title,omitempty"`
	Icon       *Icon               `json:"icon,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// SelectFilter matches a select property by value or emptiness.
type SelectFilter struct {
	Equals  string `json:"equals,omitempty"`
	IsEmpty bool   `json:"is_empty,omitempty"`
}

// Filter is a single-property query-database filter.
type Filter struct {
	Property string        `json:"property"`
	Select   *SelectFilter `json:"select,omitempty"`
}

// QueryDatabaseRequest is the body of a query-database call.
type QueryDatabaseRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// SearchSort orders search results.
type SearchSort struct {
	Direction string `json:"direction,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SearchFilter restricts search results to pages or databases.
type SearchFilter struct {
	Value    string `json:"value,omitempty"`
	Property string `json:"property,omitempty"`
}

// SearchRequest is the body of a search call.
type SearchRequest struct {
	Query       string        `json:"query,omitempty"`
	Sort        *SearchSort   `json:"sort,omitempty"`
	Filter      *SearchFilter `json:"filter,omitempty"`
	StartCursor string        `json:"start_cursor,omitempty"`
	PageSize    int           `json:"page_size,omitempty"`
}

// CreatePageRequest is the body of a create-page call. Properties maps
// configured property names to writable property values.
type CreatePageRequest struct {
	Parent     Parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
	Icon       *Icon          `json:"icon,omitempty"`
}

// Page is the response of create-page.
type Page struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	URL        string              `json:"url,omitempty"`
	Icon       *Icon               `json:"icon,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}
