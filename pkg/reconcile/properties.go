package reconcile

import (
	"github.com/canvas2notion/notion-sync/pkg/notion"
)

// PropertyNames maps each assignment field to the Notion property it is
// written to. An empty name omits the property from page payloads entirely,
// making every field optional.
type PropertyNames struct {
	Name      string
	Category  string
	Course    string
	URL       string
	Status    string
	Available string
	Due       string
	Span      string
}

// PropertyValues holds the configured select values written on creation.
type PropertyValues struct {
	CategoryCanvas string
	StatusToDo     string
}

// Properties is the full property mapping plus the time zone applied to date
// properties.
type Properties struct {
	TimeZone string
	Names    PropertyNames
	Values   PropertyValues
}

// selectOrNil maps an empty configured value to a null select.
func selectOrNil(value string) *notion.SelectValue {
	if value == "" {
		return nil
	}
	return &notion.SelectValue{Name: value}
}

// PageParams builds the create-page payload for one assignment. Properties
// whose configured name is empty are omitted rather than sent with an empty
// key.
func (p Properties) PageParams(a Assignment, databaseID string) *notion.CreatePageRequest {
	props := make(map[string]any)
	add := func(name string, value any) {
		if name != "" {
			props[name] = value
		}
	}

	add(p.Names.Name, notion.TitleProperty{Title: notion.Text(a.Name)})
	add(p.Names.Category, notion.SelectProperty{Select: selectOrNil(p.Values.CategoryCanvas)})
	add(p.Names.Course, notion.SelectProperty{Select: &notion.SelectValue{Name: a.Course}})
	add(p.Names.URL, notion.URLProperty{URL: a.URL})
	add(p.Names.Status, notion.SelectProperty{Select: selectOrNil(p.Values.StatusToDo)})
	add(p.Names.Available, notion.DateProperty{Date: &notion.DateValue{Start: a.Available, TimeZone: p.TimeZone}})
	add(p.Names.Due, notion.DateProperty{Date: &notion.DateValue{Start: a.Due, TimeZone: p.TimeZone}})
	add(p.Names.Span, notion.DateProperty{Date: &notion.DateValue{Start: a.Available, End: a.Due, TimeZone: p.TimeZone}})

	return &notion.CreatePageRequest{
		Parent:     notion.Parent{Type: "database_id", DatabaseID: databaseID},
		Properties: props,
		Icon:       notion.EmojiIcon(a.Icon),
	}
}

// CanvasFilter builds the query filter selecting previously imported pages:
// category equals the configured value, or category is empty when no value is
// configured. No category property name means no filter at all.
func (p Properties) CanvasFilter() *notion.Filter {
	if p.Names.Category == "" {
		return nil
	}
	if p.Values.CategoryCanvas == "" {
		return &notion.Filter{
			Property: p.Names.Category,
			Select:   &notion.SelectFilter{IsEmpty: true},
		}
	}
	return &notion.Filter{
		Property: p.Names.Category,
		Select:   &notion.SelectFilter{Equals: p.Values.CategoryCanvas},
	}
}

// RemotePage is the minimal projection of a fetched database page used for
// URL-based deduplication.
type RemotePage struct {
	Name   string
	Course string
	URL    string
}

// RemotePages projects query results onto RemotePage using the configured
// property names.
func (p Properties) RemotePages(results []notion.Result) []RemotePage {
	pages := make([]RemotePage, 0, len(results))
	for i := range results {
		result := &results[i]

		var page RemotePage
		if title, ok := notion.ResolveTitle(result, false); ok {
			page.Name = title
		}
		if p.Names.Course != "" {
			if prop, ok := result.Properties[p.Names.Course]; ok && prop.Select != nil {
				page.Course = prop.Select.Name
			}
		}
		if p.Names.URL != "" {
			if prop, ok := result.Properties[p.Names.URL]; ok {
				page.URL = prop.URL
			}
		}
		pages = append(pages, page)
	}
	return pages
}
