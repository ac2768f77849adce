package notion

import (
	"github.com/rs/zerolog/log"
)

// ResolveTitle extracts the plain-text title of a search or query result.
// Database objects read the title from their Title field; page objects read it
// from whichever property has type "title". When includeIcon is set and the
// object carries an emoji icon, the emoji and a space are prefixed.
//
// Returns ok=false when no title text exists. Malformed shapes must not crash
// the caller: extraction is guarded and a warning is logged instead.
func ResolveTitle(object *Result, includeIcon bool) (title string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().
				Interface("panic", r).
				Msg("Failed to resolve Notion page title")
			title, ok = "", false
		}
	}()

	if object == nil {
		return "", false
	}

	var fragments []RichText
	switch object.Object {
	case "page":
		for _, property := range object.Properties {
			if property.Type == "title" {
				fragments = property.Title
				break
			}
		}
	case "database":
		fragments = object.Title
	}

	title = PlainText(fragments)
	if title == "" {
		return "", false
	}

	if includeIcon && object.Icon != nil && object.Icon.Type == "emoji" && object.Icon.Emoji != "" {
		title = object.Icon.Emoji + " " + title
	}
	return title, true
}
