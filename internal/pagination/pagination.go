// Package pagination decides whether a paginated collection has another
// page and which page number to request next.
package pagination

import "flight_logbook/internal/models"

// Source records which signal produced a Cursor
type Source string

const (
	SourceNone     Source = "none"      // No page to reason about
	SourceTop      Source = "top"       // Top-level current_page/last_page
	SourceNested   Source = "nested"    // Nested current_page/last_page
	SourceFullPage Source = "full_page" // Page was exactly full and metadata did not extend it
	SourceShort    Source = "short"     // Page was short and metadata did not extend it
)

// Cursor is the continuation decision for one fetched page
type Cursor struct {
	HasMore bool
	Next    int // Page number to request next, 0 when HasMore is false
	Source  Source
}

// Resolve inspects the most recently fetched page. pagesLoaded is the number
// of pages accumulated for the key including this one; pageSize is the
// per_page value the page was requested with.
//
// Bounds only ever extend the collection. When they are missing or say the
// page is the last one, an exactly full page is still assumed to have a
// successor, which costs one empty request when a collection ends on a page
// boundary.
func Resolve[T any](page *models.Page[T], pagesLoaded, pageSize int) Cursor {
	if page == nil {
		return Cursor{Source: SourceNone}
	}

	if c, ok := fromBounds(page.Meta.Top, SourceTop); ok {
		return c
	}
	if c, ok := fromBounds(page.Meta.Nested, SourceNested); ok {
		return c
	}

	if pageSize > 0 && len(page.Items) == pageSize {
		return Cursor{HasMore: true, Next: pagesLoaded + 1, Source: SourceFullPage}
	}
	return Cursor{Source: SourceShort}
}

func fromBounds(b *models.Bounds, src Source) (Cursor, bool) {
	if !b.Complete() || *b.CurrentPage >= *b.LastPage {
		return Cursor{}, false
	}
	return Cursor{HasMore: true, Next: *b.CurrentPage + 1, Source: src}, true
}
