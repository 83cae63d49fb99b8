package listcache

import (
	"strings"

	"flight_logbook/internal/models"

	"golang.org/x/text/cases"
)

// Key identifies one accumulated list: a resource plus the query that
// filters it. Search is the folded form used for identity; Text keeps the
// search as typed (trimmed, runs of whitespace collapsed) for the backend.
type Key struct {
	Resource models.Resource
	Search   string
	Standard models.Standard
	Text     string
}

// NewKey builds a key with the search text normalized, so that queries
// differing only in case or whitespace share one list
func NewKey(resource models.Resource, search string, standard models.Standard) Key {
	search = strings.Join(strings.Fields(search), " ")
	return Key{
		Resource: resource,
		Search:   cases.Fold().String(search),
		Standard: standard,
		Text:     search,
	}
}

// Same reports whether k and other name the same list
func (k Key) Same(other Key) bool {
	return k.id() == other.id()
}

// id drops the display text, leaving the fields lists are keyed by
func (k Key) id() Key {
	k.Text = ""
	return k
}

// Query returns the search text to send to the backend
func (k Key) Query() string {
	if k.Text != "" {
		return k.Text
	}
	return k.Search
}

func (k Key) String() string {
	return string(k.Resource) + "?search=" + k.Search + "&standard=" + string(k.Standard)
}
