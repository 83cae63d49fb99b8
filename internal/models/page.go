package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Bounds is the pagination metadata a collection endpoint may report
type Bounds struct {
	CurrentPage *int `json:"current_page"`
	LastPage    *int `json:"last_page"`
	Total       *int `json:"total"`
}

// Complete reports whether both current_page and last_page are present
func (b *Bounds) Complete() bool {
	return b != nil && b.CurrentPage != nil && b.LastPage != nil
}

func (b *Bounds) empty() bool {
	return b.CurrentPage == nil && b.LastPage == nil && b.Total == nil
}

// PageMeta keeps metadata from both places the backend may put it.
// Either, both or neither may be set.
type PageMeta struct {
	Top    *Bounds // current_page/last_page beside the items
	Nested *Bounds // Same fields one level down, under "meta" or a "data" object
}

// Page is one fetch result from a paginated collection endpoint
type Page[T any] struct {
	Items []T
	Meta  PageMeta
}

type pageEnvelope struct {
	Data json.RawMessage `json:"data"`
	Meta *Bounds         `json:"meta"`
	Bounds
}

type nestedEnvelope[T any] struct {
	Data []T `json:"data"`
	Bounds
}

// DecodePage decodes a collection response body in any of the shapes the
// backend produces:
//
//	{"data": [...], "current_page": 1, "last_page": 3, "total": 120}
//	{"data": {"current_page": 1, "last_page": 3, "data": [...]}}
//	{"data": [...], "meta": {"current_page": 1, "last_page": 3}}
//	[...]
//
// A literal null body decodes to a nil page with no error.
func DecodePage[T any](body []byte) (*Page[T], error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	switch body[0] {
	case 'n':
		if string(body) == "null" {
			return nil, nil
		}
	case '[':
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to decode page items: %w", err)
		}
		return &Page[T]{Items: items}, nil
	case '{':
		return decodeEnvelope[T](body)
	}

	return nil, fmt.Errorf("unexpected page body starting with %q", body[0])
}

func decodeEnvelope[T any](body []byte) (*Page[T], error) {
	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode page envelope: %w", err)
	}

	page := &Page[T]{}
	if !env.Bounds.empty() {
		top := env.Bounds
		page.Meta.Top = &top
	}
	if env.Meta != nil && !env.Meta.empty() {
		page.Meta.Nested = env.Meta
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || string(data) == "null" {
		return page, nil
	}

	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &page.Items); err != nil {
			return nil, fmt.Errorf("failed to decode page items: %w", err)
		}
	case '{':
		var nested nestedEnvelope[T]
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("failed to decode nested page: %w", err)
		}
		page.Items = nested.Data
		if !nested.Bounds.empty() {
			b := nested.Bounds
			page.Meta.Nested = &b
		}
	default:
		return nil, fmt.Errorf("unexpected data field starting with %q", data[0])
	}

	return page, nil
}
